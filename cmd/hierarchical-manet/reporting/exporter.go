package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// csvHeader is the fixed record-store schema. Rows are append-only; the
// header is written once per target file, ever.
const csvHeader = "RunNumber,NodesPerCluster,SimTime,AreaSize,FollowerSpeed,NoiseFactor,PacketSize," +
	"FlowID,SourceAddress,DestinationAddress,TxPackets,RxPackets,TxBytes,RxBytes," +
	"PacketDeliveryRatio,AvgLatency_ms,AvgThroughput_kbps"

// RunParameters echoes the experiment parameters into every row of a run.
type RunParameters struct {
	NodesPerCluster int
	SimTime         float64
	AreaSize        float64
	FollowerSpeed   float64
	NoiseFactor     float64
	PacketSize      int
}

// Exporter appends per-flow rows to one CSV record store per packet size.
// Re-running against the same packet size accumulates rows; the header is
// created only when the target file does not yet exist, so the exporter is
// safe to invoke repeatedly across process restarts.
type Exporter struct {
	outputDir     string
	telemetryPort int
}

// NewExporter creates an exporter writing into outputDir, keeping only
// flows addressed to telemetryPort.
func NewExporter(outputDir string, telemetryPort int) *Exporter {
	return &Exporter{outputDir: outputDir, telemetryPort: telemetryPort}
}

// TargetPath returns the record-store file for a packet size.
func (e *Exporter) TargetPath(packetSize int) string {
	name := fmt.Sprintf("hierarchical_manet_stats_packetSize_%d.csv", packetSize)
	return filepath.Join(e.outputDir, name)
}

// Export appends one row per qualifying flow, in flow-discovery order.
// The existence check happens before the file is opened; the header is
// written only for a fresh file. Any I/O failure aborts this run's export
// without a partial row set being guaranteed complete, and is reported to
// the caller.
func (e *Exporter) Export(runNumber int, params RunParameters, flows []FlowObservation) error {
	target := e.TargetPath(params.PacketSize)

	_, statErr := os.Stat(target)
	existed := statErr == nil

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open stats file %s: %w", target, err)
	}
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	if !existed {
		sb.WriteString(csvHeader)
		sb.WriteByte('\n')
	}

	for _, flow := range flows {
		if flow.DestinationPort != e.telemetryPort {
			continue
		}
		sb.WriteString(formatRow(runNumber, params, flow))
		sb.WriteByte('\n')
	}

	if _, err := f.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to append to stats file %s: %w", target, err)
	}
	return nil
}

// formatRow renders one FlowRecord. Ratio and rate fields carry exactly
// two decimal places.
func formatRow(runNumber int, p RunParameters, f FlowObservation) string {
	return fmt.Sprintf("%d,%d,%g,%g,%g,%g,%d,%d,%s,%s,%d,%d,%d,%d,%.2f,%.2f,%.2f",
		runNumber,
		p.NodesPerCluster,
		p.SimTime,
		p.AreaSize,
		p.FollowerSpeed,
		p.NoiseFactor,
		p.PacketSize,
		f.FlowID,
		f.Source,
		f.Destination,
		f.TxPackets,
		f.RxPackets,
		f.TxBytes,
		f.RxBytes,
		f.PDR(),
		f.AvgLatencyMs(),
		f.AvgThroughputKbps(),
	)
}
