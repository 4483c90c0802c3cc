package reporting

import (
	"os"
	"strings"
	"testing"
)

func sampleParams() RunParameters {
	return RunParameters{
		NodesPerCluster: 5,
		SimTime:         160,
		AreaSize:        200,
		FollowerSpeed:   1.5,
		NoiseFactor:     1.0,
		PacketSize:      1024,
	}
}

func sampleFlow(id int, port int) FlowObservation {
	return FlowObservation{
		FlowID:          id,
		Source:          "10.1.1.2",
		Destination:     "10.1.1.1",
		DestinationPort: port,
		TxPackets:       100,
		RxPackets:       90,
		TxBytes:         102400,
		RxBytes:         92160,
		DelaySumMs:      450,
		FirstTxTime:     2,
		LastRxTime:      158,
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestExportWritesHeaderOnlyForFreshFile(t *testing.T) {
	e := NewExporter(t.TempDir(), 9)
	flows := []FlowObservation{sampleFlow(1, 9)}

	if err := e.Export(1, sampleParams(), flows); err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	if err := e.Export(2, sampleParams(), flows); err != nil {
		t.Fatalf("second export failed: %v", err)
	}

	lines := readLines(t, e.TargetPath(1024))
	if len(lines) != 3 {
		t.Fatalf("got %d lines, expected header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "RunNumber,NodesPerCluster,") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "RunNumber,") {
			t.Error("header repeated inside row section")
		}
	}
}

func TestExportFiltersByTelemetryPort(t *testing.T) {
	e := NewExporter(t.TempDir(), 9)
	flows := []FlowObservation{
		sampleFlow(1, 9),
		sampleFlow(2, 80),
		sampleFlow(3, 9),
	}

	if err := e.Export(1, sampleParams(), flows); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := readLines(t, e.TargetPath(1024))
	if len(lines) != 3 {
		t.Fatalf("got %d lines, expected header + 2 telemetry rows", len(lines))
	}
	for _, line := range lines[1:] {
		if strings.Contains(line, ",2,10.1.1.2,") {
			t.Errorf("non-telemetry flow exported: %q", line)
		}
	}
}

func TestExportTargetPathEncodesPacketSize(t *testing.T) {
	e := NewExporter("out", 9)
	got := e.TargetPath(512)
	if !strings.HasSuffix(got, "hierarchical_manet_stats_packetSize_512.csv") {
		t.Errorf("unexpected target path %q", got)
	}
}

func TestExportRowFormat(t *testing.T) {
	e := NewExporter(t.TempDir(), 9)
	if err := e.Export(3, sampleParams(), []FlowObservation{sampleFlow(7, 9)}); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := readLines(t, e.TargetPath(1024))
	want := "3,5,160,200,1.5,1,1024,7,10.1.1.2,10.1.1.1,100,90,102400,92160,90.00,5.00,4.73"
	if lines[1] != want {
		t.Errorf("row mismatch:\n got %s\nwant %s", lines[1], want)
	}
}

func TestExportZeroTrafficFlow(t *testing.T) {
	e := NewExporter(t.TempDir(), 9)
	flow := FlowObservation{
		FlowID:          1,
		Source:          "10.1.2.2",
		Destination:     "10.1.2.1",
		DestinationPort: 9,
	}
	if err := e.Export(1, sampleParams(), []FlowObservation{flow}); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := readLines(t, e.TargetPath(1024))
	if !strings.HasSuffix(lines[1], ",0.00,0.00,0.00") {
		t.Errorf("zero-traffic flow should render 0.00 metrics, got %q", lines[1])
	}
}

func TestExportFailsOnUnwritableTarget(t *testing.T) {
	dir := t.TempDir()
	// Occupy the target path with a directory so the open fails.
	e := NewExporter(dir, 9)
	if err := os.Mkdir(e.TargetPath(1024), 0o755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := e.Export(1, sampleParams(), []FlowObservation{sampleFlow(1, 9)}); err == nil {
		t.Error("expected error exporting to unwritable target")
	}
}
