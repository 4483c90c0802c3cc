package reporting

// FlowObservation is one flow's raw counters as delivered by the traffic
// measurement collaborator at the end of a run. Times are simulated
// seconds from the run origin.
type FlowObservation struct {
	FlowID          int
	Source          string
	Destination     string
	DestinationPort int
	TxPackets       uint32
	RxPackets       uint32
	TxBytes         uint64
	RxBytes         uint64
	DelaySumMs      float64
	FirstTxTime     float64
	LastRxTime      float64
}

// PDR returns the packet delivery ratio as a percentage, 0 when nothing
// was transmitted.
func (f FlowObservation) PDR() float64 {
	if f.TxPackets == 0 {
		return 0
	}
	return float64(f.RxPackets) / float64(f.TxPackets) * 100.0
}

// AvgLatencyMs returns the mean per-packet delay in milliseconds, 0 when
// nothing was received.
func (f FlowObservation) AvgLatencyMs() float64 {
	if f.RxPackets == 0 {
		return 0
	}
	return f.DelaySumMs / float64(f.RxPackets)
}

// AvgThroughputKbps returns the received throughput in kbit/s over the
// flow's active span, 0 for an empty or inverted span.
func (f FlowObservation) AvgThroughputKbps() float64 {
	duration := f.LastRxTime - f.FirstTxTime
	if duration <= 0 {
		return 0
	}
	return float64(f.RxBytes) * 8.0 / (duration * 1000.0)
}
