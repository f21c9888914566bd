package model

import "time"

// TrafficSample is the request rate and bandwidth measured at a point in time.
type TrafficSample struct {
	At                      time.Time
	RequestsPerSecond       int64
	BandwidthBytesPerSecond int64
}

// TopIP is a source address ranked by the number of requests it sent.
type TopIP struct {
	IP                      string
	Requests                int64
	Country                 string
	RiskLevel               RiskLevel
	BandwidthBytesPerSecond int64
}

// NetworkOverview is the state of the monitored network.
type NetworkOverview struct {
	// Traffic samples, oldest first.
	Traffic []TrafficSample
	// TopIPs sorted by requests, busiest first.
	TopIPs            []TopIP
	ActiveConnections int64
}

// CurrentRequestsPerSecond is the rate of the latest sample.
func (n NetworkOverview) CurrentRequestsPerSecond() int64 {
	if len(n.Traffic) == 0 {
		return 0
	}
	return n.Traffic[len(n.Traffic)-1].RequestsPerSecond
}

// PeakRequestsPerSecond is the highest rate of all the samples.
func (n NetworkOverview) PeakRequestsPerSecond() int64 {
	var peak int64
	for _, s := range n.Traffic {
		peak = max(peak, s.RequestsPerSecond)
	}
	return peak
}

// Intensity is the current rate as a percentage of the peak one.
func (n NetworkOverview) Intensity() int {
	peak := n.PeakRequestsPerSecond()
	if peak == 0 {
		return 0
	}
	return int(n.CurrentRequestsPerSecond() * 100 / peak)
}
