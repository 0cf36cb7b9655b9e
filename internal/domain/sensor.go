package domain

import "time"

// SensorRecord is the canonical shape of one sensor row in the fleet store.
// Connectivity is derived from LastReportAt at query time; the legacy
// ConnectionFlag column is carried through the schema but never decisioned on.
type SensorRecord struct {
	SensorID       string     `json:"sensor_id"`
	Organization   string     `json:"organization"`
	SensorType     string     `json:"sensor_type"`
	BatteryLevel   int        `json:"battery_level"`
	GatewayID      string     `json:"gateway_id"`
	LastReportAt   *time.Time `json:"last_report_at"`
	ConnectionFlag bool       `json:"connection_flag"`
}

// StatusSummary is the result of partitioning an organization's fleet into
// connected and disconnected sensors at a single instant.
type StatusSummary struct {
	ConnectedCount    int      `json:"connected"`
	DisconnectedCount int      `json:"disconnected"`
	DisconnectedIDs   []string `json:"disconnected_list"`
}

// Total is the organization's fleet size at query time.
func (s StatusSummary) Total() int {
	return s.ConnectedCount + s.DisconnectedCount
}
