package model

import (
	"fmt"
	"time"
)

// LogLevel is the severity of a security log entry.
type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelDanger  LogLevel = "danger"
)

// Validate checks the level is a known one.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelInfo, LogLevelWarning, LogLevelDanger:
		return nil
	}
	return fmt.Errorf("unknown log level %q: %w", l, ErrNotValid)
}

// LogEntry is an entry of the security event log.
type LogEntry struct {
	ID       string
	LoggedAt time.Time
	Level    LogLevel
	Source   string // IP address or "System".
	Message  string
	Details  string
}

// SystemStats are the protection system health figures.
type SystemStats struct {
	ThreatsBlocked          int64
	ActiveConnections       int64
	BandwidthBytesPerSecond int64
	UptimePercent           float64
	CPUPercent              float64
	MemoryPercent           float64
}

// DashboardOverview is the summary of the protection system.
type DashboardOverview struct {
	Stats SystemStats
	// Logs newest first.
	Logs []LogEntry
	// RecentRuns are the latest operation runs, newest first.
	RecentRuns []OperationRun
}

// Alerts returns the number of logs that need attention.
func (d DashboardOverview) Alerts() int {
	n := 0
	for _, l := range d.Logs {
		if l.Level != LogLevelInfo {
			n++
		}
	}
	return n
}
