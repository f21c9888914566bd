package model

import (
	"fmt"
	"time"
)

// RiskLevel is the risk assigned by the agent to a detection.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

var riskLevelRank = map[RiskLevel]int{
	RiskLevelLow:      1,
	RiskLevelMedium:   2,
	RiskLevelHigh:     3,
	RiskLevelCritical: 4,
}

// Validate checks the risk level is a known one.
func (r RiskLevel) Validate() error {
	if _, ok := riskLevelRank[r]; !ok {
		return fmt.Errorf("unknown risk level %q: %w", r, ErrNotValid)
	}
	return nil
}

// AtLeast returns true if r is the same or more severe than min.
func (r RiskLevel) AtLeast(min RiskLevel) bool {
	return riskLevelRank[r] >= riskLevelRank[min]
}

// Detection is an entry of the agent detection log.
type Detection struct {
	ID           string
	DetectedAt   time.Time
	SourceIP     string
	RequestCount int
	RiskLevel    RiskLevel
	ActionTaken  string
	AttackType   string
	Location     string
}
