package model

import (
	"fmt"
	"time"
)

// TrainingFileStatus is the processing status of an uploaded training file.
type TrainingFileStatus string

const (
	TrainingFileStatusUploaded   TrainingFileStatus = "uploaded"
	TrainingFileStatusProcessing TrainingFileStatus = "processing"
	TrainingFileStatusCompleted  TrainingFileStatus = "completed"
	TrainingFileStatusError      TrainingFileStatus = "error"
)

// Validate checks the status is a known one.
func (s TrainingFileStatus) Validate() error {
	switch s {
	case TrainingFileStatusUploaded, TrainingFileStatusProcessing, TrainingFileStatusCompleted, TrainingFileStatusError:
		return nil
	}
	return fmt.Errorf("unknown training file status %q: %w", s, ErrNotValid)
}

// TrainingFile is a dataset file used to train the detection model.
type TrainingFile struct {
	ID         string
	Name       string
	SizeBytes  int64
	Format     string // PCAP, LOG, JSON, CSV...
	Status     TrainingFileStatus
	UploadedAt time.Time
}

// ModelStats summarizes the current detection model.
type ModelStats struct {
	Accuracy     float64 // Percentage.
	TotalSamples int64
	TrainingTime time.Duration
	LastUpdate   time.Time
}

// Sensitivity is the detection sensitivity a model is trained for.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Validate checks the sensitivity is a known one.
func (s Sensitivity) Validate() error {
	switch s {
	case SensitivityLow, SensitivityMedium, SensitivityHigh:
		return nil
	}
	return fmt.Errorf("unknown sensitivity %q: %w", s, ErrNotValid)
}
