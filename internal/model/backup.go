package model

import (
	"fmt"
	"time"
)

// BackupType is how a backup was triggered.
type BackupType string

const (
	BackupTypeManual    BackupType = "manual"
	BackupTypeAuto      BackupType = "auto"
	BackupTypeScheduled BackupType = "scheduled"
)

// Validate checks the backup type is a known one.
func (t BackupType) Validate() error {
	switch t {
	case BackupTypeManual, BackupTypeAuto, BackupTypeScheduled:
		return nil
	}
	return fmt.Errorf("unknown backup type %q: %w", t, ErrNotValid)
}

// BackupStatus is the status of a stored backup.
type BackupStatus string

const (
	BackupStatusCompleted  BackupStatus = "completed"
	BackupStatusInProgress BackupStatus = "in-progress"
	BackupStatusFailed     BackupStatus = "failed"
)

// Validate checks the backup status is a known one.
func (s BackupStatus) Validate() error {
	switch s {
	case BackupStatusCompleted, BackupStatusInProgress, BackupStatusFailed:
		return nil
	}
	return fmt.Errorf("unknown backup status %q: %w", s, ErrNotValid)
}

// Backup is a restore point of the system state.
type Backup struct {
	ID          string
	Name        string
	CreatedAt   time.Time
	SizeBytes   int64
	Type        BackupType
	Status      BackupStatus
	Description string
}
