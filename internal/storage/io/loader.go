package io

import (
	"cmp"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage"
)

// DefaultFixturesPath is the path of the embedded fixtures inside [DefaultFixtures].
const DefaultFixturesPath = "fixtures/dice.yaml"

//go:embed fixtures/dice.yaml
var defaultFixtures embed.FS

// DefaultFixtures returns the embedded sample data of the console.
func DefaultFixtures() fs.FS { return defaultFixtures }

// FixtureYAMLRepository serves the console sample data from a YAML file.
type FixtureYAMLRepository struct {
	backups       []model.Backup
	trainingFiles []model.TrainingFile
	modelStats    model.ModelStats
	detections    []model.Detection
	traffic       []model.TrafficSample
	topIPs        []model.TopIP
	systemStats   model.SystemStats
	logs          []model.LogEntry
}

var _ storage.FixtureRepository = &FixtureYAMLRepository{}

// NewFixtureYAMLRepository loads and validates the fixtures file at path.
func NewFixtureYAMLRepository(ctx context.Context, filesystem fs.FS, path string) (*FixtureYAMLRepository, error) {
	data, err := fs.ReadFile(filesystem, path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w: %w", err, model.ErrNotValid)
	}

	return f.toRepository(), nil
}

// ListBackups returns the backups newest first as they are in the file.
func (r *FixtureYAMLRepository) ListBackups(ctx context.Context) ([]model.Backup, error) {
	return append([]model.Backup{}, r.backups...), nil
}

// GetBackup returns a backup by ID.
func (r *FixtureYAMLRepository) GetBackup(ctx context.Context, id string) (*model.Backup, error) {
	for _, b := range r.backups {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, fmt.Errorf("backup %s: %w", id, model.ErrNotFound)
}

// ListTrainingFiles returns the uploaded training files.
func (r *FixtureYAMLRepository) ListTrainingFiles(ctx context.Context) ([]model.TrainingFile, error) {
	return append([]model.TrainingFile{}, r.trainingFiles...), nil
}

// GetModelStats returns the detection model stats.
func (r *FixtureYAMLRepository) GetModelStats(ctx context.Context) (*model.ModelStats, error) {
	stats := r.modelStats
	return &stats, nil
}

// ListDetections returns the agent detection log.
func (r *FixtureYAMLRepository) ListDetections(ctx context.Context) ([]model.Detection, error) {
	return append([]model.Detection{}, r.detections...), nil
}

// ListTraffic returns the traffic samples oldest first.
func (r *FixtureYAMLRepository) ListTraffic(ctx context.Context) ([]model.TrafficSample, error) {
	return append([]model.TrafficSample{}, r.traffic...), nil
}

// ListTopIPs returns the source addresses busiest first.
func (r *FixtureYAMLRepository) ListTopIPs(ctx context.Context) ([]model.TopIP, error) {
	return append([]model.TopIP{}, r.topIPs...), nil
}

// GetSystemStats returns the protection system health figures.
func (r *FixtureYAMLRepository) GetSystemStats(ctx context.Context) (*model.SystemStats, error) {
	stats := r.systemStats
	return &stats, nil
}

// ListLogs returns the security log newest first.
func (r *FixtureYAMLRepository) ListLogs(ctx context.Context) ([]model.LogEntry, error) {
	return append([]model.LogEntry{}, r.logs...), nil
}

// Fixtures represents the YAML structure of the fixtures file.
type Fixtures struct {
	Backups       []Backup        `yaml:"backups" validate:"unique=ID,dive"`
	TrainingFiles []TrainingFile  `yaml:"training_files" validate:"unique=ID,dive"`
	ModelStats    ModelStats      `yaml:"model_stats"`
	Detections    []Detection     `yaml:"detections" validate:"dive"`
	SystemStats   SystemStats     `yaml:"system_stats"`
	Logs          []LogEntry      `yaml:"logs" validate:"unique=ID,dive"`
	Traffic       []TrafficSample `yaml:"traffic" validate:"dive"`
	TopIPs        []TopIP         `yaml:"top_ips" validate:"unique=IP,dive"`
}

// Backup represents the YAML structure of a backup.
type Backup struct {
	ID          string    `yaml:"id" validate:"required"`
	Name        string    `yaml:"name" validate:"required"`
	CreatedAt   time.Time `yaml:"created_at"`
	SizeBytes   int64     `yaml:"size_bytes" validate:"gte=0"`
	Type        string    `yaml:"type" validate:"backuptype"`
	Status      string    `yaml:"status" validate:"backupstatus"`
	Description string    `yaml:"description"`
}

// TrainingFile represents the YAML structure of a training file.
type TrainingFile struct {
	ID         string    `yaml:"id" validate:"required"`
	Name       string    `yaml:"name" validate:"required"`
	SizeBytes  int64     `yaml:"size_bytes" validate:"gte=0"`
	Format     string    `yaml:"format"`
	Status     string    `yaml:"status" validate:"trainingfilestatus"`
	UploadedAt time.Time `yaml:"uploaded_at"`
}

// ModelStats represents the YAML structure of the model stats.
type ModelStats struct {
	Accuracy     float64       `yaml:"accuracy" validate:"gte=0,lte=100"`
	TotalSamples int64         `yaml:"total_samples" validate:"gte=0"`
	TrainingTime time.Duration `yaml:"training_time" validate:"gte=0"`
	LastUpdate   time.Time     `yaml:"last_update"`
}

// Detection represents the YAML structure of a detection log entry.
type Detection struct {
	ID           string    `yaml:"id" validate:"required"`
	DetectedAt   time.Time `yaml:"detected_at"`
	SourceIP     string    `yaml:"source_ip" validate:"ip"`
	RequestCount int       `yaml:"request_count" validate:"gte=0"`
	RiskLevel    string    `yaml:"risk_level" validate:"risklevel"`
	ActionTaken  string    `yaml:"action_taken"`
	AttackType   string    `yaml:"attack_type"`
	Location     string    `yaml:"location"`
}

// SystemStats represents the YAML structure of the system stats.
type SystemStats struct {
	ThreatsBlocked          int64   `yaml:"threats_blocked" validate:"gte=0"`
	ActiveConnections       int64   `yaml:"active_connections" validate:"gte=0"`
	BandwidthBytesPerSecond int64   `yaml:"bandwidth_bytes_per_sec" validate:"gte=0"`
	UptimePercent           float64 `yaml:"uptime_percent" validate:"gte=0,lte=100"`
	CPUPercent              float64 `yaml:"cpu_percent" validate:"gte=0,lte=100"`
	MemoryPercent           float64 `yaml:"memory_percent" validate:"gte=0,lte=100"`
}

// LogEntry represents the YAML structure of a security log entry.
type LogEntry struct {
	ID       string    `yaml:"id" validate:"required"`
	LoggedAt time.Time `yaml:"logged_at"`
	Level    string    `yaml:"level" validate:"loglevel"`
	Source   string    `yaml:"source" validate:"required"`
	Message  string    `yaml:"message" validate:"required"`
	Details  string    `yaml:"details"`
}

// TrafficSample represents the YAML structure of a traffic sample.
type TrafficSample struct {
	At                      time.Time `yaml:"at"`
	RequestsPerSecond       int64     `yaml:"requests_per_sec" validate:"gte=0"`
	BandwidthBytesPerSecond int64     `yaml:"bandwidth_bytes_per_sec" validate:"gte=0"`
}

// TopIP represents the YAML structure of a top source address.
type TopIP struct {
	IP                      string `yaml:"ip" validate:"ip"`
	Requests                int64  `yaml:"requests" validate:"gte=0"`
	Country                 string `yaml:"country"`
	RiskLevel               string `yaml:"risk_level" validate:"risklevel"`
	BandwidthBytesPerSecond int64  `yaml:"bandwidth_bytes_per_sec" validate:"gte=0"`
}

var fixturesValidator = newFixturesValidator()

func newFixturesValidator() *validator.Validate {
	v := validator.New()

	enums := map[string]func(string) error{
		"backuptype":         func(s string) error { return model.BackupType(s).Validate() },
		"backupstatus":       func(s string) error { return model.BackupStatus(s).Validate() },
		"trainingfilestatus": func(s string) error { return model.TrainingFileStatus(s).Validate() },
		"risklevel":          func(s string) error { return model.RiskLevel(s).Validate() },
		"loglevel":           func(s string) error { return model.LogLevel(s).Validate() },
	}
	for tag, validate := range enums {
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return validate(fl.Field().String()) == nil
		})
		if err != nil {
			panic(fmt.Sprintf("could not register %q validation: %s", tag, err))
		}
	}

	return v
}

func (f Fixtures) validate() error {
	return fixturesValidator.Struct(f)
}

func (f Fixtures) toRepository() *FixtureYAMLRepository {
	r := &FixtureYAMLRepository{
		backups:       make([]model.Backup, 0, len(f.Backups)),
		trainingFiles: make([]model.TrainingFile, 0, len(f.TrainingFiles)),
		detections:    make([]model.Detection, 0, len(f.Detections)),
		traffic:       make([]model.TrafficSample, 0, len(f.Traffic)),
		topIPs:        make([]model.TopIP, 0, len(f.TopIPs)),
		logs:          make([]model.LogEntry, 0, len(f.Logs)),
		systemStats: model.SystemStats{
			ThreatsBlocked:          f.SystemStats.ThreatsBlocked,
			ActiveConnections:       f.SystemStats.ActiveConnections,
			BandwidthBytesPerSecond: f.SystemStats.BandwidthBytesPerSecond,
			UptimePercent:           f.SystemStats.UptimePercent,
			CPUPercent:              f.SystemStats.CPUPercent,
			MemoryPercent:           f.SystemStats.MemoryPercent,
		},
		modelStats: model.ModelStats{
			Accuracy:     f.ModelStats.Accuracy,
			TotalSamples: f.ModelStats.TotalSamples,
			TrainingTime: f.ModelStats.TrainingTime,
			LastUpdate:   f.ModelStats.LastUpdate.UTC(),
		},
	}

	for _, b := range f.Backups {
		r.backups = append(r.backups, model.Backup{
			ID:          b.ID,
			Name:        b.Name,
			CreatedAt:   b.CreatedAt.UTC(),
			SizeBytes:   b.SizeBytes,
			Type:        model.BackupType(b.Type),
			Status:      model.BackupStatus(b.Status),
			Description: b.Description,
		})
	}

	for _, tf := range f.TrainingFiles {
		r.trainingFiles = append(r.trainingFiles, model.TrainingFile{
			ID:         tf.ID,
			Name:       tf.Name,
			SizeBytes:  tf.SizeBytes,
			Format:     tf.Format,
			Status:     model.TrainingFileStatus(tf.Status),
			UploadedAt: tf.UploadedAt.UTC(),
		})
	}

	for _, d := range f.Detections {
		r.detections = append(r.detections, model.Detection{
			ID:           d.ID,
			DetectedAt:   d.DetectedAt.UTC(),
			SourceIP:     d.SourceIP,
			RequestCount: d.RequestCount,
			RiskLevel:    model.RiskLevel(d.RiskLevel),
			ActionTaken:  d.ActionTaken,
			AttackType:   d.AttackType,
			Location:     d.Location,
		})
	}

	for _, ts := range f.Traffic {
		r.traffic = append(r.traffic, model.TrafficSample{
			At:                      ts.At.UTC(),
			RequestsPerSecond:       ts.RequestsPerSecond,
			BandwidthBytesPerSecond: ts.BandwidthBytesPerSecond,
		})
	}
	slices.SortStableFunc(r.traffic, func(a, b model.TrafficSample) int {
		return a.At.Compare(b.At)
	})

	for _, ip := range f.TopIPs {
		r.topIPs = append(r.topIPs, model.TopIP{
			IP:                      ip.IP,
			Requests:                ip.Requests,
			Country:                 ip.Country,
			RiskLevel:               model.RiskLevel(ip.RiskLevel),
			BandwidthBytesPerSecond: ip.BandwidthBytesPerSecond,
		})
	}
	slices.SortStableFunc(r.topIPs, func(a, b model.TopIP) int {
		return cmp.Compare(b.Requests, a.Requests)
	})

	for _, l := range f.Logs {
		r.logs = append(r.logs, model.LogEntry{
			ID:       l.ID,
			LoggedAt: l.LoggedAt.UTC(),
			Level:    model.LogLevel(l.Level),
			Source:   l.Source,
			Message:  l.Message,
			Details:  l.Details,
		})
	}
	slices.SortStableFunc(r.logs, func(a, b model.LogEntry) int {
		return b.LoggedAt.Compare(a.LoggedAt)
	})

	return r
}
