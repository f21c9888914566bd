package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/dicedefense/dice/internal/model"
)

// JSONPrinter prints DICE information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type runOutput struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Name       string     `json:"name,omitempty"`
	State      string     `json:"state"`
	Progress   float64    `json:"progress"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

type backupOutput struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	SizeBytes   int64     `json:"size_bytes"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type detectionOutput struct {
	ID           string    `json:"id"`
	DetectedAt   time.Time `json:"detected_at"`
	SourceIP     string    `json:"source_ip"`
	RequestCount int       `json:"request_count"`
	RiskLevel    string    `json:"risk_level"`
	ActionTaken  string    `json:"action_taken"`
	AttackType   string    `json:"attack_type"`
	Location     string    `json:"location"`
}

type trainingFileOutput struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Format     string    `json:"format"`
	Status     string    `json:"status"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type trainingOutput struct {
	Stats struct {
		Accuracy            float64   `json:"accuracy"`
		TotalSamples        int64     `json:"total_samples"`
		TrainingTimeSeconds float64   `json:"training_time_seconds"`
		LastUpdate          time.Time `json:"last_update"`
	} `json:"stats"`
	Files []trainingFileOutput `json:"files"`
}

type trafficOutput struct {
	At                      time.Time `json:"at"`
	RequestsPerSecond       int64     `json:"requests_per_sec"`
	BandwidthBytesPerSecond int64     `json:"bandwidth_bytes_per_sec"`
}

type topIPOutput struct {
	IP                      string `json:"ip"`
	Requests                int64  `json:"requests"`
	Country                 string `json:"country"`
	RiskLevel               string `json:"risk_level"`
	BandwidthBytesPerSecond int64  `json:"bandwidth_bytes_per_sec"`
}

type networkOutput struct {
	CurrentRequestsPerSecond int64           `json:"current_requests_per_sec"`
	PeakRequestsPerSecond    int64           `json:"peak_requests_per_sec"`
	Intensity                int             `json:"intensity"`
	ActiveConnections        int64           `json:"active_connections"`
	Traffic                  []trafficOutput `json:"traffic"`
	TopIPs                   []topIPOutput   `json:"top_ips"`
}

type logOutput struct {
	ID       string    `json:"id"`
	LoggedAt time.Time `json:"logged_at"`
	Level    string    `json:"level"`
	Source   string    `json:"source"`
	Message  string    `json:"message"`
	Details  string    `json:"details,omitempty"`
}

type dashboardOutput struct {
	Stats struct {
		ThreatsBlocked          int64   `json:"threats_blocked"`
		ActiveConnections       int64   `json:"active_connections"`
		BandwidthBytesPerSecond int64   `json:"bandwidth_bytes_per_sec"`
		UptimePercent           float64 `json:"uptime_percent"`
		CPUPercent              float64 `json:"cpu_percent"`
		MemoryPercent           float64 `json:"memory_percent"`
	} `json:"stats"`
	Alerts     int         `json:"alerts"`
	Logs       []logOutput `json:"logs"`
	RecentRuns []runOutput `json:"recent_runs"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

func mapRun(r model.OperationRun) runOutput {
	out := runOutput{
		ID:        r.ID,
		Kind:      string(r.Kind),
		Name:      r.Name,
		State:     string(r.State),
		Progress:  r.Progress,
		StartedAt: r.StartedAt.UTC(),
	}
	if r.FinishedAt != nil {
		f := r.FinishedAt.UTC()
		out.FinishedAt = &f
	}
	return out
}

func mapBackup(b model.Backup) backupOutput {
	return backupOutput{
		ID:          b.ID,
		Name:        b.Name,
		Type:        string(b.Type),
		Status:      string(b.Status),
		SizeBytes:   b.SizeBytes,
		Description: b.Description,
		CreatedAt:   b.CreatedAt.UTC(),
	}
}

// PrintRuns prints operation runs in JSON format.
func (j *JSONPrinter) PrintRuns(runs []model.OperationRun) error {
	items := make([]runOutput, len(runs))
	for i, r := range runs {
		items[i] = mapRun(r)
	}
	return j.encode(items)
}

// PrintRun prints an operation run in JSON format.
func (j *JSONPrinter) PrintRun(run model.OperationRun) error {
	return j.encode(mapRun(run))
}

// PrintBackups prints backups in JSON format.
func (j *JSONPrinter) PrintBackups(backups []model.Backup) error {
	items := make([]backupOutput, len(backups))
	for i, b := range backups {
		items[i] = mapBackup(b)
	}
	return j.encode(items)
}

// PrintBackup prints a backup in JSON format.
func (j *JSONPrinter) PrintBackup(backup model.Backup) error {
	return j.encode(mapBackup(backup))
}

// PrintDetections prints the detection log in JSON format.
func (j *JSONPrinter) PrintDetections(detections []model.Detection) error {
	items := make([]detectionOutput, len(detections))
	for i, d := range detections {
		items[i] = detectionOutput{
			ID:           d.ID,
			DetectedAt:   d.DetectedAt.UTC(),
			SourceIP:     d.SourceIP,
			RequestCount: d.RequestCount,
			RiskLevel:    string(d.RiskLevel),
			ActionTaken:  d.ActionTaken,
			AttackType:   d.AttackType,
			Location:     d.Location,
		}
	}
	return j.encode(items)
}

// PrintTrainingFiles prints the training files and model stats in JSON format.
func (j *JSONPrinter) PrintTrainingFiles(files []model.TrainingFile, stats model.ModelStats) error {
	out := trainingOutput{Files: make([]trainingFileOutput, len(files))}
	out.Stats.Accuracy = stats.Accuracy
	out.Stats.TotalSamples = stats.TotalSamples
	out.Stats.TrainingTimeSeconds = stats.TrainingTime.Seconds()
	out.Stats.LastUpdate = stats.LastUpdate.UTC()
	for i, f := range files {
		out.Files[i] = trainingFileOutput{
			ID:         f.ID,
			Name:       f.Name,
			Format:     f.Format,
			Status:     string(f.Status),
			SizeBytes:  f.SizeBytes,
			UploadedAt: f.UploadedAt.UTC(),
		}
	}
	return j.encode(out)
}

// PrintNetwork prints the network overview in JSON format.
func (j *JSONPrinter) PrintNetwork(overview model.NetworkOverview) error {
	out := networkOutput{
		CurrentRequestsPerSecond: overview.CurrentRequestsPerSecond(),
		PeakRequestsPerSecond:    overview.PeakRequestsPerSecond(),
		Intensity:                overview.Intensity(),
		ActiveConnections:        overview.ActiveConnections,
		Traffic:                  make([]trafficOutput, len(overview.Traffic)),
		TopIPs:                   make([]topIPOutput, len(overview.TopIPs)),
	}
	for i, s := range overview.Traffic {
		out.Traffic[i] = trafficOutput{
			At:                      s.At.UTC(),
			RequestsPerSecond:       s.RequestsPerSecond,
			BandwidthBytesPerSecond: s.BandwidthBytesPerSecond,
		}
	}
	for i, ip := range overview.TopIPs {
		out.TopIPs[i] = topIPOutput{
			IP:                      ip.IP,
			Requests:                ip.Requests,
			Country:                 ip.Country,
			RiskLevel:               string(ip.RiskLevel),
			BandwidthBytesPerSecond: ip.BandwidthBytesPerSecond,
		}
	}
	return j.encode(out)
}

// PrintDashboard prints the dashboard overview in JSON format.
func (j *JSONPrinter) PrintDashboard(overview model.DashboardOverview) error {
	out := dashboardOutput{
		Alerts:     overview.Alerts(),
		Logs:       make([]logOutput, len(overview.Logs)),
		RecentRuns: make([]runOutput, len(overview.RecentRuns)),
	}
	out.Stats.ThreatsBlocked = overview.Stats.ThreatsBlocked
	out.Stats.ActiveConnections = overview.Stats.ActiveConnections
	out.Stats.BandwidthBytesPerSecond = overview.Stats.BandwidthBytesPerSecond
	out.Stats.UptimePercent = overview.Stats.UptimePercent
	out.Stats.CPUPercent = overview.Stats.CPUPercent
	out.Stats.MemoryPercent = overview.Stats.MemoryPercent
	for i, l := range overview.Logs {
		out.Logs[i] = logOutput{
			ID:       l.ID,
			LoggedAt: l.LoggedAt.UTC(),
			Level:    string(l.Level),
			Source:   l.Source,
			Message:  l.Message,
			Details:  l.Details,
		}
	}
	for i, r := range overview.RecentRuns {
		out.RecentRuns[i] = mapRun(r)
	}
	return j.encode(out)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
