package printer

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dicedefense/dice/internal/model"
)

// TablePrinter prints DICE information in a table format.
type TablePrinter struct {
	writer io.Writer
	now    func() time.Time
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w, now: time.Now}
}

// PrintRuns prints operation runs in a table format.
func (t *TablePrinter) PrintRuns(runs []model.OperationRun) error {
	if len(runs) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Print header.
	fmt.Fprintln(tw, "ID\tKIND\tNAME\tSTATE\tPROGRESS\tSTARTED")

	// Print rows.
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
			r.ID,
			r.Kind,
			r.Name,
			r.State,
			r.Percent(),
			timeAgo(r.StartedAt, t.now()),
		)
	}

	return nil
}

// PrintRun prints detailed operation run status.
func (t *TablePrinter) PrintRun(run model.OperationRun) error {
	fmt.Fprintf(t.writer, "ID:         %s\n", run.ID)
	fmt.Fprintf(t.writer, "Kind:       %s\n", run.Kind)
	if run.Name != "" {
		fmt.Fprintf(t.writer, "Name:       %s\n", run.Name)
	}
	fmt.Fprintf(t.writer, "State:      %s\n", run.State)
	fmt.Fprintf(t.writer, "Progress:   %d%%\n", run.Percent())
	fmt.Fprintf(t.writer, "Started:    %s\n", formatTimestamp(run.StartedAt))

	if run.FinishedAt != nil {
		fmt.Fprintf(t.writer, "Finished:   %s\n", formatTimestamp(*run.FinishedAt))
	}
	fmt.Fprintf(t.writer, "Duration:   %s\n", run.Duration(t.now()).Round(time.Millisecond))

	return nil
}

// PrintBackups prints backups in a table format.
func (t *TablePrinter) PrintBackups(backups []model.Backup) error {
	if len(backups) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS\tSIZE\tCREATED")
	for _, b := range backups {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID,
			b.Name,
			b.Type,
			b.Status,
			formatSize(b.SizeBytes),
			formatTimestamp(b.CreatedAt),
		)
	}

	return nil
}

// PrintBackup prints detailed backup information.
func (t *TablePrinter) PrintBackup(backup model.Backup) error {
	fmt.Fprintf(t.writer, "ID:           %s\n", backup.ID)
	fmt.Fprintf(t.writer, "Name:         %s\n", backup.Name)
	fmt.Fprintf(t.writer, "Type:         %s\n", backup.Type)
	fmt.Fprintf(t.writer, "Status:       %s\n", backup.Status)
	fmt.Fprintf(t.writer, "Size:         %s\n", formatSize(backup.SizeBytes))
	fmt.Fprintf(t.writer, "Created:      %s\n", formatTimestamp(backup.CreatedAt))
	if backup.Description != "" {
		fmt.Fprintf(t.writer, "Description:  %s\n", backup.Description)
	}

	return nil
}

// PrintDetections prints the detection log in a table format.
func (t *TablePrinter) PrintDetections(detections []model.Detection) error {
	if len(detections) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "TIME\tSOURCE IP\tREQUESTS\tRISK\tATTACK\tACTION\tLOCATION")
	for _, d := range detections {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			formatTimestamp(d.DetectedAt),
			d.SourceIP,
			d.RequestCount,
			d.RiskLevel,
			d.AttackType,
			d.ActionTaken,
			d.Location,
		)
	}

	return nil
}

// PrintTrainingFiles prints the model stats followed by the training files table.
func (t *TablePrinter) PrintTrainingFiles(files []model.TrainingFile, stats model.ModelStats) error {
	fmt.Fprintf(t.writer, "Accuracy:       %.1f%%\n", stats.Accuracy)
	fmt.Fprintf(t.writer, "Samples:        %d\n", stats.TotalSamples)
	fmt.Fprintf(t.writer, "Training time:  %s\n", stats.TrainingTime)
	fmt.Fprintf(t.writer, "Last update:    %s\n", formatTimestamp(stats.LastUpdate))

	if len(files) == 0 {
		return nil
	}
	fmt.Fprintln(t.writer)

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tNAME\tFORMAT\tSTATUS\tSIZE\tUPLOADED")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID,
			f.Name,
			f.Format,
			f.Status,
			formatSize(f.SizeBytes),
			timeAgo(f.UploadedAt, t.now()),
		)
	}

	return nil
}

// PrintNetwork prints the traffic summary, the traffic samples and the top source IPs.
func (t *TablePrinter) PrintNetwork(overview model.NetworkOverview) error {
	fmt.Fprintf(t.writer, "Current RPS:  %s\n", formatCount(overview.CurrentRequestsPerSecond()))
	fmt.Fprintf(t.writer, "Peak RPS:     %s\n", formatCount(overview.PeakRequestsPerSecond()))
	fmt.Fprintf(t.writer, "Intensity:    %d%%\n", overview.Intensity())
	fmt.Fprintf(t.writer, "Connections:  %s\n", formatCount(overview.ActiveConnections))

	if len(overview.Traffic) > 0 {
		fmt.Fprintln(t.writer)
		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tRPS\tBANDWIDTH")
		for _, s := range overview.Traffic {
			fmt.Fprintf(tw, "%s\t%s\t%s\n",
				s.At.UTC().Format("15:04"),
				formatCount(s.RequestsPerSecond),
				formatRate(s.BandwidthBytesPerSecond),
			)
		}
		tw.Flush()
	}

	if len(overview.TopIPs) > 0 {
		fmt.Fprintln(t.writer)
		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "IP\tCOUNTRY\tREQUESTS\tBANDWIDTH\tRISK")
		for _, ip := range overview.TopIPs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				ip.IP,
				ip.Country,
				formatCount(ip.Requests),
				formatRate(ip.BandwidthBytesPerSecond),
				ip.RiskLevel,
			)
		}
		tw.Flush()
	}

	return nil
}

// PrintDashboard prints the system stats, the security log and the recent runs.
func (t *TablePrinter) PrintDashboard(overview model.DashboardOverview) error {
	stats := overview.Stats
	fmt.Fprintf(t.writer, "Threats blocked:     %s\n", formatCount(stats.ThreatsBlocked))
	fmt.Fprintf(t.writer, "Active connections:  %s\n", formatCount(stats.ActiveConnections))
	fmt.Fprintf(t.writer, "Bandwidth:           %s\n", formatRate(stats.BandwidthBytesPerSecond))
	fmt.Fprintf(t.writer, "Uptime:              %.2f%%\n", stats.UptimePercent)
	fmt.Fprintf(t.writer, "CPU:                 %.0f%%\n", stats.CPUPercent)
	fmt.Fprintf(t.writer, "Memory:              %.0f%%\n", stats.MemoryPercent)
	fmt.Fprintf(t.writer, "Alerts:              %d\n", overview.Alerts())

	if len(overview.Logs) > 0 {
		fmt.Fprintln(t.writer)
		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tLEVEL\tSOURCE\tMESSAGE")
		for _, l := range overview.Logs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				formatTimestamp(l.LoggedAt),
				l.Level,
				l.Source,
				l.Message,
			)
		}
		tw.Flush()
	}

	if len(overview.RecentRuns) > 0 {
		fmt.Fprintln(t.writer)
		return t.PrintRuns(overview.RecentRuns)
	}

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
