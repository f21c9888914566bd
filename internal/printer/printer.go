package printer

import "github.com/dicedefense/dice/internal/model"

// Printer knows how to print DICE information in different formats.
type Printer interface {
	PrintRuns(runs []model.OperationRun) error
	PrintRun(run model.OperationRun) error
	PrintBackups(backups []model.Backup) error
	PrintBackup(backup model.Backup) error
	PrintDetections(detections []model.Detection) error
	PrintTrainingFiles(files []model.TrainingFile, stats model.ModelStats) error
	PrintNetwork(overview model.NetworkOverview) error
	PrintDashboard(overview model.DashboardOverview) error
	PrintMessage(msg string) error
}
