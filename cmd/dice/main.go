package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/dicedefense/dice/cmd/dice/commands"
	"github.com/dicedefense/dice/internal/conventions"
	"github.com/dicedefense/dice/internal/log"
	loglogrus "github.com/dicedefense/dice/internal/log/logrus"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	// Load .env files (fails silently if files don't exist), real env vars take precedence.
	_ = godotenv.Load(conventions.EnvFile)

	app := kingpin.New("dice", "DICE DDoS protection operations console.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	// Setup commands (registers flags).
	trainCmd := commands.NewTrainCommand(rootCmd, app)
	detectionsCmd := commands.NewDetectionsCommand(rootCmd, app)
	networkCmd := commands.NewNetworkCommand(rootCmd, app)
	dashboardCmd := commands.NewDashboardCommand(rootCmd, app)

	// Backup subcommands share a parent command.
	backupCmd := commands.NewBackupCommand(app)
	backupCreateCmd := commands.NewBackupCreateCommand(rootCmd, backupCmd)
	backupListCmd := commands.NewBackupListCommand(rootCmd, backupCmd)
	backupRestoreCmd := commands.NewBackupRestoreCommand(rootCmd, backupCmd)
	backupScheduleCmd := commands.NewBackupScheduleCommand(rootCmd, backupCmd)

	// Run subcommands share a parent command.
	runCmd := commands.NewRunCommand(app)
	runListCmd := commands.NewRunListCommand(rootCmd, runCmd)
	runStatusCmd := commands.NewRunStatusCommand(rootCmd, runCmd)

	trainingCmd := commands.NewTrainingCommand(app)
	trainingFilesCmd := commands.NewTrainingFilesCommand(rootCmd, trainingCmd)

	cmds := map[string]commands.Command{
		trainCmd.Name():          trainCmd,
		detectionsCmd.Name():     detectionsCmd,
		networkCmd.Name():        networkCmd,
		dashboardCmd.Name():      dashboardCmd,
		backupCreateCmd.Name():   backupCreateCmd,
		backupListCmd.Name():     backupListCmd,
		backupRestoreCmd.Name():  backupRestoreCmd,
		backupScheduleCmd.Name(): backupScheduleCmd,
		runListCmd.Name():        runListCmd,
		runStatusCmd.Name():      runStatusCmd,
		trainingFilesCmd.Name():  trainingFilesCmd,
	}

	// Parse command.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	// Auto-suppress logging for commands that produce structured output (table/JSON)
	// to prevent log noise from mixing with printer output in the terminal.
	// Users can still enable logging with --debug.
	printerCommands := map[string]bool{
		"backup list":    true,
		"run list":       true,
		"run status":     true,
		"detections":     true,
		"network":        true,
		"dashboard":      true,
		"training files": true,
	}
	if printerCommands[cmdName] && !rootCmd.Debug {
		rootCmd.NoLog = true
	}

	// Set logger.
	rootCmd.Logger = getLogger(ctx, *rootCmd)

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				rootCmd.Logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// getLogger returns the application logger.
func getLogger(_ context.Context, config commands.RootCommand) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	// If logger not disabled use logrus logger.
	logrusLog := logrus.New()
	logrusLog.Out = config.Stderr // By default logger goes to stderr (so it can split stdout prints).
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if config.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	// Log format.
	switch config.LoggerType {
	case commands.LoggerTypeDefault:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !config.NoColor,
			DisableColors: config.NoColor,
		})
	case commands.LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})

	logger.Debugf("Debug level is enabled") // Will log only when debug enabled.

	return logger
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
