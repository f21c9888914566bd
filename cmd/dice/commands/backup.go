package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/dicedefense/dice/internal/app/backupcreate"
	"github.com/dicedefense/dice/internal/app/backuplist"
	"github.com/dicedefense/dice/internal/app/backupschedule"
	"github.com/dicedefense/dice/internal/app/restore"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage/sqlite"
	"github.com/dicedefense/dice/internal/tracker"
)

// NewBackupCommand returns the parent command of the backup subcommands.
func NewBackupCommand(app *kingpin.Application) *kingpin.CmdClause {
	return app.Command("backup", "Manage system backups.")
}

type BackupCreateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	name         string
	tickInterval time.Duration
}

// NewBackupCreateCommand returns the backup create command.
func NewBackupCreateCommand(rootCmd *RootCommand, backupCmd *kingpin.CmdClause) *BackupCreateCommand {
	c := &BackupCreateCommand{rootCmd: rootCmd}

	c.Cmd = backupCmd.Command("create", "Create a manual backup of the system configuration.")
	c.Cmd.Flag("name", "Backup name. Manual_Backup_<date> if not provided.").StringVar(&c.name)
	c.Cmd.Flag("tick-interval", "Period between progress updates.").Default(tracker.DefaultTickInterval.String()).DurationVar(&c.tickInterval)

	return c
}

func (c BackupCreateCommand) Name() string { return c.Cmd.FullCommand() }

func (c BackupCreateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	t, err := c.rootCmd.newTracker(repo, c.tickInterval)
	if err != nil {
		return err
	}
	defer t.Close()

	svc, err := backupcreate.NewService(backupcreate.ServiceConfig{
		Tracker: t,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	run, err := svc.Run(ctx, backupcreate.Request{Name: c.name})
	if err != nil {
		return fmt.Errorf("could not create backup: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Backup created: %s (run %s)\n", run.Name, run.ID)
	return nil
}

type BackupListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	typeFilter string
	format     string
}

// NewBackupListCommand returns the backup list command.
func NewBackupListCommand(rootCmd *RootCommand, backupCmd *kingpin.CmdClause) *BackupListCommand {
	c := &BackupListCommand{rootCmd: rootCmd}

	c.Cmd = backupCmd.Command("list", "List the available backups.")
	c.Cmd.Flag("type", "Filter by backup type (manual, auto, scheduled).").StringVar(&c.typeFilter)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c BackupListCommand) Name() string { return c.Cmd.FullCommand() }

func (c BackupListCommand) Run(ctx context.Context) error {
	fixtures, err := c.rootCmd.newFixtureRepository(ctx)
	if err != nil {
		return err
	}

	svc, err := backuplist.NewService(backuplist.ServiceConfig{
		Fixtures: fixtures,
		Logger:   c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	backups, err := svc.Run(ctx, backuplist.Request{Type: model.BackupType(c.typeFilter)})
	if err != nil {
		return fmt.Errorf("could not list backups: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintBackups(backups); err != nil {
		return fmt.Errorf("could not print backups: %w", err)
	}

	return nil
}

type BackupRestoreCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	backupID       string
	masterPassword string
	format         string
}

// NewBackupRestoreCommand returns the backup restore command.
func NewBackupRestoreCommand(rootCmd *RootCommand, backupCmd *kingpin.CmdClause) *BackupRestoreCommand {
	c := &BackupRestoreCommand{rootCmd: rootCmd}

	c.Cmd = backupCmd.Command("restore", "Restore the system configuration from a backup. Fails while a recorded backup run is in progress.")
	c.Cmd.Arg("backup", "ID of the backup to restore.").Required().StringVar(&c.backupID)
	c.Cmd.Flag("master-password", "Administrator master password.").Envar("DICE_MASTER_PASSWORD").Required().StringVar(&c.masterPassword)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c BackupRestoreCommand) Name() string { return c.Cmd.FullCommand() }

func (c BackupRestoreCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	fixtures, err := c.rootCmd.newFixtureRepository(ctx)
	if err != nil {
		return err
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	svc, err := restore.NewService(restore.ServiceConfig{
		Fixtures: fixtures,
		History:  repo,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	backup, err := svc.Run(ctx, restore.Request{
		BackupID:       c.backupID,
		MasterPassword: c.masterPassword,
	})
	if err != nil {
		return fmt.Errorf("could not restore backup: %w", err)
	}

	p := c.rootCmd.newPrinter(c.format)
	if c.format == formatTable {
		_ = p.PrintMessage("Restored backup:")
	}
	if err := p.PrintBackup(*backup); err != nil {
		return fmt.Errorf("could not print backup: %w", err)
	}

	return nil
}

type BackupScheduleCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	schedule     string
	tickInterval time.Duration
}

// NewBackupScheduleCommand returns the backup schedule command.
func NewBackupScheduleCommand(rootCmd *RootCommand, backupCmd *kingpin.CmdClause) *BackupScheduleCommand {
	c := &BackupScheduleCommand{rootCmd: rootCmd}

	c.Cmd = backupCmd.Command("schedule", "Run scheduled backups in the foreground until interrupted.")
	c.Cmd.Flag("cron", "Cron expression of the backup schedule (minute hour dom month dow).").Default("0 3 * * *").StringVar(&c.schedule)
	c.Cmd.Flag("tick-interval", "Period between progress updates.").Default(tracker.DefaultTickInterval.String()).DurationVar(&c.tickInterval)

	return c
}

func (c BackupScheduleCommand) Name() string { return c.Cmd.FullCommand() }

func (c BackupScheduleCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	t, err := c.rootCmd.newTracker(repo, c.tickInterval)
	if err != nil {
		return err
	}
	defer t.Close()

	svc, err := backupschedule.NewService(backupschedule.ServiceConfig{
		Tracker: t,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if err := svc.Run(ctx, backupschedule.Request{Schedule: c.schedule}); err != nil {
		return fmt.Errorf("could not schedule backups: %w", err)
	}

	return nil
}
