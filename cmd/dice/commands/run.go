package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/dicedefense/dice/internal/app/runlist"
	"github.com/dicedefense/dice/internal/app/runstatus"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage/sqlite"
)

// NewRunCommand returns the parent command of the run subcommands.
func NewRunCommand(app *kingpin.Application) *kingpin.CmdClause {
	return app.Command("run", "Inspect the operation run history.")
}

type RunListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	kind   string
	limit  int
	format string
}

// NewRunListCommand returns the run list command.
func NewRunListCommand(rootCmd *RootCommand, runCmd *kingpin.CmdClause) *RunListCommand {
	c := &RunListCommand{rootCmd: rootCmd}

	c.Cmd = runCmd.Command("list", "List the operation runs, newest first.")
	c.Cmd.Flag("kind", "Filter by operation kind (backup, training).").StringVar(&c.kind)
	c.Cmd.Flag("limit", "Maximum number of runs, 0 lists all.").Default("0").IntVar(&c.limit)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c RunListCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	svc, err := runlist.NewService(runlist.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	runs, err := svc.Run(ctx, runlist.Request{
		Kind:  model.OperationKind(c.kind),
		Limit: c.limit,
	})
	if err != nil {
		return fmt.Errorf("could not list runs: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintRuns(runs); err != nil {
		return fmt.Errorf("could not print runs: %w", err)
	}

	return nil
}

type RunStatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id     string
	format string
}

// NewRunStatusCommand returns the run status command.
func NewRunStatusCommand(rootCmd *RootCommand, runCmd *kingpin.CmdClause) *RunStatusCommand {
	c := &RunStatusCommand{rootCmd: rootCmd}

	c.Cmd = runCmd.Command("status", "Show the details of an operation run.")
	c.Cmd.Arg("id", "ID of the run.").Required().StringVar(&c.id)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c RunStatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunStatusCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	svc, err := runstatus.NewService(runstatus.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	run, err := svc.Run(ctx, runstatus.Request{ID: c.id})
	if err != nil {
		return fmt.Errorf("could not get run status: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintRun(*run); err != nil {
		return fmt.Errorf("could not print run: %w", err)
	}

	return nil
}
