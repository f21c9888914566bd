package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/dicedefense/dice/internal/app/dashboard"
	"github.com/dicedefense/dice/internal/storage/sqlite"
)

type DashboardCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	logs   int
	runs   int
	format string
}

// NewDashboardCommand returns the dashboard command.
func NewDashboardCommand(rootCmd *RootCommand, app *kingpin.Application) *DashboardCommand {
	c := &DashboardCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("dashboard", "Show the system stats, the security log and the latest runs.")
	c.Cmd.Flag("logs", "Maximum number of log entries to show (0 shows all).").Default("0").IntVar(&c.logs)
	c.Cmd.Flag("runs", "Number of recent runs to show.").Default(fmt.Sprint(dashboard.DefaultRecentRuns)).IntVar(&c.runs)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c DashboardCommand) Name() string { return c.Cmd.FullCommand() }

func (c DashboardCommand) Run(ctx context.Context) error {
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

	svc, err := dashboard.NewService(dashboard.ServiceConfig{
		Fixtures: fixtures,
		Runs:     repo,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	overview, err := svc.Run(ctx, dashboard.Request{Logs: c.logs, Runs: c.runs})
	if err != nil {
		return fmt.Errorf("could not get dashboard: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintDashboard(*overview); err != nil {
		return fmt.Errorf("could not print dashboard: %w", err)
	}

	return nil
}
