package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/dicedefense/dice/internal/app/networkmonitor"
	"github.com/dicedefense/dice/internal/model"
)

type NetworkCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	minRisk string
	top     int
	format  string
}

// NewNetworkCommand returns the network command.
func NewNetworkCommand(rootCmd *RootCommand, app *kingpin.Application) *NetworkCommand {
	c := &NetworkCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("network", "Show the network traffic and the busiest source IPs.")
	c.Cmd.Flag("min-risk", "Hide source IPs below this risk level (low, medium, high, critical).").StringVar(&c.minRisk)
	c.Cmd.Flag("top", "Maximum number of source IPs to show (0 shows all).").Default("0").IntVar(&c.top)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c NetworkCommand) Name() string { return c.Cmd.FullCommand() }

func (c NetworkCommand) Run(ctx context.Context) error {
	fixtures, err := c.rootCmd.newFixtureRepository(ctx)
	if err != nil {
		return err
	}

	svc, err := networkmonitor.NewService(networkmonitor.ServiceConfig{
		Fixtures: fixtures,
		Logger:   c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	overview, err := svc.Run(ctx, networkmonitor.Request{
		MinRisk: model.RiskLevel(c.minRisk),
		Top:     c.top,
	})
	if err != nil {
		return fmt.Errorf("could not get network overview: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintNetwork(*overview); err != nil {
		return fmt.Errorf("could not print network overview: %w", err)
	}

	return nil
}
