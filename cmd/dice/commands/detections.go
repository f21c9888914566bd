package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/dicedefense/dice/internal/app/detectionlist"
	"github.com/dicedefense/dice/internal/model"
)

type DetectionsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	minRisk string
	format  string
}

// NewDetectionsCommand returns the detections command.
func NewDetectionsCommand(rootCmd *RootCommand, app *kingpin.Application) *DetectionsCommand {
	c := &DetectionsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("detections", "Show the agent detection log.")
	c.Cmd.Flag("min-risk", "Hide detections below this risk level (low, medium, high, critical).").StringVar(&c.minRisk)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c DetectionsCommand) Name() string { return c.Cmd.FullCommand() }

func (c DetectionsCommand) Run(ctx context.Context) error {
	fixtures, err := c.rootCmd.newFixtureRepository(ctx)
	if err != nil {
		return err
	}

	svc, err := detectionlist.NewService(detectionlist.ServiceConfig{
		Fixtures: fixtures,
		Logger:   c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	detections, err := svc.Run(ctx, detectionlist.Request{MinRisk: model.RiskLevel(c.minRisk)})
	if err != nil {
		return fmt.Errorf("could not list detections: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintDetections(detections); err != nil {
		return fmt.Errorf("could not print detections: %w", err)
	}

	return nil
}
