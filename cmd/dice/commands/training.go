package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/dicedefense/dice/internal/app/trainingfiles"
)

// NewTrainingCommand returns the parent command of the training subcommands.
func NewTrainingCommand(app *kingpin.Application) *kingpin.CmdClause {
	return app.Command("training", "Inspect the model training data.")
}

type TrainingFilesCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewTrainingFilesCommand returns the training files command.
func NewTrainingFilesCommand(rootCmd *RootCommand, trainingCmd *kingpin.CmdClause) *TrainingFilesCommand {
	c := &TrainingFilesCommand{rootCmd: rootCmd}

	c.Cmd = trainingCmd.Command("files", "List the uploaded training files and the model stats.")
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c TrainingFilesCommand) Name() string { return c.Cmd.FullCommand() }

func (c TrainingFilesCommand) Run(ctx context.Context) error {
	fixtures, err := c.rootCmd.newFixtureRepository(ctx)
	if err != nil {
		return err
	}

	svc, err := trainingfiles.NewService(trainingfiles.ServiceConfig{
		Fixtures: fixtures,
		Logger:   c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("could not list training files: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintTrainingFiles(res.Files, res.Stats); err != nil {
		return fmt.Errorf("could not print training files: %w", err)
	}

	c.rootCmd.Logger.Infof("%d training files pending", res.PendingFiles)
	return nil
}
