package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/dicedefense/dice/internal/app/train"
	"github.com/dicedefense/dice/internal/model"
	"github.com/dicedefense/dice/internal/storage/sqlite"
	"github.com/dicedefense/dice/internal/tracker"
)

type TrainCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	sensitivity  string
	tickInterval time.Duration
}

// NewTrainCommand returns the train command.
func NewTrainCommand(rootCmd *RootCommand, app *kingpin.Application) *TrainCommand {
	c := &TrainCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("train", "Train the detection model with the uploaded data.")
	c.Cmd.Flag("sensitivity", "Detection sensitivity.").Default(string(model.SensitivityMedium)).EnumVar(&c.sensitivity,
		string(model.SensitivityLow), string(model.SensitivityMedium), string(model.SensitivityHigh))
	c.Cmd.Flag("tick-interval", "Period between progress updates.").Default(tracker.DefaultTickInterval.String()).DurationVar(&c.tickInterval)

	return c
}

func (c TrainCommand) Name() string { return c.Cmd.FullCommand() }

func (c TrainCommand) Run(ctx context.Context) error {
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

	svc, err := train.NewService(train.ServiceConfig{
		Tracker: t,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	run, err := svc.Run(ctx, train.Request{Sensitivity: model.Sensitivity(c.sensitivity)})
	if err != nil {
		return fmt.Errorf("could not train model: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Model training completed: %s (run %s)\n", run.Name, run.ID)
	return nil
}
