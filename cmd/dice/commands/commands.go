package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/dicedefense/dice/internal/conventions"
	"github.com/dicedefense/dice/internal/log"
	"github.com/dicedefense/dice/internal/printer"
	"github.com/dicedefense/dice/internal/storage"
	storageio "github.com/dicedefense/dice/internal/storage/io"
	"github.com/dicedefense/dice/internal/tracker"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug        bool
	NoLog        bool
	NoColor      bool
	LoggerType   string
	DBPath       string
	FixturesPath string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDBPath := conventions.DBPath(conventions.DataDir(homedir.HomeDir()))
	app.Flag("db-path", "Path to the SQLite run history database file.").Envar("DICE_DB_PATH").Default(defaultDBPath).StringVar(&c.DBPath)
	app.Flag("fixtures", "Path to a YAML fixtures file, the bundled sample data is used by default.").Envar("DICE_FIXTURES").StringVar(&c.FixturesPath)

	return c
}

// fixturesFS returns the filesystem and path of the fixtures file.
func (r RootCommand) fixturesFS() (fs.FS, string) {
	if r.FixturesPath == "" {
		return storageio.DefaultFixtures(), storageio.DefaultFixturesPath
	}

	return os.DirFS(filepath.Dir(r.FixturesPath)), filepath.Base(r.FixturesPath)
}

func (r RootCommand) newFixtureRepository(ctx context.Context) (*storageio.FixtureYAMLRepository, error) {
	fsys, path := r.fixturesFS()
	repo, err := storageio.NewFixtureYAMLRepository(ctx, fsys, path)
	if err != nil {
		return nil, fmt.Errorf("could not load fixtures: %w", err)
	}

	return repo, nil
}

// newTracker returns a tracker that records every run on the repository and
// renders its progress on stderr.
func (r RootCommand) newTracker(repo storage.RunRepository, tickInterval time.Duration) (*tracker.Tracker, error) {
	recorder, err := tracker.NewRecorder(tracker.RecorderConfig{
		Repository: repo,
		Logger:     r.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create recorder: %w", err)
	}

	t, err := tracker.New(tracker.Config{
		TickInterval: tickInterval,
		Listeners: []tracker.Listener{
			recorder,
			printer.NewProgressPrinter(r.Stderr),
		},
		Logger: r.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create tracker: %w", err)
	}

	return t, nil
}

func (r RootCommand) newPrinter(format string) printer.Printer {
	switch format {
	case formatJSON:
		return printer.NewJSONPrinter(r.Stdout)
	default: // table
		return printer.NewTablePrinter(r.Stdout)
	}
}

func formatFlag(cmd *kingpin.CmdClause, v *string) {
	cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(v, formatTable, formatJSON)
}
