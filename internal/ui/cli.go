package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/config"
	"github.com/javiermolinar/pacer/internal/db"
	"github.com/javiermolinar/pacer/internal/session"
	"github.com/javiermolinar/pacer/internal/task"
	"github.com/javiermolinar/pacer/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// ErrSessionRunning is returned by commands that would change tasks the
// running session has already passed.
var ErrSessionRunning = errors.New("a session is running; finish it with 'pacer next' or 'pacer reset'")

// Store is the persistence the CLI needs: the task list and the session.
type Store interface {
	task.Repository
	session.Store
}

// App holds the CLI application state.
type App struct {
	store  Store
	config *config.Config
	root   *cobra.Command
	debug  bool // Enable debug logging

	now       func() time.Time
	clipboard func(string) error
}

// NewApp creates a new CLI application with the given store and config.
// A nil store is opened lazily from the configured database path.
func NewApp(store Store, cfg *config.Config) *App {
	a := &App{
		store:     store,
		config:    cfg,
		now:       time.Now,
		clipboard: clipboard.WriteAll,
	}

	a.root = &cobra.Command{
		Use:   "pacer",
		Short: "Plan a day of tasks and track it live",
		Long: `Pacer keeps an ordered list of the day's tasks.

Fixed tasks happen at a set time. Flexible tasks run back to back from a
start time and are split around any fixed task that lands inside them.
While you work through the list, pacer forecasts when each remaining task
will start and warns when an appointment is at risk.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			ApplyColorMode(a.config.UI.Color)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runTracker()
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to temp file)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.pinCmd())
	a.root.AddCommand(a.unpinCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.scheduleCmd())
	a.root.AddCommand(a.startCmd())
	a.root.AddCommand(a.nextCmd())
	a.root.AddCommand(a.resetCmd())
	a.root.AddCommand(a.statusCmd())
	a.root.AddCommand(a.trackCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pacer %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) trackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Open the live tracker",
		Long: `Open the full-screen tracker.

Before a session starts it previews the schedule; + and - move the start
time. During a session it shows the live forecast, refreshed every second.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runTracker()
		},
	}
}

func (a *App) runTracker() error {
	if err := a.ensureStore(); err != nil {
		return err
	}
	return tui.RunWithDebug(a.store, a.config, a.debug)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the store if the app opened it.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// ensureStore opens the configured database on first use.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}
	store, err := openStore(a.config.Storage.DBPath)
	if err != nil {
		return err
	}
	a.store = store
	return nil
}

func openStore(dbPath string) (Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	store, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	return store, nil
}

// snapshot is the task list together with the saved session.
type snapshot struct {
	tasks    []task.Task
	state    session.State
	progress []session.Progress
}

func (a *App) load(ctx context.Context) (snapshot, error) {
	if err := a.ensureStore(); err != nil {
		return snapshot{}, err
	}
	tasks, err := a.store.ListTasks(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("listing tasks: %w", err)
	}
	state, progress, err := a.store.LoadSession(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("loading session: %w", err)
	}
	return snapshot{tasks: tasks, state: state, progress: progress}, nil
}

// editable reports an error if the task at i cannot be changed: while a
// session runs, only tasks after the current one can be.
func (s snapshot) editable(i int) error {
	if s.state.Active && i <= s.state.CurrentIndex {
		return ErrSessionRunning
	}
	return nil
}
