package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/importer"
	"github.com/javiermolinar/pacer/internal/task"
)

func (a *App) importCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Replace the task list from a CSV file",
		Long: `Replace today's task list with the rows of a CSV file.

The header names the columns; name and duration are required, start and
type are optional. A row with a start time is fixed. Use - to read stdin.

Importing clears any saved session.`,
		Example: `  pacer import day.csv
  cat day.csv | pacer import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			snap, err := a.load(ctx)
			if err != nil {
				return err
			}
			if snap.state.Active && !force {
				return fmt.Errorf("%w (use --force to replace it)", ErrSessionRunning)
			}

			r, closeFn, err := openInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := importTasks(ctx, a.store, r, a.now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace the list even while a session is running")

	return cmd
}

// importTasks reads drafts from r, confirms them and replaces the store's
// list and session.
func importTasks(ctx context.Context, dest Store, r io.Reader, day time.Time) (int, error) {
	drafts, err := importer.Read(r, day)
	if err != nil {
		return 0, fmt.Errorf("reading tasks: %w", err)
	}

	tasks := task.Confirm(drafts)
	if err := dest.ReplaceTasks(ctx, tasks); err != nil {
		return 0, fmt.Errorf("saving tasks: %w", err)
	}
	if err := dest.ClearSession(ctx); err != nil {
		return 0, fmt.Errorf("clearing session: %w", err)
	}
	return len(tasks), nil
}

// openInput opens path for reading, or returns stdin for "-".
func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("file does not exist: %s", resolved)
		}
		return nil, nil, fmt.Errorf("opening %s: %w", resolved, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
