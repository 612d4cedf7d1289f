package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/board"
	"github.com/CharanSaiVaddi/jobboard-backend/internal/config"
	"github.com/CharanSaiVaddi/jobboard-backend/internal/storage"
)

// App is what every board command runs against.
type App struct {
	Config  *config.Config
	Log     *logrus.Logger
	Storage storage.Storage
	Board   *board.Board
}

func (a *App) Close() error {
	return a.Storage.Close()
}

type contextKey string

const appKey contextKey = "app"

func GetAppFromContext(ctx context.Context) (*App, error) {
	a, ok := ctx.Value(appKey).(*App)
	if !ok || a == nil {
		return nil, errors.New("application instance not found in context")
	}
	return a, nil
}

func openApp(ctx context.Context, cfgPath string, logOut io.Writer) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := cfg.Logger()
	log.SetOutput(logOut)

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}
	b, err := board.Open(ctx, store, board.WithLogger(log))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to open board: %w", err)
	}
	return &App{Config: cfg, Log: log, Storage: store, Board: b}, nil
}

// needsApp reports whether cmd works on the board. Help, completion and the
// config commands only touch the config file.
func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", "config":
			return false
		}
	}
	return cmd.HasParent()
}

// newRootCmd builds the command tree. The returned cleanup closes whatever
// storage the executed command opened.
func newRootCmd() (*cobra.Command, func()) {
	var (
		cfgPath string
		opened  *App
	)

	root := &cobra.Command{
		Use:           "jobboard",
		Short:         "Kanban job board",
		Long:          `jobboard tracks jobs across the Need to Start, In Progress, Completed and Stopped columns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsApp(cmd) {
				return nil
			}
			a, err := openApp(cmd.Context(), cfgPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opened = a
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "Path to the config file")

	root.AddCommand(
		newAddCmd(),
		newListCmd(),
		newBoardCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newAdvanceCmd(),
		newMoveCmd(),
		newServeCmd(),
		newConfigCmd(&cfgPath),
	)

	cleanup := func() {
		if opened == nil {
			return
		}
		if err := opened.Close(); err != nil {
			opened.Log.WithError(err).Warn("close storage")
		}
		opened = nil
	}
	return root, cleanup
}

// execute runs one command line against out and returns its error.
func execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root, cleanup := newRootCmd()
	defer cleanup()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}
