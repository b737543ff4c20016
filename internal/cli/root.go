// Package cli wires the taskday command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sadopc/taskday/internal/config"
	"github.com/sadopc/taskday/internal/observability"
	"github.com/sadopc/taskday/internal/session"
	"github.com/sadopc/taskday/internal/tui"
)

// App carries what the commands share. The session is opened lazily by the
// first command that needs it.
type App struct {
	ConfigPath string
	LogLevel   string
	LogOutput  io.Writer

	// IsInteractive decides whether the bare command starts the TUI.
	IsInteractive func() bool

	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	sess     *session.Session
	owned    bool
}

func NewApp() *App {
	return &App{
		LogOutput: os.Stderr,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		registry: prometheus.NewRegistry(),
	}
}

// Config loads the configuration once.
func (a *App) Config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return nil, err
	}
	if a.LogLevel != "" {
		cfg.LogLevel = a.LogLevel
	}
	a.cfg = cfg
	return cfg, nil
}

func (a *App) Logger() *slog.Logger {
	if a.logger == nil {
		level := a.LogLevel
		if a.cfg != nil {
			level = a.cfg.LogLevel
		}
		a.logger = observability.NewLogger(a.LogOutput, level)
	}
	return a.logger
}

// Session opens the configured session on first use.
func (a *App) Session(ctx context.Context) (*session.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(ctx, cfg, a.Logger(), a.registry)
	if err != nil {
		return nil, err
	}
	a.sess = sess
	a.owned = true
	return sess, nil
}

// Close releases a session opened by Session.
func (a *App) Close() error {
	if a.sess == nil || !a.owned {
		return nil
	}
	err := a.sess.Close()
	a.sess = nil
	return err
}

// NewRootCmd creates the top-level "taskday" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskday",
		Short:         "Daily tasks with countdown timers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(cmd, app)
			}
			return printToday(cmd, app)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	root.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "config file (default ~/.config/taskday/config.yaml)")
	root.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newTUICmd(app),
		newServeCmd(app),
		newTokenCmd(app),
		newTaskCmd(app),
		newTimerCmd(app),
		newTargetCmd(app),
		newDiaryCmd(app),
		newTeamCmd(app),
		newExportCmd(app),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	app := NewApp()
	defer app.Close()
	return NewRootCmd(app).ExecuteContext(ctx)
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Terminal output belongs to the TUI; logs go nowhere unless asked for.
	if app.LogLevel == "" {
		app.LogOutput = io.Discard
	}
	sess, err := app.Session(ctx)
	if err != nil {
		return err
	}

	model := tui.NewApp(ctx, sess)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if m, ok := final.(tui.App); ok {
		m.Close()
	}
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
