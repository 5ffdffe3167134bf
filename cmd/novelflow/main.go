package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/thinkwright/novelflow/internal/api"
	"github.com/thinkwright/novelflow/internal/config"
	"github.com/thinkwright/novelflow/internal/state"
	"github.com/thinkwright/novelflow/internal/store"
	"github.com/thinkwright/novelflow/internal/ui"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var version = "dev"

var (
	verbose bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "novelflow",
	Short: "NovelFlow terminal client",
	Long: `novelflow is a terminal client for the NovelFlow writing assistant.

Run without arguments to open the workspace: pick a project, move through
the creation phases, and talk with the assistant for each phase.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}
		var err error
		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "novelflow %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(versionCmd, loginCmd, logoutCmd, projectsCmd, chatCmd)
}

func main() {
	// Requests have no deadline of their own; an interrupt cancels them.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func logPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "novelflow", "novelflow.log")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "novelflow", "novelflow.log")
}

// newLogger writes JSON logs to the log file. The TUI owns the terminal, so
// nothing is logged to stdout or stderr.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	path := logPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	zc := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	if verbose {
		lvl = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zc.Level = lvl
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	return zc.Build()
}

// openStorage opens the durable storage file.
func openStorage() (*store.Store, error) {
	kv, err := store.Open(store.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return kv, nil
}

// newClient builds the API client. NOVELFLOW_TOKEN wins over the stored
// token.
func newClient(kv *store.Store) *api.Client {
	var ts api.TokenSource = kv
	if cfg.Token != "" {
		ts = api.StaticToken(cfg.Token)
	}
	return api.New(cfg.APIURL, api.WithTokenSource(ts), api.WithLogger(logger))
}

func runTUI() error {
	kv, err := openStorage()
	if err != nil {
		return err
	}
	defer kv.Close()

	st := state.NewStore(kv, state.WithLogger(logger))
	st.Subscribe(func(s state.State) {
		logger.Debug("state changed",
			zap.String("project_id", s.ProjectID()),
			zap.String("phase", string(s.CurrentPhase)),
			zap.Bool("loading", s.UI.IsLoading),
			zap.Int("notifications", len(s.UI.Notifications)))
	})

	ensureTerminalSize()

	model := ui.NewModel(newClient(kv), st, cfg, ui.WithLogger(logger))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	logger.Info("starting", zap.String("version", version), zap.String("api_url", cfg.APIURL))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

// ensureTerminalSize asks the terminal to grow when it is smaller than the
// three-pane layout needs.
func ensureTerminalSize() {
	const minCols, minRows = 110, 32
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	w, h, err := term.GetSize(fd)
	if err != nil || (w >= minCols && h >= minRows) {
		return
	}
	fmt.Fprintf(os.Stdout, "\x1b[8;%d;%dt", max(h, minRows), max(w, minCols))
}
