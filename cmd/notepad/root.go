package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/notepad/internal/app"
	"github.com/marcus/notepad/internal/config"
	"github.com/marcus/notepad/internal/keymap"
	"github.com/marcus/notepad/internal/kv"
	"github.com/marcus/notepad/internal/notes"
	"github.com/marcus/notepad/internal/version"
)

var (
	configPath  string
	dataDir     string
	backendName string
	logFile     string
	debugFlag   bool
	ephemeral   bool
	versionFlag bool
)

// Set up by PersistentPreRunE for every command.
var (
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "notepad",
	Short: "A terminal notepad",
	Long: `notepad keeps a list of short notes in a local store and edits them
in a two-pane terminal UI. Run without a subcommand to open the UI.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, logCloser, err = openLogger(cfg, debugFlag)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFlag {
			fmt.Printf("notepad version %s\n", version.Effective(Version))
			return nil
		}
		return runTUI(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "notepad: %v\n", err)
		os.Exit(1)
	}
}

// execute runs the command tree with args. The log is closed here rather
// than in a post-run hook, which cobra skips when a command fails.
func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	defer closeLog()
	return rootCmd.ExecuteContext(ctx)
}

func closeLog() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to config file (json, toml or yaml)")
	pf.StringVar(&dataDir, "data-dir", "", "directory holding the notes store")
	pf.StringVar(&backendName, "backend", "", "storage backend: file, sqlite, sqlite-pure, bolt, memory")
	pf.StringVar(&logFile, "log-file", "", `log destination, "-" for stderr`)
	pf.BoolVar(&debugFlag, "debug", false, "enable debug logging")
	pf.BoolVar(&ephemeral, "ephemeral", false, "keep notes in memory only")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "print version and exit")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		c.Storage.DataDir = dataDir
	}
	if flags.Changed("backend") {
		c.Storage.Backend = backendName
		c.Storage.Path = ""
	}
	if flags.Changed("log-file") {
		c.Log.File = logFile
	}
	if ephemeral {
		c.Storage.Backend = string(kv.BackendMemory)
	}
	if debugFlag {
		c.Log.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// openLogger returns a text logger writing to the configured destination.
func openLogger(c *config.Config, debug bool) (*slog.Logger, io.Closer, error) {
	level, err := config.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	path := c.LogPath()
	if path == "-" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}

// session is the core state shared by the UI and the subcommands.
type session struct {
	backend   kv.Store
	store     *notes.Store
	selection *notes.Selection
	deletion  *notes.DeletionWorkflow
}

func openSession(ctx context.Context) (*session, error) {
	backend, err := kv.Open(kv.Options{
		Backend: kv.Backend(cfg.Storage.Backend),
		Path:    cfg.StoragePath(),
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}
	logger.Debug("notepad: store opened", "backend", cfg.Storage.Backend, "path", cfg.StoragePath())

	store, err := notes.Open(ctx, backend, notes.WithLogger(logger))
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("load notes: %w", err)
	}
	sel := notes.NewSelection()
	flow, err := notes.NewDeletionWorkflow(ctx, store, sel, backend, notes.WithLogger(logger))
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return &session{backend: backend, store: store, selection: sel, deletion: flow}, nil
}

func (s *session) Close() error {
	return s.backend.Close()
}

func runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	for key, cmdID := range cfg.Keymap.Overrides {
		km.SetUserOverride(key, cmdID)
	}

	path := configPath
	if path == "" {
		path = config.ConfigPath()
	}
	updates, err := config.Watch(ctx, path, logger)
	if err != nil {
		logger.Warn("notepad: config watch disabled", "path", path, "err", err)
	}

	model := app.New(ctx, app.Options{
		Store:         s.store,
		Selection:     s.selection,
		Deletion:      s.deletion,
		Keymap:        km,
		Config:        cfg,
		ConfigPath:    path,
		ConfigUpdates: updates,
		Logger:        logger,
		Version:       version.Effective(Version),
	})
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
