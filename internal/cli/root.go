// Package cli implements the speakboard command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/speakboard/internal/i18n"
	"github.com/mesh-intelligence/speakboard/internal/paths"
	"github.com/mesh-intelligence/speakboard/pkg/speakboard"
	"github.com/mesh-intelligence/speakboard/pkg/sqlite"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backupDir string
	lang      string
	jsonMode  bool
	verbose   bool
}

// app carries the state shared by subcommands of one invocation.
type app struct {
	flags  rootFlags
	cfg    *viper.Viper
	logger *slog.Logger
	tr     *i18n.Translator
	stderr io.Writer
}

// NewRootCmd creates the top-level "speakboard" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{stderr: os.Stderr}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "speakboard",
		Short:   "A picture board that speaks",
		Long:    "Speakboard manages the cards of an augmentative communication board:\nspeak cards that say a phrase and folders that group them.",
		Version: speakboard.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.speakboard-db)")
	pf.StringVar(&a.flags.backupDir, "backup-dir", "", "backup directory (default: $(CWD)/backups)")
	pf.StringVar(&a.flags.lang, "lang", "", "message language (en, ms)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		a.versionCmd(),
		a.initCmd(),
		a.listCmd(),
		a.showCmd(),
		a.addCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.speakCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.symbolsCmd(),
		a.serveCmd(),
	)
	return root
}

// setup loads configuration and builds the logger and translator. The
// version command needs none of it.
func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	a.tr = i18n.New(a.flags.lang, os.Getenv("LANG"))

	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolving config dir: %w", err))
	}
	if err := loadDotEnv(configDir); err != nil {
		return systemError(err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return systemError(err)
	}
	a.cfg = cfg
	a.tr = i18n.New(a.flags.lang, cfg.GetString(cfgKeyLanguage), os.Getenv("LANG"))
	a.logger.Debug("configuration loaded", "config_dir", configDir, "file", cfg.ConfigFileUsed())
	return nil
}

// openBoard resolves the data directory and attaches a SQLite board. The
// caller must Detach it.
func (a *app) openBoard() (types.Board, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, systemError(fmt.Errorf("resolving data dir: %w", err))
	}
	config := types.Config{
		Backend: a.cfg.GetString(cfgKeyBackend),
		DataDir: dataDir,
		Seed:    a.cfg.GetBool(cfgKeySeed),
	}
	board := sqlite.NewBackend()
	if err := board.Attach(config); err != nil {
		return nil, systemError(fmt.Errorf("attaching board: %w", err))
	}
	a.logger.Debug("board attached", "data_dir", dataDir)
	return board, nil
}

// withBoard runs fn against an attached board and detaches it afterwards.
func (a *app) withBoard(fn func(board types.Board) error) error {
	board, err := a.openBoard()
	if err != nil {
		return err
	}
	defer board.Detach()
	return fn(board)
}

// sysError marks failures of the environment rather than of the input.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func systemError(err error) error {
	if err == nil {
		return nil
	}
	return &sysError{err: err}
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *sysError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}

// report prints err to w, translated when it is a known board error.
func report(w io.Writer, tr *i18n.Translator, err error) {
	if tr == nil {
		tr = i18n.New()
	}
	if i18n.ErrorKey(err) == i18n.Unexpected {
		fmt.Fprintln(w, "speakboard:", err)
		return
	}
	fmt.Fprintf(w, "speakboard: %s (%v)\n", tr.ForError(err), err)
}

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{stderr: os.Stderr}
	root := a.rootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		report(a.stderr, a.tr, err)
	}
	return exitCode(err)
}
