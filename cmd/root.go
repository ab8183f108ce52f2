// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"marquee/internal/browser"
	"marquee/internal/config"
	"marquee/internal/httputil"
	"marquee/internal/player"
	"marquee/internal/store"
	"marquee/internal/tmdb"
	"marquee/internal/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagPlayer    string
	flagLanguage  string
	flagJSON      bool
	flagDebug     bool
	flagNoHistory bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// logger writes to stderr until the TUI takes over the terminal.
var logger = zerolog.Nop()

var rootCmd = &cobra.Command{
	Use:   "marquee [query]",
	Short: "Browse movies and watch trailers from the terminal",
	Long: `Marquee browses The Movie Database from the terminal.
Search for movies, read what they are about, and play their trailers with
mpv, vlc or a web browser. Recently watched trailers are remembered.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              browseRun,
	SilenceUsage:      true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "marquee %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Trailer player: mpv | vlc | iina | celluloid | browser")
	rootCmd.PersistentFlags().StringVarP(&flagLanguage, "language", "l", "", "Metadata language, e.g. en-US")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not read or write the recently watched list")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(trailerCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagLanguage != "" {
		cfg.Language = flagLanguage
	}
	if flagDebug {
		cfg.Debug = true
	}
	if flagNoHistory {
		cfg.History = false
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	httputil.UserAgent = "marquee/" + Version
	logger = newLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}, cfg.Debug)
	return nil
}

// newLogger builds the process logger. Without debug only warnings and
// errors are written.
func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// openStore opens the history store. With history disabled an in-memory
// store is used so the session still tracks what was watched.
func openStore() (store.KV, func() error, error) {
	if !cfg.History {
		return store.NewMemory(), func() error { return nil }, nil
	}
	path, err := config.StorePath()
	if err != nil {
		return nil, nil, err
	}
	db, err := store.OpenSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history store: %w", err)
	}
	logger.Debug().Str("path", path).Msg("history store opened")
	return db, db.Close, nil
}

// newSource builds the TMDB client. It fails without a credential.
func newSource() (*tmdb.Client, error) {
	if err := cfg.LoadCredential(); err != nil {
		return nil, err
	}
	return tmdb.NewClient(cfg.APIKey, tmdb.Options{
		BaseURL:           "https://" + cfg.APIBase + "/3",
		Language:          cfg.Language,
		Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
}

// session bundles what every network command needs.
type session struct {
	mgr   *browser.Manager
	close func()
}

func newSession(opts ...browser.Option) (*session, error) {
	src, err := newSource()
	if err != nil {
		return nil, err
	}
	kv, closeStore, err := openStore()
	if err != nil {
		return nil, err
	}
	mgr := browser.New(src, kv, append([]browser.Option{browser.WithLogger(logger)}, opts...)...)
	return &session{
		mgr: mgr,
		close: func() {
			mgr.Close()
			if err := closeStore(); err != nil {
				logger.Warn().Err(err).Msg("closing history store")
			}
		},
	}, nil
}

func playbackOptions() player.Options {
	return player.DefaultOptions(cfg.Width, cfg.Height)
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// browseRun is the default command: marquee [query]
func browseRun(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	ctx := cmd.Context()

	if !isInteractive() {
		logger.Debug().Msg("stdout is not a terminal, printing results")
		return printListing(cmd, query)
	}

	// The TUI owns the terminal; keep logging out of it. This has to happen
	// before the session is built so its components log to the file.
	closeLog, err := logToFile()
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	p := player.New(cfg.Player)
	if !p.Available() {
		logger.Warn().Str("player", p.Name()).Msg("player not found in PATH, trailers will fail to play")
	}

	return ui.Run(ctx, s.mgr, p, ui.Options{
		InitialQuery: query,
		ImageHost:    cfg.ImageBase,
		Playback:     playbackOptions(),
		Logger:       logger,
	})
}

// printListing prints the discover listing, or the search results for query.
func printListing(cmd *cobra.Command, query string) error {
	s, err := newSession(browser.WithAutoSelectFirstResult(false))
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.mgr.Search(cmd.Context(), query); err != nil {
		return err
	}
	return printMovies(cmd.OutOrStdout(), s.mgr.Snapshot().Results, flagJSON)
}

// logToFile points the logger at the log file in the data directory.
func logToFile() (func(), error) {
	path, err := config.LogPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logger = newLogger(f, cfg.Debug)
	return func() { f.Close() }, nil
}
