package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gguarino/torrentjanitor/config"
	"github.com/gguarino/torrentjanitor/janitor"
	"github.com/gguarino/torrentjanitor/qbittorrent"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *qbittorrent.Client

	// Command flags
	dryRun  bool
	verbose bool

	appVersion   = "dev"
	appBuildTime = "unknown"
)

// SetVersion records the build metadata injected by main.
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = fmt.Sprintf("%s (built %s)", appVersion, appBuildTime)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "torrentjanitor",
	Short: "Automated qBittorrent cleanup and maintenance",
	Long: `torrentjanitor polls qBittorrent on a fixed interval, classifies every
torrent against configurable health rules, and removes torrents that keep
violating those rules across consecutive checks. Transient problems are
absorbed by a per-torrent grace period before anything is deleted.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "simulate removals without making changes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")
}

// initializeApp initializes the configuration, logger and client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override dry-run from command line if specified
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = dryRun
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := os.MkdirAll(cfg.Paths.WorkDir, 0o755); err != nil {
		return fmt.Errorf("failed to create work dir: %w", err)
	}

	logger = setupLogger(cfg)

	client = qbittorrent.NewClient(
		cfg.Qbittorrent.Host,
		cfg.Qbittorrent.Port,
		cfg.Qbittorrent.Username,
		cfg.Qbittorrent.Password,
		cfg.Qbittorrent.Timeout,
		cfg.Qbittorrent.VerifySSL,
		logger,
	)

	return nil
}

// setupLogger configures the zerolog logger: console output on a terminal,
// JSON otherwise, always teed into a size-rotated log file in the work dir.
func setupLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Paths.WorkDir, cfg.Paths.LogFile),
		MaxSize:    cfg.Logging.MaxFileSizeMB,
		MaxBackups: cfg.Logging.MaxFiles,
	}

	var consoleWriter zerolog.LevelWriter
	if isatty.IsTerminal(os.Stderr.Fd()) {
		consoleWriter = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	} else {
		consoleWriter = zerolog.MultiLevelWriter(os.Stderr)
	}

	return zerolog.New(zerolog.MultiLevelWriter(consoleWriter, fileWriter)).
		With().Timestamp().Logger()
}

// newJanitor wires the janitor from the loaded config and client.
func newJanitor() (*janitor.Janitor, error) {
	store := janitor.NewStore(
		filepath.Join(cfg.Paths.WorkDir, cfg.Paths.StateFile),
		filepath.Join(cfg.Paths.WorkDir, cfg.Paths.StatsFile),
		logger,
	)
	return janitor.New(client, cfg, store, logger)
}
