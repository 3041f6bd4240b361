package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sc3stuff/sc3stuff"
)

var (
	configPath string
	dbPath     string
	logLevel   string

	cfg sc3stuff.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sc3stuff",
	Short: "Extract and catalogue SeisComP event parameters.",
	Long:  `sc3stuff reads SC3ML archives, extracts the event graph around an ` +
		`event (preferred origin, its picks and their amplitudes) and keeps the ` +
		`result in a SQLite catalogue that can be listed, searched by hypocentre ` +
		`and exported as an XLSX bulletin.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		var err error
		cfg, err = sc3stuff.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		setupLogging(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "catalogue database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

// setupLogging installs a text handler on stderr so stdout stays clean
// for command output.
func setupLogging(level string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openCatalog() (sc3stuff.Catalog, error) {
	return sc3stuff.New(cfg)
}
