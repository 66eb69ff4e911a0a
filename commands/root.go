// Package commands wires the tmplvet CLI surface.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/tmplvet/config"
)

// Version is the tmplvet release version.
const Version = "0.1.0"

// ErrValidationFailed signals a completed run whose verdict requires
// rework. It maps to exit code 1, as opposed to invocation errors
// which map to exit code 2.
var ErrValidationFailed = errors.New("validation failed")

// NewRootCmd builds the tmplvet root command.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "tmplvet",
		Short: "Template library validator",
		Long: `Tmplvet validates a library of prompt templates: commands and the
components they include.

It parses YAML frontmatter and bodies, resolves cross-references into a
dependency graph, and runs staged validation (structural, functional,
integration, performance) producing a report that gates changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newValidateCmd(&configPath))
	cmd.AddCommand(newListCmd(&configPath))
	cmd.AddCommand(newGraphCmd(&configPath))
	cmd.AddCommand(newWatchCmd(&configPath))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// configureLogging installs a text slog handler on stderr at the
// requested level.
func configureLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadConfig loads configuration: an explicit --config file over
// defaults, or the layered user/project lookup otherwise.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return cfg, nil
	}
	return config.NewLoader(slog.Default()).Load()
}

// resolveRoot turns a positional path argument into an absolute,
// verified directory path.
func resolveRoot(arg string) (string, error) {
	root, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", root)
	}
	return root, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tmplvet version %s\n", Version)
		},
	}
}
