package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/tmplvet/config"
	"github.com/c360studio/tmplvet/registry"
	"github.com/c360studio/tmplvet/report"
	"github.com/c360studio/tmplvet/validate"
)

// newValidateCmd builds the validate subcommand: one full pipeline run
// over a directory, report to stdout or a file.
func newValidateCmd(configPath *string) *cobra.Command {
	var (
		profileFlag string
		formatFlag  string
		outputPath  string
		timeoutFlag time.Duration
	)

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a template library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("profile") {
				cfg.Validation.Profile = profileFlag
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Validation.Timeout = timeoutFlag
			}

			profile, err := validate.ParseProfile(cfg.Validation.Profile)
			if err != nil {
				return err
			}
			format, err := report.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			root, err := resolveRoot(args[0])
			if err != nil {
				return err
			}

			rep, err := runValidation(cmd.Context(), root, cfg, profile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			if err := rep.Render(out, format); err != nil {
				return err
			}

			if rep.Overall.ExitCode() != 0 {
				return ErrValidationFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", string(validate.ProfileDraft), "Validation profile (draft or release)")
	cmd.Flags().StringVar(&formatFlag, "format", string(report.FormatText), "Report format (text or json)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 2*time.Minute, "Overall run deadline")

	return cmd
}

// runValidation performs one scan-parse-validate cycle and builds the
// report. A deadline overrun yields a rejected report, not an error.
func runValidation(ctx context.Context, root string, cfg *config.Config, profile validate.Profile) (*report.Report, error) {
	runCtx, cancel := context.WithTimeout(ctx, cfg.Validation.Timeout)
	defer cancel()

	start := time.Now()

	load, err := validate.Load(runCtx, root, validate.LoadOptions{
		Include:         cfg.Scan.Include,
		Exclude:         cfg.Scan.Exclude,
		Workers:         cfg.Validation.Workers,
		GlobalNamespace: cfg.Validation.GlobalNamespace,
	})
	if err != nil {
		if runCtx.Err() == nil {
			return nil, err
		}
		// Deadline expired during the load phase. The run still
		// reports: an empty load result through the pipeline yields
		// the rejected verdict with a timeout finding.
		load = &validate.LoadResult{Registry: registry.New()}
	}

	pipeline := validate.NewPipeline(profile, cfg.Thresholds,
		validate.WithWorkers(cfg.Validation.Workers))
	outcome := pipeline.Run(runCtx, load)

	rep := report.New(outcome, profile)

	slog.Info("Validation complete",
		slog.String("verdict", string(rep.Overall)),
		slog.Int("documents", rep.Stats.Documents),
		slog.Int("issues", rep.IssueCount()),
		slog.Duration("elapsed", time.Since(start)))

	return rep, nil
}
