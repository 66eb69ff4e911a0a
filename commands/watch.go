package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/tmplvet/report"
	"github.com/c360studio/tmplvet/validate"
	"github.com/c360studio/tmplvet/watch"
)

// newWatchCmd builds the watch subcommand: re-validate on file changes
// until interrupted. Exit status reflects the last completed run.
func newWatchCmd(configPath *string) *cobra.Command {
	var (
		profileFlag string
		formatFlag  string
	)

	cmd := &cobra.Command{
		Use:   "watch <path>",
		Short: "Re-validate a template library on every change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("profile") {
				cfg.Validation.Profile = profileFlag
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

			var lastVerdict report.Verdict

			watcher := watch.New(root, func(ctx context.Context) {
				rep, err := runValidation(ctx, root, cfg, profile)
				if err != nil {
					slog.Error("Validation run failed", slog.String("error", err.Error()))
					return
				}
				lastVerdict = rep.Overall
				if err := rep.Render(os.Stdout, format); err != nil {
					slog.Error("Render report", slog.String("error", err.Error()))
				}
				fmt.Println("---")
			}, slog.Default())

			err = watcher.Run(cmd.Context())
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			if lastVerdict.ExitCode() != 0 {
				return ErrValidationFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileFlag, "profile", string(validate.ProfileDraft), "Validation profile (draft or release)")
	cmd.Flags().StringVar(&formatFlag, "format", string(report.FormatText), "Report format (text or json)")

	return cmd
}
