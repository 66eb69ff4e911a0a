package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/c360studio/tmplvet/validate"
)

// newListCmd builds the list subcommand: a table of parsed documents.
func newListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list <path>",
		Short: "List the documents in a template library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			root, err := resolveRoot(args[0])
			if err != nil {
				return err
			}

			load, err := validate.Load(cmd.Context(), root, validate.LoadOptions{
				Include:         cfg.Scan.Include,
				Exclude:         cfg.Scan.Exclude,
				Workers:         cfg.Validation.Workers,
				GlobalNamespace: cfg.Validation.GlobalNamespace,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tPATH\tREFERENCES")
			for _, doc := range load.Registry.All() {
				refs := "-"
				if len(doc.References) > 0 {
					refs = strings.Join(doc.References, ", ")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", doc.ID, doc.Category, doc.Path, refs)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			for _, f := range load.Failures {
				fmt.Fprintf(cmd.OutOrStdout(), "unparseable: %s (%v)\n", f.Path, f.Err)
			}
			return nil
		},
	}
}
