package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/tmplvet/graph"
	"github.com/c360studio/tmplvet/validate"
)

// newGraphCmd builds the graph subcommand: dump the dependency graph
// as text, JSON, or graphviz dot.
func newGraphCmd(configPath *string) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "graph <path>",
		Short: "Dump the dependency graph of a template library",
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

			g := graph.Build(load.Registry)
			analysis := g.Analyze()

			switch formatFlag {
			case "json":
				return renderGraphJSON(cmd.OutOrStdout(), g, analysis)
			case "dot":
				return renderGraphDot(cmd.OutOrStdout(), g)
			case "text":
				return renderGraphText(cmd.OutOrStdout(), g, analysis)
			default:
				return fmt.Errorf("unknown format: %q", formatFlag)
			}
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "text", "Output format (text, json, or dot)")
	return cmd
}

func renderGraphText(w io.Writer, g *graph.Graph, analysis *graph.Analysis) error {
	for _, edge := range g.Edges {
		fmt.Fprintf(w, "%s -> %s\n", edge.Source, edge.Target)
	}
	for _, edge := range g.Dangling {
		fmt.Fprintf(w, "%s -> %s (dangling)\n", edge.Source, edge.Target)
	}
	for _, cycle := range analysis.Cycles {
		fmt.Fprintf(w, "cycle: %s\n", strings.Join(cycle, " -> "))
	}
	if analysis.Acyclic() {
		fmt.Fprintf(w, "order: %s\n", strings.Join(analysis.Order, ", "))
	}
	return nil
}

func renderGraphJSON(w io.Writer, g *graph.Graph, analysis *graph.Analysis) error {
	payload := struct {
		Nodes    []string     `json:"nodes"`
		Edges    []graph.Edge `json:"edges"`
		Dangling []graph.Edge `json:"dangling,omitempty"`
		Cycles   [][]string   `json:"cycles,omitempty"`
		Order    []string     `json:"order,omitempty"`
	}{
		Nodes:    g.Nodes,
		Edges:    g.Edges,
		Dangling: g.Dangling,
		Cycles:   analysis.Cycles,
		Order:    analysis.Order,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func renderGraphDot(w io.Writer, g *graph.Graph) error {
	var sb strings.Builder
	sb.WriteString("digraph templates {\n")
	for _, node := range g.Nodes {
		sb.WriteString(fmt.Sprintf("  %q;\n", node))
	}
	for _, edge := range g.Edges {
		sb.WriteString(fmt.Sprintf("  %q -> %q;\n", edge.Source, edge.Target))
	}
	for _, edge := range g.Dangling {
		sb.WriteString(fmt.Sprintf("  %q -> %q [style=dashed, color=red];\n", edge.Source, edge.Target))
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
