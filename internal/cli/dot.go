package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/demo"
	"github.com/comalice/hsmx/internal/production"
)

// DotOptions holds flags for the dot command.
type DotOptions struct {
	*RootOptions
	YAML bool
}

// NewDotCommand creates the dot command.
func NewDotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dot [EVENT...]",
		Short: "Print the demo graph as Graphviz DOT",
		Long: `Apply the given events to the demo graph, then print its topology as
Graphviz DOT (or YAML with --yaml). The active path is highlighted.

Example:
  hsmx dot E12 | dot -Tsvg > demo.svg`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printGraph(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "print the topology as YAML")

	return cmd
}

func printGraph(cmd *cobra.Command, opts *DotOptions, args []string) error {
	if err := opts.setup(cmd); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	graph := demo.New()
	if opts.Verbose {
		graph.Instrument(opts.Logger)
	}
	m, err := core.NewMachine(graph.Root, core.WithLogger(opts.Logger))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid machine", err)
	}
	for _, name := range args {
		if _, err := m.Evaluate(ctx, demo.Event(name)); err != nil {
			return WrapExitError(ExitFailure, "evaluate "+name, err)
		}
	}

	v := &production.DefaultVisualizer{}
	if opts.YAML {
		data, err := v.ExportYAML(m.Root())
		if err != nil {
			return WrapExitError(ExitFailure, "export yaml", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), v.ExportDOT(m.Root()))
	return err
}
