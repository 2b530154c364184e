package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/pipeline"
)

func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags
	var output string

	cmd := &cobra.Command{
		Use:   "layout [records.yaml]",
		Short: "Compute node positions and write a layout.json",
		Long: `Compute node positions for a records file (JSON or YAML) and write the
result as layout.json. The layout can be rendered later with "skilltree visualize"
or explored with "skilltree explore".`,
		Example: `  skilltree layout skills.yaml
  skilltree layout skills.json --strategy tidy -o tidy.layout.json
  skilltree layout skills.yaml --category melee`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			opts.Input = args[0]
			flags.apply(cmd, &opts)
			return c.runLayout(cmd, opts, flags.noCache, output)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, opts pipeline.Options, noCache bool, output string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	records, err := pipeline.LoadRecords(opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	prog := newProgress(logger)
	l, cached, err := runner.LayoutWithCacheInfo(ctx, records, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Computed layout", "strategy", l.Strategy, "nodes", len(l.Nodes))

	path := output
	if path == "" {
		path = basePath("", opts.Input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, path); err != nil {
		return err
	}

	printSuccess("Layout computed")
	printStats(len(l.Nodes), len(l.Edges), 0, cached)
	printFile(path)
	printNewline()
	printNextStep("Render", "skilltree visualize "+path)
	printNextStep("Explore", "skilltree explore "+path)
	return nil
}
