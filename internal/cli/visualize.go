package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/pipeline"
)

func (c *CLI) visualizeCommand() *cobra.Command {
	var rf renderFlags
	var noCache bool

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a previously computed layout",
		Long: `Render a layout.json produced by "skilltree layout" without laying the
records out again. The visualization type is read from the layout.`,
		Example: `  skilltree visualize skills.layout.json
  skilltree visualize skills.layout.json -f pdf --width 1600 --height 1000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			opts.Input = args[0]
			if err := rf.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runVisualize(cmd, opts, noCache, rf.output)
		},
	}

	rf.bind(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

func (c *CLI) runVisualize(cmd *cobra.Command, opts pipeline.Options, noCache bool, output string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	l, err := readLayout(opts.Input)
	if err != nil {
		return err
	}
	opts.VizType = l.VizType

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return err
	}
	prog.done("Rendered layout", "formats", opts.Formats)

	if output == "-" {
		if len(opts.Formats) != 1 {
			return fmt.Errorf("stdout output needs exactly one format, got %d", len(opts.Formats))
		}
		_, err := os.Stdout.Write(artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(basePath(output, opts.Input), opts.Formats, artifacts)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", opts.Input)
	printStats(len(l.Nodes), len(l.Edges), 0, cached)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// readLayout reads and validates a layout.json.
func readLayout(path string) (graph.Layout, error) {
	if _, err := os.Stat(path); err != nil {
		return graph.Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file not found: %s", path)
	}
	l, err := graph.ReadLayoutFile(path)
	if err != nil {
		return graph.Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read layout")
	}
	if err := l.Validate(); err != nil {
		return graph.Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout")
	}
	return l, nil
}
