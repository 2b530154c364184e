package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skilltree/pkg/pipeline"
)

func (c *CLI) renderCommand() *cobra.Command {
	var lf layoutFlags
	var rf renderFlags

	cmd := &cobra.Command{
		Use:   "render [records.yaml]",
		Short: "Lay out and render a records file in one step",
		Long: `Lay out a records file and render it. Outputs are written next to the
input (or to -o) with one extension per format.`,
		Example: `  skilltree render skills.yaml
  skilltree render skills.yaml -f svg,png --path bezier
  skilltree render skills.yaml --highlight whirlwind --state cleave=owned
  skilltree render skills.yaml -f dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			opts.Input = args[0]
			lf.apply(cmd, &opts)
			if err := rf.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runRender(cmd, opts, lf.noCache, rf.output)
		},
	}

	lf.bind(cmd)
	rf.bind(cmd)
	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts pipeline.Options, noCache bool, output string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if output == "-" && len(opts.Formats) != 1 {
		return fmt.Errorf("stdout output needs exactly one format, got %d", len(opts.Formats))
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered", "formats", opts.Formats)

	if output == "-" {
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(basePath(output, opts.Input), opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", opts.Input)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.Dangling, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if result.Stats.Dangling > 0 {
		printWarning("%d requirement(s) point at missing records", result.Stats.Dangling)
	}
	return nil
}

// writeArtifacts writes one file per format in formats order and returns
// the paths written. The json artifact is a layout and gets .layout.json.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(base, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func artifactPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}
