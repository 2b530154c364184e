package pipeline

import (
	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/render/nodelink"
	"github.com/matzehuels/skilltree/pkg/tree"
)

// GenerateLayout builds and places the records for opts and returns the
// serialized layout together with the number of unresolved requirements.
// Nodelink layouts carry the DOT source as well as the tree positions.
func GenerateLayout(records []tree.Record, opts Options) (graph.Layout, int, error) {
	strategy, err := tree.StrategyByName(opts.Strategy)
	if err != nil {
		return graph.Layout{}, 0, err
	}

	dangling := 0
	debug := opts.Debug
	onDangling := debug.OnDangling
	debug.OnDangling = func(nodeID, requirementID string) {
		dangling++
		if onDangling != nil {
			onDangling(nodeID, requirementID)
		}
	}

	engine := tree.New(
		tree.WithConfig(opts.Layout),
		tree.WithStrategy(strategy),
		tree.WithLogger(opts.Logger),
		tree.WithDebug(debug),
	)
	res := engine.Layout(records, tree.ByCategory(opts.Category))

	meta := graph.Meta{Strategy: strategy.Name(), Category: opts.Category, Config: opts.Layout}
	if opts.IsNodelink() {
		return nodelink.Export(res, nodelinkOptions(opts), meta), dangling, nil
	}
	return graph.FromResult(res, meta), dangling, nil
}

func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{
		Detailed: opts.Detailed,
		States:   opts.StateFunc(),
		Palette:  opts.Connector.Palette,
	}
}
