package tree

import (
	"fmt"
	"slices"
	"strings"
)

// Strategy names accepted by StrategyByName.
const (
	StrategyTidy    = "tidy"
	StrategyColumns = "columns"
)

// DefaultStrategy is the production layout.
const DefaultStrategy = StrategyColumns

// Strategy assigns X, Y, Depth (and for some strategies Column) to every node
// reachable from root. Place must not allocate new nodes.
type Strategy interface {
	Name() string
	Place(root *Node, cfg Config)
}

var strategies = map[string]Strategy{
	StrategyTidy:    Tidy{},
	StrategyColumns: Columns{},
}

// StrategyByName returns the strategy registered under name.
// An empty name selects DefaultStrategy.
func StrategyByName(name string) (Strategy, error) {
	if name == "" {
		name = DefaultStrategy
	}
	s, ok := strategies[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown layout strategy %q (must be one of: %s)", name, strings.Join(StrategyNames(), ", "))
	}
	return s, nil
}

// StrategyNames lists the registered strategy names, sorted.
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for n := range strategies {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
