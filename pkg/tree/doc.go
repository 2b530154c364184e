// Package tree lays out a dependency graph of records as a 2-D tree diagram.
//
// # Overview
//
// Records are flat: each has an ID and an ordered list of requirement IDs.
// The first requirement that resolves to another record in the filtered set
// becomes the node's structural parent and drives positioning. Every other
// requirement is informational: it is kept on the node (see [Prerequisites])
// and surfaces as an [InformationalEdge] for connector rendering, but never
// moves a node.
//
// Records without a resolvable requirement are roots. When several roots
// exist they are grouped under a virtual root that seeds the layout and is
// never returned to the caller.
//
// # Strategies
//
// Two placement algorithms are available behind the [Strategy] interface:
//
//   - [Tidy]: a Reingold–Tilford walk. Parents are centered over their
//     children; subtrees are pushed apart so that no two nodes on the same
//     depth are closer than NodeWidth + SiblingSpacing.
//   - [Columns]: integer column assignment. Leaves take consecutive columns,
//     parents take the column of their middle child, and the whole tree is
//     centered around x = 0.
//
// Usage:
//
//	eng := tree.New(tree.WithStrategy(tree.Columns{}))
//	res := eng.Layout(records, tree.ByCategory("fire"))
//	for _, n := range res.Nodes {
//	    fmt.Println(n.ID, n.X, n.Y)
//	}
//
// # Coordinates
//
// Node X/Y are centers. Y grows downward, one LevelHeight per depth. The
// returned [geom.Bounds] covers every real node inflated by half the node
// size.
//
// # Errors
//
// Layout never fails. Empty input yields an empty [Result]; dangling or
// cyclic requirements demote the node to a root and are logged as warnings.
package tree
