package tree

import "math"

// Tidy is the Reingold–Tilford placement.
//
// The first walk (post-order) computes a preliminary x per node: leaves sit
// one sibling step right of their left sibling, parents sit at the midpoint
// of their outer children. A parent with a left sibling is placed after that
// sibling instead, and the difference to the midpoint is stored as mod so
// that its subtree follows. Subtrees are then pushed right until their left
// contour clears the right contour of every left sibling.
//
// The second walk (pre-order) resolves x = prelim + sum of ancestor mods and
// y = depth * LevelHeight.
type Tidy struct{}

// Name returns "tidy".
func (Tidy) Name() string { return StrategyTidy }

// Place positions every node under root.
func (Tidy) Place(root *Node, cfg Config) {
	if root == nil {
		return
	}
	cfg = cfg.WithDefaults()
	depth := 0
	if root.virtual {
		depth = -1
	}
	walk(root, func(n *Node) { n.prelim, n.mod = 0, 0 })
	firstWalk(root, cfg, depth, nil, 0)
	secondWalk(root, cfg, 0)
}

func firstWalk(n *Node, cfg Config, depth int, siblings []*Node, idx int) {
	n.Depth = depth
	for i, c := range n.Children {
		firstWalk(c, cfg, depth+1, n.Children, i)
	}

	var left *Node
	if idx > 0 {
		left = siblings[idx-1]
	}

	if n.IsLeaf() {
		if left != nil {
			n.prelim = left.prelim + cfg.siblingStep()
		}
	} else {
		first, last := n.Children[0], n.Children[len(n.Children)-1]
		mid := (first.prelim + last.prelim) / 2
		if left != nil {
			n.prelim = left.prelim + cfg.siblingStep()
			n.mod = n.prelim - mid
		} else {
			n.prelim = mid
		}
	}

	if idx > 0 {
		separate(n, siblings[:idx], cfg)
	}
}

// separate shifts n's subtree right until it clears every left sibling's
// subtree on all shared depths.
func separate(n *Node, lefts []*Node, cfg Config) {
	lc := make(map[int]float64)
	contour(n, 0, lc, math.Min)

	rc := make(map[int]float64)
	for _, s := range lefts {
		contour(s, 0, rc, math.Max)
	}

	var shift float64
	for d, l := range lc {
		r, ok := rc[d]
		if !ok {
			continue
		}
		sep := cfg.subtreeStep()
		if d == n.Depth {
			sep = cfg.siblingStep()
		}
		if need := r + sep - l; need > shift {
			shift = need
		}
	}
	if shift > 0 {
		n.prelim += shift
		n.mod += shift
	}
}

// contour records, per depth, the extreme x chosen by pick over n's subtree.
func contour(n *Node, modSum float64, out map[int]float64, pick func(a, b float64) float64) {
	x := n.prelim + modSum
	if cur, ok := out[n.Depth]; ok {
		out[n.Depth] = pick(cur, x)
	} else {
		out[n.Depth] = x
	}
	for _, c := range n.Children {
		contour(c, modSum+n.mod, out, pick)
	}
}

func secondWalk(n *Node, cfg Config, modSum float64) {
	n.X = n.prelim + modSum
	n.Y = float64(n.Depth) * cfg.LevelHeight
	for _, c := range n.Children {
		secondWalk(c, cfg, modSum+n.mod)
	}
}
