package tree

// Columns is the column-centering placement used by default.
//
// Columns are assigned depth first: a leaf takes the next free column, a
// parent with one child inherits that child's column, and a parent with
// several children takes the column of child floor((n-1)/2). That index is
// left-biased for even child counts; the choice is arbitrary and kept only
// for output stability.
//
// Depth is read from memoized parent chains. Pixel x is
// (column - mean column) * (NodeWidth + SiblingSpacing), so the tree is
// centered on x = 0.
type Columns struct{}

// Name returns "columns".
func (Columns) Name() string { return StrategyColumns }

// Place positions every node under root.
func (Columns) Place(root *Node, cfg Config) {
	if root == nil {
		return
	}
	cfg = cfg.WithDefaults()

	next := 0
	var assign func(n *Node)
	assign = func(n *Node) {
		for _, c := range n.Children {
			assign(c)
		}
		switch len(n.Children) {
		case 0:
			n.Column = next
			next++
		case 1:
			n.Column = n.Children[0].Column
		default:
			n.Column = n.Children[middleChild(len(n.Children))].Column
		}
	}
	assign(root)

	memo := make(map[*Node]int)
	var sum float64
	var count int
	walk(root, func(n *Node) {
		if n.virtual {
			n.Depth = -1
			return
		}
		n.Depth = depthOf(n, memo)
		sum += float64(n.Column)
		count++
	})
	if count == 0 {
		return
	}

	avg := sum / float64(count)
	walk(root, func(n *Node) {
		n.X = (float64(n.Column) - avg) * cfg.siblingStep()
		n.Y = float64(n.Depth) * cfg.LevelHeight
	})
}

// middleChild returns the index of the child whose column a parent with n
// children takes.
func middleChild(n int) int { return (n - 1) / 2 }

// depthOf walks the parent chain of n until it reaches a root or a memoized
// ancestor, then fills the memo on the way back down.
func depthOf(n *Node, memo map[*Node]int) int {
	var chain []*Node
	base := -1
	for cur := n; cur != nil; cur = cur.Parent {
		if d, ok := memo[cur]; ok {
			base = d
			break
		}
		chain = append(chain, cur)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		base++
		memo[chain[i]] = base
	}
	return memo[n]
}
