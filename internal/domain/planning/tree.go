package planning

import (
	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// ProductionTree is the expanded dependency structure for one planning request.
//
// The tree is read-only once built except for alternative selection. Every
// selection change bumps Revision, which lets aggregates and graphs tell that
// they were derived from an older active path.
type ProductionTree struct {
	root          *ProdNode
	targetProduct *production.Resource
	targetRPM     float64
	maxDepth      int
	revision      uint64
}

// NewProductionTree wraps a built root and binds its alternative nodes to the tree
func NewProductionTree(root *ProdNode, targetRPM float64, maxDepth int) *ProductionTree {
	t := &ProductionTree{
		root:          root,
		targetProduct: root.Product(),
		targetRPM:     targetRPM,
		maxDepth:      maxDepth,
	}
	Walk(root, func(n Node) bool {
		if alt, ok := n.(*AltNode); ok {
			alt.tree = t
		}
		return true
	})
	return t
}

func (t *ProductionTree) Root() *ProdNode                     { return t.root }
func (t *ProductionTree) TargetProduct() *production.Resource { return t.targetProduct }
func (t *ProductionTree) TargetRPM() float64                  { return t.targetRPM }
func (t *ProductionTree) MaxDepth() int                       { return t.maxDepth }
func (t *ProductionTree) Revision() uint64                    { return t.revision }

// Walk visits n and every descendant depth-first, including inactive candidates.
// Returning false from visit skips the node's subtree.
func Walk(n Node, visit func(Node) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, visit)
	}
}

// WalkActive visits n and its descendants following only active alternatives.
// AltNodes themselves are visited before their active candidate.
func WalkActive(n Node, visit func(Node) bool) {
	if !visit(n) {
		return
	}
	switch node := n.(type) {
	case *ProdNode:
		for _, child := range node.children {
			WalkActive(child, visit)
		}
	case *AltNode:
		WalkActive(node.Active(), visit)
	case *EndNode:
	}
}

// CountNodes returns the number of nodes including inactive candidates
func (t *ProductionTree) CountNodes() int {
	count := 0
	Walk(t.root, func(Node) bool {
		count++
		return true
	})
	return count
}

// Depth returns the largest number of ProdNode levels on any root-to-leaf path
func (t *ProductionTree) Depth() int {
	return prodDepth(t.root)
}

func prodDepth(n Node) int {
	best := 0
	for _, child := range n.Children() {
		if d := prodDepth(child); d > best {
			best = d
		}
	}
	if n.Kind() == NodeKindProduction {
		return best + 1
	}
	return best
}

// TruncatedNodes returns every ProdNode left unexpanded by the depth limit,
// including those under inactive candidates
func (t *ProductionTree) TruncatedNodes() []*ProdNode {
	out := make([]*ProdNode, 0)
	Walk(t.root, func(n Node) bool {
		if p, ok := n.(*ProdNode); ok && p.DepthTruncated() {
			out = append(out, p)
		}
		return true
	})
	return out
}

// ActiveEnds returns the EndNodes reachable through active alternatives
func (t *ProductionTree) ActiveEnds() []*EndNode {
	out := make([]*EndNode, 0)
	WalkActive(t.root, func(n Node) bool {
		if e, ok := n.(*EndNode); ok {
			out = append(out, e)
		}
		return true
	})
	return out
}

// ActiveTruncated reports whether the active path contains a depth-truncated node
func (t *ProductionTree) ActiveTruncated() bool {
	truncated := false
	WalkActive(t.root, func(n Node) bool {
		if p, ok := n.(*ProdNode); ok && p.DepthTruncated() {
			truncated = true
		}
		return !truncated
	})
	return truncated
}

// Alternatives returns every AltNode on the active path, in visiting order
func (t *ProductionTree) Alternatives() []*AltNode {
	out := make([]*AltNode, 0)
	WalkActive(t.root, func(n Node) bool {
		if a, ok := n.(*AltNode); ok {
			out = append(out, a)
		}
		return true
	})
	return out
}
