package planning

// UpdateScales runs one top-down pass from the root, raising every node to the
// demand of its consumers. Reports whether any scale changed.
//
// A single pass does not always reach a fixed point: a producer shared by
// consumers at different depths may be visited before one of those consumers
// grows. Callers that need a stable graph repeat the pass until it reports no
// change (see services.ScalePropagator).
func (g *ProductionGraph) UpdateScales(integerMode bool) bool {
	return g.updateScaleRec(g.Root(), 0, g.scaleMaxDepth, integerMode)
}

func (g *ProductionGraph) updateScaleRec(n *GraphNode, depth, maxDepth int, integerMode bool) bool {
	changed := n.UpdateScale(integerMode)
	if depth >= maxDepth {
		return changed
	}
	for _, producer := range n.Producers() {
		if g.updateScaleRec(producer, depth+1, maxDepth, integerMode) {
			changed = true
		}
	}
	return changed
}
