package services

import (
	"github.com/andrescamacho/factory-planner/internal/domain/planning"
)

// GraphConverter collapses a production tree into a DAG of distinct recipes
type GraphConverter struct {
	scaleMaxDepth int
}

// NewGraphConverter creates a converter whose graphs use scaleMaxDepth for
// scale propagation. Zero or less keeps the graph default.
func NewGraphConverter(scaleMaxDepth int) *GraphConverter {
	return &GraphConverter{scaleMaxDepth: scaleMaxDepth}
}

// ConvertToGraph follows the active path of tree. Every recipe id becomes one
// node; repeated recipes are merged and keep their shallowest level.
func (c *GraphConverter) ConvertToGraph(tree *planning.ProductionTree) *planning.ProductionGraph {
	root := tree.Root()
	graph := planning.NewProductionGraph(root.Recipe(), root.Stations())
	graph.SetSourceRevision(tree.Revision())
	if c.scaleMaxDepth > 0 {
		graph.SetScaleMaxDepth(c.scaleMaxDepth)
	}

	for _, child := range root.Children() {
		c.visit(graph, graph.Root(), child)
	}
	return graph
}

func (c *GraphConverter) visit(graph *planning.ProductionGraph, parent *planning.GraphNode, n planning.Node) {
	switch node := n.(type) {
	case *planning.AltNode:
		c.visit(graph, parent, node.Active())
	case *planning.ProdNode:
		current := graph.Link(parent, node.Recipe())
		for _, child := range node.Children() {
			c.visit(graph, current, child)
		}
	case *planning.EndNode:
	}
}
