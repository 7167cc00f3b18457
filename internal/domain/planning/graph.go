package planning

import (
	"slices"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// DefaultScaleMaxDepth bounds the recursion of one UpdateScales pass
const DefaultScaleMaxDepth = 20

// GraphNode is one distinct recipe in a production graph.
//
// Consumers and producers are kept as recipe id sets; the owning graph resolves
// them, so nodes never hold each other directly.
type GraphNode struct {
	graph     *ProductionGraph
	recipe    *ScaledRecipe
	consumers idSet
	producers idSet
	level     int
}

func (n *GraphNode) Recipe() *ScaledRecipe { return n.recipe }
func (n *GraphNode) RecipeID() string      { return n.recipe.RecipeID() }
func (n *GraphNode) Scale() float64        { return n.recipe.Scale() }
func (n *GraphNode) Level() int            { return n.level }

// Consumers returns the nodes that take this node's products, in link order
func (n *GraphNode) Consumers() []*GraphNode {
	return n.graph.resolve(n.consumers)
}

// Producers returns the nodes this node takes inputs from, in link order
func (n *GraphNode) Producers() []*GraphNode {
	return n.graph.resolve(n.producers)
}

func (n *GraphNode) ConsumerCount() int { return n.consumers.len() }
func (n *GraphNode) ProducerCount() int { return n.producers.len() }

// ResourceDemand sums what the consumers currently require of this node's products
func (n *GraphNode) ResourceDemand() *production.ResourceQuantities {
	demand := production.NewResourceQuantities()
	products := n.recipe.Recipe().Products
	for _, consumer := range n.Consumers() {
		for _, required := range consumer.recipe.ScaledComponents().Resources.Values() {
			if products.Contains(required.ResourceID()) {
				demand.Add(required)
			}
		}
	}
	return demand
}

// UpdateScale raises this node's scale to cover its consumers' demand.
// Reports whether the scale changed.
func (n *GraphNode) UpdateScale(integerMode bool) bool {
	changed := n.recipe.ScaleForMinRPM(n.ResourceDemand())
	if integerMode && n.recipe.CeilScale() {
		changed = true
	}
	return changed
}

// ProductionGraph is a DAG of distinct recipes derived from a production tree.
// It owns its nodes, keyed by recipe id, and has exactly one root.
type ProductionGraph struct {
	nodes          map[string]*GraphNode
	order          []string
	rootID         string
	sourceRevision uint64
	scaleMaxDepth  int
}

// NewProductionGraph creates a graph whose root runs rootRecipe at rootScale
func NewProductionGraph(rootRecipe *production.Recipe, rootScale float64) *ProductionGraph {
	g := &ProductionGraph{
		nodes:         make(map[string]*GraphNode),
		scaleMaxDepth: DefaultScaleMaxDepth,
	}
	root := g.newNode(rootRecipe, rootScale, 0)
	g.rootID = root.RecipeID()
	return g
}

func (g *ProductionGraph) newNode(recipe *production.Recipe, scale float64, level int) *GraphNode {
	node := &GraphNode{
		graph:  g,
		recipe: NewScaledRecipe(recipe, scale),
		level:  level,
	}
	g.nodes[recipe.ID] = node
	g.order = append(g.order, recipe.ID)
	return node
}

// Link records that the parent recipe consumes from recipe. The node for recipe
// is created at scale 1 one level below the parent, or reused with its level
// lowered to parent.level+1 when that is smaller.
func (g *ProductionGraph) Link(parent *GraphNode, recipe *production.Recipe) *GraphNode {
	level := parent.level + 1
	node, exists := g.nodes[recipe.ID]
	if !exists {
		node = g.newNode(recipe, 1.0, level)
	} else if level < node.level {
		node.level = level
	}
	parent.producers.add(node.RecipeID())
	node.consumers.add(parent.RecipeID())
	return node
}

// Root returns the node of the end-product recipe
func (g *ProductionGraph) Root() *GraphNode {
	return g.nodes[g.rootID]
}

// Node returns the node for a recipe id
func (g *ProductionGraph) Node(recipeID string) (*GraphNode, bool) {
	n, ok := g.nodes[recipeID]
	return n, ok
}

// Len returns the number of distinct recipes
func (g *ProductionGraph) Len() int {
	return len(g.nodes)
}

// Nodes returns every node in creation order
func (g *ProductionGraph) Nodes() []*GraphNode {
	out := make([]*GraphNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// AsOrderedList returns nodes by ascending level, root first; ties keep creation order
func (g *ProductionGraph) AsOrderedList() []*GraphNode {
	out := g.Nodes()
	slices.SortStableFunc(out, func(a, b *GraphNode) int {
		return a.level - b.level
	})
	return out
}

// Scales snapshots the scale of every node
func (g *ProductionGraph) Scales() map[string]float64 {
	out := make(map[string]float64, len(g.nodes))
	for id, n := range g.nodes {
		out[id] = n.Scale()
	}
	return out
}

// SetScaleMaxDepth changes the recursion bound used by UpdateScales
func (g *ProductionGraph) SetScaleMaxDepth(depth int) {
	g.scaleMaxDepth = depth
}

func (g *ProductionGraph) ScaleMaxDepth() int { return g.scaleMaxDepth }

// SetSourceRevision records the tree revision the graph was converted from
func (g *ProductionGraph) SetSourceRevision(revision uint64) {
	g.sourceRevision = revision
}

// IsStale reports whether the tree's active path changed after conversion
func (g *ProductionGraph) IsStale(tree *ProductionTree) bool {
	return tree.Revision() != g.sourceRevision
}

func (g *ProductionGraph) resolve(ids idSet) []*GraphNode {
	out := make([]*GraphNode, 0, ids.len())
	for _, id := range ids.items {
		out = append(out, g.nodes[id])
	}
	return out
}

// idSet is an insertion-ordered set of recipe ids
type idSet struct {
	items []string
	seen  map[string]struct{}
}

func (s *idSet) add(id string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.items = append(s.items, id)
}

func (s *idSet) len() int {
	return len(s.items)
}
