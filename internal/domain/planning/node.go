package planning

import (
	"fmt"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// NodeKind discriminates the three tree node variants
type NodeKind string

const (
	// NodeKindEnd is a terminal: raw extraction, an unresolved product or a cut cycle
	NodeKindEnd NodeKind = "END"

	// NodeKindAlternatives groups competing recipes for one intermediate product
	NodeKindAlternatives NodeKind = "ALTERNATIVES"

	// NodeKindProduction is one recipe running at a given rate
	NodeKindProduction NodeKind = "PRODUCTION"
)

// EndKind explains why a branch stops at an EndNode
type EndKind string

const (
	// EndSource marks a raw resource, extracted rather than produced
	EndSource EndKind = "source"

	// EndUnresolved marks a non-raw resource no catalog recipe produces
	EndUnresolved EndKind = "unresolved"

	// EndCyclic marks a dependency that would re-enter a recipe already on the path
	EndCyclic EndKind = "cyclic"
)

// Node is a production tree node. Renderers only need Kind, Summary and Children.
//
// Children returns the production's requirements for a ProdNode, every candidate
// for an AltNode and nothing for an EndNode.
type Node interface {
	Kind() NodeKind
	Summary() string
	Children() []Node
	Parent() Node

	setParent(parent Node)
}

// EndNode is a tree leaf carrying the demanded quantity of a resource
type EndNode struct {
	parent   Node
	quantity production.ResourceQuantity
	endKind  EndKind
}

// NewEndNode creates a leaf for the given demand
func NewEndNode(quantity production.ResourceQuantity, kind EndKind) *EndNode {
	return &EndNode{quantity: quantity, endKind: kind}
}

func (n *EndNode) Kind() NodeKind        { return NodeKindEnd }
func (n *EndNode) Children() []Node      { return nil }
func (n *EndNode) Parent() Node          { return n.parent }
func (n *EndNode) setParent(parent Node) { n.parent = parent }
func (n *EndNode) EndKind() EndKind      { return n.endKind }
func (n *EndNode) IsSource() bool        { return n.endKind == EndSource }
func (n *EndNode) IsUnresolved() bool    { return n.endKind == EndUnresolved }
func (n *EndNode) IsCyclic() bool        { return n.endKind == EndCyclic }
func (n *EndNode) Resource() *production.Resource {
	return n.quantity.Resource
}

// Quantity returns the demanded per-minute quantity
func (n *EndNode) Quantity() production.ResourceQuantity {
	return n.quantity
}

func (n *EndNode) Summary() string {
	return fmt.Sprintf("%s [%s] %.1f p.m.", n.quantity.Resource.Name, n.endKind, n.quantity.Quantity)
}

// AltNode holds every recipe that can satisfy one demanded resource.
// Exactly one candidate is active; the index changes only through Select.
type AltNode struct {
	parent     Node
	tree       *ProductionTree
	product    production.ResourceQuantity
	candidates []*ProdNode
	active     int
}

// NewAltNode creates an alternatives node for the demanded quantity
func NewAltNode(demand production.ResourceQuantity) *AltNode {
	return &AltNode{product: demand}
}

func (n *AltNode) Kind() NodeKind        { return NodeKindAlternatives }
func (n *AltNode) Parent() Node          { return n.parent }
func (n *AltNode) setParent(parent Node) { n.parent = parent }

// Product returns the resource the candidates compete to produce
func (n *AltNode) Product() *production.Resource {
	return n.product.Resource
}

// Demand returns the per-minute quantity every candidate is built for
func (n *AltNode) Demand() production.ResourceQuantity {
	return n.product
}

// Add appends a fully built (or depth-truncated) candidate
func (n *AltNode) Add(candidate *ProdNode) {
	candidate.setParent(n)
	n.candidates = append(n.candidates, candidate)
}

// Len returns the number of candidates
func (n *AltNode) Len() int {
	return len(n.candidates)
}

// Candidates returns all candidates in their current order
func (n *AltNode) Candidates() []*ProdNode {
	out := make([]*ProdNode, len(n.candidates))
	copy(out, n.candidates)
	return out
}

func (n *AltNode) Children() []Node {
	out := make([]Node, len(n.candidates))
	for i, c := range n.candidates {
		out[i] = c
	}
	return out
}

// ActiveIndex returns the index of the selected candidate
func (n *AltNode) ActiveIndex() int {
	return n.active
}

// Active returns the selected candidate. It panics with
// *ErrInvalidAlternativeSelection when there are no candidates.
func (n *AltNode) Active() *ProdNode {
	if len(n.candidates) == 0 {
		panic(&ErrInvalidAlternativeSelection{ProductID: n.product.Resource.ID, Index: n.active})
	}
	return n.candidates[n.active]
}

// IsActive reports whether candidate is the selected one
func (n *AltNode) IsActive(candidate *ProdNode) bool {
	return len(n.candidates) > 0 && n.candidates[n.active] == candidate
}

// Select changes the active candidate. Aggregates and graphs derived from the
// owning tree become stale.
func (n *AltNode) Select(index int) error {
	if index < 0 || index >= len(n.candidates) {
		return &ErrInvalidAlternativeSelection{
			ProductID:  n.product.Resource.ID,
			Index:      index,
			Candidates: len(n.candidates),
		}
	}
	if index == n.active {
		return nil
	}
	n.active = index
	if n.tree != nil {
		n.tree.revision++
	}
	return nil
}

// SelectRecipe activates the candidate running the given recipe
func (n *AltNode) SelectRecipe(recipeID string) error {
	for i, c := range n.candidates {
		if c.recipe.ID == recipeID {
			return n.Select(i)
		}
	}
	return &ErrInvalidAlternativeSelection{
		ProductID:  n.product.Resource.ID,
		Index:      -1,
		Candidates: len(n.candidates),
	}
}

// Sort orders candidates with cmp (stable) and resets the selection to the first one
func (n *AltNode) Sort(cmp CandidateComparator) {
	sortCandidates(n.candidates, cmp)
	n.active = 0
}

func (n *AltNode) Summary() string {
	if len(n.candidates) == 0 {
		return fmt.Sprintf("%s: no alternatives", n.product.Resource.Name)
	}
	return fmt.Sprintf("%s: %d alternative(s), using %q", n.product.Resource.Name,
		len(n.candidates), n.Active().recipe.Name)
}

// ProdNode runs one recipe at the rate its parent demands
type ProdNode struct {
	parent     Node
	recipe     *production.Recipe
	production *production.TargetedProduction
	rpm        float64
	depth      int
	expanded   bool
	children   []Node
}

// NewProdNode creates an unexpanded production node at the given tree depth
func NewProdNode(recipe *production.Recipe, prod *production.TargetedProduction, rpm float64, depth int) *ProdNode {
	return &ProdNode{
		recipe:     recipe,
		production: prod,
		rpm:        rpm,
		depth:      depth,
		children:   make([]Node, 0),
	}
}

func (n *ProdNode) Kind() NodeKind        { return NodeKindProduction }
func (n *ProdNode) Parent() Node          { return n.parent }
func (n *ProdNode) setParent(parent Node) { n.parent = parent }

func (n *ProdNode) Recipe() *production.Recipe                 { return n.recipe }
func (n *ProdNode) Production() *production.TargetedProduction { return n.production }
func (n *ProdNode) RPM() float64                               { return n.rpm }
func (n *ProdNode) Depth() int                                 { return n.depth }

// Product returns the resource this node is producing
func (n *ProdNode) Product() *production.Resource {
	return n.production.Product
}

// Stations returns the number of 1x executions needed for this node's rate
func (n *ProdNode) Stations() float64 {
	return n.production.StationsFor(n.rpm)
}

// AddChild attaches a requirement subtree
func (n *ProdNode) AddChild(child Node) {
	child.setParent(n)
	n.children = append(n.children, child)
}

// MarkExpanded records that requirements were resolved into children
func (n *ProdNode) MarkExpanded() {
	n.expanded = true
}

// Expanded reports whether requirements were resolved into children
func (n *ProdNode) Expanded() bool {
	return n.expanded
}

// DepthTruncated reports that the node has requirements which were not resolved
// because the depth limit was reached. A recipe without inputs is never truncated.
func (n *ProdNode) DepthTruncated() bool {
	return !n.expanded && len(n.production.Resources) > 0
}

// Requirements returns the per-minute inputs at this node's rate
func (n *ProdNode) Requirements() []production.ResourceQuantity {
	return n.production.ForRPM(n.rpm).Resources
}

// Byproducts returns the per-minute side outputs at this node's rate
func (n *ProdNode) Byproducts() []production.ResourceQuantity {
	return n.production.ForRPM(n.rpm).Byproducts
}

func (n *ProdNode) Children() []Node {
	out := make([]Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *ProdNode) Summary() string {
	s := fmt.Sprintf("Recipe %q %s", n.recipe.Name, n.production.StringForRPM(n.rpm))
	if n.DepthTruncated() {
		s += " (depth limit)"
	}
	return s
}
