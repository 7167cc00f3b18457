package services

import (
	"github.com/andrescamacho/factory-planner/internal/domain/planning"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// RecipeTotal is the combined demand placed on one recipe across all branches
type RecipeTotal struct {
	Recipe  *production.Recipe
	Product production.ResourceQuantity
}

// ProductionLine is one row of the aggregate view
type ProductionLine struct {
	Label           string
	Production      *production.TargetedProduction
	RPM             float64
	ExecutionFactor float64
}

// ResourceTotals is the aggregate of one tree's active path.
//
// RawTotals holds every leaf demand. SourceTotals, UnresolvedTotals and
// CyclicTotals split the same quantities by leaf kind.
type ResourceTotals struct {
	recipeOrder []string
	recipes     map[string]*RecipeTotal

	RawTotals        *production.ResourceQuantities
	SourceTotals     *production.ResourceQuantities
	UnresolvedTotals *production.ResourceQuantities
	CyclicTotals     *production.ResourceQuantities

	revision uint64
}

func newResourceTotals(revision uint64) *ResourceTotals {
	return &ResourceTotals{
		recipes:          make(map[string]*RecipeTotal),
		RawTotals:        production.NewResourceQuantities(),
		SourceTotals:     production.NewResourceQuantities(),
		UnresolvedTotals: production.NewResourceQuantities(),
		CyclicTotals:     production.NewResourceQuantities(),
		revision:         revision,
	}
}

// addProduction accumulates a ProdNode's output under its recipe id. A recipe
// reached for a different product of the same recipe is converted to the first
// product's rate at the same station count.
func (t *ResourceTotals) addProduction(node *planning.ProdNode) {
	id := node.Recipe().ID
	existing, ok := t.recipes[id]
	if !ok {
		t.recipes[id] = &RecipeTotal{
			Recipe:  node.Recipe(),
			Product: node.Product().N(node.RPM()),
		}
		t.recipeOrder = append(t.recipeOrder, id)
		return
	}

	rpm := node.RPM()
	if existing.Product.ResourceID() != node.Product().ID {
		first := existing.Recipe.MustProduction(existing.Product.Resource)
		rpm = node.Stations() * first.BaseRPM
	}
	existing.Product.Quantity += rpm
}

func (t *ResourceTotals) addEnd(node *planning.EndNode) {
	q := node.Quantity()
	t.RawTotals.Add(q)
	switch node.EndKind() {
	case planning.EndSource:
		t.SourceTotals.Add(q)
	case planning.EndUnresolved:
		t.UnresolvedTotals.Add(q)
	case planning.EndCyclic:
		t.CyclicTotals.Add(q)
	}
}

// RecipeTotals returns the per-recipe totals in first-visit order
func (t *ResourceTotals) RecipeTotals() []RecipeTotal {
	out := make([]RecipeTotal, 0, len(t.recipeOrder))
	for _, id := range t.recipeOrder {
		out = append(out, *t.recipes[id])
	}
	return out
}

// RecipeTotal returns the total for one recipe id
func (t *ResourceTotals) RecipeTotal(recipeID string) (RecipeTotal, bool) {
	total, ok := t.recipes[recipeID]
	if !ok {
		return RecipeTotal{}, false
	}
	return *total, true
}

// CalculateProductions converts every recipe total into the number of 1x
// executions it needs in aggregate. Graph structure is ignored.
func (t *ResourceTotals) CalculateProductions() []ProductionLine {
	lines := make([]ProductionLine, 0, len(t.recipeOrder))
	for _, id := range t.recipeOrder {
		total := t.recipes[id]
		prod := total.Recipe.MustProduction(total.Product.Resource)
		lines = append(lines, ProductionLine{
			Label:           total.Recipe.Name,
			Production:      prod,
			RPM:             total.Product.Quantity,
			ExecutionFactor: total.Product.Quantity / prod.BaseRPM,
		})
	}
	return lines
}

// Revision returns the tree revision the totals were computed from
func (t *ResourceTotals) Revision() uint64 {
	return t.revision
}

// IsStale reports whether an alternative was selected after aggregation
func (t *ResourceTotals) IsStale(tree *planning.ProductionTree) bool {
	return tree.Revision() != t.revision
}

// ResourceAggregator totals recipe and leaf demand along a tree's active path
type ResourceAggregator struct{}

// NewResourceAggregator creates a new ResourceAggregator
func NewResourceAggregator() *ResourceAggregator {
	return &ResourceAggregator{}
}

// Aggregate walks the active path once. Inactive candidates are never visited.
func (a *ResourceAggregator) Aggregate(tree *planning.ProductionTree) *ResourceTotals {
	totals := newResourceTotals(tree.Revision())
	planning.WalkActive(tree.Root(), func(n planning.Node) bool {
		switch node := n.(type) {
		case *planning.ProdNode:
			totals.addProduction(node)
		case *planning.EndNode:
			totals.addEnd(node)
		}
		return true
	})
	return totals
}
