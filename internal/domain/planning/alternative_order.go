package planning

import (
	"cmp"
	"slices"
)

// CandidateComparator orders alternative recipes; negative means a sorts first
type CandidateComparator func(a, b *ProdNode) int

// AlternativeOrder names a candidate sort policy
type AlternativeOrder string

const (
	// OrderStations prefers the recipe whose single station yields the most of the
	// target per minute, i.e. the one needing the fewest stations
	OrderStations AlternativeOrder = "stations"

	// OrderFewestInputs prefers the recipe consuming the least input per unit of product
	OrderFewestInputs AlternativeOrder = "inputs"

	// OrderCatalog keeps catalog order
	OrderCatalog AlternativeOrder = "catalog"
)

var comparators = map[AlternativeOrder]CandidateComparator{
	OrderStations: func(a, b *ProdNode) int {
		return cmp.Compare(b.production.BaseRPM, a.production.BaseRPM)
	},
	OrderFewestInputs: func(a, b *ProdNode) int {
		return cmp.Compare(inputPerUnit(a), inputPerUnit(b))
	},
	OrderCatalog: func(a, b *ProdNode) int { return 0 },
}

// Comparator returns the comparator for a named order
func Comparator(order AlternativeOrder) (CandidateComparator, error) {
	c, ok := comparators[order]
	if !ok {
		return nil, &ErrUnknownAlternativeOrder{Order: string(order)}
	}
	return c, nil
}

// DefaultComparator is the stations order
func DefaultComparator() CandidateComparator {
	return comparators[OrderStations]
}

// KnownAlternativeOrders lists the registered order names
func KnownAlternativeOrders() []AlternativeOrder {
	return []AlternativeOrder{OrderStations, OrderFewestInputs, OrderCatalog}
}

func inputPerUnit(n *ProdNode) float64 {
	total := 0.0
	for _, r := range n.production.Resources {
		total += r.Quantity
	}
	return total
}

func sortCandidates(candidates []*ProdNode, c CandidateComparator) {
	if c == nil {
		c = DefaultComparator()
	}
	slices.SortStableFunc(candidates, c)
}
