package production

import (
	"fmt"
	"strings"
)

// TargetedProduction is a recipe viewed from one of its products.
//
// Resources and Byproducts are expressed per one unit of Product, so ForRPM(rpm)
// yields what a production line delivering rpm units per minute consumes and
// emits. BaseRPM is the throughput of a single station.
type TargetedProduction struct {
	Product    *Resource
	Resources  []ResourceQuantity
	Byproducts []ResourceQuantity
	BaseRPM    float64
}

// ProductionResources are the inputs and side outputs of a production at some rate
type ProductionResources struct {
	Resources  []ResourceQuantity
	Byproducts []ResourceQuantity
}

// ForRPM scales inputs and byproducts to the given product rate
func (p *TargetedProduction) ForRPM(rpm float64) ProductionResources {
	resources := make([]ResourceQuantity, len(p.Resources))
	for i, r := range p.Resources {
		resources[i] = r.Scale(rpm)
	}
	byproducts := make([]ResourceQuantity, len(p.Byproducts))
	for i, b := range p.Byproducts {
		byproducts[i] = b.Scale(rpm)
	}
	return ProductionResources{Resources: resources, Byproducts: byproducts}
}

// StationsFor returns the number of stations needed to deliver rpm
func (p *TargetedProduction) StationsFor(rpm float64) float64 {
	return rpm / p.BaseRPM
}

// GetBaseRPM exposes BaseRPM as a method value for sorting helpers
func (p *TargetedProduction) GetBaseRPM() float64 {
	return p.BaseRPM
}

func (p *TargetedProduction) String() string {
	return p.StringForRPM(p.BaseRPM)
}

// StringForRPM renders e.g. `2.0x "Iron Ingot": [60.0x(Iron Ore) -> 60.0x(Iron Ingot) p.m.]`
func (p *TargetedProduction) StringForRPM(rpm float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.1fx %q: [", p.StationsFor(rpm), p.Product.Name)
	for i, r := range p.Resources {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(r.Scale(rpm).String())
	}
	fmt.Fprintf(&b, " -> %.1fx(%s)", rpm, p.Product.Name)
	for _, bp := range p.Byproducts {
		b.WriteString(" + ")
		b.WriteString(bp.Scale(rpm).String())
	}
	b.WriteString(" p.m.]")
	return b.String()
}
