package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/factory-planner/internal/application/planning/services"
	"github.com/andrescamacho/factory-planner/internal/domain/planning"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// PlanFormatter renders the station plan and the aggregate totals of a plan
type PlanFormatter struct {
	styles outputStyles
}

// NewPlanFormatter creates a new plan formatter
func NewPlanFormatter(useColors bool) *PlanFormatter {
	return &PlanFormatter{styles: newOutputStyles(useColors)}
}

// FormatStations lists every graph node, shallowest first, with the stations
// to build and the per-minute flow through them
func (f *PlanFormatter) FormatStations(graph *planning.ProductionGraph) string {
	if graph == nil || graph.Len() == 0 {
		return "(no stations)"
	}

	var b strings.Builder
	for _, node := range graph.AsOrderedList() {
		recipe := node.Recipe().Recipe()
		scaled := node.Recipe().ScaledComponents()

		header := fmt.Sprintf("%dx %s", node.Recipe().Stations(), recipe.Name)
		b.WriteString(f.styles.Production.Render(header))
		b.WriteString(f.styles.Muted.Render(fmt.Sprintf("  scale %.2f, level %d", node.Scale(), node.Level())))
		if n := node.ConsumerCount(); n > 1 {
			b.WriteString(f.styles.Muted.Render(fmt.Sprintf(", feeds %d stations", n)))
		}
		b.WriteString("\n")

		if recipe.Resources.Len() == 0 {
			source := recipe.SourceName
			if source == "" {
				source = "source"
			}
			fmt.Fprintf(&b, "    IN   %s\n", f.styles.Source.Render(source))
		}
		for _, q := range recipe.Resources.Values() {
			writeFlowLine(&b, "IN ", q, scaled.Resources)
		}
		for _, q := range recipe.Products.Values() {
			writeFlowLine(&b, "OUT", q, scaled.Products)
		}
	}
	return b.String()
}

func writeFlowLine(b *strings.Builder, label string, perCycle production.ResourceQuantity, scaled *production.ResourceQuantities) {
	rpm := 0.0
	if q, ok := scaled.Get(perCycle.ResourceID()); ok {
		rpm = q.Quantity
	}
	fmt.Fprintf(b, "    %s  %6.1f %-24s %8.1f p.m.\n", label, perCycle.Quantity, perCycle.Resource.Name, rpm)
}

// FormatTotals renders the per-recipe executions and the leaf totals
func (f *PlanFormatter) FormatTotals(totals *services.ResourceTotals) string {
	if totals == nil {
		return "(no totals)"
	}

	var b strings.Builder
	b.WriteString(f.styles.Title.Render("Recipes"))
	b.WriteString("\n")
	for _, line := range totals.CalculateProductions() {
		fmt.Fprintf(&b, "  %-28s %8.2fx  %8.1f %s p.m.\n",
			line.Label, line.ExecutionFactor, line.RPM, line.Production.Product.Name)
	}

	f.writeQuantities(&b, "Sources", totals.SourceTotals, f.styles.Source)
	f.writeQuantities(&b, "Unresolved", totals.UnresolvedTotals, f.styles.Error)
	f.writeQuantities(&b, "Cyclic", totals.CyclicTotals, f.styles.Warning)
	return b.String()
}

func (f *PlanFormatter) writeQuantities(b *strings.Builder, title string, quantities *production.ResourceQuantities, style lipglossRenderer) {
	if quantities.Len() == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(f.styles.Title.Render(title))
	b.WriteString("\n")
	for _, q := range quantities.Values() {
		b.WriteString("  ")
		b.WriteString(style.Render(fmt.Sprintf("%-28s %8.1f p.m.", q.Resource.Name, q.Quantity)))
		b.WriteString("\n")
	}
}

// FormatWarnings renders plan warnings, one per line
func (f *PlanFormatter) FormatWarnings(warnings []string) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(f.styles.Warning.Render("⚠ " + w))
		b.WriteString("\n")
	}
	return b.String()
}
