package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andrescamacho/factory-planner/internal/application/catalog/commands"
	"github.com/andrescamacho/factory-planner/internal/infrastructure/config"
)

// parseComponentSpecs parses repeated "ref=quantity" flags, e.g. "Iron Ore=3"
// or "@iron_ore=3". A missing quantity means 1.
func parseComponentSpecs(values []string) ([]commands.ComponentSpec, error) {
	specs := make([]commands.ComponentSpec, 0, len(values))
	for _, value := range values {
		ref, qty, hasQty := cutLast(value, "=")
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return nil, fmt.Errorf("invalid component %q: missing resource", value)
		}

		quantity := 1.0
		if hasQty {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(qty), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid component %q: quantity must be a number", value)
			}
			quantity = parsed
		}
		specs = append(specs, commands.ComponentSpec{Ref: ref, Quantity: quantity})
	}
	return specs, nil
}

// parseSelections parses repeated "product_id=recipe_id" flags. A leading "@"
// on either side is accepted and dropped.
func parseSelections(values []string) (map[string]string, error) {
	selections := make(map[string]string, len(values))
	for _, value := range values {
		product, recipe, ok := strings.Cut(value, "=")
		product = strings.TrimPrefix(strings.TrimSpace(product), "@")
		recipe = strings.TrimPrefix(strings.TrimSpace(recipe), "@")
		if !ok || product == "" || recipe == "" {
			return nil, fmt.Errorf("invalid selection %q: expected <product_id>=<recipe_id>", value)
		}
		selections[product] = recipe
	}
	return selections, nil
}

// mergeSelections layers explicit selections over stored preferences
func mergeSelections(preferred, explicit map[string]string) map[string]string {
	merged := make(map[string]string, len(preferred)+len(explicit))
	for k, v := range preferred {
		merged[k] = v
	}
	for k, v := range explicit {
		merged[k] = v
	}
	return merged
}

// loadPreferredSelections returns the stored per-product selections, or none
// when the preferences file cannot be read
func loadPreferredSelections() map[string]string {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return nil
	}
	userCfg, err := handler.Load()
	if err != nil {
		return nil
	}
	return userCfg.Selections
}

// validateInput checks flag structs with the same validator the config uses
func validateInput(input interface{}) error {
	return config.NewValidator().Validate(input)
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
