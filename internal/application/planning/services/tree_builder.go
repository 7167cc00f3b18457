package services

import (
	"fmt"

	"github.com/andrescamacho/factory-planner/internal/application/logging"
	"github.com/andrescamacho/factory-planner/internal/domain/planning"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
)

// DefaultMaxDepth is the deepest tree level that still gets its requirements resolved
const DefaultMaxDepth = 15

// TreeBuilder expands a target recipe into a tree of recipe alternatives.
//
// The builder only ever asks the catalog which recipes produce a resource.
// Raw resources end as source leaves, resources nobody produces end as
// unresolved leaves, and every other requirement becomes an AltNode holding one
// ProdNode per candidate recipe, each sized to the demanded rate.
type TreeBuilder struct {
	catalog      production.RecipeFinder
	maxDepth     int
	comparator   planning.CandidateComparator
	detectCycles bool
	logger       logging.Logger
}

// TreeBuilderOption configures a TreeBuilder
type TreeBuilderOption func(*TreeBuilder)

// WithMaxDepth sets the depth bound. The root is depth 0.
func WithMaxDepth(depth int) TreeBuilderOption {
	return func(b *TreeBuilder) { b.maxDepth = depth }
}

// WithComparator sets the candidate ordering used for every AltNode
func WithComparator(cmp planning.CandidateComparator) TreeBuilderOption {
	return func(b *TreeBuilder) { b.comparator = cmp }
}

// WithCycleDetection makes the builder stop at recipes already on the current path
func WithCycleDetection(enabled bool) TreeBuilderOption {
	return func(b *TreeBuilder) { b.detectCycles = enabled }
}

// WithTreeLogger attaches a logger for build diagnostics
func WithTreeLogger(logger logging.Logger) TreeBuilderOption {
	return func(b *TreeBuilder) { b.logger = logger }
}

// NewTreeBuilder creates a builder over the given catalog
func NewTreeBuilder(catalog production.RecipeFinder, opts ...TreeBuilderOption) *TreeBuilder {
	b := &TreeBuilder{
		catalog:    catalog,
		maxDepth:   DefaultMaxDepth,
		comparator: planning.DefaultComparator(),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// MaxDepth returns the configured depth bound
func (b *TreeBuilder) MaxDepth() int {
	return b.maxDepth
}

// Build resolves the full dependency tree for producing targetRPM of
// targetProduct with rootRecipe.
//
// A node at depth d has its requirements resolved when d <= MaxDepth; nodes
// created one level below the bound stay unexpanded and report DepthTruncated.
func (b *TreeBuilder) Build(
	rootRecipe *production.Recipe,
	targetProduct *production.Resource,
	targetRPM float64,
) (*planning.ProductionTree, error) {
	if rootRecipe == nil {
		return nil, shared.NewValidationError("recipe", "is required")
	}
	if targetProduct == nil {
		return nil, shared.NewValidationError("product", "is required")
	}
	if targetRPM <= 0 {
		return nil, shared.NewValidationError("rpm", fmt.Sprintf("must be positive, got %g", targetRPM))
	}
	if b.maxDepth < 0 {
		return nil, shared.NewValidationError("max_depth", fmt.Sprintf("must not be negative, got %d", b.maxDepth))
	}

	prod, ok := rootRecipe.Production(targetProduct)
	if !ok {
		return nil, &production.ErrProductNotProduced{RecipeID: rootRecipe.ID, ProductID: targetProduct.ID}
	}

	root := planning.NewProdNode(rootRecipe, prod, targetRPM, 0)
	b.expand(root, []string{rootRecipe.ID})

	tree := planning.NewProductionTree(root, targetRPM, b.maxDepth)

	if truncated := tree.TruncatedNodes(); len(truncated) > 0 {
		b.logger.Log(logging.LevelWarn, "Depth limit reached while building production tree", map[string]interface{}{
			"max_depth":       b.maxDepth,
			"truncated_nodes": len(truncated),
			"root_recipe":     rootRecipe.ID,
		})
	}
	b.logger.Log(logging.LevelDebug, "Production tree built", map[string]interface{}{
		"root_recipe": rootRecipe.ID,
		"product":     targetProduct.ID,
		"rpm":         targetRPM,
		"nodes":       tree.CountNodes(),
		"depth":       tree.Depth(),
	})

	return tree, nil
}

// expand resolves the requirements of node into child subtrees. path holds the
// recipe ids from the root down to node and is only consulted when cycle
// detection is on.
func (b *TreeBuilder) expand(node *planning.ProdNode, path []string) {
	if node.Depth() > b.maxDepth {
		return
	}
	node.MarkExpanded()

	for _, required := range node.Requirements() {
		node.AddChild(b.resolve(required, node.Depth()+1, path))
	}
}

func (b *TreeBuilder) resolve(required production.ResourceQuantity, depth int, path []string) planning.Node {
	resource := required.Resource
	if resource.IsRaw {
		return planning.NewEndNode(required, planning.EndSource)
	}

	recipes := b.catalog.FindRecipesByProduct(resource)
	if len(recipes) == 0 {
		b.logger.Log(logging.LevelDebug, "No recipe produces resource", map[string]interface{}{
			"resource": resource.ID,
			"rpm":      required.Quantity,
		})
		return planning.NewEndNode(required, planning.EndUnresolved)
	}

	alt := planning.NewAltNode(required)
	cyclic := 0
	for _, recipe := range recipes {
		if b.detectCycles && onPath(path, recipe.ID) {
			cyclic++
			b.logger.Log(logging.LevelDebug, "Skipping recipe already on the dependency path", map[string]interface{}{
				"recipe": recipe.ID,
				"path":   path,
			})
			continue
		}
		prod, ok := recipe.Production(resource)
		if !ok {
			continue
		}
		candidate := planning.NewProdNode(recipe, prod, required.Quantity, depth)
		b.expand(candidate, appendPath(path, recipe.ID))
		alt.Add(candidate)
	}

	if alt.Len() == 0 {
		if cyclic > 0 {
			return planning.NewEndNode(required, planning.EndCyclic)
		}
		return planning.NewEndNode(required, planning.EndUnresolved)
	}

	alt.Sort(b.comparator)
	return alt
}

func onPath(path []string, recipeID string) bool {
	for _, id := range path {
		if id == recipeID {
			return true
		}
	}
	return false
}

// appendPath copies so sibling branches never share a backing array
func appendPath(path []string, recipeID string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, recipeID)
}
