package catalogfile

import (
	"time"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
)

// resourceDoc is one entry of resources.json
type resourceDoc struct {
	Name string `json:"name" yaml:"name"`
	ID   string `json:"id" yaml:"id"`
	Raw  bool   `json:"raw" yaml:"raw"`
}

type componentDoc struct {
	ID       string  `json:"id" yaml:"id"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
}

// recipeDoc is one entry of recipes.json
type recipeDoc struct {
	Name       string         `json:"name" yaml:"name"`
	ID         string         `json:"id" yaml:"id"`
	CycleSecs  float64        `json:"cycle_secs" yaml:"cycle_secs"`
	Products   []componentDoc `json:"products" yaml:"products"`
	Resources  []componentDoc `json:"resources" yaml:"resources"`
	SourceName *string        `json:"source_name,omitempty" yaml:"source_name,omitempty"`
}

// catalogDoc is the single-document layout used by YAML files
type catalogDoc struct {
	Resources []resourceDoc `yaml:"resources"`
	Recipes   []recipeDoc   `yaml:"recipes"`
}

func resourceToDoc(r *production.Resource) resourceDoc {
	return resourceDoc{Name: r.Name, ID: r.ID, Raw: r.IsRaw}
}

func componentsToDocs(quantities *production.ResourceQuantities) []componentDoc {
	docs := make([]componentDoc, 0, quantities.Len())
	for _, q := range quantities.Values() {
		docs = append(docs, componentDoc{ID: q.ResourceID(), Quantity: q.Quantity})
	}
	return docs
}

func recipeToDoc(r *production.Recipe) recipeDoc {
	doc := recipeDoc{
		Name:      r.Name,
		ID:        r.ID,
		CycleSecs: r.CycleSeconds(),
		Products:  componentsToDocs(r.Products),
		Resources: componentsToDocs(r.Resources),
	}
	if r.SourceName != "" {
		source := r.SourceName
		doc.SourceName = &source
	}
	return doc
}

func catalogToDoc(c *production.Catalog) catalogDoc {
	doc := catalogDoc{
		Resources: make([]resourceDoc, 0),
		Recipes:   make([]recipeDoc, 0),
	}
	for _, r := range c.Resources() {
		doc.Resources = append(doc.Resources, resourceToDoc(r))
	}
	for _, r := range c.Recipes() {
		doc.Recipes = append(doc.Recipes, recipeToDoc(r))
	}
	return doc
}

// docToCatalog builds a catalog snapshot. Resources are added first so recipe
// components can reference any resource of the document. The result is marked
// saved, since it mirrors what is on disk.
func docToCatalog(source string, doc catalogDoc) (*production.Catalog, error) {
	catalog := production.NewCatalog()
	for _, rd := range doc.Resources {
		if rd.ID == "" && rd.Name == "" {
			return nil, shared.NewCatalogFormatError(source, "", "resource without name and id")
		}
		if err := catalog.AddResource(production.NewResource(rd.Name, rd.ID, rd.Raw)); err != nil {
			return nil, err
		}
	}
	for _, rd := range doc.Recipes {
		recipe, err := docToRecipe(source, catalog, rd)
		if err != nil {
			return nil, err
		}
		if err := catalog.AddRecipe(recipe); err != nil {
			return nil, err
		}
	}
	catalog.MarkSaved()
	return catalog, nil
}

func docToRecipe(source string, catalog *production.Catalog, rd recipeDoc) (*production.Recipe, error) {
	resolve := func(components []componentDoc) ([]production.ResourceQuantity, error) {
		out := make([]production.ResourceQuantity, 0, len(components))
		for _, c := range components {
			res, ok := catalog.Resource(c.ID)
			if !ok {
				return nil, shared.NewCatalogFormatError(source, rd.ID, "unknown resource id "+c.ID)
			}
			out = append(out, res.N(c.Quantity))
		}
		return out, nil
	}

	resources, err := resolve(rd.Resources)
	if err != nil {
		return nil, err
	}
	products, err := resolve(rd.Products)
	if err != nil {
		return nil, err
	}

	cycle := time.Duration(rd.CycleSecs * float64(time.Second))
	recipe, err := production.NewRecipe(rd.Name, rd.ID, resources, products, cycle)
	if err != nil {
		return nil, shared.NewCatalogFormatError(source, rd.ID, err.Error())
	}
	if rd.SourceName != nil {
		recipe.SourceName = *rd.SourceName
	}
	return recipe, nil
}
