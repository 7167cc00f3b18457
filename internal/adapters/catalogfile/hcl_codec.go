package catalogfile

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// hclCatalogFile is the top-level structure of an HCL catalog:
//
//	resource "iron_ore" {
//	  name = "Iron Ore"
//	  raw  = true
//	}
//
//	recipe "iron_ingot" {
//	  name       = "Iron Ingot"
//	  cycle_secs = 2
//	  input "iron_ore" { quantity = 1 }
//	  output "iron_ingot" { quantity = 1 }
//	}
type hclCatalogFile struct {
	Resources []*hclResource `hcl:"resource,block"`
	Recipes   []*hclRecipe   `hcl:"recipe,block"`
}

type hclResource struct {
	ID   string `hcl:"id,label"`
	Name string `hcl:"name"`
	Raw  *bool  `hcl:"raw,optional"`
}

type hclRecipe struct {
	ID         string          `hcl:"id,label"`
	Name       string          `hcl:"name"`
	CycleSecs  float64         `hcl:"cycle_secs"`
	SourceName *string         `hcl:"source_name,optional"`
	Inputs     []*hclComponent `hcl:"input,block"`
	Outputs    []*hclComponent `hcl:"output,block"`
}

type hclComponent struct {
	ID       string  `hcl:"id,label"`
	Quantity float64 `hcl:"quantity"`
}

func readHCL(path string) (*production.Catalog, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var parsed hclCatalogFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	return docToCatalog(path, hclToDoc(&parsed))
}

func hclToDoc(parsed *hclCatalogFile) catalogDoc {
	components := func(in []*hclComponent) []componentDoc {
		out := make([]componentDoc, 0, len(in))
		for _, c := range in {
			out = append(out, componentDoc{ID: c.ID, Quantity: c.Quantity})
		}
		return out
	}

	doc := catalogDoc{}
	for _, r := range parsed.Resources {
		doc.Resources = append(doc.Resources, resourceDoc{
			ID:   r.ID,
			Name: r.Name,
			Raw:  r.Raw != nil && *r.Raw,
		})
	}
	for _, r := range parsed.Recipes {
		doc.Recipes = append(doc.Recipes, recipeDoc{
			ID:         r.ID,
			Name:       r.Name,
			CycleSecs:  r.CycleSecs,
			SourceName: r.SourceName,
			Resources:  components(r.Inputs),
			Products:   components(r.Outputs),
		})
	}
	return doc
}

func docToHCL(doc catalogDoc) *hclCatalogFile {
	components := func(in []componentDoc) []*hclComponent {
		out := make([]*hclComponent, 0, len(in))
		for _, c := range in {
			out = append(out, &hclComponent{ID: c.ID, Quantity: c.Quantity})
		}
		return out
	}

	file := &hclCatalogFile{}
	for _, r := range doc.Resources {
		res := &hclResource{ID: r.ID, Name: r.Name}
		if r.Raw {
			raw := true
			res.Raw = &raw
		}
		file.Resources = append(file.Resources, res)
	}
	for _, r := range doc.Recipes {
		file.Recipes = append(file.Recipes, &hclRecipe{
			ID:         r.ID,
			Name:       r.Name,
			CycleSecs:  r.CycleSecs,
			SourceName: r.SourceName,
			Inputs:     components(r.Resources),
			Outputs:    components(r.Products),
		})
	}
	return file
}

func writeHCL(path string, catalog *production.Catalog) error {
	out := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(docToHCL(catalogToDoc(catalog)), out.Body())
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
