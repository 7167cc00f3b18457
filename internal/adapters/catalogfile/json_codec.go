package catalogfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// jsonDir reads and writes the two-file layout: a resources file and a recipes
// file, each holding a JSON array, inside one data directory.
type jsonDir struct {
	resourcesFile string
	recipesFile   string
}

func (j *jsonDir) paths(dir string) (string, string) {
	return filepath.Join(dir, j.resourcesFile), filepath.Join(dir, j.recipesFile)
}

// read loads both files. A missing file is an empty list, so a fresh data
// directory yields an empty catalog.
func (j *jsonDir) read(dir string) (*production.Catalog, error) {
	resourcesPath, recipesPath := j.paths(dir)

	var doc catalogDoc
	if err := readJSONArray(resourcesPath, &doc.Resources); err != nil {
		return nil, err
	}
	if err := readJSONArray(recipesPath, &doc.Recipes); err != nil {
		return nil, err
	}
	return docToCatalog(recipesPath, doc)
}

// write stores both files regardless of modification state
func (j *jsonDir) write(dir string, catalog *production.Catalog) error {
	return j.save(dir, catalog, true)
}

// saveModified stores only the sets that changed since the catalog was loaded
func (j *jsonDir) saveModified(dir string, catalog *production.Catalog) error {
	return j.save(dir, catalog, false)
}

func (j *jsonDir) save(dir string, catalog *production.Catalog, all bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	resourcesPath, recipesPath := j.paths(dir)
	doc := catalogToDoc(catalog)

	if all || catalog.RecipesModified() {
		if err := writeJSON(recipesPath, doc.Recipes); err != nil {
			return err
		}
	}
	if all || catalog.ResourcesModified() {
		if err := writeJSON(resourcesPath, doc.Resources); err != nil {
			return err
		}
	}
	catalog.MarkSaved()
	return nil
}

func readJSONArray(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
