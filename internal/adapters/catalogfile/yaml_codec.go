package catalogfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

func readYAML(path string) (*production.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return docToCatalog(path, doc)
}

func writeYAML(path string, catalog *production.Catalog) error {
	data, err := yaml.Marshal(catalogToDoc(catalog))
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
