package catalogfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrescamacho/factory-planner/internal/application/logging"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// Format names a catalog document format
type Format string

const (
	// FormatJSON is a data directory with separate resources and recipes files
	FormatJSON Format = "json"
	// FormatYAML is a single document with resources and recipes lists
	FormatYAML Format = "yaml"
	// FormatHCL is a single file of resource and recipe blocks
	FormatHCL Format = "hcl"
)

// ParseFormat validates a format name. An empty name means "detect".
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case "", FormatJSON, FormatYAML, FormatHCL:
		return f, nil
	default:
		return "", fmt.Errorf("unknown catalog format %q: expected json, yaml or hcl", name)
	}
}

// DetectFormat picks the format from the file extension. Directories and
// anything unrecognised are treated as a JSON data directory.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".hcl":
		return FormatHCL
	default:
		return FormatJSON
	}
}

// Store reads and writes catalog documents in every supported format
type Store struct {
	json *jsonDir
}

// NewStore creates a store using the given file names for JSON data directories
func NewStore(resourcesFile, recipesFile string) *Store {
	return &Store{json: &jsonDir{resourcesFile: resourcesFile, recipesFile: recipesFile}}
}

func (s *Store) resolveFormat(path, format string) (Format, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return "", err
	}
	if f == "" {
		f = DetectFormat(path)
	}
	return f, nil
}

// Read loads the document at path
func (s *Store) Read(ctx context.Context, path string, format string) (*production.Catalog, error) {
	f, err := s.resolveFormat(path, format)
	if err != nil {
		return nil, err
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelDebug, "Reading catalog document", map[string]interface{}{
		"path":   path,
		"format": string(f),
	})

	switch f {
	case FormatYAML:
		return readYAML(path)
	case FormatHCL:
		return readHCL(path)
	default:
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return nil, fmt.Errorf("json catalogs are data directories, %s is a file", path)
		}
		return s.json.read(path)
	}
}

// Write stores the whole catalog at path
func (s *Store) Write(ctx context.Context, path string, format string, catalog *production.Catalog) error {
	f, err := s.resolveFormat(path, format)
	if err != nil {
		return err
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelDebug, "Writing catalog document", map[string]interface{}{
		"path":      path,
		"format":    string(f),
		"resources": len(catalog.Resources()),
		"recipes":   len(catalog.Recipes()),
	})

	switch f {
	case FormatYAML:
		return writeYAML(path, catalog)
	case FormatHCL:
		return writeHCL(path, catalog)
	default:
		return s.json.write(path, catalog)
	}
}
