package ports

import (
	"context"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// CatalogFiles abstracts catalog documents on disk.
// format is one of "json", "yaml" or "hcl"; an empty format is detected from path.
type CatalogFiles interface {
	// Read loads a document into a catalog snapshot. Every entry must be
	// self-contained: recipe components reference resources of the same document.
	Read(ctx context.Context, path string, format string) (*production.Catalog, error)

	// Write stores the whole catalog, replacing the document at path.
	Write(ctx context.Context, path string, format string, catalog *production.Catalog) error
}
