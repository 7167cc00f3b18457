package shared

import "fmt"

// ValidationError reports an invalid field value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// CatalogFormatError reports malformed catalog input, such as a file entry
// that cannot be turned into a resource or recipe
type CatalogFormatError struct {
	Source  string
	Entry   string
	Message string
}

func NewCatalogFormatError(source, entry, message string) *CatalogFormatError {
	return &CatalogFormatError{
		Source:  source,
		Entry:   entry,
		Message: message,
	}
}

func (e *CatalogFormatError) Error() string {
	return fmt.Sprintf("%s: entry %q: %s", e.Source, e.Entry, e.Message)
}
