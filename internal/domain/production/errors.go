package production

import "fmt"

// ErrDuplicateKey indicates an id is already taken in the catalog
type ErrDuplicateKey struct {
	Kind string // "resource" or "recipe"
	ID   string
}

func (e *ErrDuplicateKey) Error() string {
	return fmt.Sprintf("duplicate %s id: %s", e.Kind, e.ID)
}

// ErrResourceNotFound indicates a resource lookup by id or name failed
type ErrResourceNotFound struct {
	Ref string
}

func (e *ErrResourceNotFound) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Ref)
}

// ErrRecipeNotFound indicates a recipe lookup by id or name failed
type ErrRecipeNotFound struct {
	Ref string
}

func (e *ErrRecipeNotFound) Error() string {
	return fmt.Sprintf("recipe not found: %s", e.Ref)
}

// ErrProductNotProduced indicates a recipe was targeted at a resource it does not produce
type ErrProductNotProduced struct {
	RecipeID  string
	ProductID string
}

func (e *ErrProductNotProduced) Error() string {
	return fmt.Sprintf("recipe %s does not produce %s", e.RecipeID, e.ProductID)
}
