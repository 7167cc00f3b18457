package planning

import "fmt"

// ErrInvalidAlternativeSelection indicates an alternative node was asked for a
// candidate it does not have. An AltNode is only created with at least one
// candidate, so an empty one is an invariant violation.
type ErrInvalidAlternativeSelection struct {
	ProductID  string
	Index      int
	Candidates int
}

func (e *ErrInvalidAlternativeSelection) Error() string {
	if e.Candidates == 0 {
		return fmt.Sprintf("invalid active slot: alternatives for %s have no candidates", e.ProductID)
	}
	return fmt.Sprintf("invalid active slot %d for %s: %d candidates", e.Index, e.ProductID, e.Candidates)
}

// ErrUnknownAlternativeOrder indicates a sort order name that has no comparator
type ErrUnknownAlternativeOrder struct {
	Order string
}

func (e *ErrUnknownAlternativeOrder) Error() string {
	return fmt.Sprintf("unknown alternative order: %s (expected one of %v)", e.Order, KnownAlternativeOrders())
}
