package production

import (
	"fmt"
	"strings"
)

// Resource is anything that flows between recipes: ores, ingots, parts.
// Raw resources are extracted directly and are never the product of a recipe.
type Resource struct {
	ID    string
	Name  string
	IsRaw bool
}

// NewResource creates a resource, generating the id from the name when id is empty
func NewResource(name, id string, isRaw bool) *Resource {
	if strings.TrimSpace(id) == "" {
		id = GenerateID(name)
	}
	return &Resource{ID: id, Name: name, IsRaw: isRaw}
}

// N returns a quantity of this resource
func (r *Resource) N(quantity float64) ResourceQuantity {
	return ResourceQuantity{Resource: r, Quantity: quantity}
}

func (r *Resource) String() string {
	return r.Name
}

// GenerateID derives a catalog id from a display name ("Iron Ingot" -> "iron_ingot")
func GenerateID(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// ResourceRef is a user supplied reference to a resource or recipe, either by
// name or by id. Ids are written with a leading '@'.
type ResourceRef struct {
	Name string
	ID   string
}

// ParseResourceRef parses "Iron Ore" as a name reference and "@iron_ore" as an id reference
func ParseResourceRef(s string) (ResourceRef, error) {
	if strings.HasPrefix(s, "@") {
		if len(s) <= 1 {
			return ResourceRef{}, fmt.Errorf("invalid id reference %q: should be \"@<id>\"", s)
		}
		return ResourceRef{ID: s[1:]}, nil
	}
	if strings.TrimSpace(s) == "" {
		return ResourceRef{}, fmt.Errorf("empty reference")
	}
	return ResourceRef{Name: s}, nil
}

// IsID reports whether the reference addresses an id rather than a name
func (r ResourceRef) IsID() bool {
	return r.ID != ""
}

func (r ResourceRef) String() string {
	if r.IsID() {
		return "@" + r.ID
	}
	return r.Name
}

// ResourceQuantity is an amount of a resource, per cycle or per minute depending on context
type ResourceQuantity struct {
	Resource *Resource
	Quantity float64
}

// Scale returns a copy with the quantity multiplied by factor
func (q ResourceQuantity) Scale(factor float64) ResourceQuantity {
	return ResourceQuantity{Resource: q.Resource, Quantity: q.Quantity * factor}
}

// ResourceID returns the id of the quantified resource
func (q ResourceQuantity) ResourceID() string {
	return q.Resource.ID
}

// Equal compares resource identity and exact quantity
func (q ResourceQuantity) Equal(other ResourceQuantity) bool {
	return q.Resource.ID == other.Resource.ID && q.Quantity == other.Quantity
}

func (q ResourceQuantity) String() string {
	return fmt.Sprintf("%.1fx(%s)", q.Quantity, q.Resource.Name)
}

// ResourceQuantities maps resource ids to quantities, keeping insertion order.
// Adding a quantity for an id that is already present accumulates into it.
type ResourceQuantities struct {
	order []string
	items map[string]*ResourceQuantity
}

// NewResourceQuantities builds a collection from a list, merging duplicates
func NewResourceQuantities(quantities ...ResourceQuantity) *ResourceQuantities {
	rq := &ResourceQuantities{items: make(map[string]*ResourceQuantity, len(quantities))}
	for _, q := range quantities {
		rq.Add(q)
	}
	return rq
}

// Add inserts q or, when its resource is already present, adds to the existing quantity
func (rq *ResourceQuantities) Add(q ResourceQuantity) {
	if rq.items == nil {
		rq.items = make(map[string]*ResourceQuantity)
	}
	id := q.Resource.ID
	if existing, ok := rq.items[id]; ok {
		existing.Quantity += q.Quantity
		return
	}
	stored := q
	rq.items[id] = &stored
	rq.order = append(rq.order, id)
}

// Get returns the quantity stored for a resource id
func (rq *ResourceQuantities) Get(id string) (ResourceQuantity, bool) {
	if rq == nil {
		return ResourceQuantity{}, false
	}
	q, ok := rq.items[id]
	if !ok {
		return ResourceQuantity{}, false
	}
	return *q, true
}

// Contains reports whether a resource id is present
func (rq *ResourceQuantities) Contains(id string) bool {
	if rq == nil {
		return false
	}
	_, ok := rq.items[id]
	return ok
}

// Len returns the number of distinct resources
func (rq *ResourceQuantities) Len() int {
	if rq == nil {
		return 0
	}
	return len(rq.order)
}

// Keys returns resource ids in insertion order
func (rq *ResourceQuantities) Keys() []string {
	if rq == nil {
		return nil
	}
	keys := make([]string, len(rq.order))
	copy(keys, rq.order)
	return keys
}

// Values returns copies of the quantities in insertion order
func (rq *ResourceQuantities) Values() []ResourceQuantity {
	if rq == nil {
		return nil
	}
	values := make([]ResourceQuantity, 0, len(rq.order))
	for _, id := range rq.order {
		values = append(values, *rq.items[id])
	}
	return values
}

// Scale returns a new collection with every quantity multiplied by factor
func (rq *ResourceQuantities) Scale(factor float64) *ResourceQuantities {
	scaled := NewResourceQuantities()
	for _, q := range rq.Values() {
		scaled.Add(q.Scale(factor))
	}
	return scaled
}

// Clone returns an independent copy
func (rq *ResourceQuantities) Clone() *ResourceQuantities {
	return NewResourceQuantities(rq.Values()...)
}

// Equal compares two collections by content, ignoring order
func (rq *ResourceQuantities) Equal(other *ResourceQuantities) bool {
	if rq.Len() != other.Len() {
		return false
	}
	for _, q := range rq.Values() {
		o, ok := other.Get(q.ResourceID())
		if !ok || !o.Equal(q) {
			return false
		}
	}
	return true
}

// Total sums all quantities regardless of resource
func (rq *ResourceQuantities) Total() float64 {
	total := 0.0
	for _, q := range rq.Values() {
		total += q.Quantity
	}
	return total
}

func (rq *ResourceQuantities) String() string {
	parts := make([]string, 0, rq.Len())
	for _, q := range rq.Values() {
		parts = append(parts, q.String())
	}
	return strings.Join(parts, " + ")
}
