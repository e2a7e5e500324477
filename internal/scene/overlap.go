package scene

import "fmt"

// Overlap watches two collider boxes and fires OnOverlap on every Update
// where they intersect.
type Overlap struct {
	A, B      *Entity
	Enabled   bool
	OnOverlap func(a, b *Entity)
}

// NewOverlap requires both entities to carry a collider.
func NewOverlap(a, b *Entity, fn func(a, b *Entity)) (*Overlap, error) {
	if a == nil || a.Collider == nil {
		return nil, fmt.Errorf("scene: overlap first entity: %w", ErrNoCollider)
	}
	if b == nil || b.Collider == nil {
		return nil, fmt.Errorf("scene: overlap second entity: %w", ErrNoCollider)
	}
	return &Overlap{A: a, B: b, Enabled: true, OnOverlap: fn}, nil
}

// Happening reports whether the boxes overlap. Touching faces do not count.
func (o *Overlap) Happening() bool {
	if !o.Enabled {
		return false
	}
	lo1, hi1, err := o.A.WorldBox()
	if err != nil {
		return false
	}
	lo2, hi2, err := o.B.WorldBox()
	if err != nil {
		return false
	}
	for i := 0; i < 3; i++ {
		if !(lo1[i] < hi2[i] && hi1[i] > lo2[i]) {
			return false
		}
	}
	return true
}
