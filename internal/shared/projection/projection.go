// Package projection pairs storefront aggregates with their row timestamps.
package projection

import "time"

// Metadata holds the createdAt/updatedAt pair every product and order carries.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touched returns the metadata after a write at now. A zero CreatedAt marks a
// first write and is set as well.
func (m Metadata) Touched(now time.Time) Metadata {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return m
}

// Projection is an aggregate as read back from a repository.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}
