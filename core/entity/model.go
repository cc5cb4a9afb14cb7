package entity

import "entity-kit/core/association"

// Entity is implemented by types embedding Model.
type Entity interface {
	association.Entity
	// IgnoredAttributes lists keys excluded from ToMapping.
	IgnoredAttributes() []string
}

// Model is the embeddable base of every entity.
type Model struct {
	// ID is the primary key; zero until the row is persisted.
	ID uint `gorm:"primaryKey" json:"id"`

	ignored []string
}

// GetID returns the primary key, or nil before one is assigned.
func (m *Model) GetID() any {
	if m.ID == 0 {
		return nil
	}
	return m.ID
}

// SetID assigns the primary key.
func (m *Model) SetID(id uint) {
	m.ID = id
}

// IgnoreAttributes excludes keys (or Go field names) from ToMapping.
func (m *Model) IgnoreAttributes(names ...string) {
	m.ignored = append(m.ignored, names...)
}

// IgnoredAttributes lists keys excluded from ToMapping.
func (m *Model) IgnoredAttributes() []string {
	return m.ignored
}
