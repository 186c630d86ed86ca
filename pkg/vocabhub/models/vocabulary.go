package models

import (
	"time"
)

// Vocabulary is the root aggregate: a named set of RDF classes and
// properties, optionally seeded from an external ontology document.
type Vocabulary struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Link        string    `json:"link,omitempty"` // Source document URI when imported

	// Relationships
	Contributors []User     `gorm:"many2many:vocabulary_contributors;" json:"contributors,omitempty"`
	Classes      []RdfClass `gorm:"foreignKey:VocabID" json:"classes,omitempty"`
	Properties   []Property `gorm:"foreignKey:VocabID" json:"properties,omitempty"`
}
