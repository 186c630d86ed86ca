package models

import (
	"time"
)

// RdfClass is a type definition within one vocabulary. Slugs are unique
// per vocabulary, not globally.
type RdfClass struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	VocabID     uint      `gorm:"not null;index;uniqueIndex:idx_class_vocab_slug" json:"vocab_id"`
	Slug        string    `gorm:"not null;uniqueIndex:idx_class_vocab_slug" json:"slug"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	InheritsID  *uint     `json:"inherits_id,omitempty"`

	// Relationships
	Vocab    Vocabulary `gorm:"foreignKey:VocabID;constraint:OnDelete:CASCADE" json:"vocab,omitempty"`
	Inherits *RdfClass  `gorm:"foreignKey:InheritsID;constraint:OnDelete:SET NULL" json:"inherits,omitempty"`
	// Properties whose domain is this class
	Properties []Property `gorm:"foreignKey:DomainID" json:"properties,omitempty"`
}
