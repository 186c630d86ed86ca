package models

import (
	"time"
)

// Property is a named relation within one vocabulary, with optional
// domain (source class) and range (target class) references.
type Property struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	VocabID     uint      `gorm:"not null;index;uniqueIndex:idx_property_vocab_slug" json:"vocab_id"`
	Slug        string    `gorm:"not null;uniqueIndex:idx_property_vocab_slug" json:"slug"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	DomainID    *uint     `json:"domain_id,omitempty"`
	RangeID     *uint     `json:"range_id,omitempty"`

	// Relationships
	Vocab  Vocabulary `gorm:"foreignKey:VocabID;constraint:OnDelete:CASCADE" json:"vocab,omitempty"`
	Domain *RdfClass  `gorm:"foreignKey:DomainID;constraint:OnDelete:SET NULL" json:"domain,omitempty"`
	Range  *RdfClass  `gorm:"foreignKey:RangeID;constraint:OnDelete:SET NULL" json:"range,omitempty"`
}
