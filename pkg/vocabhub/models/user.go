package models

import (
	"time"
)

// User represents a collaborator identified by their Solid WebID.
// Local accounts (no pod) additionally carry an email and password hash.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	WebID        string    `gorm:"uniqueIndex;not null" json:"webId"`
	Name         string    `json:"name,omitempty"`
	Email        string    `gorm:"index" json:"email,omitempty"` // Optional, local accounts only
	PasswordHash string    `json:"-"`

	// Relationships
	Sessions []UserSession `gorm:"foreignKey:UserID" json:"sessions,omitempty"`
}

// UserSession is a persisted login session. The ID doubles as the JWT's
// token identifier so a logout can invalidate the token server-side.
type UserSession struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
