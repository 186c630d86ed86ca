package auth

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/solidhub/vocabhub/pkg/vocabhub/models"
	"gorm.io/gorm"
)

// NewSession persists a login session and returns its id.
func NewSession(db *gorm.DB, userID uint) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	session := models.UserSession{
		ID:     hex.EncodeToString(buf),
		UserID: userID,
	}
	if err := db.Create(&session).Error; err != nil {
		return "", err
	}
	return session.ID, nil
}

// EndSession removes a persisted session; tokens carrying its id stop
// passing the middleware.
func EndSession(db *gorm.DB, sessionID string) error {
	return db.Delete(&models.UserSession{}, "id = ?", sessionID).Error
}
