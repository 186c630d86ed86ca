// Package oidc implements the Solid OIDC login flow. The rest of the
// application only consumes the webId it resolves.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log"
	"math/big"
	"net/http"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/solidhub/vocabhub/pkg/vocabhub/auth"
	"github.com/solidhub/vocabhub/pkg/vocabhub/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// Config holds the Solid identity provider settings, read from the
// environment by the server bootstrap.
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
}

// Handler handles Solid OIDC login requests
type Handler struct {
	db       *gorm.DB
	baseURL  string
	cfg      Config
	config   oauth2.Config
	verifier *gooidc.IDTokenVerifier
}

// StateData stores OIDC state for validation
type StateData struct {
	ReturnURL string `json:"return_url"`
	Nonce     string `json:"nonce"`
}

// NewHandler creates a new OIDC handler. With an empty issuer the login
// endpoints respond 503 and only local accounts work.
func NewHandler(db *gorm.DB, baseURL string, cfg Config) *Handler {
	h := &Handler{db: db, baseURL: baseURL, cfg: cfg}
	if cfg.Issuer != "" {
		if err := h.initProvider(); err != nil {
			log.Printf("oidc: provider discovery for %s failed: %v", cfg.Issuer, err)
		}
	}
	return h
}

// initProvider discovers the Solid issuer
func (h *Handler) initProvider() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	provider, err := gooidc.NewProvider(ctx, h.cfg.Issuer)
	if err != nil {
		return err
	}

	h.config = oauth2.Config{
		ClientID:     h.cfg.ClientID,
		ClientSecret: h.cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  h.baseURL + "/api/oidc/callback",
		Scopes:       []string{gooidc.ScopeOpenID, "profile", "webid"},
	}
	h.verifier = provider.Verifier(&gooidc.Config{ClientID: h.cfg.ClientID})
	return nil
}

func (h *Handler) configured() bool {
	return h.verifier != nil
}

// Login redirects the browser to the Solid identity provider
// @Summary Start Solid login
// @Tags oidc
// @Param return_url query string false "URL to redirect back to with the token"
// @Success 302
// @Failure 503 {object} map[string]string "Solid login not configured"
// @Router /oidc/login [get]
func (h *Handler) Login(c *gin.Context) {
	if !h.configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Solid login not configured"})
		return
	}

	nonce := generateRandomString(32)
	stateData := StateData{
		ReturnURL: c.Query("return_url"),
		Nonce:     nonce,
	}
	stateJSON, _ := json.Marshal(stateData)
	state := base64.URLEncoding.EncodeToString(stateJSON)

	c.Redirect(http.StatusFound, h.config.AuthCodeURL(state, gooidc.Nonce(nonce)))
}

// Callback handles the redirect back from the Solid identity provider
// @Summary Solid login callback
// @Tags oidc
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} map[string]string "Invalid state, nonce, or code"
// @Router /oidc/callback [get]
func (h *Handler) Callback(c *gin.Context) {
	if !h.configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Solid login not configured"})
		return
	}

	stateJSON, err := base64.URLEncoding.DecodeString(c.Query("state"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state"})
		return
	}
	var stateData StateData
	if err := json.Unmarshal(stateJSON, &stateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		errorDesc := c.Query("error_description")
		if errorDesc == "" {
			errorDesc = c.Query("error")
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authentication failed: " + errorDesc})
		return
	}

	ctx := c.Request.Context()
	oauth2Token, err := h.config.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange token"})
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No ID token in response"})
		return
	}
	idToken, err := h.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify ID token"})
		return
	}
	if idToken.Nonce != stateData.Nonce {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid nonce"})
		return
	}

	// Solid providers carry the pod identity in the webid claim; the
	// subject is the fallback when it is itself the webId.
	var claims struct {
		WebID string `json:"webid"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse claims"})
		return
	}
	webID := claims.WebID
	if webID == "" {
		webID = idToken.Subject
	}
	if webID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No webId provided by identity provider"})
		return
	}

	user, err := h.findOrCreateUser(webID, claims.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process user"})
		return
	}

	sessionID, err := auth.NewSession(h.db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	token, err := auth.GenerateToken(user.ID, user.WebID, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	if stateData.ReturnURL != "" {
		c.Redirect(http.StatusFound, stateData.ReturnURL+"?token="+token)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "webId": user.WebID, "name": user.Name},
	})
}

// findOrCreateUser resolves a webId to a user row, creating it on first
// login and refreshing the display name opportunistically.
func (h *Handler) findOrCreateUser(webID, name string) (*models.User, error) {
	var user models.User
	if err := h.db.Where(models.User{WebID: webID}).FirstOrCreate(&user).Error; err != nil {
		return nil, err
	}
	if name != "" && user.Name != name {
		user.Name = name
		if err := h.db.Save(&user).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// generateRandomString creates a random URL-safe string of given length
func generateRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		b[i] = charset[n.Int64()]
	}
	return string(b)
}

// RegisterRoutes registers OIDC routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/login", h.Login)
	rg.GET("/callback", h.Callback)
}
