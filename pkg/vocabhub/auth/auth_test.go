package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/solidhub/vocabhub/pkg/vocabhub/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	router := gin.New()
	handler := NewHandler(db, "http://localhost:8080")
	handler.RegisterRoutes(router.Group("/api/auth"))
	return router, db
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("Expected password to verify against its hash")
	}
	if CheckPassword("wrong", hash) {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "https://solid.community/tester/profile/card#me", "session-1")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("Expected user id 42, got %d", claims.UserID)
	}
	if claims.WebID != "https://solid.community/tester/profile/card#me" {
		t.Errorf("Unexpected webId %q", claims.WebID)
	}
	if claims.ID != "session-1" {
		t.Errorf("Expected session id session-1, got %q", claims.ID)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("Expected error for malformed token")
	}
}

func TestRegisterLoginMe(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email:    "tester@example.com",
		Password: "hunter2hunter2",
		Name:     "Tester",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.Token == "" {
		t.Error("Expected a token in the registration response")
	}
	if created.User.WebID != "http://localhost:8080/users/tester@example.com#me" {
		t.Errorf("Unexpected minted webId %q", created.User.WebID)
	}

	// Duplicate email
	w = doJSON(router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email:    "tester@example.com",
		Password: "hunter2hunter2",
		Name:     "Tester",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 on duplicate email, got %d", w.Code)
	}

	// Login with the right and wrong password
	w = doJSON(router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "tester@example.com",
		Password: "hunter2hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on login, got %d: %s", w.Code, w.Body.String())
	}
	var loggedIn AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &loggedIn); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	w = doJSON(router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "tester@example.com",
		Password: "wrongwrongwrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 on bad password, got %d", w.Code)
	}

	// Me with the login token
	w = doJSON(router, http.MethodGet, "/api/auth/me", loggedIn.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /me, got %d: %s", w.Code, w.Body.String())
	}
	var me UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if me.Email != "tester@example.com" || me.Name != "Tester" {
		t.Errorf("Unexpected profile %+v", me)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email:    "tester@example.com",
		Password: "hunter2hunter2",
		Name:     "Tester",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	w = doJSON(router, http.MethodPost, "/api/auth/logout", created.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on logout, got %d: %s", w.Code, w.Body.String())
	}

	// The token still parses but its session is gone
	w = doJSON(router, http.MethodGet, "/api/auth/me", created.Token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 after logout, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMiddlewareRejections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)

	router := gin.New()
	router.GET("/protected", Middleware(db), func(c *gin.Context) {
		webID, _ := GetWebID(c)
		c.JSON(http.StatusOK, gin.H{"webId": webID})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without header, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for non-bearer scheme, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for invalid token, got %d", w.Code)
	}

	// A valid token whose session row exists passes through
	user := models.User{WebID: "https://solid.community/tester/profile/card#me"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	sessionID, err := NewSession(db, user.ID)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	token, err := GenerateToken(user.ID, user.WebID, sessionID)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 with valid token, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["webId"] != user.WebID {
		t.Errorf("Expected webId %q, got %q", user.WebID, body["webId"])
	}
}
