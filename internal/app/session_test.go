package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/cesargomez89/statify/internal/logger"
	"github.com/cesargomez89/statify/internal/spotify"
	"github.com/cesargomez89/statify/internal/store"
)

func newTestSessionManager(db *store.DB) *SessionManager {
	auth := spotify.NewAuthenticator("client-id", "client-secret", "http://127.0.0.1:8080/auth/callback")
	return NewSessionManager(db, store.NewSettingsRepo(db), auth, time.Minute, logger.Default())
}

func TestSessionManager_NoSession(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sessions := newTestSessionManager(db)

	_, err := sessions.APIClientFor(context.Background(), "unknown_user")
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}

	_, err = sessions.ClientFor(context.Background(), "unknown_user")
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession from ClientFor, got %v", err)
	}
}

func TestSessionManager_ActiveUser(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sessions := newTestSessionManager(db)

	userID, err := sessions.ActiveUserID()
	if err != nil {
		t.Fatalf("ActiveUserID failed: %v", err)
	}
	if userID != "" {
		t.Errorf("Expected empty active user, got %s", userID)
	}

	if err := sessions.Settings.Set(store.SettingActiveUser, "user_1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	userID, _ = sessions.ActiveUserID()
	if userID != "user_1" {
		t.Errorf("Expected user_1, got %s", userID)
	}
}

func TestSessionManager_ClientForStoredToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	token := &oauth2.Token{
		AccessToken: "valid-token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
	data, _ := json.Marshal(token)
	if err := db.SaveToken("user_1", data); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	sessions := newTestSessionManager(db)
	client, err := sessions.ClientFor(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("ClientFor failed: %v", err)
	}
	if client == nil {
		t.Fatal("Expected a client")
	}
}

// staticTokenSource returns a fixed token, standing in for a refresh.
type staticTokenSource struct {
	token *oauth2.Token
	calls int
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	s.calls++
	return s.token, nil
}

func TestSavingTokenSource(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	refreshed := &oauth2.Token{
		AccessToken:  "refreshed-token",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}
	inner := &staticTokenSource{token: refreshed}

	source := &savingTokenSource{
		src:    inner,
		db:     db,
		userID: "user_1",
		logger: logger.Default(),
		last:   "old-token",
	}

	token, err := source.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token.AccessToken != "refreshed-token" {
		t.Errorf("Unexpected access token %s", token.AccessToken)
	}

	// The refreshed token was written back
	stored, err := db.GetToken("user_1")
	if err != nil {
		t.Fatalf("GetToken failed: %v", err)
	}
	var persisted oauth2.Token
	if err := json.Unmarshal(stored, &persisted); err != nil {
		t.Fatalf("Failed to decode stored token: %v", err)
	}
	if persisted.AccessToken != "refreshed-token" {
		t.Errorf("Expected persisted access token 'refreshed-token', got %s", persisted.AccessToken)
	}

	// An unchanged token is not rewritten
	if err := db.DeleteToken("user_1"); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}
	if _, err := source.Token(); err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	stored, _ = db.GetToken("user_1")
	if stored != nil {
		t.Error("Expected no rewrite for an unchanged token")
	}
}
