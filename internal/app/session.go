package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/cesargomez89/statify/internal/domain"
	"github.com/cesargomez89/statify/internal/logger"
	"github.com/cesargomez89/statify/internal/spotify"
	"github.com/cesargomez89/statify/internal/store"
)

// ErrNoSession means the user has no stored token and must log in first.
var ErrNoSession = errors.New("no stored session for user")

// SessionManager builds authorized API clients from tokens persisted in the
// store, and handles the OAuth callback that creates them.
type SessionManager struct {
	DB       *store.DB
	Settings *store.SettingsRepo
	Auth     *spotify.Authenticator
	Logger   *logger.Logger
	CacheTTL time.Duration

	// ClientOptions are applied to every API client built here. Tests use
	// this to point clients at a local server.
	ClientOptions []spotify.ClientOption
}

func NewSessionManager(db *store.DB, settings *store.SettingsRepo, auth *spotify.Authenticator, cacheTTL time.Duration, log *logger.Logger) *SessionManager {
	return &SessionManager{
		DB:       db,
		Settings: settings,
		Auth:     auth,
		Logger:   log,
		CacheTTL: cacheTTL,
	}
}

// AuthURL returns the login URL for the accounts service.
func (s *SessionManager) AuthURL(state string) string {
	return s.Auth.AuthURL(state)
}

// HandleCallback finishes the login: exchanges the code, fetches the
// profile, persists user and token, and makes the user the active one.
func (s *SessionManager) HandleCallback(ctx context.Context, code string) (*domain.User, error) {
	token, err := s.Auth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := spotify.New(s.Auth.Client(ctx, token), s.ClientOptions...)
	profile, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	user := profile.ToDomain()
	if err := s.DB.UpsertUser(&user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token: %w", err)
	}
	if err := s.DB.SaveToken(user.ID, data); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	if err := s.Settings.Set(store.SettingActiveUser, user.ID); err != nil {
		return nil, fmt.Errorf("failed to set active user: %w", err)
	}

	s.Logger.Info("User logged in", "user_id", user.ID, "display_name", user.DisplayName)
	return &user, nil
}

// ActiveUserID returns the user the API acts as, or empty when nobody logged
// in yet.
func (s *SessionManager) ActiveUserID() (string, error) {
	return s.Settings.Get(store.SettingActiveUser)
}

// APIClientFor builds an uncached client for the user. Refreshed tokens are
// written back to the store so sessions survive restarts.
func (s *SessionManager) APIClientFor(ctx context.Context, userID string) (*spotify.Client, error) {
	source, err := s.tokenSourceFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return spotify.New(oauth2.NewClient(ctx, source), s.ClientOptions...), nil
}

// ClientFor is APIClientFor with the read endpoints wrapped in the store
// cache. Handlers serving interactive traffic use this one.
func (s *SessionManager) ClientFor(ctx context.Context, userID string) (*spotify.CachedClient, error) {
	client, err := s.APIClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return spotify.NewCachedClient(client, s.DB, s.CacheTTL, userID), nil
}

func (s *SessionManager) tokenSourceFor(ctx context.Context, userID string) (oauth2.TokenSource, error) {
	data, err := s.DB.GetToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNoSession)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode stored token: %w", err)
	}

	return &savingTokenSource{
		src:    s.Auth.TokenSource(ctx, &token),
		db:     s.DB,
		userID: userID,
		logger: s.Logger,
		last:   token.AccessToken,
	}, nil
}

// savingTokenSource persists tokens as the oauth2 machinery refreshes them.
type savingTokenSource struct {
	src    oauth2.TokenSource
	db     *store.DB
	userID string
	logger *logger.Logger

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken == s.last {
		return token, nil
	}

	data, err := json.Marshal(token)
	if err != nil {
		return nil, fmt.Errorf("failed to encode refreshed token: %w", err)
	}
	if err := s.db.SaveToken(s.userID, data); err != nil {
		// The refreshed token is still usable this process lifetime.
		s.logger.Error("Failed to persist refreshed token", "user_id", s.userID, "error", err)
	} else {
		s.logger.Debug("Persisted refreshed token", "user_id", s.userID)
	}
	s.last = token.AccessToken

	return token, nil
}
