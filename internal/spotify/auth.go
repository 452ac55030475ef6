package spotify

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/cesargomez89/statify/internal/constants"
)

// OAuth scopes the API recognizes. Request only what a deployment needs;
// DefaultScopes covers everything statify itself uses.
const (
	ScopeUserReadPrivate          = "user-read-private"
	ScopeUserTopRead              = "user-top-read"
	ScopeUserReadPlaybackState    = "user-read-playback-state"
	ScopeUserModifyPlaybackState  = "user-modify-playback-state"
	ScopeUserReadCurrentlyPlaying = "user-read-currently-playing"
	ScopeUserReadRecentlyPlayed   = "user-read-recently-played"
	ScopePlaylistReadPrivate      = "playlist-read-private"
)

// DefaultScopes returns the scope set the server and CLI request at login.
func DefaultScopes() []string {
	return []string{
		ScopeUserReadPrivate,
		ScopeUserTopRead,
		ScopeUserReadPlaybackState,
		ScopeUserModifyPlaybackState,
		ScopeUserReadCurrentlyPlaying,
		ScopeUserReadRecentlyPlayed,
		ScopePlaylistReadPrivate,
	}
}

// Authenticator drives the authorization-code flow against the accounts
// service and builds the authorized *http.Client the API client rides on.
type Authenticator struct {
	config *oauth2.Config
}

func NewAuthenticator(clientID, clientSecret, redirectURI string, scopes ...string) *Authenticator {
	if len(scopes) == 0 {
		scopes = DefaultScopes()
	}
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  constants.AccountsAuthURL,
				TokenURL: constants.AccountsTokenURL,
			},
		},
	}
}

// AuthURL returns the accounts-service URL to send the user to. The state
// value is echoed back on the callback and must be verified there.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// Exchange trades the callback code for a token.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.config.Exchange(ctx, code)
}

// TokenSource returns a source that refreshes the token as it expires.
func (a *Authenticator) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return a.config.TokenSource(ctx, token)
}

// Client returns an *http.Client that injects and refreshes the bearer
// token on every request.
func (a *Authenticator) Client(ctx context.Context, token *oauth2.Token) *http.Client {
	return a.config.Client(ctx, token)
}
