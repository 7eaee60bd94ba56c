package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"

	"github.com/mikey/securelens/internal/core"
)

const (
	// ClientIDKey is the settings key holding the OAuth client id
	ClientIDKey = "gmail_client_id"

	// DefaultClientID is used until a client id is stored
	DefaultClientID = "319623617280-o1bv5ik7qktqasvppbagand57ivh3jm4.apps.googleusercontent.com"
)

// ClientIDStore persists the OAuth client id
type ClientIDStore struct {
	repo     core.SettingsRepository
	fallback string
	logger   *zap.Logger
}

// NewClientIDStore creates a store. An empty fallback uses DefaultClientID.
func NewClientIDStore(repo core.SettingsRepository, fallback string, logger *zap.Logger) *ClientIDStore {
	if fallback == "" {
		fallback = DefaultClientID
	}
	return &ClientIDStore{
		repo:     repo,
		fallback: fallback,
		logger:   logger,
	}
}

// Get returns the stored client id or the fallback
func (s *ClientIDStore) Get(ctx context.Context) string {
	v, err := s.repo.Get(ctx, ClientIDKey)
	if err != nil {
		if !errors.Is(err, core.ErrSettingNotFound) {
			s.logger.Warn("Failed to read client id", zap.Error(err))
		}
		return s.fallback
	}
	if v == "" {
		return s.fallback
	}
	return v
}

// Set stores the client id. An empty value removes it.
func (s *ClientIDStore) Set(ctx context.Context, clientID string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		if err := s.repo.Delete(ctx, ClientIDKey); err != nil {
			return fmt.Errorf("failed to delete client id: %w", err)
		}
		return nil
	}
	if err := s.repo.Set(ctx, ClientIDKey, clientID); err != nil {
		return fmt.Errorf("failed to store client id: %w", err)
	}
	return nil
}

// Authorizer runs the OAuth2 authorization code flow
type Authorizer struct {
	clientIDs    *ClientIDStore
	clientSecret string
	redirectURL  string
	endpoint     oauth2.Endpoint
}

// NewAuthorizer creates an authorizer for the read-only Gmail scope
func NewAuthorizer(clientIDs *ClientIDStore, clientSecret, redirectURL string) *Authorizer {
	return &Authorizer{
		clientIDs:    clientIDs,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		endpoint:     google.Endpoint,
	}
}

// WithEndpoint overrides the provider endpoint
func (a *Authorizer) WithEndpoint(endpoint oauth2.Endpoint) *Authorizer {
	a.endpoint = endpoint
	return a
}

func (a *Authorizer) config(ctx context.Context) (*oauth2.Config, error) {
	clientID := a.clientIDs.Get(ctx)
	if clientID == "" {
		return nil, ErrMissingClientID
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: a.clientSecret,
		RedirectURL:  a.redirectURL,
		Scopes:       []string{gmail.GmailReadonlyScope},
		Endpoint:     a.endpoint,
	}, nil
}

// AuthCodeURL returns the consent page URL for the given state
func (a *Authorizer) AuthCodeURL(ctx context.Context, state string) (string, error) {
	cfg, err := a.config(ctx)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Exchange trades an authorization code for an access token
func (a *Authorizer) Exchange(ctx context.Context, code string) TokenResult {
	cfg, err := a.config(ctx)
	if err != nil {
		return TokenResult{Err: err}
	}
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return TokenResult{Err: fmt.Errorf("failed to exchange authorization code: %w", err)}
	}
	if tok.AccessToken == "" {
		return TokenResult{Err: errors.New("failed to obtain access token")}
	}
	return TokenResult{Token: tok.AccessToken}
}
