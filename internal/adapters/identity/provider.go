package identity

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/veloce/showroom/internal/config"
	"github.com/veloce/showroom/internal/domain"
)

// Provider obtains short-lived bearer tokens from the identity service.
// The oauth2 TokenSource reuses a token only while it is still valid and
// re-issues otherwise, so every caller sees a currently-valid credential.
type Provider struct {
	src oauth2.TokenSource
}

// New returns a Provider, session-less when credentials are absent. A
// session-less provider answers ErrAuthRequired so protected calls are
// never attempted.
func New(cfg config.IdentityConfig) *Provider {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.TokenURL == "" {
		return &Provider{}
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	return &Provider{src: cc.TokenSource(context.Background())}
}

func (p *Provider) Token(ctx context.Context) (string, error) {
	if p.src == nil {
		return "", domain.ErrAuthRequired
	}
	tok, err := p.src.Token()
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok.AccessToken, nil
}

// Static is a fixed-token provider for tests and token-less local runs.
type Static string

func (s Static) Token(context.Context) (string, error) {
	if s == "" {
		return "", domain.ErrAuthRequired
	}
	return string(s), nil
}
