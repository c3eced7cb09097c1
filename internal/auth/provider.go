package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vytor/lexiflash/internal/localstore"
	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/models"
)

// Provider is the single owner of the signed-in state. Everything that needs
// the bearer token reads it from here instead of the store.
type Provider struct {
	store *localstore.Store
	now   func() time.Time

	mu    sync.RWMutex
	token string
	user  *models.User
}

func NewProvider(store *localstore.Store) *Provider {
	return &Provider{store: store, now: time.Now}
}

// Load warms the in-memory copy from the persisted keys.
func (p *Provider) Load(ctx context.Context) error {
	token, err := p.store.AccessToken(ctx)
	if err != nil {
		return err
	}
	user, err := p.store.User(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.token = token
	p.user = user
	p.mu.Unlock()

	if token != "" {
		logger.FromContext(ctx).WithPrefix("auth").Debug("restored signed-in state")
	}
	return nil
}

// Token returns the current bearer token, or "" when signed out.
func (p *Provider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

// User returns a copy of the signed-in user, or nil.
func (p *Provider) User() *models.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

// Expiry reads the exp claim without verifying the signature; the server is
// the one that verifies. ok is false for opaque tokens or tokens without exp.
func (p *Provider) Expiry() (time.Time, bool) {
	token := p.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Authenticated reports whether a token is held and has not expired.
func (p *Provider) Authenticated() bool {
	if p.Token() == "" {
		return false
	}
	if exp, ok := p.Expiry(); ok && !p.now().Before(exp) {
		return false
	}
	return true
}

// Login persists and adopts a new token and user.
func (p *Provider) Login(ctx context.Context, token string, user models.User) error {
	if err := p.store.SetAccessToken(ctx, token); err != nil {
		return err
	}
	if err := p.store.SetUser(ctx, user); err != nil {
		return err
	}

	p.mu.Lock()
	p.token = token
	p.user = &user
	p.mu.Unlock()

	logger.FromContext(ctx).WithPrefix("auth").Info("signed in as %s", user.Email)
	return nil
}

// Logout forgets the token and user. The in-memory state is cleared even if
// the store write fails.
func (p *Provider) Logout(ctx context.Context) error {
	p.mu.Lock()
	p.token = ""
	p.user = nil
	p.mu.Unlock()

	if err := p.store.ClearAuth(ctx); err != nil {
		logger.FromContext(ctx).WithPrefix("auth").Error("failed to clear stored credentials: %v", err)
		return err
	}
	logger.FromContext(ctx).WithPrefix("auth").Info("signed out")
	return nil
}
