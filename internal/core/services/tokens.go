package services

import (
	"context"
	"sync"
	"time"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
	"github.com/forlark/larkfetch/internal/logger"
)

// TokenCache hands out service-level access tokens, acquiring one per
// region on demand and reusing it until it nears expiry. Tokens live
// only in memory; a new process starts cold.
type TokenCache struct {
	mu       sync.Mutex
	platform driven.PlatformClient
	config   driven.ConfigStore
	tokens   map[domain.Region]*domain.ServiceToken
	now      func() time.Time
}

// NewTokenCache creates a token cache over the given platform client
// and configuration.
func NewTokenCache(platform driven.PlatformClient, config driven.ConfigStore) *TokenCache {
	return &TokenCache{
		platform: platform,
		config:   config,
		tokens:   make(map[domain.Region]*domain.ServiceToken),
		now:      time.Now,
	}
}

// Get returns a valid service token for the region, acquiring a fresh
// one when the cached token is missing or within its expiry margin.
// The cache is locked for the duration of an acquisition so that
// concurrent callers share one token request.
func (c *TokenCache) Get(ctx context.Context, region domain.Region) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tok, ok := c.tokens[region]; ok && tok.ValidAt(c.now()) {
		logger.Debug("reusing cached service token for %s", region)
		return tok.Token, nil
	}

	appID, appSecret, err := appCredentials(c.config)
	if err != nil {
		return "", err
	}

	logger.Debug("acquiring service token for %s", region)
	tok, err := c.platform.TenantAccessToken(ctx, region, appID, appSecret)
	if err != nil {
		return "", err
	}
	c.tokens[region] = tok
	return tok.Token, nil
}

// Invalidate drops all cached tokens. Called when the app credentials
// change so stale tokens are never reused against the new pair.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = make(map[domain.Region]*domain.ServiceToken)
}
