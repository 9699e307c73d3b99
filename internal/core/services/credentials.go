package services

import (
	"context"
	"time"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
	"github.com/forlark/larkfetch/internal/core/ports/driving"
	"github.com/forlark/larkfetch/internal/logger"
)

// Ensure CredentialsService implements the interface.
var _ driving.CredentialService = (*CredentialsService)(nil)

// CredentialsService manages the app credentials and validates them
// against the platform.
type CredentialsService struct {
	config   driven.ConfigStore
	platform driven.PlatformClient
	tokens   *TokenCache
	now      func() time.Time
}

// NewCredentialsService creates a new credentials service.
func NewCredentialsService(config driven.ConfigStore, platform driven.PlatformClient, tokens *TokenCache) *CredentialsService {
	return &CredentialsService{
		config:   config,
		platform: platform,
		tokens:   tokens,
		now:      time.Now,
	}
}

// SetAppCredentials stores the app id, secret, and region, then drops
// any cached service tokens so the next request uses the new pair.
func (s *CredentialsService) SetAppCredentials(ctx context.Context, appID, appSecret string, region domain.Region) error {
	if appID == "" || appSecret == "" {
		return domain.ErrInvalidInput
	}
	if !region.Valid() {
		region = domain.RegionFeishu
	}
	if err := s.config.Set(ConfigKeyAppID, appID); err != nil {
		return err
	}
	if err := s.config.Set(ConfigKeyAppSecret, appSecret); err != nil {
		return err
	}
	if err := s.config.Set(ConfigKeyRegion, string(region)); err != nil {
		return err
	}
	if s.tokens != nil {
		s.tokens.Invalidate()
	}
	logger.Info("app credentials updated for region %s", region)
	return nil
}

// TestConnection acquires a fresh service token to prove the
// configured credentials work. The token is discarded, not cached, so
// a test never masks a later failure with a stale token.
func (s *CredentialsService) TestConnection(ctx context.Context) (*driving.ConnectionStatus, error) {
	appID, appSecret, err := appCredentials(s.config)
	if err != nil {
		return nil, err
	}
	region := configuredRegion(s.config)

	tok, err := s.platform.TenantAccessToken(ctx, region, appID, appSecret)
	if err != nil {
		return nil, err
	}
	return &driving.ConnectionStatus{
		Region:    region,
		ExpiresIn: int(tok.ExpiresAt.Sub(s.now()) / time.Second),
	}, nil
}
