package services

import (
	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
)

// Configuration keys used across services.
const (
	// ConfigKeyAppID holds the platform app id.
	ConfigKeyAppID = "app.id"
	// ConfigKeyAppSecret holds the platform app secret.
	ConfigKeyAppSecret = "app.secret"
	// ConfigKeyRegion holds the configured region name.
	ConfigKeyRegion = "app.region"
	// ConfigKeyLastDocument remembers the last fetched document id.
	ConfigKeyLastDocument = "fetch.last_document_id"
)

// configuredRegion resolves the region from configuration, falling
// back to the default region for unset or unknown values.
func configuredRegion(cfg driven.ConfigStore) domain.Region {
	if cfg == nil {
		return domain.RegionFeishu
	}
	r := domain.Region(cfg.GetString(ConfigKeyRegion))
	if !r.Valid() {
		return domain.RegionFeishu
	}
	return r
}

// appCredentials reads the configured app id and secret.
// Returns domain.ErrConfigurationMissing when either is unset.
func appCredentials(cfg driven.ConfigStore) (appID, appSecret string, err error) {
	if cfg == nil {
		return "", "", domain.ErrConfigurationMissing
	}
	appID = cfg.GetString(ConfigKeyAppID)
	appSecret = cfg.GetString(ConfigKeyAppSecret)
	if appID == "" || appSecret == "" {
		return "", "", domain.ErrConfigurationMissing
	}
	return appID, appSecret, nil
}
