package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
	"github.com/forlark/larkfetch/internal/core/ports/driving"
	"github.com/forlark/larkfetch/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driving.FetchService = (*Fetcher)(nil)

// Fetcher retrieves remote documents and renders them. Token
// selection prefers a live user session, refreshing it when possible,
// and falls back to service-level access otherwise.
type Fetcher struct {
	platform  driven.PlatformClient
	sessions  driven.SessionStore
	config    driven.ConfigStore
	tokens    *TokenCache
	auth      driving.AuthService
	renderers driven.RendererRegistry
	now       func() time.Time
}

// NewFetcher creates a new fetch service.
func NewFetcher(platform driven.PlatformClient, sessions driven.SessionStore, config driven.ConfigStore, tokens *TokenCache, auth driving.AuthService, renderers driven.RendererRegistry) *Fetcher {
	return &Fetcher{
		platform:  platform,
		sessions:  sessions,
		config:    config,
		tokens:    tokens,
		auth:      auth,
		renderers: renderers,
		now:       time.Now,
	}
}

// Fetch retrieves the document named by ref, reassembles its blocks
// across pagination, and renders it. Documents are fetched fresh on
// every call; nothing is cached between fetches.
func (f *Fetcher) Fetch(ctx context.Context, ref string, format domain.OutputFormat) (*driving.FetchResult, error) {
	parsed, err := domain.ParseDocumentRef(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot determine document id from %q", domain.ErrInvalidInput, ref)
	}
	docID := parsed.ID

	renderer, err := f.renderers.Get(format)
	if err != nil {
		return nil, err
	}

	// A document URL names its own region; that beats the configured
	// default. Bare ids leave the region undecided here.
	var docRegion domain.Region
	if parsed.Host != "" {
		docRegion = domain.ResolveRegion(parsed.Host)
		if configured := configuredRegion(f.config); docRegion != configured {
			logger.Warn("document host %s resolves to the %s region, configured default is %s",
				parsed.Host, docRegion, configured)
		}
	}

	token, kind, region, err := f.accessToken(ctx, docRegion)
	if err != nil {
		return nil, err
	}
	logger.Debug("fetching %s from %s with %s token", docID, region, kind)

	meta, err := f.platform.DocumentMeta(ctx, region, token, docID)
	if err != nil {
		return nil, err
	}

	blocks, err := f.collectBlocks(ctx, region, token, docID)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:     docID,
		Title:  meta.Title,
		Blocks: blocks,
	}

	content, err := renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", format, err)
	}

	// Remembering the last document is a convenience, never a failure.
	if err := f.config.Set(ConfigKeyLastDocument, docID); err != nil {
		logger.Warn("remembering last document: %v", err)
	}

	return &driving.FetchResult{
		DocumentID: docID,
		Title:      meta.Title,
		Content:    content,
		Format:     format,
		TokenKind:  kind,
		BlockCount: len(blocks),
	}, nil
}

// accessToken picks the credential for this fetch. A valid user
// session wins when its region serves the document; an expired
// refreshable one is refreshed; anything else falls back to a service
// token for the document's region, or the configured one when the
// reference carried no host.
func (f *Fetcher) accessToken(ctx context.Context, docRegion domain.Region) (string, domain.TokenKind, domain.Region, error) {
	session, err := f.sessions.GetSession(ctx)
	if err == nil {
		if docRegion.Valid() && session.Region != docRegion {
			logger.Warn("user session belongs to %s but the document lives in %s, using a service token",
				session.Region, docRegion)
		} else {
			if !session.ExpiredAt(f.now()) {
				return session.AccessToken, domain.TokenKindUser, session.Region, nil
			}
			if session.HasRefreshToken() {
				fresh, err := f.auth.Refresh(ctx)
				if err == nil {
					return fresh.AccessToken, domain.TokenKindUser, fresh.Region, nil
				}
				logger.Warn("session refresh failed, falling back to service token: %v", err)
			} else {
				logger.Debug("user session expired without refresh token, falling back to service token")
			}
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", "", "", err
	}

	region := docRegion
	if !region.Valid() {
		region = configuredRegion(f.config)
	}
	token, err := f.tokens.Get(ctx, region)
	if err != nil {
		return "", "", "", err
	}
	return token, domain.TokenKindTenant, region, nil
}

// collectBlocks walks the root block's children page by page,
// appending items in platform order. Any page failure aborts the
// whole fetch; a partial document is never returned.
func (f *Fetcher) collectBlocks(ctx context.Context, region domain.Region, token, docID string) ([]domain.Block, error) {
	var blocks []domain.Block
	pageToken := ""
	for {
		// The document id doubles as the root block id.
		page, err := f.platform.BlockChildren(ctx, region, token, docID, docID, pageToken)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, page.Items...)
		if !page.HasMore || page.PageToken == "" {
			return blocks, nil
		}
		pageToken = page.PageToken
	}
}
