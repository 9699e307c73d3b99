package services

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
)

// fakePlatform is a scriptable PlatformClient recording every call.
type fakePlatform struct {
	mu sync.Mutex

	tenantCalls  int
	tenantRegion domain.Region
	tenantToken  *domain.ServiceToken
	tenantErr    error

	exchangeCalls int
	lastExchange  driven.CodeExchange
	lastTenant    string
	session       *domain.UserSession
	exchangeErr   error

	refreshCalls int
	lastRefresh  string
	refreshed    *domain.UserSession
	refreshErr   error

	profile    *domain.UserProfile
	profileErr error

	metaCalls  int
	metaRegion domain.Region
	meta       *driven.DocumentMeta
	metaErr    error

	blockCalls    int
	blockPageSeen []string
	pages         map[string]*domain.BlockChildrenPage
	blockErr      error
}

func (p *fakePlatform) TenantAccessToken(_ context.Context, region domain.Region, _, _ string) (*domain.ServiceToken, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tenantCalls++
	p.tenantRegion = region
	if p.tenantErr != nil {
		return nil, p.tenantErr
	}
	if p.tenantToken != nil {
		tok := *p.tenantToken
		tok.Region = region
		return &tok, nil
	}
	return &domain.ServiceToken{
		Region:    region,
		Token:     fmt.Sprintf("tenant-%d", p.tenantCalls),
		ExpiresAt: time.Now().Add(2 * time.Hour),
	}, nil
}

func (p *fakePlatform) ExchangeCode(_ context.Context, _ domain.Region, tenantToken string, exchange driven.CodeExchange) (*domain.UserSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exchangeCalls++
	p.lastExchange = exchange
	p.lastTenant = tenantToken
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	session := *p.session
	return &session, nil
}

func (p *fakePlatform) RefreshUserToken(_ context.Context, _ domain.Region, refreshToken string) (*domain.UserSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshCalls++
	p.lastRefresh = refreshToken
	if p.refreshErr != nil {
		return nil, p.refreshErr
	}
	session := *p.refreshed
	return &session, nil
}

func (p *fakePlatform) UserInfo(_ context.Context, _ domain.Region, _ string) (*domain.UserProfile, error) {
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	if p.profile == nil {
		return nil, fmt.Errorf("no profile scripted")
	}
	profile := *p.profile
	return &profile, nil
}

func (p *fakePlatform) DocumentMeta(_ context.Context, region domain.Region, _, documentID string) (*driven.DocumentMeta, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metaCalls++
	p.metaRegion = region
	if p.metaErr != nil {
		return nil, p.metaErr
	}
	if p.meta != nil {
		meta := *p.meta
		return &meta, nil
	}
	return &driven.DocumentMeta{ID: documentID, Title: "Doc"}, nil
}

func (p *fakePlatform) BlockChildren(_ context.Context, _ domain.Region, _, _, _ string, pageToken string) (*domain.BlockChildrenPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blockCalls++
	p.blockPageSeen = append(p.blockPageSeen, pageToken)
	if page, ok := p.pages[pageToken]; ok && page != nil {
		return page, nil
	}
	if p.blockErr != nil {
		return nil, p.blockErr
	}
	return &domain.BlockChildrenPage{}, nil
}

func (p *fakePlatform) AuthorizeURL(region domain.Region, appID, redirectURI, state string) string {
	return fmt.Sprintf("%s/open-apis/authen/v1/authorize?app_id=%s&redirect_uri=%s&state=%s",
		region.APIBase(), appID, url.QueryEscape(redirectURI), state)
}

// textBlock builds a plain text block with one content element.
func textBlock(content string) domain.Block {
	return domain.Block{
		BlockType: domain.BlockText,
		TextRun: &domain.TextRun{Elements: []domain.Element{
			{TextElement: &domain.TextElement{Content: content}},
		}},
	}
}

// fakeRenderer renders a document as "title|n" where n is the block
// count, enough to assert plumbing without real rendering.
type fakeRenderer struct {
	format domain.OutputFormat
}

func (r *fakeRenderer) Format() domain.OutputFormat { return r.format }

func (r *fakeRenderer) Render(doc *domain.Document) (string, error) {
	return fmt.Sprintf("%s|%d", doc.Title, len(doc.Blocks)), nil
}

// fakeRegistry serves one renderer for one format.
type fakeRegistry struct {
	renderer driven.Renderer
}

func (r *fakeRegistry) Get(format domain.OutputFormat) (driven.Renderer, error) {
	if r.renderer != nil && r.renderer.Format() == format {
		return r.renderer, nil
	}
	return nil, fmt.Errorf("%w: no renderer for %s", domain.ErrInvalidInput, format)
}
