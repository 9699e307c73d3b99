package render

import (
	"fmt"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
	"github.com/forlark/larkfetch/internal/render/html"
	"github.com/forlark/larkfetch/internal/render/markdown"
	"github.com/forlark/larkfetch/internal/render/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.RendererRegistry = (*Registry)(nil)

// Registry maps output formats to renderers.
type Registry struct {
	renderers map[domain.OutputFormat]driven.Renderer
}

// NewRegistry creates a registry over the given renderers.
func NewRegistry(renderers ...driven.Renderer) *Registry {
	r := &Registry{
		renderers: make(map[domain.OutputFormat]driven.Renderer, len(renderers)),
	}
	for _, renderer := range renderers {
		r.renderers[renderer.Format()] = renderer
	}
	return r
}

// DefaultRegistry creates a registry with all built-in renderers.
func DefaultRegistry() *Registry {
	return NewRegistry(plaintext.New(), markdown.New(), html.New())
}

// Get returns the renderer for a format.
func (r *Registry) Get(format domain.OutputFormat) (driven.Renderer, error) {
	renderer, ok := r.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: no renderer for format %q", domain.ErrInvalidInput, format)
	}
	return renderer, nil
}
