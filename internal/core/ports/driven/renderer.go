package driven

import (
	"github.com/forlark/larkfetch/internal/core/domain"
)

// Renderer projects a fetched document into one output format. A
// renderer is pure: same document in, same string out, no network or
// storage access.
type Renderer interface {
	// Format identifies which output format this renderer produces.
	Format() domain.OutputFormat

	// Render projects the document. Unknown block types degrade to
	// placeholders or are skipped; they never fail the render.
	Render(doc *domain.Document) (string, error)
}

// RendererRegistry selects the renderer for an output format.
type RendererRegistry interface {
	// Get returns the renderer for a format.
	// Returns domain.ErrInvalidInput for unsupported formats.
	Get(format domain.OutputFormat) (Renderer, error)
}
