// Package plaintext renders a document's block sequence as plain text.
package plaintext

import (
	"strings"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.Renderer = (*Renderer)(nil)

// Renderer projects blocks into plain text. Style annotations are
// discarded and block types without a text projection are skipped
// silently.
type Renderer struct{}

// New creates a plain text renderer.
func New() *Renderer {
	return &Renderer{}
}

// Format identifies the output format.
func (r *Renderer) Format() domain.OutputFormat {
	return domain.FormatText
}

// Render projects the document into plain text.
func (r *Renderer) Render(doc *domain.Document) (string, error) {
	var b strings.Builder

	if doc.Title != "" {
		b.WriteString(doc.Title + "\n\n")
	}

	for i := range doc.Blocks {
		block := &doc.Blocks[i]
		kind := block.Kind()

		if block.HeadingLevel() > 0 {
			b.WriteString(inline(block.Elements()) + "\n\n")
			continue
		}

		switch kind {
		case domain.BlockPage:
			if block.Page != nil && block.Page.Title != "" && block.Page.Title != doc.Title {
				b.WriteString(block.Page.Title + "\n\n")
			}
		case domain.BlockText:
			b.WriteString(inline(block.Elements()) + "\n\n")
		case domain.BlockBullet:
			b.WriteString("• " + inline(block.Elements()) + "\n")
		case domain.BlockOrdered:
			b.WriteString("1. " + inline(block.Elements()) + "\n")
		case domain.BlockQuote:
			b.WriteString("\"" + inline(block.Elements()) + "\"\n\n")
		case domain.BlockCode:
			b.WriteString(inline(block.Elements()) + "\n\n")
		case domain.BlockDivider:
			b.WriteString("---\n\n")
		}
	}

	return strings.TrimSpace(b.String()) + "\n", nil
}

// inline concatenates a run's text content, dropping styles.
func inline(elements []domain.Element) string {
	var b strings.Builder

	for _, el := range elements {
		switch {
		case el.TextElement != nil:
			b.WriteString(el.TextElement.Content)
		case el.Text != "":
			b.WriteString(el.Text)
		case el.Mention != nil:
			b.WriteString("@" + el.Mention.DisplayName())
		case el.Equation != nil:
			b.WriteString(el.Equation.Content)
		}
	}

	return b.String()
}
