// Package html renders a document's block sequence as a standalone
// HTML page. Every piece of literal text is escaped before insertion;
// platform content never reaches the markup raw.
package html

import (
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.Renderer = (*Renderer)(nil)

// Renderer projects blocks into HTML. Headings above level six clamp
// to h6; block types without an HTML projection are skipped silently.
type Renderer struct{}

// New creates an HTML renderer.
func New() *Renderer {
	return &Renderer{}
}

// Format identifies the output format.
func (r *Renderer) Format() domain.OutputFormat {
	return domain.FormatHTML
}

// Render projects the document into a standalone HTML page.
func (r *Renderer) Render(doc *domain.Document) (string, error) {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n</head>\n<body>\n", stdhtml.EscapeString(doc.Title))

	if doc.Title != "" {
		fmt.Fprintf(&b, "<h1>%s</h1>\n", stdhtml.EscapeString(doc.Title))
	}

	for i := range doc.Blocks {
		block := &doc.Blocks[i]
		kind := block.Kind()

		if level := block.HeadingLevel(); level > 0 {
			if level > 6 {
				level = 6
			}
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, inline(block.Elements()), level)
			continue
		}

		switch kind {
		case domain.BlockPage:
			if block.Page != nil && block.Page.Title != "" && block.Page.Title != doc.Title {
				fmt.Fprintf(&b, "<h1>%s</h1>\n", stdhtml.EscapeString(block.Page.Title))
			}
		case domain.BlockText:
			fmt.Fprintf(&b, "<p>%s</p>\n", inline(block.Elements()))
		case domain.BlockBullet:
			fmt.Fprintf(&b, "<ul><li>%s</li></ul>\n", inline(block.Elements()))
		case domain.BlockOrdered:
			fmt.Fprintf(&b, "<ol><li>%s</li></ol>\n", inline(block.Elements()))
		case domain.BlockQuote:
			fmt.Fprintf(&b, "<blockquote>%s</blockquote>\n", inline(block.Elements()))
		case domain.BlockCode:
			fmt.Fprintf(&b, "<pre><code>%s</code></pre>\n", plain(block.Elements()))
		case domain.BlockDivider:
			b.WriteString("<hr>\n")
		}
	}

	b.WriteString("</body>\n</html>")
	return b.String(), nil
}

// inline concatenates a run's elements with inline HTML tags. Content
// and link targets are escaped here, at the single point where
// platform text meets markup.
func inline(elements []domain.Element) string {
	var b strings.Builder

	for _, el := range elements {
		switch {
		case el.TextElement != nil:
			content := stdhtml.EscapeString(el.TextElement.Content)
			style := el.TextElement.Style
			switch {
			case style == nil:
				b.WriteString(content)
			case style.Bold:
				b.WriteString("<strong>" + content + "</strong>")
			case style.Italic:
				b.WriteString("<em>" + content + "</em>")
			case style.Strikethrough:
				b.WriteString("<del>" + content + "</del>")
			case style.InlineCode:
				b.WriteString("<code>" + content + "</code>")
			case style.Link != nil:
				fmt.Fprintf(&b, "<a href=\"%s\">%s</a>", stdhtml.EscapeString(style.Link.URL), content)
			default:
				b.WriteString(content)
			}
		case el.Text != "":
			b.WriteString(stdhtml.EscapeString(el.Text))
		case el.Mention != nil:
			b.WriteString("@" + stdhtml.EscapeString(el.Mention.DisplayName()))
		case el.Equation != nil:
			b.WriteString(stdhtml.EscapeString(el.Equation.Content))
		}
	}

	return b.String()
}

// plain concatenates a run's escaped text without inline styling,
// used inside code blocks where emphasis tags make no sense.
func plain(elements []domain.Element) string {
	var b strings.Builder

	for _, el := range elements {
		switch {
		case el.TextElement != nil:
			b.WriteString(stdhtml.EscapeString(el.TextElement.Content))
		case el.Text != "":
			b.WriteString(stdhtml.EscapeString(el.Text))
		}
	}

	return b.String()
}
