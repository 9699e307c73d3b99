// Package markdown renders a document's block sequence as Markdown.
package markdown

import (
	"fmt"
	"strings"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
)

// thumbnailBase is the CDN prefix image references are built from.
const thumbnailBase = "https://cn.feishucdn.com/thumbnail/"

// Ensure Renderer implements the interface.
var _ driven.Renderer = (*Renderer)(nil)

// Renderer projects blocks into Markdown. Headings above level six
// clamp to six hashes; blocks with no Markdown equivalent degrade to
// a bracketed placeholder rather than being dropped.
type Renderer struct{}

// New creates a Markdown renderer.
func New() *Renderer {
	return &Renderer{}
}

// Format identifies the output format.
func (r *Renderer) Format() domain.OutputFormat {
	return domain.FormatMarkdown
}

// Render projects the document into Markdown.
func (r *Renderer) Render(doc *domain.Document) (string, error) {
	var b strings.Builder

	if doc.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	}

	for i := range doc.Blocks {
		block := &doc.Blocks[i]
		kind := block.Kind()

		if level := block.HeadingLevel(); level > 0 {
			if level > 6 {
				level = 6
			}
			fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", level), inline(block.Elements()))
			continue
		}

		switch kind {
		case domain.BlockPage:
			// The root page block repeats the document title.
			if block.Page != nil && block.Page.Title != "" && block.Page.Title != doc.Title {
				fmt.Fprintf(&b, "# %s\n\n", block.Page.Title)
			}
		case domain.BlockText:
			b.WriteString(inline(block.Elements()) + "\n\n")
		case domain.BlockBullet:
			b.WriteString("- " + inline(block.Elements()) + "\n")
		case domain.BlockOrdered:
			b.WriteString("1. " + inline(block.Elements()) + "\n")
		case domain.BlockQuote:
			b.WriteString("> " + inline(block.Elements()) + "\n\n")
		case domain.BlockCode:
			fmt.Fprintf(&b, "```\n%s\n```\n\n", inline(block.Elements()))
		case domain.BlockDivider:
			b.WriteString("---\n\n")
		case domain.BlockTodo:
			checked := " "
			if block.Todo != nil && block.Todo.Done {
				checked = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", checked, inline(block.Elements()))
		case domain.BlockImage:
			if block.Image != nil && block.Image.Token != "" {
				fmt.Fprintf(&b, "![image](%s%s)\n\n", thumbnailBase, block.Image.Token)
			}
		case domain.BlockTable:
			b.WriteString("[table]\n\n")
		case domain.BlockView:
			if block.View != nil && block.View.Title != "" {
				fmt.Fprintf(&b, "[view: %s]\n\n", block.View.Title)
			} else {
				b.WriteString("[view]\n\n")
			}
		case domain.BlockFile:
			if block.File != nil && block.File.Name != "" {
				fmt.Fprintf(&b, "[file: %s]\n\n", block.File.Name)
			} else {
				b.WriteString("[file]\n\n")
			}
		default:
			if text := inline(block.Elements()); text != "" {
				b.WriteString(text + "\n\n")
			} else if kind != "" {
				fmt.Fprintf(&b, "[%s]\n\n", kind)
			}
		}
	}

	return strings.TrimSpace(b.String()) + "\n", nil
}

// inline concatenates a run's elements with Markdown emphasis syntax.
// Style flags apply in a fixed order; the first set flag wins.
func inline(elements []domain.Element) string {
	var b strings.Builder

	for _, el := range elements {
		switch {
		case el.TextElement != nil:
			content := el.TextElement.Content
			style := el.TextElement.Style
			switch {
			case style == nil:
				b.WriteString(content)
			case style.Bold:
				b.WriteString("**" + content + "**")
			case style.Italic:
				b.WriteString("*" + content + "*")
			case style.Strikethrough:
				b.WriteString("~~" + content + "~~")
			case style.InlineCode:
				b.WriteString("`" + content + "`")
			case style.Link != nil:
				fmt.Fprintf(&b, "[%s](%s)", content, style.Link.URL)
			default:
				b.WriteString(content)
			}
		case el.Text != "":
			b.WriteString(el.Text)
		case el.Mention != nil:
			b.WriteString("@" + el.Mention.DisplayName())
		case el.Equation != nil:
			b.WriteString("$" + el.Equation.Content + "$")
		}
	}

	return b.String()
}
