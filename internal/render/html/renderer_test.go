package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forlark/larkfetch/internal/core/domain"
)

func textBlock(kind domain.BlockType, content string) domain.Block {
	return domain.Block{
		BlockType: kind,
		TextRun: &domain.TextRun{Elements: []domain.Element{
			{TextElement: &domain.TextElement{Content: content}},
		}},
	}
}

// TestRenderer_PageSkeleton tests the standalone page wrapper
func TestRenderer_PageSkeleton(t *testing.T) {
	out, err := New().Render(&domain.Document{Title: "Notes"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<title>Notes</title>\n"))
	assert.Contains(t, out, "<h1>Notes</h1>\n")
	assert.True(t, strings.HasSuffix(out, "</body>\n</html>"))
}

// TestRenderer_Blocks tests the block element mapping
func TestRenderer_Blocks(t *testing.T) {
	doc := &domain.Document{Blocks: []domain.Block{
		textBlock("heading2", "Section"),
		textBlock(domain.BlockText, "Hello."),
		textBlock(domain.BlockBullet, "item"),
		textBlock(domain.BlockOrdered, "step"),
		textBlock(domain.BlockQuote, "quoted"),
		textBlock(domain.BlockCode, "a < b"),
		{BlockType: domain.BlockDivider},
	}}

	out, err := New().Render(doc)
	require.NoError(t, err)

	assert.Contains(t, out, "<h2>Section</h2>\n")
	assert.Contains(t, out, "<p>Hello.</p>\n")
	assert.Contains(t, out, "<ul><li>item</li></ul>\n")
	assert.Contains(t, out, "<ol><li>step</li></ol>\n")
	assert.Contains(t, out, "<blockquote>quoted</blockquote>\n")
	assert.Contains(t, out, "<pre><code>a &lt; b</code></pre>\n")
	assert.Contains(t, out, "<hr>\n")
}

// TestRenderer_HeadingClamp tests levels above six clamping to h6
func TestRenderer_HeadingClamp(t *testing.T) {
	out, err := New().Render(&domain.Document{Blocks: []domain.Block{
		textBlock("heading7", "deep"),
	}})
	require.NoError(t, err)
	assert.Contains(t, out, "<h6>deep</h6>\n")
	assert.NotContains(t, out, "<h7>")
}

// TestRenderer_Escaping tests that markup characters never pass through raw
func TestRenderer_Escaping(t *testing.T) {
	doc := &domain.Document{
		Title: `<script>alert("title")</script>`,
		Blocks: []domain.Block{
			textBlock(domain.BlockText, `a <b> & "c"`),
		},
	}

	out, err := New().Render(doc)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "<p>a &lt;b&gt; &amp; &#34;c&#34;</p>")
}

// TestRenderer_CodeEscapedOnce tests code content is escaped exactly once
func TestRenderer_CodeEscapedOnce(t *testing.T) {
	out, err := New().Render(&domain.Document{Blocks: []domain.Block{
		textBlock(domain.BlockCode, "if a < b && c > d {"),
	}})
	require.NoError(t, err)

	assert.Contains(t, out, "<pre><code>if a &lt; b &amp;&amp; c &gt; d {</code></pre>")
	assert.NotContains(t, out, "&amp;lt;")
}

// TestRenderer_InlineStyles tests the inline tag mapping
func TestRenderer_InlineStyles(t *testing.T) {
	doc := &domain.Document{Blocks: []domain.Block{{
		BlockType: domain.BlockText,
		TextRun: &domain.TextRun{Elements: []domain.Element{
			{TextElement: &domain.TextElement{Content: "b", Style: &domain.TextStyle{Bold: true}}},
			{TextElement: &domain.TextElement{Content: "i", Style: &domain.TextStyle{Italic: true}}},
			{TextElement: &domain.TextElement{Content: "s", Style: &domain.TextStyle{Strikethrough: true}}},
			{TextElement: &domain.TextElement{Content: "c", Style: &domain.TextStyle{InlineCode: true}}},
			{TextElement: &domain.TextElement{Content: "l", Style: &domain.TextStyle{Link: &domain.Link{URL: "https://x?a=1&b=2"}}}},
		}},
	}}}

	out, err := New().Render(doc)
	require.NoError(t, err)

	assert.Contains(t, out, "<strong>b</strong>")
	assert.Contains(t, out, "<em>i</em>")
	assert.Contains(t, out, "<del>s</del>")
	assert.Contains(t, out, "<code>c</code>")
	assert.Contains(t, out, `<a href="https://x?a=1&amp;b=2">l</a>`)
}

// TestRenderer_SkipsUnmappedBlocks tests that images, todos, and
// unknown tags leave no trace
func TestRenderer_SkipsUnmappedBlocks(t *testing.T) {
	doc := &domain.Document{Blocks: []domain.Block{
		{BlockType: domain.BlockImage, Image: &domain.ImagePayload{Token: "x"}},
		{BlockType: domain.BlockTodo, Todo: &domain.TodoPayload{Done: true}},
		{BlockType: "gallery"},
	}}

	out, err := New().Render(doc)
	require.NoError(t, err)

	assert.NotContains(t, out, "gallery")
	assert.NotContains(t, out, "img")
	assert.Contains(t, out, "<body>\n</body>")
}
