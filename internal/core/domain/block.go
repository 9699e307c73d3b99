package domain

import "strings"

// BlockType tags one structural unit of a document. The platform has
// shipped both "heading1" and "heading_1" style tags across API
// revisions; Block.Kind normalises them. Unrecognised tags are kept
// as-is and rendered as no-ops or placeholders, never as failures.
type BlockType string

// Known block types (normalised form).
const (
	BlockPage    BlockType = "page"
	BlockText    BlockType = "text"
	BlockBullet  BlockType = "bullet"
	BlockOrdered BlockType = "ordered"
	BlockQuote   BlockType = "quote"
	BlockCode    BlockType = "code"
	BlockDivider BlockType = "divider"
	BlockTodo    BlockType = "todo"
	BlockTable   BlockType = "table"
	BlockImage   BlockType = "image"
	BlockView    BlockType = "view"
	BlockFile    BlockType = "file"

	// BlockHeading1..BlockHeading9 are "heading1".."heading9".
	BlockHeading1 BlockType = "heading1"
)

// Block is one structural unit of a remote document, decoded once at
// the API boundary. Exactly one of the payload fields is populated
// depending on the type tag; text-bearing blocks carry a TextRun.
type Block struct {
	// BlockType is the platform's type tag. Newer API revisions use
	// "block_type", older ones "type"; both are accepted.
	BlockType BlockType `json:"block_type,omitempty"`
	// LegacyType is the pre-revision tag field.
	LegacyType BlockType `json:"type,omitempty"`

	// TextRun holds the styled inline elements for text-bearing blocks.
	TextRun *TextRun `json:"text_run,omitempty"`

	// Page carries the page title for page blocks.
	Page *PagePayload `json:"page,omitempty"`
	// Todo carries the checked flag for to-do blocks.
	Todo *TodoPayload `json:"todo,omitempty"`
	// Image carries the content-addressed token for image blocks.
	Image *ImagePayload `json:"image,omitempty"`
	// View carries the title of an embedded view reference.
	View *ViewPayload `json:"view,omitempty"`
	// File carries the name of an attached file.
	File *FilePayload `json:"file,omitempty"`
}

// PagePayload is the payload of a page block.
type PagePayload struct {
	Title string `json:"title"`
}

// TodoPayload is the payload of a to-do block.
type TodoPayload struct {
	Done bool `json:"done"`
}

// ImagePayload is the payload of an image block.
type ImagePayload struct {
	Token string `json:"token"`
}

// ViewPayload is the payload of an embedded-view block.
type ViewPayload struct {
	Title string `json:"title"`
}

// FilePayload is the payload of a file block.
type FilePayload struct {
	Name string `json:"name"`
}

// Kind returns the normalised block type: underscore heading and list
// tags collapse onto their compact forms, and whichever of the two tag
// fields is set wins (block_type preferred).
func (b *Block) Kind() BlockType {
	t := b.BlockType
	if t == "" {
		t = b.LegacyType
	}
	switch t {
	case "bullet_list":
		return BlockBullet
	case "ordered_list":
		return BlockOrdered
	}
	if rest, ok := strings.CutPrefix(string(t), "heading_"); ok {
		return BlockType("heading" + rest)
	}
	return t
}

// HeadingLevel returns 1..9 for heading blocks and 0 otherwise.
func (b *Block) HeadingLevel() int {
	k := string(b.Kind())
	if len(k) != len("headingN") || !strings.HasPrefix(k, "heading") {
		return 0
	}
	lvl := int(k[len(k)-1] - '0')
	if lvl < 1 || lvl > 9 {
		return 0
	}
	return lvl
}

// Elements returns the block's inline elements, or nil when the block
// carries no rich text.
func (b *Block) Elements() []Element {
	if b.TextRun == nil {
		return nil
	}
	return b.TextRun.Elements
}

// TextRun is an ordered sequence of styled inline elements. Ordering
// is significant and is preserved left to right.
type TextRun struct {
	Elements []Element `json:"elements"`
}

// Element is one inline unit within a run: styled text, raw text, a
// mention, or an inline equation. Exactly one variant field is set;
// an element with none set renders as nothing.
type Element struct {
	// TextElement is a styled text run.
	TextElement *TextElement `json:"text_run,omitempty"`
	// Text is a raw, unstyled text fallback.
	Text string `json:"text,omitempty"`
	// Mention references a user or document by name or id.
	Mention *Mention `json:"mention,omitempty"`
	// Equation is an inline formula.
	Equation *Equation `json:"equation,omitempty"`
}

// TextElement is a piece of text with optional style annotations.
type TextElement struct {
	Content string     `json:"content"`
	Style   *TextStyle `json:"text_element_style,omitempty"`
}

// TextStyle holds the inline style flags the renderers map to
// emphasis syntax. Flags are not mutually exclusive on the wire, but
// the mapping applies the first set flag in a fixed order.
type TextStyle struct {
	Bold          bool  `json:"bold,omitempty"`
	Italic        bool  `json:"italic,omitempty"`
	Strikethrough bool  `json:"strikethrough,omitempty"`
	InlineCode    bool  `json:"inline_code,omitempty"`
	Link          *Link `json:"link,omitempty"`
}

// Link is a hyperlink style annotation.
type Link struct {
	URL string `json:"url"`
}

// Mention references a user or document inline.
type Mention struct {
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
}

// DisplayName returns the mention's name, falling back to its id.
func (m *Mention) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// Equation is an inline formula element.
type Equation struct {
	Content string `json:"content"`
}
