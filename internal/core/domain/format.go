package domain

import "fmt"

// OutputFormat selects which renderer projects a fetched document.
type OutputFormat string

// Supported output formats.
const (
	FormatText     OutputFormat = "text"
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
)

// ParseOutputFormat maps a user-supplied format name onto an
// OutputFormat, accepting the common short aliases.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "txt", "plain":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: unknown output format %q", ErrInvalidInput, s)
}

// Valid reports whether the format is one of the supported set.
func (f OutputFormat) Valid() bool {
	return f == FormatText || f == FormatMarkdown || f == FormatHTML
}
