package domain

import (
	"net/url"
	"regexp"
)

// docPathPattern matches the document id in the URL path of the known
// document surfaces: /docx/<id>, /docs/<id>, /wiki/<id>, /note/<id>.
var docPathPattern = regexp.MustCompile(`/(?:docx|docs|wiki|note)/([a-zA-Z0-9_-]+)`)

// docIDParams are query parameters the web client has used to carry a
// document id, checked in order.
var docIDParams = []string{"docId", "doc_id", "documentId"}

// DocumentRef is a parsed document reference. Host is empty when the
// reference was a bare document id rather than a URL.
type DocumentRef struct {
	ID   string
	Host string
}

// ParseDocumentRef pulls a document id, and the hostname when present,
// out of a document URL. Bare ids pass through with an empty host.
// Returns ErrInvalidInput when nothing id-like can be found.
func ParseDocumentRef(raw string) (DocumentRef, error) {
	if raw == "" {
		return DocumentRef{}, ErrInvalidInput
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// Not a URL; treat the input as a bare document id.
		return DocumentRef{ID: raw}, nil
	}

	if m := docPathPattern.FindStringSubmatch(u.Path); m != nil {
		return DocumentRef{ID: m[1], Host: u.Host}, nil
	}

	q := u.Query()
	for _, param := range docIDParams {
		if id := q.Get(param); id != "" {
			return DocumentRef{ID: id, Host: u.Host}, nil
		}
	}

	return DocumentRef{}, ErrInvalidInput
}

// ExtractDocumentID pulls a document id out of a document URL or
// returns the input unchanged when it already looks like a bare id.
// Returns ErrInvalidInput when nothing id-like can be found.
func ExtractDocumentID(raw string) (string, error) {
	ref, err := ParseDocumentRef(raw)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}
