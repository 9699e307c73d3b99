package domain

// Document is a fetched remote document: its identifier, title, and
// the full ordered block sequence. Documents are transient — fetched
// fresh per request and never cached across requests.
type Document struct {
	// ID is the platform document identifier.
	ID string
	// Title is the document title from the metadata endpoint.
	Title string
	// Blocks is the complete ordered block sequence, reassembled
	// across pagination. Platform order is preserved exactly.
	Blocks []Block
}
