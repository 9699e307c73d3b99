// Package render selects the output renderer for a fetched document.
//
// The three projections live in subpackages (plaintext, markdown,
// html). All consume the same ordered block sequence plus the
// document title; none touch the network or storage. Rendering is
// total: unknown block types degrade to placeholders or are skipped,
// never failed.
package render
