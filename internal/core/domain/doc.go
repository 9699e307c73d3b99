// Package domain defines the core business entities for larkfetch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Region: A platform region and its API base
//   - ServiceToken: A cached tenant-level credential
//   - UserSession: An end user's OAuth tokens
//   - Block: One structural unit of a fetched document
//   - Document: A fetched document with its ordered block sequence
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
