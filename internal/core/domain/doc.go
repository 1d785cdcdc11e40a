// Package domain defines the core business entities for the search provider.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Query: the normalised terms of one search and its location scope
//   - Hit: one matched result carrying a relevance score
//   - ResultMeta: display metadata (name, icon) for a result identifier
//   - Bookmark, Drive, Volume, Mount: auxiliary match candidates
//   - FileInfo: what the metadata source knows about a file
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
