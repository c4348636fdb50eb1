// Package domain defines the core business entities for Retrieva.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Parsed file content handed over for ingestion
//   - Chunk: A typed, attributed unit of retrievable text
//   - Vector: A sparse term-weight representation of text
//   - ContextBundle: The assembled multi-source retrieval output
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
