// Package ingestors provides the registry of document ingestors.
//
// Each domain.DocumentType has exactly one ingestion strategy,
// implemented in a subpackage (tabular, text, structured). Selection
// is by explicit type match through the Registry; there is no
// open-ended content sniffing.
package ingestors
