// Package ingest discovers notice text files and turns them into documents.
package ingest

import "github.com/joseph-ayodele/licitaciones/internal/entity"

// Result is the per-file ingest outcome.
type Result struct {
	Path     string
	Document entity.Document
	Err      string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}
