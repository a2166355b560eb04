// Package jsonengine is a concrete, reference implementation of the §6
// external collaborator surface (engine.Engine): it reads newline-
// delimited JSON action batches off disk and interprets expression
// trees against them directly, with no code generation or columnar
// storage involved. It exists to exercise the core against something
// real, not as a performance-minded production engine.
package jsonengine

import "github.com/malbeclabs/deltascan/kernel/pkg/engine"

// Batch is a row-oriented slice of decoded JSON objects, each keyed by
// action name ("add" or "remove") the way a Delta log line is shaped.
type Batch struct {
	Rows []map[string]any
}

func (b *Batch) Len() int {
	return len(b.Rows)
}

var _ engine.Batch = (*Batch)(nil)
