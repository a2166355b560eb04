// Package engine defines the external collaborator surface (§6) the
// scan-planning core consumes: expression evaluation, row visiting, and
// the opaque batch representation. Concrete engines (Parquet/JSON
// readers, Arrow-shaped batches) are out of scope for the core — this
// package only specifies the capability bundle passed by reference
// (§9), not an implementation of it.
package engine

import "github.com/malbeclabs/deltascan/kernel/pkg/expression"

// Batch is an opaque row-oriented or columnar batch with a known row
// count and conformance to some schema. The core never mutates a Batch
// in place (§9 "Selection vs. eval").
type Batch interface {
	Len() int
}

// Evaluator projects a Batch through a previously built expression.
type Evaluator interface {
	Evaluate(batch Batch) (Batch, error)
}

// ExpressionHandler builds an Evaluator for an expression against a
// known input schema and declared output type.
type ExpressionHandler interface {
	BuildEvaluator(inputSchema expression.DataType, expr expression.Expression, outputType expression.DataType) (Evaluator, error)
}

// ColumnRequest names one column a RowVisitor must expose typed access
// to, by dotted path and declared type.
type ColumnRequest struct {
	Path []string
	Type expression.DataType
}

// RowGetter provides typed field access for one logical row, by the
// ordinal position of the column in the ColumnRequest list the visitor
// was given. Index-based, not name-based, so the dedup visitor (§4.D)
// can enforce its fixed nine-getter (or five-getter, checkpoint) layout
// as a hard precondition.
type RowGetter interface {
	// GetStr returns the string value at index i and whether it is
	// present (false = SQL NULL).
	GetStr(i int) (string, bool)
	// GetMap returns the string->string map value at index i.
	GetMap(i int) (map[string]string, bool)
	// GetInt returns the int value at index i.
	GetInt(i int) (int64, bool)
}

// RowVisitor produces typed per-row getters for a batch against an
// ordered column list, for diagnostics and for the dedup visitor's
// row-by-row walk.
type RowVisitor interface {
	VisitRows(batch Batch, columns []ColumnRequest) ([]RowGetter, error)
}

// Engine bundles the capabilities the core requires, passed by
// reference rather than by inheritance (§9 "Polymorphism").
type Engine struct {
	Expressions ExpressionHandler
	Rows        RowVisitor
}
