package jsonengine

import "github.com/malbeclabs/deltascan/kernel/pkg/engine"

// NewEngine bundles the package's ExpressionHandler and RowVisitor into
// the engine.Engine capability bundle §6 describes.
func NewEngine() engine.Engine {
	return engine.Engine{
		Expressions: ExpressionHandler{},
		Rows:        RowVisitor{},
	}
}
