package jsonengine

import (
	"github.com/malbeclabs/deltascan/kernel/pkg/engine"
	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
	coreerrors "github.com/malbeclabs/deltascan/utils/pkg/errors"
)

// ExpressionHandler implements engine.ExpressionHandler by interpreting
// the expression tree directly against each row, rather than compiling
// it. §9 calls this "transforms as data, not closures" — this engine is
// the simplest possible reader of that data.
type ExpressionHandler struct{}

func (ExpressionHandler) BuildEvaluator(inputSchema expression.DataType, expr expression.Expression, outputType expression.DataType) (engine.Evaluator, error) {
	if outputType.Kind != expression.KindStruct {
		return nil, coreerrors.Schema("evaluator output type must be a struct, got %v", outputType.Kind)
	}
	return &evaluator{expr: expr, outputFields: outputType.Fields}, nil
}

type evaluator struct {
	expr         expression.Expression
	outputFields []expression.StructField
}

func (e *evaluator) Evaluate(b engine.Batch) (engine.Batch, error) {
	batch, ok := b.(*Batch)
	if !ok {
		return nil, coreerrors.Internal("jsonengine evaluator given a foreign batch type %T", b)
	}

	out := make([]map[string]any, len(batch.Rows))
	for i, row := range batch.Rows {
		v, err := evalExpr(e.expr, row)
		if err != nil {
			return nil, err
		}
		out[i] = namedStruct(e.outputFields, v)
	}
	return &Batch{Rows: out}, nil
}

// evalExpr interprets an expression tree against one decoded JSON row.
// Struct expressions evaluate to a positional []any; callers that need
// field names (the top-level call) zip that against a DataType's
// struct fields with namedStruct.
func evalExpr(expr expression.Expression, row map[string]any) (any, error) {
	switch expr.Kind {
	case expression.ExprColumn:
		return lookupPath(row, expr.ColumnPath), nil
	case expression.ExprLiteral:
		return expr.LiteralValue, nil
	case expression.ExprStruct:
		vals := make([]any, len(expr.StructFields))
		for i, f := range expr.StructFields {
			v, err := evalExpr(f, row)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return vals, nil
	case expression.ExprPredicate:
		return nil, coreerrors.Internal("predicate expressions have no scalar value in the reference engine")
	default:
		return nil, coreerrors.Internal("unknown expression kind %v", expr.Kind)
	}
}

// namedStruct zips a positional struct value (as produced by evalExpr
// for an ExprStruct) against the field names of its declared type,
// recursing into nested structs so the result is a plain nested
// map[string]any matching the schema shape.
func namedStruct(fields []expression.StructField, v any) map[string]any {
	vals, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make(map[string]any, len(fields))
	for i, f := range fields {
		if i >= len(vals) {
			out[f.Name] = nil
			continue
		}
		if f.Type.Kind == expression.KindStruct {
			out[f.Name] = namedStruct(f.Type.Fields, vals[i])
			continue
		}
		out[f.Name] = vals[i]
	}
	return out
}

var _ engine.ExpressionHandler = ExpressionHandler{}
