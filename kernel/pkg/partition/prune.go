package partition

import (
	"strings"

	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
)

// Row is the map column-name -> parsed scalar built from an add's
// partitionValues (§4.E), keyed by the one-level column name formed
// from the partition field's physical name.
type Row map[string]expression.Expression

// ShouldKeep evaluates pred against row under SQL three-valued logic
// and reports whether the file survives: only a definitive False drops
// it, True and Unknown keep it (§4.E, §9). A nil predicate or an empty
// row trivially keeps the file.
func ShouldKeep(pred *expression.Predicate, row Row) bool {
	if pred == nil || len(row) == 0 {
		return true
	}
	return Evaluate(pred, row) != expression.False
}

// Evaluate walks pred recursively, returning its three-valued result
// against row.
func Evaluate(pred *expression.Predicate, row Row) expression.TriState {
	switch pred.Kind {
	case expression.PredAlwaysTrue:
		return expression.True
	case expression.PredAlwaysFalse:
		return expression.False
	case expression.PredNot:
		return Evaluate(pred.Children[0], row).Not()
	case expression.PredAnd:
		return evalAnd(pred.Children, row)
	case expression.PredOr:
		return evalOr(pred.Children, row)
	case expression.PredIsNull:
		v, ok := lookup(row, pred.NullColumn)
		if !ok || v.LiteralValue == nil {
			return expression.True
		}
		return expression.False
	case expression.PredIsNotNull:
		v, ok := lookup(row, pred.NullColumn)
		if !ok || v.LiteralValue == nil {
			return expression.False
		}
		return expression.True
	case expression.PredCompare:
		return evalCompare(pred, row)
	default:
		return expression.Unknown
	}
}

func evalAnd(children []*expression.Predicate, row Row) expression.TriState {
	sawUnknown := false
	for _, c := range children {
		switch Evaluate(c, row) {
		case expression.False:
			return expression.False
		case expression.Unknown:
			sawUnknown = true
		}
	}
	if sawUnknown {
		return expression.Unknown
	}
	return expression.True
}

func evalOr(children []*expression.Predicate, row Row) expression.TriState {
	sawUnknown := false
	for _, c := range children {
		switch Evaluate(c, row) {
		case expression.True:
			return expression.True
		case expression.Unknown:
			sawUnknown = true
		}
	}
	if sawUnknown {
		return expression.Unknown
	}
	return expression.False
}

func evalCompare(pred *expression.Predicate, row Row) expression.TriState {
	v, ok := lookup(row, pred.Column)
	if !ok || v.LiteralValue == nil || pred.Literal == nil {
		return expression.Unknown
	}

	cmp, ok := compareValues(v.LiteralValue, pred.Literal)
	if !ok {
		return expression.Unknown
	}

	var result bool
	switch pred.Op {
	case expression.OpEq:
		result = cmp == 0
	case expression.OpNotEq:
		result = cmp != 0
	case expression.OpLt:
		result = cmp < 0
	case expression.OpLtEq:
		result = cmp <= 0
	case expression.OpGt:
		result = cmp > 0
	case expression.OpGtEq:
		result = cmp >= 0
	default:
		return expression.Unknown
	}
	if result {
		return expression.True
	}
	return expression.False
}

func lookup(row Row, column []string) (expression.Expression, bool) {
	v, ok := row[strings.Join(column, ".")]
	return v, ok
}

// compareValues compares two literal values of compatible dynamic type,
// returning (<0, 0, >0) and false if they can't be compared (pruning
// then treats the predicate as Unknown, never as False, per §9).
func compareValues(a, b any) (int, bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case int8:
		bv, ok := toInt64(b)
		if !ok {
			return 0, false
		}
		return compareInt64(int64(av), bv), true
	case int16:
		bv, ok := toInt64(b)
		if !ok {
			return 0, false
		}
		return compareInt64(int64(av), bv), true
	case int32:
		bv, ok := toInt64(b)
		if !ok {
			return 0, false
		}
		return compareInt64(int64(av), bv), true
	case int64:
		bv, ok := toInt64(b)
		if !ok {
			return 0, false
		}
		return compareInt64(av, bv), true
	case float32:
		bv, ok := toFloat64(b)
		if !ok {
			return 0, false
		}
		return compareFloat64(float64(av), bv), true
	case float64:
		bv, ok := toFloat64(b)
		if !ok {
			return 0, false
		}
		return compareFloat64(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av && bv {
			return -1, true
		}
		return 1, true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
