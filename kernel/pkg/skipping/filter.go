package skipping

import (
	"strings"

	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
	"github.com/tidwall/gjson"
)

// Filter is built once from the optional predicate passed to a scan and
// reused across every batch (§4.F); the predicate's column paths are
// looked up in the stats JSON as given. It reads the
// per-file min/max/null-count/row-count stats out of add.stats and
// decides, per add, whether the rewritten conservative predicate is
// provably false.
type Filter struct {
	predicate *expression.Predicate
}

// New builds a Filter for pred. A nil pred yields a filter that always
// selects (§4.F "all-true when the filter is absent").
func New(pred *expression.Predicate) *Filter {
	return &Filter{predicate: pred}
}

// Clone returns an independent copy of f. The filter is stateless
// beyond its immutable predicate, so Clone is trivial. The log-replay
// scanner does not clone its filter; it reuses one Filter for every
// batch.
func (f *Filter) Clone() *Filter {
	return &Filter{predicate: f.predicate}
}

// Apply returns a selection vector of length rowCount: all-true if no
// predicate was configured, otherwise one bit per row computed from
// statsJSON[i] (empty string for rows that aren't adds — those are kept
// selected here and refined later by the dedup visitor, §4.F invariant).
func (f *Filter) Apply(rowCount int, statsJSON []string) SelectionVector {
	sv := NewAllTrue(rowCount)
	if f.predicate == nil {
		return sv
	}
	for i := 0; i < rowCount; i++ {
		if i >= len(statsJSON) || statsJSON[i] == "" {
			continue
		}
		if evaluateAgainstStats(f.predicate, statsJSON[i]) == expression.False {
			sv[i] = false
		}
	}
	return sv
}

func evaluateAgainstStats(pred *expression.Predicate, stats string) expression.TriState {
	switch pred.Kind {
	case expression.PredAlwaysTrue:
		return expression.True
	case expression.PredAlwaysFalse:
		return expression.False
	case expression.PredNot:
		return evaluateAgainstStats(pred.Children[0], stats).Not()
	case expression.PredAnd:
		return combineAnd(pred.Children, stats)
	case expression.PredOr:
		return combineOr(pred.Children, stats)
	case expression.PredIsNull:
		return evalIsNull(pred.NullColumn, stats, true)
	case expression.PredIsNotNull:
		return evalIsNull(pred.NullColumn, stats, false)
	case expression.PredCompare:
		return evalCompareStats(pred, stats)
	default:
		return expression.Unknown
	}
}

func combineAnd(children []*expression.Predicate, stats string) expression.TriState {
	sawUnknown := false
	for _, c := range children {
		switch evaluateAgainstStats(c, stats) {
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

func combineOr(children []*expression.Predicate, stats string) expression.TriState {
	sawUnknown := false
	for _, c := range children {
		switch evaluateAgainstStats(c, stats) {
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

func evalIsNull(column []string, stats string, wantNull bool) expression.TriState {
	colPath := strings.Join(column, ".")
	nullCount := gjson.Get(stats, "nullCount."+colPath)
	numRecords := gjson.Get(stats, "numRecords")
	if !nullCount.Exists() || !numRecords.Exists() {
		return expression.Unknown
	}
	if wantNull {
		// IS NULL is provably false iff no row in the file is null.
		if nullCount.Int() == 0 {
			return expression.False
		}
		return expression.Unknown
	}
	// IS NOT NULL is provably false iff every row in the file is null.
	if nullCount.Int() == numRecords.Int() && numRecords.Int() > 0 {
		return expression.False
	}
	return expression.Unknown
}

func evalCompareStats(pred *expression.Predicate, stats string) expression.TriState {
	colPath := strings.Join(pred.Column, ".")
	min := gjson.Get(stats, "minValues."+colPath)
	max := gjson.Get(stats, "maxValues."+colPath)
	if !min.Exists() || !max.Exists() {
		return expression.Unknown
	}

	switch pred.Op {
	case expression.OpEq:
		if ltGjson(max, pred.Literal) || gtGjson(min, pred.Literal) {
			return expression.False
		}
		return expression.Unknown
	case expression.OpNotEq:
		if min.Raw == max.Raw && eqGjson(min, pred.Literal) {
			return expression.False
		}
		return expression.Unknown
	case expression.OpLt:
		if geGjson(min, pred.Literal) {
			return expression.False
		}
		return expression.Unknown
	case expression.OpLtEq:
		if gtGjson(min, pred.Literal) {
			return expression.False
		}
		return expression.Unknown
	case expression.OpGt:
		if leGjson(max, pred.Literal) {
			return expression.False
		}
		return expression.Unknown
	case expression.OpGtEq:
		if ltGjson(max, pred.Literal) {
			return expression.False
		}
		return expression.Unknown
	default:
		return expression.Unknown
	}
}

// The compare helpers below resolve the stats-side gjson.Result against
// a Go literal of the predicate's declared type. String columns compare
// lexicographically (matching Delta's own stats-skipping semantics for
// UTF8-ordered min/max), everything else numerically.

func litString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func litFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func ltGjson(r gjson.Result, lit any) bool {
	if s, ok := litString(lit); ok {
		return r.String() < s
	}
	if f, ok := litFloat(lit); ok {
		return r.Float() < f
	}
	return false
}

func gtGjson(r gjson.Result, lit any) bool {
	if s, ok := litString(lit); ok {
		return r.String() > s
	}
	if f, ok := litFloat(lit); ok {
		return r.Float() > f
	}
	return false
}

func geGjson(r gjson.Result, lit any) bool {
	if s, ok := litString(lit); ok {
		return r.String() >= s
	}
	if f, ok := litFloat(lit); ok {
		return r.Float() >= f
	}
	return false
}

func leGjson(r gjson.Result, lit any) bool {
	if s, ok := litString(lit); ok {
		return r.String() <= s
	}
	if f, ok := litFloat(lit); ok {
		return r.Float() <= f
	}
	return false
}

func eqGjson(r gjson.Result, lit any) bool {
	if s, ok := litString(lit); ok {
		return r.String() == s
	}
	if f, ok := litFloat(lit); ok {
		return r.Float() == f
	}
	return false
}
