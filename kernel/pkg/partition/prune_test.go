package partition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
)

func TestDeltascan_Partition_ShouldKeep_NilPredicateKeepsEverything(t *testing.T) {
	t.Parallel()
	require.True(t, ShouldKeep(nil, Row{}))
}

func TestDeltascan_Partition_ShouldKeep_OnlyFalseDrops(t *testing.T) {
	t.Parallel()

	row := Row{"date": expression.Literal(expression.String, "2024-02-01")}

	// Definitively false: drop.
	falsePred := expression.Compare(expression.OpEq, []string{"date"}, expression.String, "2024-01-01")
	require.False(t, ShouldKeep(falsePred, row))

	// Definitively true: keep.
	truePred := expression.Compare(expression.OpEq, []string{"date"}, expression.String, "2024-02-01")
	require.True(t, ShouldKeep(truePred, row))

	// Unknown (column absent from row): keep, never drop on unknown.
	unknownPred := expression.Compare(expression.OpEq, []string{"missing"}, expression.String, "x")
	require.True(t, ShouldKeep(unknownPred, row))
}

func TestDeltascan_Partition_Evaluate_AndOrNot(t *testing.T) {
	t.Parallel()

	row := Row{"a": expression.Literal(expression.Boolean, true)}
	truePred := expression.IsNotNull([]string{"a"})
	falsePred := expression.IsNull([]string{"a"})
	unknownPred := expression.IsNotNull([]string{"missing"})

	require.Equal(t, expression.False, Evaluate(expression.And(truePred, falsePred), row))
	require.Equal(t, expression.Unknown, Evaluate(expression.And(truePred, unknownPred), row))
	require.Equal(t, expression.True, Evaluate(expression.And(truePred, truePred), row))

	require.Equal(t, expression.True, Evaluate(expression.Or(truePred, falsePred), row))
	require.Equal(t, expression.Unknown, Evaluate(expression.Or(falsePred, unknownPred), row))
	require.Equal(t, expression.False, Evaluate(expression.Or(falsePred, falsePred), row))

	require.Equal(t, expression.False, Evaluate(expression.Not(truePred), row))
}

func TestDeltascan_Partition_Evaluate_IsNullIsNotNull(t *testing.T) {
	t.Parallel()

	row := Row{
		"present": expression.Literal(expression.String, "x"),
		"null":    expression.Null(expression.String),
	}

	require.Equal(t, expression.False, Evaluate(expression.IsNull([]string{"present"}), row))
	require.Equal(t, expression.True, Evaluate(expression.IsNull([]string{"null"}), row))
	require.Equal(t, expression.True, Evaluate(expression.IsNotNull([]string{"present"}), row))
	require.Equal(t, expression.False, Evaluate(expression.IsNotNull([]string{"null"}), row))
	require.Equal(t, expression.False, Evaluate(expression.IsNotNull([]string{"absent"}), row))
}

func TestDeltascan_Partition_Evaluate_NumericComparison(t *testing.T) {
	t.Parallel()
	row := Row{"n": expression.Literal(expression.Int, int32(5))}

	require.Equal(t, expression.True, Evaluate(expression.Compare(expression.OpLt, []string{"n"}, expression.Long, int64(10)), row))
	require.Equal(t, expression.False, Evaluate(expression.Compare(expression.OpGt, []string{"n"}, expression.Long, int64(10)), row))
}
