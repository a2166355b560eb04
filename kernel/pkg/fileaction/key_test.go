package fileaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malbeclabs/deltascan/kernel/pkg/engine"
)

func intPtr(i int) *int { return &i }

func TestDeltascan_FileAction_ComputeDVUniqueID_NilHasNoID(t *testing.T) {
	t.Parallel()
	id, ok := ComputeDVUniqueID(nil)
	require.False(t, ok)
	require.Empty(t, id)
}

func TestDeltascan_FileAction_ComputeDVUniqueID_EmptyStorageTypeHasNoID(t *testing.T) {
	t.Parallel()
	id, ok := ComputeDVUniqueID(&engine.DeletionVectorDescriptor{StorageType: "", PathOrInlineDv: "x"})
	require.False(t, ok)
	require.Empty(t, id)
}

func TestDeltascan_FileAction_ComputeDVUniqueID_Deterministic(t *testing.T) {
	t.Parallel()
	dv := &engine.DeletionVectorDescriptor{StorageType: "u", PathOrInlineDv: "deadbeef", Offset: intPtr(42)}
	a, ok := ComputeDVUniqueID(dv)
	require.True(t, ok)
	b, ok := ComputeDVUniqueID(dv)
	require.True(t, ok)
	require.Equal(t, a, b)
}

// Two adds with the same path but different deletion-vector storage
// types must never collide (§8 scenario 6, "DV identity").
func TestDeltascan_FileAction_ComputeDVUniqueID_DistinctStorageTypesDontCollide(t *testing.T) {
	t.Parallel()
	a, ok := ComputeDVUniqueID(&engine.DeletionVectorDescriptor{StorageType: "u", PathOrInlineDv: "xyz"})
	require.True(t, ok)
	b, ok := ComputeDVUniqueID(&engine.DeletionVectorDescriptor{StorageType: "p", PathOrInlineDv: "xyz"})
	require.True(t, ok)
	require.NotEqual(t, a, b)
}

// Field-boundary ambiguity must not produce colliding ids: a naive
// separator-joined encoding would conflate ("ab", "c") with ("a", "bc").
func TestDeltascan_FileAction_ComputeDVUniqueID_NoFieldBoundaryCollision(t *testing.T) {
	t.Parallel()
	a, ok := ComputeDVUniqueID(&engine.DeletionVectorDescriptor{StorageType: "ab", PathOrInlineDv: "c"})
	require.True(t, ok)
	b, ok := ComputeDVUniqueID(&engine.DeletionVectorDescriptor{StorageType: "a", PathOrInlineDv: "bc"})
	require.True(t, ok)
	require.NotEqual(t, a, b)
}

func TestDeltascan_FileAction_ComputeDVUniqueID_OffsetDistinguishesOtherwiseEqualDVs(t *testing.T) {
	t.Parallel()
	withOffset, ok := ComputeDVUniqueID(&engine.DeletionVectorDescriptor{StorageType: "u", PathOrInlineDv: "p", Offset: intPtr(1)})
	require.True(t, ok)
	withoutOffset, ok := ComputeDVUniqueID(&engine.DeletionVectorDescriptor{StorageType: "u", PathOrInlineDv: "p"})
	require.True(t, ok)
	require.NotEqual(t, withOffset, withoutOffset)
}

func TestDeltascan_FileAction_NewKey_NoneVsSomeAreDistinct(t *testing.T) {
	t.Parallel()
	withoutDV := NewKey("p", "", false)
	withDV := NewKey("p", "somehash", true)
	require.NotEqual(t, withoutDV, withDV)
}
