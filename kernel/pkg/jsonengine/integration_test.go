package jsonengine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
	"github.com/malbeclabs/deltascan/kernel/pkg/logreplay"
)

// sliceSource is a BatchSource over a fixed, in-memory sequence of
// batches, for driving a ScanIterator against hand-built fixtures
// without going through the directory-backed source.
type sliceSource struct {
	inputs []logreplay.BatchInput
	idx    int
}

func (s *sliceSource) Next() (logreplay.BatchInput, bool, error) {
	if s.idx >= len(s.inputs) {
		return logreplay.BatchInput{}, false, nil
	}
	in := s.inputs[s.idx]
	s.idx++
	return in, true, nil
}

func addAction(path string, size, numRecords int64) map[string]any {
	return map[string]any{
		"add": map[string]any{
			"path":             path,
			"size":             size,
			"modificationTime": int64(1000),
			"stats":            `{"numRecords":` + itoa(numRecords) + `}`,
		},
	}
}

func removeAction(path string) map[string]any {
	return map[string]any{"remove": map[string]any{"path": path}}
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// §8 scenario 1: a single log batch of two adds, no transform, no
// predicate — both survive, unmodified.
func TestDeltascan_Integration_SimpleAddOnly(t *testing.T) {
	t.Parallel()

	scanner, err := logreplay.New(logreplay.Config{Engine: NewEngine()})
	require.NoError(t, err)

	batch := &Batch{Rows: []map[string]any{
		addAction("part-00000-fae5310a-a37d-4e51-827b-c3d5516560ca-c000.snappy.parquet", 635, 10),
		addAction("part-00001.snappy.parquet", 500, 5),
	}}

	source := &sliceSource{inputs: []logreplay.BatchInput{{Batch: batch, IsLogBatch: true}}}
	it := logreplay.NewScanIterator(scanner, source)

	result, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, result.Selection.AnySelected())
	require.Equal(t, []bool(result.Selection), []bool{true, true})

	rows := result.ScanRows.(*Batch).Rows
	require.Equal(t, "part-00000-fae5310a-a37d-4e51-827b-c3d5516560ca-c000.snappy.parquet", rows[0]["path"])
	require.Equal(t, int64(635), rows[0]["size"])

	_, ok, err = it.Next()
	require.NoError(t, err)
	require.False(t, ok, "source exhausted")
}

// §8 scenario 2: an add and a later remove of the same path in one
// batch (remove ordered first, as newest-first replay would present
// it) — the add never surfaces.
func TestDeltascan_Integration_AddThenRemove_SameBatch(t *testing.T) {
	t.Parallel()

	scanner, err := logreplay.New(logreplay.Config{Engine: NewEngine()})
	require.NoError(t, err)

	batch := &Batch{Rows: []map[string]any{
		removeAction("p1"),
		addAction("p1", 100, 1),
	}}
	source := &sliceSource{inputs: []logreplay.BatchInput{{Batch: batch, IsLogBatch: true}}}
	it := logreplay.NewScanIterator(scanner, source)

	_, ok, err := it.Next()
	require.NoError(t, err)
	require.False(t, ok, "no row survives: the remove tombstones the add, neither is ever selected")
}

// A remove in the newest batch suppresses an add for the same path
// appearing in an older batch.
func TestDeltascan_Integration_TombstoneAcrossBatches(t *testing.T) {
	t.Parallel()

	scanner, err := logreplay.New(logreplay.Config{Engine: NewEngine()})
	require.NoError(t, err)

	newest := &Batch{Rows: []map[string]any{removeAction("p1")}}
	older := &Batch{Rows: []map[string]any{addAction("p1", 100, 1), addAction("p2", 200, 2)}}

	source := &sliceSource{inputs: []logreplay.BatchInput{
		{Batch: newest, IsLogBatch: true},
		{Batch: older, IsLogBatch: true},
	}}
	it := logreplay.NewScanIterator(scanner, source)

	result, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok, "the second batch still has p2 surviving")
	require.Equal(t, []bool(result.Selection), []bool{false, true})
	require.Equal(t, "p2", result.ScanRows.(*Batch).Rows[1]["path"])

	_, ok, err = it.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

// A checkpoint batch's add is never shadowed by another checkpoint
// batch containing the same path — only log-batch removes tombstone.
func TestDeltascan_Integration_CheckpointBatchesDoNotShadowEachOther(t *testing.T) {
	t.Parallel()

	scanner, err := logreplay.New(logreplay.Config{Engine: NewEngine()})
	require.NoError(t, err)

	first := &Batch{Rows: []map[string]any{addAction("p1", 100, 1)}}
	second := &Batch{Rows: []map[string]any{addAction("p1", 100, 1)}}

	source := &sliceSource{inputs: []logreplay.BatchInput{
		{Batch: first, IsLogBatch: false},
		{Batch: second, IsLogBatch: false},
	}}
	it := logreplay.NewScanIterator(scanner, source)

	_, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = it.Next()
	require.NoError(t, err)
	require.True(t, ok, "checkpoint batches never populate the seen-set, so the duplicate path still surfaces")
}

// Data skipping prunes a file whose stats prove a predicate false,
// before dedup even runs on it.
func TestDeltascan_Integration_DataSkippingDropsProvablyFalseFile(t *testing.T) {
	t.Parallel()

	pred := expression.Compare(expression.OpGt, []string{"value"}, expression.Long, int64(50))
	scanner, err := logreplay.New(logreplay.Config{Engine: NewEngine(), Predicate: pred})
	require.NoError(t, err)

	batch := &Batch{Rows: []map[string]any{
		{"add": map[string]any{
			"path":  "keep.parquet",
			"stats": `{"numRecords":10,"minValues":{"value":1},"maxValues":{"value":100},"nullCount":{"value":0}}`,
		}},
		{"add": map[string]any{
			"path":  "drop.parquet",
			"stats": `{"numRecords":10,"minValues":{"value":1},"maxValues":{"value":30},"nullCount":{"value":0}}`,
		}},
	}}
	source := &sliceSource{inputs: []logreplay.BatchInput{{Batch: batch, IsLogBatch: true}}}
	it := logreplay.NewScanIterator(scanner, source)

	result, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []bool(result.Selection), []bool{true, false})
}
