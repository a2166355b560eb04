// Package dedup implements the add/remove deduplication visitor, §4.D:
// the per-batch row walker that decides which rows survive, refining a
// selection vector and emitting per-row transforms for surviving adds.
package dedup

import (
	"github.com/malbeclabs/deltascan/kernel/pkg/engine"
	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
	"github.com/malbeclabs/deltascan/kernel/pkg/fileaction"
	"github.com/malbeclabs/deltascan/kernel/pkg/partition"
	"github.com/malbeclabs/deltascan/kernel/pkg/skipping"
	coreerrors "github.com/malbeclabs/deltascan/utils/pkg/errors"
	"github.com/malbeclabs/deltascan/utils/pkg/metrics"
)

// Getter column indices, fixed per §4.D. Checkpoint batches expose only
// 0..4; log batches expose the full 0..8.
const (
	ColAddPath = iota
	ColAddPartitionValues
	ColAddDVStorageType
	ColAddDVPathOrInline
	ColAddDVOffset
	ColRemovePath
	ColRemoveDVStorageType
	ColRemoveDVPathOrInline
	ColRemoveDVOffset

	numLogBatchGetters        = ColRemoveDVOffset + 1
	numCheckpointBatchGetters = ColAddDVOffset + 1
)

// ColumnRequests returns the engine.ColumnRequest list the dedup visitor
// requires for a log batch (isLogBatch=true) or a checkpoint batch
// (isLogBatch=false), in the fixed order §4.D specifies.
func ColumnRequests(isLogBatch bool) []engine.ColumnRequest {
	reqs := []engine.ColumnRequest{
		{Path: []string{"add", "path"}, Type: expression.String},
		{Path: []string{"add", "partitionValues"}, Type: expression.Map(expression.String, expression.String, true)},
		{Path: []string{"add", "deletionVector", "storageType"}, Type: expression.String},
		{Path: []string{"add", "deletionVector", "pathOrInlineDv"}, Type: expression.String},
		{Path: []string{"add", "deletionVector", "offset"}, Type: expression.Int},
	}
	if !isLogBatch {
		return reqs
	}
	return append(reqs,
		engine.ColumnRequest{Path: []string{"remove", "path"}, Type: expression.String},
		engine.ColumnRequest{Path: []string{"remove", "deletionVector", "storageType"}, Type: expression.String},
		engine.ColumnRequest{Path: []string{"remove", "deletionVector", "pathOrInlineDv"}, Type: expression.String},
		engine.ColumnRequest{Path: []string{"remove", "deletionVector", "offset"}, Type: expression.Int},
	)
}

// Visitor is the per-batch row walker of §4.D. It borrows a seen-set
// owned by the scanner (§4.G) and mutates a selection vector in place.
type Visitor struct {
	SeenSet           *fileaction.SeenSet
	Selection         skipping.SelectionVector
	LogicalFieldCount int
	Transform         expression.TransformSpec // nil if no transform configured
	PartitionFilter   *expression.Predicate    // nil if no partition predicate configured
	IsLogBatch        bool

	RowTransformExprs []expression.Expression

	pendingRow map[int]expression.Expression
}

// NewVisitor constructs a Visitor, validating the getter-count
// precondition is the caller's (scanner's) responsibility before
// invoking VisitRow — a wrong count is an Internal invariant violation,
// never a user-facing parse error, §4.D.
func NewVisitor(seenSet *fileaction.SeenSet, selection skipping.SelectionVector, logicalFieldCount int, transform expression.TransformSpec, partitionFilter *expression.Predicate, isLogBatch bool) *Visitor {
	return &Visitor{
		SeenSet:           seenSet,
		Selection:         selection,
		LogicalFieldCount: logicalFieldCount,
		Transform:         transform,
		PartitionFilter:   partitionFilter,
		IsLogBatch:        isLogBatch,
	}
}

// ValidateGetterCount enforces §4.D's fixed getter-count precondition.
func ValidateGetterCount(n int, isLogBatch bool) error {
	want := numCheckpointBatchGetters
	if isLogBatch {
		want = numLogBatchGetters
	}
	if n != want {
		return coreerrors.Internal("dedup visitor expected %d row getters, got %d (log batch=%v)", want, n, isLogBatch)
	}
	return nil
}

// VisitRow runs the §4.D algorithm for row i. It must only be called for
// rows the skipping filter currently selects (v.Selection[i] == true);
// the caller (the scanner) is responsible for that precondition since
// it owns the loop over all rows in the batch.
func (v *Visitor) VisitRow(i int, getter engine.RowGetter) error {
	addPath, hasAdd := getter.GetStr(ColAddPath)

	var (
		path       string
		dvStorage  string
		dvPath     string
		dvOffset   *int64
		isRemove   bool
	)

	switch {
	case hasAdd:
		path = addPath
		if s, ok := getter.GetStr(ColAddDVStorageType); ok {
			dvStorage = s
		}
		if s, ok := getter.GetStr(ColAddDVPathOrInline); ok {
			dvPath = s
		}
		if off, ok := getter.GetInt(ColAddDVOffset); ok {
			dvOffset = &off
		}
	case v.IsLogBatch:
		removePath, hasRemove := getter.GetStr(ColRemovePath)
		if !hasRemove {
			v.Selection[i] = false
			return nil
		}
		isRemove = true
		path = removePath
		if s, ok := getter.GetStr(ColRemoveDVStorageType); ok {
			dvStorage = s
		}
		if s, ok := getter.GetStr(ColRemoveDVPathOrInline); ok {
			dvPath = s
		}
		if off, ok := getter.GetInt(ColRemoveDVOffset); ok {
			dvOffset = &off
		}
	default:
		v.Selection[i] = false
		return nil
	}

	dvID, hasDVID := computeDVID(dvStorage, dvPath, dvOffset)

	if !isRemove && v.Transform != nil {
		rawValues, _ := getter.GetMap(ColAddPartitionValues)
		row, byIndex, err := partition.BuildRow(v.Transform, rawValues, v.LogicalFieldCount)
		if err != nil {
			return err
		}
		if !partition.ShouldKeep(v.PartitionFilter, row) {
			v.Selection[i] = false
			metrics.RowsPrunedTotal.WithLabelValues("partition").Inc()
			return nil
		}
		// Stash the resolved row for the transform build below; adds
		// that pass dedup will need byIndex, removes never do.
		v.pendingRow = byIndex
	}

	key := fileaction.NewKey(path, dvID, hasDVID)

	if v.SeenSet.Contains(key) {
		v.Selection[i] = false
		metrics.RowsDedupedTotal.Inc()
		return nil
	}
	if v.IsLogBatch {
		v.SeenSet.Insert(key)
	}

	if isRemove {
		v.Selection[i] = false
		return nil
	}

	if v.Transform != nil {
		rowTransform := expression.BuildRowTransform(v.Transform, v.pendingRow)
		for len(v.RowTransformExprs) < i {
			v.RowTransformExprs = append(v.RowTransformExprs, expression.Expression{})
		}
		v.RowTransformExprs = append(v.RowTransformExprs, rowTransform)
	}

	return nil
}

func computeDVID(storageType, pathOrInline string, offset *int64) (fileaction.DVUniqueID, bool) {
	if storageType == "" {
		return "", false
	}
	var offInt *int
	if offset != nil {
		v := int(*offset)
		offInt = &v
	}
	return fileaction.ComputeDVUniqueID(&engine.DeletionVectorDescriptor{StorageType: storageType, PathOrInlineDv: pathOrInline, Offset: offInt})
}
