package logreplay

import (
	"github.com/malbeclabs/deltascan/kernel/pkg/dedup"
	"github.com/malbeclabs/deltascan/kernel/pkg/engine"
	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
	"github.com/malbeclabs/deltascan/utils/pkg/errors"
	"github.com/malbeclabs/deltascan/utils/pkg/metrics"
)

var statsColumn = []engine.ColumnRequest{{Path: []string{"add", "stats"}, Type: expression.String}}

// ProcessBatch runs the full §4.G algorithm for one batch: (1) compute
// the initial selection via the skipping filter, (2) construct a dedup
// visitor borrowing the scanner's seen-set, (3) run it across the
// batch's rows, (4) project the whole batch through the add-transform
// evaluator, (5) return the (scan-row batch, refined selection, row
// transforms) triple.
//
// Errors abort this batch's emission without partial seen-set mutation:
// insertions only happen after a row's fallible work (partition parsing,
// field-index validation) has already succeeded, §7 "Policy".
func (s *Scanner) ProcessBatch(batch engine.Batch, isLogBatch bool) (ScanResult, error) {
	start := s.cfg.Clock.Now()
	defer func() {
		metrics.BatchProcessDuration.WithLabelValues(batchKind(isLogBatch)).Observe(s.cfg.Clock.Now().Sub(start).Seconds())
	}()

	statsGetters, err := s.cfg.Engine.Rows.VisitRows(batch, statsColumn)
	if err != nil {
		metrics.ScanErrorsTotal.WithLabelValues("io").Inc()
		return ScanResult{}, errors.Io(err)
	}
	statsJSON := make([]string, len(statsGetters))
	for i, g := range statsGetters {
		if v, ok := g.GetStr(0); ok {
			statsJSON[i] = v
		}
	}
	selection := s.filter.Apply(batch.Len(), statsJSON)
	metrics.RowsPrunedTotal.WithLabelValues("skipping").Add(float64(countUnselected(selection)))

	dedupReqs := dedup.ColumnRequests(isLogBatch)
	if err := dedup.ValidateGetterCount(len(dedupReqs), isLogBatch); err != nil {
		metrics.ScanErrorsTotal.WithLabelValues("internal").Inc()
		return ScanResult{}, err
	}
	getters, err := s.cfg.Engine.Rows.VisitRows(batch, dedupReqs)
	if err != nil {
		metrics.ScanErrorsTotal.WithLabelValues("io").Inc()
		return ScanResult{}, errors.Io(err)
	}

	visitor := dedup.NewVisitor(s.seenSet, selection, s.logicalFieldCount, s.cfg.Transform, s.cfg.Predicate, isLogBatch)
	for i := 0; i < batch.Len(); i++ {
		if !selection[i] {
			continue
		}
		if i >= len(getters) {
			metrics.ScanErrorsTotal.WithLabelValues("internal").Inc()
			return ScanResult{}, errors.Internal("row visitor returned %d getters for a %d-row batch", len(getters), batch.Len())
		}
		if err := visitor.VisitRow(i, getters[i]); err != nil {
			metrics.ScanErrorsTotal.WithLabelValues(errors.ClassifyKind(err).String()).Inc()
			return ScanResult{}, err
		}
	}

	scanRows, err := s.addTransformEval.Evaluate(batch)
	if err != nil {
		metrics.ScanErrorsTotal.WithLabelValues("io").Inc()
		return ScanResult{}, errors.Io(err)
	}

	metrics.BatchesProcessedTotal.WithLabelValues(batchKind(isLogBatch)).Inc()
	metrics.RowsSelectedTotal.Add(float64(countSelected(visitor.Selection)))

	s.cfg.Logger.Debug("batch processed",
		"scan_id", s.scanID,
		"is_log_batch", isLogBatch,
		"rows", batch.Len(),
		"selected", countSelected(visitor.Selection),
		"seen_set_size", s.seenSet.Len(),
	)

	return ScanResult{
		ScanRows:      scanRows,
		Selection:     visitor.Selection,
		RowTransforms: visitor.RowTransformExprs,
	}, nil
}

func batchKind(isLogBatch bool) string {
	if isLogBatch {
		return "log"
	}
	return "checkpoint"
}

func countSelected(sv []bool) int {
	n := 0
	for _, b := range sv {
		if b {
			n++
		}
	}
	return n
}

func countUnselected(sv []bool) int {
	return len(sv) - countSelected(sv)
}

// BatchSource is the pull-driven, newest-first sequence of action
// batches a ScanIterator replays, §5 "single-threaded, pull-driven, no
// background threads". Next returns (batch, false, nil) once the
// source is exhausted; it is never called again after that.
type BatchSource interface {
	Next() (BatchInput, bool, error)
}

// ScanIterator is the §4.H scan-action iterator: a lazy adapter over a
// BatchSource that runs each batch through the Scanner and filters out
// results carrying no selected rows. Each call to Next advances the
// source at least once, and again for every batch that carries no
// selected row; it holds no more than one batch at a time.
type ScanIterator struct {
	scanner *Scanner
	source  BatchSource
	done    bool
}

// NewScanIterator wraps source with scanner's per-batch processing.
func NewScanIterator(scanner *Scanner, source BatchSource) *ScanIterator {
	return &ScanIterator{scanner: scanner, source: source}
}

// Next pulls batches from the source, processing each through the
// scanner, until one survives with at least one selected row or the
// source is exhausted. An error from the scanner is returned
// immediately without pulling any further batch (§7 "Policy": callers
// decide whether to keep scanning, the iterator never decides for
// them).
func (it *ScanIterator) Next() (*ScanResult, bool, error) {
	if it.done {
		return nil, false, nil
	}
	for {
		input, ok, err := it.source.Next()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done = true
			return nil, false, nil
		}

		result, err := it.scanner.ProcessBatch(input.Batch, input.IsLogBatch)
		if err != nil {
			return nil, false, err
		}
		if !result.Selection.AnySelected() {
			continue
		}
		return &result, true, nil
	}
}
