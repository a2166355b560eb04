// Package logreplay implements the log-replay scanner (§4.G) and the
// scan-action iterator (§4.H): the stateful stream operator that drives
// the skipping filter and dedup visitor across a newest-first sequence
// of action batches and yields (scan-row batch, selection vector,
// row transforms) triples.
package logreplay

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/malbeclabs/deltascan/kernel/pkg/engine"
	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
	"github.com/malbeclabs/deltascan/kernel/pkg/fileaction"
	"github.com/malbeclabs/deltascan/kernel/pkg/skipping"
	"github.com/malbeclabs/deltascan/utils/pkg/metrics"
)

// Config configures a Scanner. LogicalSchema, Transform, and Predicate
// are all optional: a scan with neither a transform spec nor a
// predicate simply passes every surviving add through unchanged, §8
// scenario 1.
type Config struct {
	Engine         engine.Engine
	LogicalSchema  expression.DataType // struct type; len(Fields) == logical field count
	Transform      expression.TransformSpec
	Predicate      *expression.Predicate
	PhysicalSchema expression.DataType

	Logger *slog.Logger
	Clock  clockwork.Clock
}

func (c *Config) setDefaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
}

// BatchInput is one item the scan-action iterator (§4.H) consumes: a
// batch tagged with whether it came from a log commit or a checkpoint.
type BatchInput struct {
	Batch      engine.Batch
	IsLogBatch bool
}

// ScanResult is the triple §4.G's scanner emits per batch.
type ScanResult struct {
	ScanRows      engine.Batch
	Selection     skipping.SelectionVector
	RowTransforms []expression.Expression
}

// Scanner owns the seen-set and skipping filter across a scan's
// lifetime (§4.G, §5 "Shared state" — not exposed, not safely shared
// across concurrent scans; each scan needs its own Scanner).
type Scanner struct {
	cfg               Config
	seenSet           *fileaction.SeenSet
	filter            *skipping.Filter
	scanID            uuid.UUID
	addTransformEval  engine.Evaluator
	logicalFieldCount int
}

// New fills in cfg's default logger and clock, builds the add-transform
// evaluator through cfg.Engine (returning its error), and constructs a
// Scanner with a fresh seen-set.
func New(cfg Config) (*Scanner, error) {
	cfg.setDefaults()

	evaluator, err := cfg.Engine.Expressions.BuildEvaluator(
		actionBatchSchema(),
		expression.BuildAddTransform(),
		expression.ScanRowSchema,
	)
	if err != nil {
		return nil, err
	}

	s := &Scanner{
		cfg:              cfg,
		seenSet:          fileaction.NewSeenSet(),
		filter:           skipping.New(cfg.Predicate),
		scanID:           uuid.New(),
		addTransformEval: evaluator,
	}
	if cfg.Transform != nil {
		s.logicalFieldCount = len(cfg.LogicalSchema.Fields)
	}

	metrics.ScansStarted.Inc()
	s.cfg.Logger.Debug("scan started", "scan_id", s.scanID, "at", cfg.Clock.Now())

	return s, nil
}

// actionBatchSchema is the minimal struct schema the add-transform
// evaluator is built against: an action batch's add sub-struct, as §6
// describes it.
func actionBatchSchema() expression.DataType {
	return expression.Struct(
		expression.Field("add", expression.Struct(
			expression.Field("path", expression.String, true),
			expression.Field("partitionValues", expression.Map(expression.String, expression.String, true), true),
			expression.Field("size", expression.Long, true),
			expression.Field("modificationTime", expression.Long, true),
			expression.Field("stats", expression.String, true),
			expression.Field("deletionVector", expression.DeletionVectorType, true),
		), true),
	)
}
