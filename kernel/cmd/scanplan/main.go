// Command scanplan replays a directory of Delta-style JSON action
// batches and prints the resulting scan-row plan, one JSON line per
// surviving add. It exists to exercise the kernel end to end against
// real files on disk; it is not a query engine.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/malbeclabs/deltascan/kernel/pkg/columnname"
	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
	"github.com/malbeclabs/deltascan/kernel/pkg/jsonengine"
	"github.com/malbeclabs/deltascan/kernel/pkg/logreplay"
	"github.com/malbeclabs/deltascan/utils/pkg/logger"
	"github.com/malbeclabs/deltascan/utils/pkg/retry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	logDirFlag := flag.String("log-dir", "", "directory of Delta-style JSON action files (or set DELTASCAN_LOG_DIR env var)")

	predicateColumnFlag := flag.String("predicate-column", "", "dotted column name to filter on (physical schema); empty disables filtering")
	predicateOpFlag := flag.String("predicate-op", "eq", "comparison operator: eq, neq, lt, lteq, gt, gteq")
	predicateValueFlag := flag.String("predicate-value", "", "string literal to compare predicate-column against")

	retryMaxAttemptsFlag := flag.Int("retry-max-attempts", retry.DefaultConfig().MaxAttempts, "max attempts reading each action file")

	flag.Parse()

	if envLogDir := os.Getenv("DELTASCAN_LOG_DIR"); envLogDir != "" && *logDirFlag == "" {
		*logDirFlag = envLogDir
	}
	if *logDirFlag == "" {
		return fmt.Errorf("--log-dir (or DELTASCAN_LOG_DIR) is required")
	}

	log := logger.New(*verboseFlag)

	pred, err := buildPredicate(*predicateColumnFlag, *predicateOpFlag, *predicateValueFlag)
	if err != nil {
		return err
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = *retryMaxAttemptsFlag

	source, err := jsonengine.NewDirectorySource(*logDirFlag, retryCfg, log)
	if err != nil {
		return fmt.Errorf("opening log directory: %w", err)
	}

	scanner, err := logreplay.New(logreplay.Config{
		Engine:    jsonengine.NewEngine(),
		Predicate: pred,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("constructing scanner: %w", err)
	}

	it := logreplay.NewScanIterator(scanner, source)

	enc := json.NewEncoder(os.Stdout)
	total := 0
	start := time.Now()
	for {
		result, ok, err := it.Next()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		if !ok {
			break
		}
		n, err := emitScanRows(enc, result)
		if err != nil {
			return err
		}
		total += n
	}

	log.Info("scan complete", "rows", total, "elapsed", time.Since(start))
	return nil
}

func emitScanRows(enc *json.Encoder, result *logreplay.ScanResult) (int, error) {
	batch, ok := result.ScanRows.(*jsonengine.Batch)
	if !ok {
		return 0, fmt.Errorf("unexpected scan-row batch type %T", result.ScanRows)
	}
	n := 0
	for i, row := range batch.Rows {
		if i >= len(result.Selection) || !result.Selection[i] {
			continue
		}
		if err := enc.Encode(row); err != nil {
			return n, fmt.Errorf("encoding scan row: %w", err)
		}
		n++
	}
	return n, nil
}

func buildPredicate(column, op, value string) (*expression.Predicate, error) {
	if column == "" {
		return nil, nil
	}

	parsed, err := columnname.Parse(column)
	if err != nil {
		return nil, fmt.Errorf("invalid --predicate-column: %w", err)
	}

	var compareOp expression.CompareOp
	switch op {
	case "eq":
		compareOp = expression.OpEq
	case "neq":
		compareOp = expression.OpNotEq
	case "lt":
		compareOp = expression.OpLt
	case "lteq":
		compareOp = expression.OpLtEq
	case "gt":
		compareOp = expression.OpGt
	case "gteq":
		compareOp = expression.OpGtEq
	default:
		return nil, fmt.Errorf("unknown --predicate-op %q", op)
	}

	return expression.Compare(compareOp, []string(parsed), expression.String, value), nil
}
