// Package partition implements partition-string parsing and
// predicate-based pruning over parsed partition values, §4.E.
package partition

import (
	"strconv"
	"time"

	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
	coreerrors "github.com/malbeclabs/deltascan/utils/pkg/errors"
)

// epochDate is the Delta partition-value epoch for DATE columns: the
// Delta/Spark convention represents a date as days since 1970-01-01.
var epochDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// ParseValue parses a raw partition-value string into a typed scalar
// according to typ, following the Delta partition-value convention
// (§4.E step 3). raw == nil means the key was absent from the
// partitionValues map, which this module treats as SQL NULL (Open
// Question (b)).
func ParseValue(typ expression.DataType, raw *string) (expression.Expression, error) {
	if raw == nil {
		return expression.Null(typ), nil
	}
	s := *raw

	switch typ.Kind {
	case expression.KindString:
		return expression.Literal(typ, s), nil
	case expression.KindBoolean:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return expression.Expression{}, coreerrors.Schema("invalid boolean partition value %q: %v", s, err)
		}
		return expression.Literal(typ, v), nil
	case expression.KindInt:
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return expression.Expression{}, coreerrors.Schema("invalid int partition value %q: %v", s, err)
		}
		return expression.Literal(typ, int32(v)), nil
	case expression.KindShort:
		v, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return expression.Expression{}, coreerrors.Schema("invalid short partition value %q: %v", s, err)
		}
		return expression.Literal(typ, int16(v)), nil
	case expression.KindByte:
		v, err := strconv.ParseInt(s, 10, 8)
		if err != nil {
			return expression.Expression{}, coreerrors.Schema("invalid byte partition value %q: %v", s, err)
		}
		return expression.Literal(typ, int8(v)), nil
	case expression.KindLong:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return expression.Expression{}, coreerrors.Schema("invalid long partition value %q: %v", s, err)
		}
		return expression.Literal(typ, v), nil
	case expression.KindFloat:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return expression.Expression{}, coreerrors.Schema("invalid float partition value %q: %v", s, err)
		}
		return expression.Literal(typ, float32(v)), nil
	case expression.KindDouble:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return expression.Expression{}, coreerrors.Schema("invalid double partition value %q: %v", s, err)
		}
		return expression.Literal(typ, v), nil
	case expression.KindDecimal:
		// Decimal partition values are parsed into a float64; there is
		// no fixed-point type here, so digits beyond float64 precision
		// are lost. Pruning compares them numerically like other
		// floating-point values.
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return expression.Expression{}, coreerrors.Schema("invalid decimal partition value %q: %v", s, err)
		}
		return expression.Literal(typ, v), nil
	case expression.KindDate:
		days, err := parseDateDays(s)
		if err != nil {
			return expression.Expression{}, coreerrors.Schema("invalid date partition value %q: %v", s, err)
		}
		return expression.Literal(typ, days), nil
	case expression.KindTimestamp:
		micros, err := parseTimestampMicros(s)
		if err != nil {
			return expression.Expression{}, coreerrors.Schema("invalid timestamp partition value %q: %v", s, err)
		}
		return expression.Literal(typ, micros), nil
	case expression.KindBinary:
		return expression.Literal(typ, []byte(s)), nil
	default:
		return expression.Expression{}, coreerrors.Internal("unsupported partition value type kind %v", typ.Kind)
	}
}

// parseDateDays parses an ISO-8601 date into days-since-epoch (int32),
// the Delta/Spark wire representation for DATE literals.
func parseDateDays(s string) (int32, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, err
	}
	days := int64(t.Sub(epochDate).Hours() / 24)
	return int32(days), nil
}

// parseTimestampMicros parses an ISO-8601 timestamp into
// microseconds-since-epoch (int64), accepting both the ntz form and an
// explicit-offset form.
func parseTimestampMicros(s string) (int64, error) {
	layouts := []string{
		"2006-01-02 15:04:05.999999",
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
		time.RFC3339,
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC().UnixMicro(), nil
		}
		lastErr = err
	}
	return 0, lastErr
}
