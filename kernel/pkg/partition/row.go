package partition

import (
	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
	coreerrors "github.com/malbeclabs/deltascan/utils/pkg/errors"
)

// BuildRow resolves every Partition element of spec against rawValues
// (an add's partitionValues map), returning both the column-name-keyed
// Row used for predicate evaluation (§4.E) and the field-index-keyed map
// used to build the per-row transform (§3). A field_index out of range
// of logicalFieldCount is an Internal invariant violation (§4.E step 1).
func BuildRow(spec expression.TransformSpec, rawValues map[string]string, logicalFieldCount int) (Row, map[int]expression.Expression, error) {
	row := make(Row)
	byIndex := make(map[int]expression.Expression)

	for _, elem := range spec {
		if elem.Kind != expression.ElementPartition {
			continue
		}
		if elem.FieldIndex < 0 || elem.FieldIndex >= logicalFieldCount {
			return nil, nil, coreerrors.Internal("partition transform element references out-of-range field index %d (schema has %d fields)", elem.FieldIndex, logicalFieldCount)
		}

		var raw *string
		if v, ok := rawValues[elem.PhysicalName]; ok {
			raw = &v
		}

		parsed, err := ParseValue(elem.LogicalType, raw)
		if err != nil {
			return nil, nil, err
		}

		row[elem.PhysicalName] = parsed
		byIndex[elem.FieldIndex] = parsed
	}

	return row, byIndex, nil
}
