package jsonengine

import (
	"github.com/malbeclabs/deltascan/kernel/pkg/engine"
	coreerrors "github.com/malbeclabs/deltascan/utils/pkg/errors"
)

// RowVisitor implements engine.RowVisitor by navigating each row's
// decoded JSON object along a ColumnRequest's dotted path.
type RowVisitor struct{}

func (RowVisitor) VisitRows(b engine.Batch, columns []engine.ColumnRequest) ([]engine.RowGetter, error) {
	batch, ok := b.(*Batch)
	if !ok {
		return nil, coreerrors.Internal("jsonengine row visitor given a foreign batch type %T", b)
	}

	getters := make([]engine.RowGetter, len(batch.Rows))
	for i, row := range batch.Rows {
		values := make([]any, len(columns))
		for j, col := range columns {
			values[j] = lookupPath(row, col.Path)
		}
		getters[i] = &rowGetter{values: values}
	}
	return getters, nil
}

func lookupPath(row map[string]any, path []string) any {
	var cur any = row
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := m[p]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

var _ engine.RowVisitor = RowVisitor{}
