package jsonengine

import (
	"github.com/malbeclabs/deltascan/kernel/pkg/engine"
)

// rowGetter exposes one decoded JSON row's fields by the ordinal
// position of the engine.ColumnRequest that produced it, per §6's
// index-based RowGetter contract.
type rowGetter struct {
	values []any
}

func (g *rowGetter) GetStr(i int) (string, bool) {
	v, ok := g.at(i)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (g *rowGetter) GetMap(i int) (map[string]string, bool) {
	v, ok := g.at(i)
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case map[string]string:
		return m, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, raw := range m {
			s, ok := raw.(string)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func (g *rowGetter) GetInt(i int) (int64, bool) {
	v, ok := g.at(i)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func (g *rowGetter) at(i int) (any, bool) {
	if i < 0 || i >= len(g.values) {
		return nil, false
	}
	v := g.values[i]
	return v, v != nil
}

var _ engine.RowGetter = (*rowGetter)(nil)
