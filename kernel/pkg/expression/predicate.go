package expression

// TriState is the result of evaluating a predicate under SQL three-valued
// logic: Unknown keeps a file (stats or partition values may be absent),
// only False drops it, per §4.E / §9.
type TriState int

const (
	Unknown TriState = iota
	True
	False
)

// Not implements three-valued negation: NOT unknown is unknown.
func (t TriState) Not() TriState {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// CompareOp is the comparison operator family used by both partition
// pruning (§4.E) and data-skipping predicate rewrite (§4.F).
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
)

// PredicateKind discriminates the Predicate variant union — a tagged
// tree walked recursively by an evaluator, never a closure (§9).
type PredicateKind int

const (
	PredCompare PredicateKind = iota
	PredAnd
	PredOr
	PredNot
	PredIsNull
	PredIsNotNull
	PredAlwaysTrue
	PredAlwaysFalse
)

// Predicate is a node in the pruning/skipping predicate tree.
type Predicate struct {
	Kind PredicateKind

	// PredCompare
	Op       CompareOp
	Column   []string
	Literal  any
	LitType  DataType

	// PredAnd / PredOr: Children
	// PredNot: Children[0]
	Children []*Predicate

	// PredIsNull / PredIsNotNull
	NullColumn []string
}

func Compare(op CompareOp, column []string, litType DataType, literal any) *Predicate {
	return &Predicate{Kind: PredCompare, Op: op, Column: column, LitType: litType, Literal: literal}
}

func And(children ...*Predicate) *Predicate {
	return &Predicate{Kind: PredAnd, Children: children}
}

func Or(children ...*Predicate) *Predicate {
	return &Predicate{Kind: PredOr, Children: children}
}

func Not(child *Predicate) *Predicate {
	return &Predicate{Kind: PredNot, Children: []*Predicate{child}}
}

func IsNull(column []string) *Predicate {
	return &Predicate{Kind: PredIsNull, NullColumn: column}
}

func IsNotNull(column []string) *Predicate {
	return &Predicate{Kind: PredIsNotNull, NullColumn: column}
}

var AlwaysTrue = &Predicate{Kind: PredAlwaysTrue}
var AlwaysFalse = &Predicate{Kind: PredAlwaysFalse}
