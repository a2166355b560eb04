package expression

import "fmt"

// ExprKind discriminates the Expression variant union.
type ExprKind int

const (
	ExprColumn ExprKind = iota
	ExprLiteral
	ExprStruct
	ExprPredicate
)

// Expression is a serialized expression value — a variant tree, never an
// opaque callable (§9) — so it can be re-targeted across engines.
type Expression struct {
	Kind ExprKind

	// ExprColumn
	ColumnPath []string

	// ExprLiteral
	LiteralType  DataType
	LiteralValue any // nil means SQL NULL of LiteralType

	// ExprStruct
	StructFields []Expression

	// ExprPredicate
	Predicate *Predicate
}

func Column(path ...string) Expression {
	return Expression{Kind: ExprColumn, ColumnPath: path}
}

func Literal(typ DataType, value any) Expression {
	return Expression{Kind: ExprLiteral, LiteralType: typ, LiteralValue: value}
}

func Null(typ DataType) Expression {
	return Expression{Kind: ExprLiteral, LiteralType: typ, LiteralValue: nil}
}

func StructExpr(fields ...Expression) Expression {
	return Expression{Kind: ExprStruct, StructFields: fields}
}

func PredicateExpr(p *Predicate) Expression {
	return Expression{Kind: ExprPredicate, Predicate: p}
}

func (e Expression) String() string {
	switch e.Kind {
	case ExprColumn:
		return fmt.Sprintf("column(%v)", e.ColumnPath)
	case ExprLiteral:
		if e.LiteralValue == nil {
			return "null"
		}
		return fmt.Sprintf("literal(%v)", e.LiteralValue)
	case ExprStruct:
		return fmt.Sprintf("struct(%d fields)", len(e.StructFields))
	case ExprPredicate:
		return "predicate(...)"
	default:
		return "expr(?)"
	}
}

// TransformElementKind discriminates a transform-spec element, §3.
type TransformElementKind int

const (
	// ElementPartition sources the value from the add's partitionValues
	// map, by logical-field index.
	ElementPartition TransformElementKind = iota
	// ElementStatic sources the value from a fixed expression — typically
	// a column reference for pass-through physical columns, or a literal.
	ElementStatic
)

// TransformElement is one instruction in a transform spec: one per
// output column of the logical schema.
type TransformElement struct {
	Kind         TransformElementKind
	FieldIndex   int        // ElementPartition
	StaticExpr   Expression // ElementStatic
	PhysicalName string     // ElementPartition: the add's partitionValues key for this field
	LogicalType  DataType   // ElementPartition: declared type to parse the raw string into
}

func Partition(fieldIndex int, physicalName string, logicalType DataType) TransformElement {
	return TransformElement{Kind: ElementPartition, FieldIndex: fieldIndex, PhysicalName: physicalName, LogicalType: logicalType}
}

func Static(expr Expression) TransformElement {
	return TransformElement{Kind: ElementStatic, StaticExpr: expr}
}

// TransformSpec is the ordered sequence of transform elements, one per
// output column of the logical schema.
type TransformSpec []TransformElement
