// Package expression defines the scan-row schema, the transform-spec
// variant union (§3), and a small variant expression tree used to build
// the add-transform and per-row transforms as data rather than
// closures, per §9 "transforms as data, not closures".
package expression

// DataType is a tagged union over the handful of scalar and compound
// types the scan-planning core needs to describe. It never needs the
// full breadth of a general engine type system.
type DataType struct {
	Kind     TypeKind
	Fields   []StructField // Kind == KindStruct
	KeyType  *DataType     // Kind == KindMap
	ValType  *DataType     // Kind == KindMap
	Nullable bool          // for map value types (values-nullable on fileConstantValues.partitionValues)
}

type TypeKind int

const (
	KindString TypeKind = iota
	KindLong
	KindInt
	KindShort
	KindByte
	KindBoolean
	KindDate
	KindTimestamp
	KindFloat
	KindDouble
	KindBinary
	KindDecimal
	KindStruct
	KindMap
)

type StructField struct {
	Name     string
	Type     DataType
	Nullable bool
}

func Struct(fields ...StructField) DataType { return DataType{Kind: KindStruct, Fields: fields} }

func Field(name string, typ DataType, nullable bool) StructField {
	return StructField{Name: name, Type: typ, Nullable: nullable}
}

var (
	String    = DataType{Kind: KindString}
	Long      = DataType{Kind: KindLong}
	Int       = DataType{Kind: KindInt}
	Short     = DataType{Kind: KindShort}
	Byte      = DataType{Kind: KindByte}
	Boolean   = DataType{Kind: KindBoolean}
	Date      = DataType{Kind: KindDate}
	Timestamp = DataType{Kind: KindTimestamp}
	Float     = DataType{Kind: KindFloat}
	Double    = DataType{Kind: KindDouble}
	Binary    = DataType{Kind: KindBinary}
)

func Decimal(precision, scale int) DataType {
	return DataType{Kind: KindDecimal}
}

func Map(key, val DataType, valuesNullable bool) DataType {
	return DataType{Kind: KindMap, KeyType: &key, ValType: &val, Nullable: valuesNullable}
}

// DeletionVectorType is the fixed struct shape of the scan-row
// deletionVector field, §3.
var DeletionVectorType = Struct(
	Field("storageType", String, true),
	Field("pathOrInlineDv", String, true),
	Field("offset", Int, true),
	Field("sizeInBytes", Int, true),
	Field("cardinality", Long, true),
)

// FileConstantValuesType is the fixed struct shape of the scan-row
// fileConstantValues field, §3.
var FileConstantValuesType = Struct(
	Field("partitionValues", Map(String, String, true), true),
)

// ScanRowSchema is the fixed shape of every emitted scan-row batch, §3,
// in order: path, size, modificationTime, stats, deletionVector,
// fileConstantValues.
var ScanRowSchema = Struct(
	Field("path", String, true),
	Field("size", Long, true),
	Field("modificationTime", Long, true),
	Field("stats", String, true),
	Field("deletionVector", DeletionVectorType, true),
	Field("fileConstantValues", FileConstantValuesType, true),
)
