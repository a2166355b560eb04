package expression

// BuildAddTransform returns the fixed struct expression that projects an
// add action's fields into the scan-row schema (§3, §4.B). It is an
// immutable, process-wide constant in spirit — callers should build it
// once and reuse it, since its shape never varies with the logical
// schema (only the per-row transform, built separately, does that).
func BuildAddTransform() Expression {
	return StructExpr(
		Column("add", "path"),
		Column("add", "size"),
		Column("add", "modificationTime"),
		Column("add", "stats"),
		StructExpr(
			Column("add", "deletionVector", "storageType"),
			Column("add", "deletionVector", "pathOrInlineDv"),
			Column("add", "deletionVector", "offset"),
			Column("add", "deletionVector", "sizeInBytes"),
			Column("add", "deletionVector", "cardinality"),
		),
		StructExpr(
			Column("add", "partitionValues"),
		),
	)
}

// BuildRowTransform resolves each Partition element of spec against the
// row's already-parsed partition values (logical field index -> parsed
// scalar), substituting Static elements verbatim, per §3 "per-row
// transform expression".
func BuildRowTransform(spec TransformSpec, parsedPartitionValues map[int]Expression) Expression {
	fields := make([]Expression, len(spec))
	for i, elem := range spec {
		switch elem.Kind {
		case ElementPartition:
			if v, ok := parsedPartitionValues[elem.FieldIndex]; ok {
				fields[i] = v
			} else {
				fields[i] = Null(elem.LogicalType)
			}
		case ElementStatic:
			fields[i] = elem.StaticExpr
		}
	}
	return StructExpr(fields...)
}
