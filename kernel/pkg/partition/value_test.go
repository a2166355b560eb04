package partition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/malbeclabs/deltascan/kernel/pkg/expression"
)

func strPtr(s string) *string { return &s }

func TestDeltascan_Partition_ParseValue_NilRawIsNull(t *testing.T) {
	t.Parallel()
	v, err := ParseValue(expression.String, nil)
	require.NoError(t, err)
	require.Nil(t, v.LiteralValue)
}

func TestDeltascan_Partition_ParseValue_Scalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  expression.DataType
		raw  string
		want any
	}{
		{name: "string", typ: expression.String, raw: "hello", want: "hello"},
		{name: "boolean true", typ: expression.Boolean, raw: "true", want: true},
		{name: "byte", typ: expression.Byte, raw: "7", want: int8(7)},
		{name: "short", typ: expression.Short, raw: "300", want: int16(300)},
		{name: "int", typ: expression.Int, raw: "42", want: int32(42)},
		{name: "long", typ: expression.Long, raw: "9000000000", want: int64(9000000000)},
		{name: "float", typ: expression.Float, raw: "1.5", want: float32(1.5)},
		{name: "double", typ: expression.Double, raw: "1.5", want: float64(1.5)},
		{name: "binary", typ: expression.Binary, raw: "ab", want: []byte("ab")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v, err := ParseValue(tt.typ, strPtr(tt.raw))
			require.NoError(t, err)
			require.Equal(t, tt.want, v.LiteralValue)
		})
	}
}

func TestDeltascan_Partition_ParseValue_InvalidScalarIsSchemaError(t *testing.T) {
	t.Parallel()
	_, err := ParseValue(expression.Int, strPtr("not-a-number"))
	require.Error(t, err)
}

func TestDeltascan_Partition_ParseValue_Date(t *testing.T) {
	t.Parallel()

	v, err := ParseValue(expression.Date, strPtr("2018-01-01"))
	require.NoError(t, err)
	days, ok := v.LiteralValue.(int32)
	require.True(t, ok)

	// Delta/Spark DATE literals are days since the Unix epoch; verify
	// against the standard library's own date arithmetic rather than a
	// hardcoded magic number.
	want := int32(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC).Sub(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)).Hours() / 24)
	require.Equal(t, want, days)
}

func TestDeltascan_Partition_ParseValue_Date_ConsecutiveDaysDifferByOne(t *testing.T) {
	t.Parallel()

	earlier, err := ParseValue(expression.Date, strPtr("2017-12-31"))
	require.NoError(t, err)
	later, err := ParseValue(expression.Date, strPtr("2018-01-01"))
	require.NoError(t, err)

	require.Equal(t, earlier.LiteralValue.(int32)+1, later.LiteralValue.(int32))
}

func TestDeltascan_Partition_ParseValue_Timestamp(t *testing.T) {
	t.Parallel()

	v, err := ParseValue(expression.Timestamp, strPtr("2024-01-15 12:30:00"))
	require.NoError(t, err)
	micros, ok := v.LiteralValue.(int64)
	require.True(t, ok)

	want := time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC).UnixMicro()
	require.Equal(t, want, micros)
}

func TestDeltascan_Partition_ParseValue_UnsupportedKindIsInternal(t *testing.T) {
	t.Parallel()
	mapType := expression.Map(expression.String, expression.String, true)
	_, err := ParseValue(mapType, strPtr("x"))
	require.Error(t, err)
}
