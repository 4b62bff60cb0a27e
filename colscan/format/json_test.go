package format

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeJSONRoundTrips(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "x", Type: arrow.PrimitiveTypes.Int64},
		{Name: "y", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "z", Type: arrow.BinaryTypes.String},
	}, nil)
	footer := &Footer{
		Schema:  schema,
		NumRows: 30,
		RowGroups: []RowGroupStats{
			{NumRows: 30, Columns: map[string]ColumnStats{
				"x": {HasMin: true, HasMax: true, Min: float64(0), Max: float64(29)},
			}},
		},
	}

	raw, err := EncodeJSON(footer)
	require.NoError(t, err)

	got, err := DecodeJSON(raw)
	require.NoError(t, err)

	assert.True(t, got.Schema.Equal(schema))
	assert.EqualValues(t, 30, got.NumRows)
	require.Len(t, got.RowGroups, 1)
	assert.EqualValues(t, 30, got.RowGroups[0].NumRows)
	assert.True(t, got.RowGroups[0].Columns["x"].HasMin)
}

func TestDecodeJSONRejectsUnknownType(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"num_rows":1,"schema":[{"name":"x","type":"decimal"}]}`))
	assert.Error(t, err)
}

func TestHasColumnAndMissingColumns(t *testing.T) {
	footer := &Footer{Schema: arrow.NewSchema([]arrow.Field{
		{Name: "x", Type: arrow.PrimitiveTypes.Int64},
	}, nil)}

	assert.True(t, footer.HasColumn("x"))
	assert.False(t, footer.HasColumn("y"))
	assert.Equal(t, []string{"y"}, footer.MissingColumns([]string{"x", "y"}))
}
