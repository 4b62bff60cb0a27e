package format

import (
	"encoding/json"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// jsonFooter is the wire shape every backend (local filesystem, Azure
// Blob, GCS, S3) uses for a file's footer sidecar. Real parquet footers
// are Thrift-encoded trailers; this package doesn't decode those, so
// every opener instead fetches a small JSON sidecar with this shape, at
// path/key "<source>.footer.json".
type jsonFooter struct {
	NumRows   int64                  `json:"num_rows"`
	Schema    []jsonField            `json:"schema"`
	RowGroups []jsonRowGroupStats    `json:"row_groups"`
}

type jsonField struct {
	Name     string `json:"name"`
	Type     string `json:"type"` // "int64" | "float64" | "bool" | "string"
	Nullable bool   `json:"nullable"`
}

type jsonRowGroupStats struct {
	NumRows int64                       `json:"num_rows"`
	Columns map[string]jsonColumnStats  `json:"columns"`
}

type jsonColumnStats struct {
	HasMin  bool `json:"has_min"`
	HasMax  bool `json:"has_max"`
	Min     any  `json:"min"`
	Max     any  `json:"max"`
	HasNull bool `json:"has_null"`
	AllNull bool `json:"all_null"`
}

func arrowTypeFromName(name string) (arrow.DataType, error) {
	switch name {
	case "int64":
		return arrow.PrimitiveTypes.Int64, nil
	case "float64":
		return arrow.PrimitiveTypes.Float64, nil
	case "bool":
		return arrow.FixedWidthTypes.Boolean, nil
	case "string":
		return arrow.BinaryTypes.String, nil
	default:
		return nil, fmt.Errorf("format: unknown column type %q", name)
	}
}

func arrowNameFromType(t arrow.DataType) (string, error) {
	switch t.ID() {
	case arrow.INT64:
		return "int64", nil
	case arrow.FLOAT64:
		return "float64", nil
	case arrow.BOOL:
		return "bool", nil
	case arrow.STRING:
		return "string", nil
	default:
		return "", fmt.Errorf("format: unsupported arrow type %s", t)
	}
}

// DecodeJSON parses a footer sidecar.
func DecodeJSON(data []byte) (*Footer, error) {
	var jf jsonFooter
	if err := json.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("format: decoding footer: %w", err)
	}

	fields := make([]arrow.Field, len(jf.Schema))
	for i, f := range jf.Schema {
		typ, err := arrowTypeFromName(f.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: f.Name, Type: typ, Nullable: f.Nullable}
	}

	groups := make([]RowGroupStats, len(jf.RowGroups))
	for i, g := range jf.RowGroups {
		cols := make(map[string]ColumnStats, len(g.Columns))
		for name, c := range g.Columns {
			cols[name] = ColumnStats{
				HasMin: c.HasMin, HasMax: c.HasMax,
				Min: c.Min, Max: c.Max,
				HasNull: c.HasNull, AllNull: c.AllNull,
			}
		}
		groups[i] = RowGroupStats{NumRows: g.NumRows, Columns: cols}
	}

	return &Footer{
		Schema:    arrow.NewSchema(fields, nil),
		NumRows:   jf.NumRows,
		RowGroups: groups,
	}, nil
}

// EncodeJSON serializes a Footer to its sidecar JSON form, the inverse of
// DecodeJSON. Used by tests and by anything that writes fixtures for the
// local/remote openers.
func EncodeJSON(f *Footer) ([]byte, error) {
	jf := jsonFooter{NumRows: f.NumRows}
	for _, fld := range f.Schema.Fields() {
		name, err := arrowNameFromType(fld.Type)
		if err != nil {
			return nil, err
		}
		jf.Schema = append(jf.Schema, jsonField{Name: fld.Name, Type: name, Nullable: fld.Nullable})
	}
	for _, g := range f.RowGroups {
		jg := jsonRowGroupStats{NumRows: g.NumRows, Columns: make(map[string]jsonColumnStats, len(g.Columns))}
		for name, c := range g.Columns {
			jg.Columns[name] = jsonColumnStats{
				HasMin: c.HasMin, HasMax: c.HasMax,
				Min: c.Min, Max: c.Max,
				HasNull: c.HasNull, AllNull: c.AllNull,
			}
		}
		jf.RowGroups = append(jf.RowGroups, jg)
	}
	return json.Marshal(jf)
}
