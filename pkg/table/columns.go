package table

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column declares a displayed and searchable record key.
type Column struct {
	Key      string `yaml:"key" json:"key"`
	Label    string `yaml:"label" json:"label"`
	Sortable bool   `yaml:"sortable" json:"sortable"`
}

type columnsDocument struct {
	Columns []Column `yaml:"columns"`
}

// ErrNoColumns is returned when a declaration contains no columns.
var ErrNoColumns = errors.New("table: no columns declared")

// LoadColumns decodes a YAML column declaration:
//
//	columns:
//	  - key: username
//	    label: Username
//	    sortable: true
//
// Labels default to the key. Keys must be unique.
func LoadColumns(r io.Reader) ([]Column, error) {
	var doc columnsDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoColumns
		}
		return nil, fmt.Errorf("table: decode columns: %w", err)
	}
	return normalizeColumns(doc.Columns)
}

func normalizeColumns(columns []Column) ([]Column, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	seen := make(map[string]struct{}, len(columns))
	out := make([]Column, 0, len(columns))
	for i, col := range columns {
		col.Key = strings.TrimSpace(col.Key)
		if col.Key == "" {
			return nil, fmt.Errorf("table: column %d: key is required", i)
		}
		if _, dup := seen[col.Key]; dup {
			return nil, fmt.Errorf("table: column %q declared twice", col.Key)
		}
		seen[col.Key] = struct{}{}
		if strings.TrimSpace(col.Label) == "" {
			col.Label = col.Key
		}
		out = append(out, col)
	}
	return out, nil
}

func findColumn(columns []Column, key string) (Column, bool) {
	for _, col := range columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}
