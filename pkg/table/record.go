// Package table implements the data table: a pure query pipeline (filter,
// sort, paginate) over open records and a controller that fetches pages,
// tracks selection and notifies subscribers after every state transition.
package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Record is one row returned by the collaborator. Keys are column keys.
type Record map[string]any

// IDKey is the record key used for row identity.
const IDKey = "id"

// ID returns the record's identity as text when it carries a non-empty id.
func (r Record) ID() (string, bool) {
	v, ok := r[IDKey]
	if !ok || v == nil {
		return "", false
	}
	id := CellText(v)
	return id, id != ""
}

// RowKey is the selection identity of a record: its id, or "#<index>" for
// records without one.
func RowKey(r Record, index int) string {
	if id, ok := r.ID(); ok {
		return id
	}
	return "#" + strconv.Itoa(index)
}

// CellText is the display string of a cell value. Callers must escape it for
// the output medium; it is never markup.
func CellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case map[string]any, []any:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	default:
		return fmt.Sprint(val)
	}
}

// TerminalText strips control characters so a cell cannot move the cursor or
// inject escape sequences when printed to a terminal.
func TerminalText(v any) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, CellText(v))
}
