package table

import (
	"cmp"
	"encoding/json"
	"sort"
	"strings"
)

// Direction is the sort order of a column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec names the single sorted column. An empty Column means unsorted.
type SortSpec struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether a column is sorted.
func (s SortSpec) Active() bool {
	return s.Column != ""
}

// Query carries the parameters of one fetch. Zero Page or PageSize means
// "not requested" and is omitted on the wire.
type Query struct {
	Search   string
	Sort     SortSpec
	Page     int
	PageSize int
}

// Pagination describes where a page sits within the full result.
type Pagination struct {
	Page        int
	PageSize    int
	TotalCount  int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// Page is one slice of records plus its pagination.
type Page struct {
	Items []Record
	Pagination
}

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 10

// ToggleSort returns the next sort state after a header click on column:
// repeated clicks flip the direction, a new column starts ascending.
func ToggleSort(current SortSpec, column string) SortSpec {
	if current.Column == column {
		if current.Direction == Ascending {
			return SortSpec{Column: column, Direction: Descending}
		}
		return SortSpec{Column: column, Direction: Ascending}
	}
	return SortSpec{Column: column, Direction: Ascending}
}

// Filter keeps records whose text in at least one of columns contains term,
// ignoring case. The term is matched literally, surrounding spaces included;
// only "" returns every record. With no columns every record key is searched.
func Filter(records []Record, columns []Column, term string) []Record {
	out := make([]Record, 0, len(records))
	needle := strings.ToLower(term)
	if needle == "" {
		return append(out, records...)
	}
	for _, rec := range records {
		if matches(rec, columns, needle) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec Record, columns []Column, needle string) bool {
	if len(columns) == 0 {
		for _, v := range rec {
			if strings.Contains(strings.ToLower(CellText(v)), needle) {
				return true
			}
		}
		return false
	}
	for _, col := range columns {
		if strings.Contains(strings.ToLower(CellText(rec[col.Key])), needle) {
			return true
		}
	}
	return false
}

// Sort returns a copy of records ordered by the sort column and direction.
// The sort is stable: equal values keep their original relative order in both
// directions.
func Sort(records []Record, by SortSpec) []Record {
	out := append([]Record(nil), records...)
	if !by.Active() {
		return out
	}
	desc := by.Direction == Descending
	sort.SliceStable(out, func(i, j int) bool {
		c := compareValues(out[i][by.Column], out[j][by.Column])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// compareValues orders nil first, numbers numerically, booleans false before
// true, and everything else by text (case-insensitive, then exact).
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if x, ok := a.(json.Number); ok {
		if y, ok := b.(json.Number); ok {
			xi, errX := x.Int64()
			yi, errY := y.Int64()
			if errX == nil && errY == nil {
				return cmp.Compare(xi, yi)
			}
		}
	}

	if x, ok := toNumber(a); ok {
		if y, ok := toNumber(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}

	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}

	as, bs := CellText(a), CellText(b)
	if c := strings.Compare(strings.ToLower(as), strings.ToLower(bs)); c != 0 {
		return c
	}
	return strings.Compare(as, bs)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Paginate slices records into the requested page. Page is clamped into
// [1, TotalPages]; an empty set still has one (empty) page.
func Paginate(records []Record, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	items := make([]Record, 0, end-start)
	if start < end {
		items = append(items, records[start:end]...)
	}

	return Page{
		Items: items,
		Pagination: Pagination{
			Page:        page,
			PageSize:    pageSize,
			TotalCount:  total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	}
}
