package table

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/render/views"
)

// EmptyMessage is shown when no rows match.
const EmptyMessage = "No records found."

// ViewContext builds the template context for state. Cells are passed as
// plain strings; the engine escapes them on output.
func ViewContext(columns []Column, state State, selectable bool) map[string]any {
	cols := make([]map[string]any, 0, len(columns))
	for _, col := range columns {
		entry := map[string]any{
			"key":   col.Key,
			"label": col.Label,
			"sort":  "",
		}
		if state.Sort.Column == col.Key {
			if state.Sort.Direction == Descending {
				entry["sort"] = "descending"
			} else {
				entry["sort"] = "ascending"
			}
		}
		cols = append(cols, entry)
	}

	rows := make([]map[string]any, 0, len(state.Rows))
	for i, rec := range state.Rows {
		key := RowKey(rec, i)
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, CellText(rec[col.Key]))
		}
		rows = append(rows, map[string]any{
			"key":      key,
			"selected": state.Selected[key],
			"cells":    cells,
		})
	}

	colspan := len(columns)
	if selectable {
		colspan++
	}

	return map[string]any{
		"loading":       state.Loading,
		"error":         state.Error,
		"selectable":    selectable,
		"all_selected":  state.AllVisibleSelected(),
		"columns":       cols,
		"rows":          rows,
		"colspan":       colspan,
		"empty_message": EmptyMessage,
		"page":          state.Page.Page,
		"total_pages":   state.Page.TotalPages,
		"total_count":   state.Page.TotalCount,
	}
}

// RenderHTML renders state with the table template.
func RenderHTML(renderer template.TemplateRenderer, columns []Column, state State, selectable bool) (string, error) {
	if renderer == nil {
		return "", errors.New("table: renderer is required")
	}
	out, err := renderer.RenderTemplate(views.TableTemplate, ViewContext(columns, state, selectable))
	if err != nil {
		return "", fmt.Errorf("table: render html: %w", err)
	}
	return out, nil
}

// RenderText writes state as an aligned plain-text table.
func RenderText(w io.Writer, columns []Column, state State) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headers := make([]string, 0, len(columns)+1)
	headers = append(headers, " ")
	for _, col := range columns {
		label := TerminalText(col.Label)
		if state.Sort.Column == col.Key {
			if state.Sort.Direction == Descending {
				label += " v"
			} else {
				label += " ^"
			}
		}
		headers = append(headers, label)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for i, rec := range state.Rows {
		mark := " "
		if state.Selected[RowKey(rec, i)] {
			mark = "*"
		}
		cells := make([]string, 0, len(columns)+1)
		cells = append(cells, mark)
		for _, col := range columns {
			cells = append(cells, TerminalText(rec[col.Key]))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	switch {
	case state.Error != "":
		_, err := fmt.Fprintf(w, "error: %s\n", state.Error)
		return err
	case len(state.Rows) == 0:
		if _, err := fmt.Fprintln(w, EmptyMessage); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "page %d of %d (%d records)\n", state.Page.Page, state.Page.TotalPages, state.Page.TotalCount)
	return err
}
