package tui

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/apperr"
	"github.com/goliatone/go-formkit/pkg/table"
)

type browseAction int

const (
	actionNext browseAction = iota
	actionPrevious
	actionSearch
	actionSort
	actionSelectAll
	actionRefresh
	actionQuit
)

type browseChoice struct {
	label  string
	action browseAction
	column string
}

// BrowseTable prints the table to out and lets the user page, search, sort
// and refresh until they quit. Load failures are already reflected in the
// printed state and do not end the session.
func BrowseTable(ctx context.Context, ctrl *table.Controller, out io.Writer, opts ...Option) error {
	if ctrl == nil {
		return errors.New("tui: table controller is required")
	}
	s := newSettings(opts)
	columns := ctrl.Columns()

	for {
		snap := ctrl.Snapshot()
		if err := table.RenderText(out, columns, snap); err != nil {
			return err
		}

		choices := browseChoices(columns, snap)
		labels := make([]string, 0, len(choices))
		for _, c := range choices {
			labels = append(labels, c.label)
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: "Action", Options: labels, DefaultIndex: 0})
		if err != nil {
			if errors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}
		if idx < 0 || idx >= len(choices) {
			continue
		}

		choice := choices[idx]
		var actErr error
		switch choice.action {
		case actionQuit:
			return nil
		case actionNext:
			actErr = ctrl.NextPage(ctx)
		case actionPrevious:
			actErr = ctrl.PreviousPage(ctx)
		case actionSearch:
			term, err := s.driver.Input(ctx, InputConfig{Message: "Search", Default: snap.Search})
			if err != nil {
				return err
			}
			actErr = ctrl.SetSearch(ctx, term)
		case actionSort:
			actErr = ctrl.ToggleSort(ctx, choice.column)
		case actionSelectAll:
			ctrl.ToggleSelectAll()
		case actionRefresh:
			actErr = ctrl.Load(ctx)
		}

		if actErr != nil {
			if apperr.IsCanceled(actErr) || errors.Is(actErr, table.ErrClosed) {
				return actErr
			}
			s.logger.Debug("tui: table action failed", zap.Error(actErr))
		}
	}
}

func browseChoices(columns []table.Column, snap table.State) []browseChoice {
	var out []browseChoice
	if snap.Page.HasNext {
		out = append(out, browseChoice{label: "Next page", action: actionNext})
	}
	if snap.Page.HasPrevious {
		out = append(out, browseChoice{label: "Previous page", action: actionPrevious})
	}
	out = append(out, browseChoice{label: "Search", action: actionSearch})
	for _, col := range columns {
		if !col.Sortable {
			continue
		}
		out = append(out, browseChoice{label: "Sort by " + col.Label, action: actionSort, column: col.Key})
	}
	if snap.AllVisibleSelected() {
		out = append(out, browseChoice{label: "Clear selection", action: actionSelectAll})
	} else if len(snap.Rows) > 0 {
		out = append(out, browseChoice{label: "Select all visible", action: actionSelectAll})
	}
	out = append(out,
		browseChoice{label: "Refresh", action: actionRefresh},
		browseChoice{label: "Quit", action: actionQuit},
	)
	return out
}
