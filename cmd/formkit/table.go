package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/client"
	"github.com/goliatone/go-formkit/pkg/prefs"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/render/views"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/table"
)

var (
	tableSearch      string
	tableSort        string
	tableDesc        bool
	tablePage        int
	tableHTML        bool
	tableWatch       bool
	tableInteractive bool
)

var defaultColumns = []table.Column{
	{Key: "id", Label: "ID", Sortable: true},
	{Key: "username", Label: "Username", Sortable: true},
	{Key: "email", Label: "Email", Sortable: true},
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Fetch and display records as a table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		columns, err := loadColumns(cfg.Table.ColumnsFile)
		if err != nil {
			return err
		}
		store, closeStore, err := openPrefs(ctx, cfg.Prefs.Path)
		if err != nil {
			return err
		}
		defer closeStore()

		api, err := client.New(cfg.BaseURL, client.WithTimeout(cfg.Timeout), client.WithLogger(logger))
		if err != nil {
			return err
		}

		mode := table.ClientSide
		if cfg.Table.ServerSide() {
			mode = table.ServerSide
		}
		opts := []table.Option{
			table.WithMode(mode),
			table.WithPageSize(cfg.Table.PageSize),
			table.WithDebounce(cfg.Table.Debounce),
			table.WithLogger(logger),
			table.WithPreferences(store, "table:"+cfg.Table.Endpoint),
		}
		if tableWatch {
			opts = append(opts, table.WithPollInterval(cfg.Table.PollInterval))
		}
		ctrl, err := table.NewController(api.Records(cfg.Table.Endpoint), columns, opts...)
		if err != nil {
			return err
		}
		defer ctrl.Close()

		out := cmd.OutOrStdout()
		show, err := viewFunc(columns)
		if err != nil {
			return err
		}

		if tableWatch {
			if cfg.Table.PollInterval <= 0 {
				return fmt.Errorf("--watch needs table.poll_interval > 0")
			}
			ctrl.Subscribe(func(s table.State) {
				if !s.Loading {
					fmt.Fprintln(out, show(s))
				}
			})
		}

		if err := ctrl.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Debug("initial load failed", zap.Error(err))
		}
		if err := applyTableFlags(ctx, ctrl); err != nil && ctx.Err() == nil {
			logger.Debug("applying table flags failed", zap.Error(err))
		}

		switch {
		case tableInteractive:
			return tui.BrowseTable(ctx, ctrl, out,
				tui.WithPromptDriver(tui.NewSurveyDriver(out)),
				tui.WithLogger(logger),
			)
		case tableWatch:
			<-ctx.Done()
			return nil
		default:
			_, err := fmt.Fprintln(out, show(ctrl.Snapshot()))
			return err
		}
	},
}

func init() {
	tableCmd.Flags().StringVar(&tableSearch, "search", "", "search term")
	tableCmd.Flags().StringVar(&tableSort, "sort", "", "column to sort by")
	tableCmd.Flags().BoolVar(&tableDesc, "desc", false, "sort descending")
	tableCmd.Flags().IntVar(&tablePage, "page", 1, "page to show")
	tableCmd.Flags().BoolVar(&tableHTML, "html", false, "render escaped HTML instead of text")
	tableCmd.Flags().BoolVar(&tableWatch, "watch", false, "poll at table.poll_interval until interrupted")
	tableCmd.Flags().BoolVarP(&tableInteractive, "interactive", "i", false, "browse interactively")
}

func applyTableFlags(ctx context.Context, ctrl *table.Controller) error {
	if tableSearch != "" {
		if err := ctrl.SetSearch(ctx, tableSearch); err != nil {
			return err
		}
	}
	if tableSort != "" {
		clicks := 1
		if tableDesc {
			clicks = 2
		}
		current := ctrl.Snapshot().Sort
		if current.Column == tableSort {
			want := table.Ascending
			if tableDesc {
				want = table.Descending
			}
			clicks = 0
			if current.Direction != want {
				clicks = 1
			}
		}
		for i := 0; i < clicks; i++ {
			if err := ctrl.ToggleSort(ctx, tableSort); err != nil {
				return err
			}
		}
	}
	if tablePage > 1 {
		return ctrl.SetPage(ctx, tablePage)
	}
	return nil
}

// viewFunc returns the renderer for the selected output format. HTML goes
// through an error boundary so a template failure prints the fallback view.
func viewFunc(columns []table.Column) (func(table.State) string, error) {
	if !tableHTML {
		return func(s table.State) string {
			var b strings.Builder
			if err := table.RenderText(&b, columns, s); err != nil {
				logger.Warn("render text failed", zap.Error(err))
			}
			return b.String()
		}, nil
	}

	engine, err := views.NewEngine()
	if err != nil {
		return nil, err
	}
	boundary := render.NewBoundary("table", render.WithBoundaryLogger(logger))
	return func(s table.State) string {
		return boundary.Render(func() (string, error) {
			return table.RenderHTML(engine, columns, s, true)
		})
	}, nil
}

func loadColumns(path string) ([]table.Column, error) {
	if path == "" {
		return defaultColumns, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open columns file: %w", err)
	}
	defer f.Close()
	return table.LoadColumns(f)
}

func openPrefs(ctx context.Context, path string) (prefs.Store, func(), error) {
	if path == "" {
		return prefs.NewMemoryStore(), func() {}, nil
	}
	store, err := prefs.OpenSQLite(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing preferences failed", zap.Error(err))
		}
	}, nil
}
