package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"magicformulabr/pkg/mf/rank"
	"magicformulabr/pkg/mf/types"
)

// EmptyNotice is printed instead of a table when no rows survived the
// filtering step.
const EmptyNotice = "No companies passed the filtering criteria. The ranking is empty."

// TableRenderer prints the ranking as a terminal table with a 1-based row
// index and the ticker as the first column.
type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, t *types.Table, opts Options) error {
	if t.Empty() {
		_, err := fmt.Fprintln(w, EmptyNotice)
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	tw.SetAutoIndex(true)

	cols := opts.Columns
	hdr := make(table.Row, 0, len(cols)+1)
	hdr = append(hdr, "TICKER")
	for _, c := range cols {
		hdr = append(hdr, strings.ToUpper(c))
	}
	tw.AppendHeader(hdr)

	// Ticker stays left-aligned; every value column is right-aligned.
	cfgs := make([]table.ColumnConfig, 0, len(cols))
	for i := range cols {
		cfgs = append(cfgs, table.ColumnConfig{
			Number:      i + 2,
			Align:       text.AlignRight,
			AlignHeader: text.AlignRight,
		})
	}
	tw.SetColumnConfigs(cfgs)

	top := opts.Top
	if top <= 0 || top > len(t.Rows) {
		top = len(t.Rows)
	}
	for _, row := range t.Rows[:top] {
		out := make(table.Row, 0, len(cols)+1)
		out = append(out, row.Ticker)
		for _, c := range cols {
			out = append(out, formatCell(row.Fields[c], c))
		}
		tw.AppendRow(out)
	}

	tw.Render()
	return nil
}

func formatCell(v any, col string) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if isRankColumn(col) {
			return strconv.FormatFloat(x, 'f', 0, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func isRankColumn(col string) bool {
	return col == rank.ColEarningsYieldRank ||
		col == rank.ColReturnOnCapitalRank ||
		col == rank.ColFinalRank
}
