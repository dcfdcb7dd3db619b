package render

import (
	"io"

	"magicformulabr/pkg/mf/types"
)

// Renderer renders a ranked table to an output writer.
type Renderer interface {
	Render(w io.Writer, t *types.Table, opts Options) error
}

type Options struct {
	// Columns to display after the ticker, in order.
	Columns []string
	// Top limits the number of rows; all rows when it exceeds the count.
	Top int
}
