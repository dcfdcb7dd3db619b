package source

import (
	"context"

	"magicformulabr/pkg/mf/types"
)

// TickerColumn is the column that uniquely identifies a company in the
// source table.
const TickerColumn = "Papel"

// Fetcher retrieves the full company table from the data provider.
type Fetcher interface {
	Fetch(ctx context.Context) (*types.Table, error)
}
