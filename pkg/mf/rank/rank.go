package rank

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"magicformulabr/pkg/mf/types"
)

// LiquidityColumn is the two-month liquidity field used by the filter.
const LiquidityColumn = "Liq.2meses"

// Rank columns appended by CalcRank.
const (
	ColEarningsYieldRank   = "Rank_earnings_yield"
	ColReturnOnCapitalRank = "Rank_return_on_capital"
	ColFinalRank           = "Rank_Final"
)

// MagicFormula ranks a company table by the sum of its earnings-yield rank
// (ascending, cheaper is better) and return-on-capital rank (descending,
// more profitable is better).
type MagicFormula struct {
	table           *types.Table
	earningsYield   string
	returnOnCapital string
	log             *zap.SugaredLogger
}

// New clones the input table, so later stages never alias the caller's
// data. An unsupported method is rejected here.
func New(t *types.Table, m Method, log *zap.SugaredLogger) (*MagicFormula, error) {
	ey, roc, err := m.Fields()
	if err != nil {
		return nil, err
	}
	return &MagicFormula{
		table:           t.Clone(),
		earningsYield:   ey,
		returnOnCapital: roc,
		log:             log,
	}, nil
}

// CalcRank runs normalize -> filter -> rank and returns the table sorted
// ascending by final rank. A table left empty by the filter is returned
// as-is, without rank columns.
func (mf *MagicFormula) CalcRank() *types.Table {
	t := normalize(mf.table, mf.returnOnCapital)
	t = mf.filter(t)
	if t.Empty() {
		return t
	}
	return rankTable(t, mf.earningsYield, mf.returnOnCapital)
}

// normalize converts the return-on-capital column from percentage strings
// to their percent value ("12,34%" -> 12.34). The source delivers only
// this formula field as a percentage; already-numeric cells pass through,
// malformed strings are left alone.
func normalize(t *types.Table, col string) *types.Table {
	out := t.Clone()
	for _, row := range out.Rows {
		s, ok := row.Fields[col].(string)
		if !ok {
			continue
		}
		f, err := types.ParseDecimal(s)
		if err != nil {
			continue
		}
		row.Fields[col] = f
	}
	return out
}

func (mf *MagicFormula) filter(t *types.Table) *types.Table {
	t = removeRows(t, mf.earningsYield, 0, mf.log)
	t = removeRows(t, mf.returnOnCapital, 0, mf.log)
	t = removeRows(t, LiquidityColumn, 0, mf.log)
	return t
}

// removeRows drops every row whose value in col is <= min. Rows without a
// numeric value in col are kept.
func removeRows(t *types.Table, col string, min float64, log *zap.SugaredLogger) *types.Table {
	log.Debugf("removing companies with %s <= %v", col, min)
	out := &types.Table{Columns: t.Columns}
	var dropped []string
	for _, row := range t.Rows {
		if v, ok := row.Float(col); ok && v <= min {
			dropped = append(dropped, row.Ticker)
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	if len(dropped) > 0 {
		log.Debugw("removed companies", "column", col, "tickers", dropped)
	}
	return out
}

func rankTable(t *types.Table, ey, roc string) *types.Table {
	out := t.Clone()
	eyRanks := minRank(out.Rows, ey, false)
	rocRanks := minRank(out.Rows, roc, true)
	for i := range out.Rows {
		out.Rows[i].Fields[ColEarningsYieldRank] = eyRanks[i]
		out.Rows[i].Fields[ColReturnOnCapitalRank] = rocRanks[i]
		out.Rows[i].Fields[ColFinalRank] = eyRanks[i] + rocRanks[i]
	}
	out.Columns = append(out.Columns, ColEarningsYieldRank, ColReturnOnCapitalRank, ColFinalRank)
	sort.SliceStable(out.Rows, func(i, j int) bool {
		a, _ := out.Rows[i].Float(ColFinalRank)
		b, _ := out.Rows[j].Float(ColFinalRank)
		return a < b
	})
	return out
}

// minRank computes "min" tie-break ranks: each row gets 1 plus the number
// of rows with a strictly better value, so tied values share the lowest
// ordinal position of their group. Rows without a numeric value rank last.
func minRank(rows []types.Row, col string, descending bool) []float64 {
	values := make([]float64, len(rows))
	for i, r := range rows {
		v, ok := r.Float(col)
		if !ok {
			if descending {
				v = math.Inf(-1)
			} else {
				v = math.Inf(1)
			}
		}
		values[i] = v
	}
	ranks := make([]float64, len(rows))
	for i, vi := range values {
		rank := 1
		for _, vj := range values {
			if (descending && vj > vi) || (!descending && vj < vi) {
				rank++
			}
		}
		ranks[i] = float64(rank)
	}
	return ranks
}
