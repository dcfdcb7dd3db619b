package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"magicformulabr/pkg/mf/types"
)

func testLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func row(ticker string, fields map[string]any) types.Row {
	return types.Row{Ticker: ticker, Fields: fields}
}

// sampleTable mirrors the reference scenario for method 2.
func sampleTable() *types.Table {
	mk := func(ticker string, evEbit, roic float64) types.Row {
		return row(ticker, map[string]any{
			"EV/EBIT":       evEbit,
			"ROIC":          roic,
			LiquidityColumn: 1000.0,
		})
	}
	return &types.Table{
		Columns: []string{"EV/EBIT", "ROIC", LiquidityColumn},
		Rows: []types.Row{
			mk("AAAA3", 0.2, 10),
			mk("BBBB3", 8, 60),
			mk("CCCC3", 4, 40),
			mk("DDDD4", 2, 90),
		},
	}
}

func calc(t *testing.T, tbl *types.Table, m Method) *types.Table {
	t.Helper()
	mf, err := New(tbl, m, testLogger())
	require.NoError(t, err)
	return mf.CalcRank()
}

func ranks(t *testing.T, r types.Row) (ey, roc, final float64) {
	t.Helper()
	ey, ok := r.Float(ColEarningsYieldRank)
	require.True(t, ok)
	roc, ok = r.Float(ColReturnOnCapitalRank)
	require.True(t, ok)
	final, ok = r.Float(ColFinalRank)
	require.True(t, ok)
	return ey, roc, final
}

func TestCalcRankMethod2(t *testing.T) {
	got := calc(t, sampleTable(), MethodEVEBITROIC)

	require.Len(t, got.Rows, 4)
	wantOrder := []string{"DDDD4", "AAAA3", "BBBB3", "CCCC3"}
	for i, ticker := range wantOrder {
		assert.Equal(t, ticker, got.Rows[i].Ticker, "row %d", i)
	}

	wantFinal := []float64{3, 5, 6, 6}
	for i, want := range wantFinal {
		ey, roc, final := ranks(t, got.Rows[i])
		assert.Equal(t, want, final, "final rank of %s", got.Rows[i].Ticker)
		assert.Equal(t, final, ey+roc, "final = ey + roc for %s", got.Rows[i].Ticker)
	}

	// Spot-check the individual legs.
	ey, roc, _ := ranks(t, got.Rows[0]) // DDDD4
	assert.Equal(t, 2.0, ey)
	assert.Equal(t, 1.0, roc)
	ey, roc, _ = ranks(t, got.Rows[1]) // AAAA3
	assert.Equal(t, 1.0, ey)
	assert.Equal(t, 4.0, roc)
}

func TestFinalRankIsSum(t *testing.T) {
	got := calc(t, sampleTable(), MethodEVEBITROIC)
	for _, r := range got.Rows {
		ey, roc, final := ranks(t, r)
		assert.Equal(t, ey+roc, final, r.Ticker)
	}
}

func TestMinTieBreak(t *testing.T) {
	tbl := &types.Table{
		Columns: []string{"EV/EBIT", "ROIC", LiquidityColumn},
		Rows: []types.Row{
			row("AAAA3", map[string]any{"EV/EBIT": 5.0, "ROIC": 30.0, LiquidityColumn: 1.0}),
			row("BBBB3", map[string]any{"EV/EBIT": 3.0, "ROIC": 30.0, LiquidityColumn: 1.0}),
			row("CCCC3", map[string]any{"EV/EBIT": 5.0, "ROIC": 20.0, LiquidityColumn: 1.0}),
			row("DDDD4", map[string]any{"EV/EBIT": 1.0, "ROIC": 10.0, LiquidityColumn: 1.0}),
		},
	}
	got := calc(t, tbl, MethodEVEBITROIC)

	byTicker := map[string]types.Row{}
	for _, r := range got.Rows {
		byTicker[r.Ticker] = r
	}

	// EV/EBIT ascending: 1 -> 1, 3 -> 2, 5 and 5 share rank 3 (min of the
	// tied group), no rank 4 handed out.
	eyA, _, _ := ranks(t, byTicker["AAAA3"])
	eyC, _, _ := ranks(t, byTicker["CCCC3"])
	eyD, _, _ := ranks(t, byTicker["DDDD4"])
	assert.Equal(t, 1.0, eyD)
	assert.Equal(t, 3.0, eyA)
	assert.Equal(t, eyA, eyC)

	// ROIC descending: 30 and 30 share rank 1, 20 -> 3, 10 -> 4.
	_, rocA, _ := ranks(t, byTicker["AAAA3"])
	_, rocB, _ := ranks(t, byTicker["BBBB3"])
	_, rocC, _ := ranks(t, byTicker["CCCC3"])
	_, rocD, _ := ranks(t, byTicker["DDDD4"])
	assert.Equal(t, 1.0, rocA)
	assert.Equal(t, rocA, rocB)
	assert.Equal(t, 3.0, rocC)
	assert.Equal(t, 4.0, rocD)
}

func TestSortIsStableOnFinalRankTies(t *testing.T) {
	got := calc(t, sampleTable(), MethodEVEBITROIC)
	// BBBB3 and CCCC3 tie at 6 and must keep their input order.
	assert.Equal(t, "BBBB3", got.Rows[2].Ticker)
	assert.Equal(t, "CCCC3", got.Rows[3].Ticker)
}

func TestNormalizeReturnOnCapitalPercent(t *testing.T) {
	tbl := &types.Table{
		Columns: []string{"EV/EBIT", "ROIC", LiquidityColumn},
		Rows: []types.Row{
			row("AAAA3", map[string]any{"EV/EBIT": 4.0, "ROIC": "12,34%", LiquidityColumn: 1.0}),
			row("BBBB3", map[string]any{"EV/EBIT": 2.0, "ROIC": "1.234,50%", LiquidityColumn: 1.0}),
		},
	}
	got := calc(t, tbl, MethodEVEBITROIC)

	require.Len(t, got.Rows, 2)
	// BBBB3 is cheaper and has the higher ROIC after normalization.
	assert.Equal(t, "BBBB3", got.Rows[0].Ticker)
	v, ok := got.Rows[0].Float("ROIC")
	require.True(t, ok)
	assert.InDelta(t, 1234.5, v, 1e-9)
}

func TestFilterRemovesExactlyNonPositive(t *testing.T) {
	tbl := &types.Table{
		Columns: []string{"EV/EBIT", "ROIC", LiquidityColumn},
		Rows: []types.Row{
			row("KEEP3", map[string]any{"EV/EBIT": 2.0, "ROIC": 10.0, LiquidityColumn: 500.0}),
			row("NEGY3", map[string]any{"EV/EBIT": -1.0, "ROIC": 10.0, LiquidityColumn: 500.0}),
			row("ZERY3", map[string]any{"EV/EBIT": 0.0, "ROIC": 10.0, LiquidityColumn: 500.0}),
			row("NEGR3", map[string]any{"EV/EBIT": 2.0, "ROIC": "-5,00%", LiquidityColumn: 500.0}),
			row("NEGL3", map[string]any{"EV/EBIT": 2.0, "ROIC": 10.0, LiquidityColumn: -1.0}),
			// No liquidity value: not comparable, so not excluded.
			row("NOLQ3", map[string]any{"EV/EBIT": 3.0, "ROIC": 10.0}),
		},
	}
	got := calc(t, tbl, MethodEVEBITROIC)

	var kept []string
	for _, r := range got.Rows {
		kept = append(kept, r.Ticker)
	}
	assert.ElementsMatch(t, []string{"KEEP3", "NOLQ3"}, kept)
}

func TestEmptyAfterFilter(t *testing.T) {
	tbl := &types.Table{
		Columns: []string{"EV/EBIT", "ROIC", LiquidityColumn},
		Rows: []types.Row{
			row("AAAA3", map[string]any{"EV/EBIT": 2.0, "ROIC": "-1,00%", LiquidityColumn: 1.0}),
			row("BBBB3", map[string]any{"EV/EBIT": 4.0, "ROIC": "-2,00%", LiquidityColumn: 1.0}),
		},
	}
	got := calc(t, tbl, MethodEVEBITROIC)

	assert.True(t, got.Empty())
	assert.NotContains(t, got.Columns, ColFinalRank)
}

func TestCalcRankIsDeterministic(t *testing.T) {
	first := calc(t, sampleTable(), MethodEVEBITROIC)
	second := calc(t, sampleTable(), MethodEVEBITROIC)
	assert.Equal(t, first, second)
}

func TestCalcRankDoesNotMutateInput(t *testing.T) {
	tbl := sampleTable()
	_ = calc(t, tbl, MethodEVEBITROIC)

	assert.Equal(t, sampleTable(), tbl)
	for _, r := range tbl.Rows {
		assert.NotContains(t, r.Fields, ColFinalRank)
	}
}

func TestMethod1UsesPLAndROE(t *testing.T) {
	tbl := &types.Table{
		Columns: []string{"P/L", "ROE", LiquidityColumn},
		Rows: []types.Row{
			row("AAAA3", map[string]any{"P/L": 5.0, "ROE": "20,00%", LiquidityColumn: 1.0}),
			row("BBBB3", map[string]any{"P/L": 10.0, "ROE": "30,00%", LiquidityColumn: 1.0}),
		},
	}
	got := calc(t, tbl, MethodPLROE)

	require.Len(t, got.Rows, 2)
	_, _, finalA := ranks(t, got.Rows[0])
	_, _, finalB := ranks(t, got.Rows[1])
	// Both end up at 3; cheaper AAAA3 keeps its original position.
	assert.Equal(t, 3.0, finalA)
	assert.Equal(t, 3.0, finalB)
	assert.Equal(t, "AAAA3", got.Rows[0].Ticker)
}

func TestNewRejectsUnknownMethod(t *testing.T) {
	_, err := New(sampleTable(), Method(4), testLogger())
	assert.Error(t, err)
}
