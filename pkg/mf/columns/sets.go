package columns

import "magicformulabr/pkg/mf/rank"

// watched is the broader set of commonly-watched fields shown at
// verbosity 1, in display order.
var watched = []string{
	"Cotação",
	"Div.Yield",
	"ROIC",
	"ROE",
	"P/L",
	"EV/EBIT",
	"EV/EBITDA",
}

// Display returns the columns to show for a verbosity level:
// 0 shows the formula pair plus the rank columns, 1 adds the commonly
// watched fields, 2 and above shows every column of the ranked table.
// Duplicates are removed keeping the first occurrence.
func Display(earningsYield, returnOnCapital string, verbose int, all []string) []string {
	ranks := []string{rank.ColEarningsYieldRank, rank.ColReturnOnCapitalRank, rank.ColFinalRank}

	var keep []string
	switch {
	case verbose <= 0:
		keep = append(keep, earningsYield, returnOnCapital)
		keep = append(keep, ranks...)
	case verbose == 1:
		keep = append(keep, watched...)
		keep = append(keep, earningsYield, returnOnCapital)
		keep = append(keep, ranks...)
	default:
		keep = append(keep, all...)
	}
	return dedup(keep)
}

func dedup(cols []string) []string {
	seen := make(map[string]struct{}, len(cols))
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
