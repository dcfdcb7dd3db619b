package source

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"magicformulabr/pkg/mf/types"
)

// FundamentusFetcher downloads the fundamentus result page and parses its
// first HTML table into a company table.
type FundamentusFetcher struct {
	URL    string
	Client *http.Client
	Log    *zap.SugaredLogger
}

func NewFundamentusFetcher(url string, timeout time.Duration, log *zap.SugaredLogger) *FundamentusFetcher {
	return &FundamentusFetcher{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		Log:    log,
	}
}

func (f *FundamentusFetcher) Fetch(ctx context.Context) (*types.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:85.0) Gecko/20100101 Firefox/85.0")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", f.URL, resp.Status)
	}

	// Setting Accept-Encoding by hand disables the transport's transparent
	// gzip handling, so decompress here when needed.
	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", f.URL, err)
		}
		defer gz.Close()
		body = gz
	}

	// The page is served in ISO-8859-1; convert to UTF-8 before parsing.
	utf8Body, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.URL, err)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.URL, err)
	}

	t, err := parseResultTable(doc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.URL, err)
	}
	f.Log.Debugw("fetched company table", "url", f.URL, "rows", len(t.Rows), "columns", len(t.Columns))
	return t, nil
}

// parseResultTable reads the first table of the document. The ticker
// column keys the rows; tickers seen before are skipped. Cells are parsed
// with ParseCell.
func parseResultTable(doc *goquery.Document) (*types.Table, error) {
	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return nil, fmt.Errorf("document has no table")
	}

	header := tbl.Find("thead tr th")
	if header.Length() == 0 {
		header = tbl.Find("tr").First().Find("th, td")
	}
	var cols []string
	header.Each(func(_ int, s *goquery.Selection) {
		cols = append(cols, strings.TrimSpace(s.Text()))
	})

	tickerIdx := -1
	for i, c := range cols {
		if c == TickerColumn {
			tickerIdx = i
			break
		}
	}
	if tickerIdx == -1 {
		return nil, fmt.Errorf("table has no %q column", TickerColumn)
	}

	rowSel := tbl.Find("tbody tr")
	if rowSel.Length() == 0 {
		all := tbl.Find("tr")
		if all.Length() > 1 {
			rowSel = all.Slice(1, all.Length())
		}
	}

	t := &types.Table{}
	for i, c := range cols {
		if i != tickerIdx {
			t.Columns = append(t.Columns, c)
		}
	}

	seen := map[string]struct{}{}
	rowSel.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() != len(cols) {
			return
		}
		row := types.Row{Fields: make(map[string]any, len(cols)-1)}
		cells.Each(func(i int, td *goquery.Selection) {
			val := strings.TrimSpace(td.Text())
			if i == tickerIdx {
				row.Ticker = val
				return
			}
			row.Fields[cols[i]] = ParseCell(val)
		})
		if row.Ticker == "" {
			return
		}
		if _, dup := seen[row.Ticker]; dup {
			return
		}
		seen[row.Ticker] = struct{}{}
		t.Rows = append(t.Rows, row)
	})
	return t, nil
}

// ParseCell converts one table cell. Percentage-formatted cells stay
// strings for the normalize stage to handle; other cells are parsed with
// the source locale and fall back to the raw string.
func ParseCell(s string) any {
	if strings.HasSuffix(s, "%") {
		return s
	}
	if f, err := types.ParseDecimal(s); err == nil {
		return f
	}
	return s
}
