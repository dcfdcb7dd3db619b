package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"magicformulabr/pkg/mf/types"
)

// FileCache stores one unranked company table in a single JSON file.
// The payload is a field-keyed map of parallel sequences, one sequence per
// column (ticker column included), so row order survives a round-trip.
// Validity is based on the file's modification time.
type FileCache struct {
	Path string
	TTL  time.Duration
	Log  *zap.SugaredLogger
}

// Valid reports whether the cache file exists and its age does not exceed
// the TTL. Strictly older than the TTL means invalid.
func (c *FileCache) Valid(now time.Time) bool {
	info, err := os.Stat(c.Path)
	if err != nil {
		c.Log.Debugw("cache file does not exist", "path", c.Path)
		return false
	}
	age := now.Sub(info.ModTime())
	if age > c.TTL {
		c.Log.Debugw("cache is outdated", "path", c.Path, "age", age)
		return false
	}
	c.Log.Debugw("cache is valid", "path", c.Path, "age", age)
	return true
}

// Save overwrites the cache file with the given table. The object is
// written column by column so the file keeps the source column order,
// which a plain map marshal would sort away.
func (c *FileCache) Save(t *types.Table) error {
	cols := append([]string{TickerColumn}, t.Columns...)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		seq := make([]any, len(t.Rows))
		for j, row := range t.Rows {
			if col == TickerColumn {
				seq[j] = row.Ticker
			} else {
				seq[j] = row.Fields[col]
			}
		}
		key, err := json.Marshal(col)
		if err != nil {
			return err
		}
		val, err := json.Marshal(seq)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	if err := os.WriteFile(c.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write cache %s: %w", c.Path, err)
	}
	return nil
}

// Load reads the table back from the cache file.
func (c *FileCache) Load() (*types.Table, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, err
	}
	var payload map[string][]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", c.Path, err)
	}
	tickers, ok := payload[TickerColumn]
	if !ok {
		return nil, fmt.Errorf("cache %s: missing %q column", c.Path, TickerColumn)
	}

	cols, err := topLevelKeys(data)
	if err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", c.Path, err)
	}

	t := &types.Table{}
	for _, col := range cols {
		if col != TickerColumn {
			t.Columns = append(t.Columns, col)
		}
	}
	t.Rows = make([]types.Row, len(tickers))
	for i := range tickers {
		fields := make(map[string]any, len(t.Columns))
		for _, col := range t.Columns {
			if seq := payload[col]; i < len(seq) {
				fields[col] = seq[i]
			}
		}
		t.Rows[i] = types.Row{Ticker: fmt.Sprint(tickers[i]), Fields: fields}
	}
	return t, nil
}

// topLevelKeys returns the object keys in document order, which unmarshaling
// into a map discards.
func topLevelKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("payload is not a JSON object")
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
