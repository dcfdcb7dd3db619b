package source

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"magicformulabr/pkg/mf/types"
)

// Handler decides between the cache and a fresh fetch.
type Handler struct {
	Fetcher Fetcher
	Cache   *FileCache
	Log     *zap.SugaredLogger
}

// GetData returns the unranked company table. A forced update or an
// invalid cache triggers a fetch; a successful fetch always rewrites the
// cache. Fetch failures and an empty fetched table are errors, left for
// the caller to treat as fatal.
func (h *Handler) GetData(ctx context.Context, forceUpdate bool) (*types.Table, error) {
	if forceUpdate || !h.Cache.Valid(time.Now()) {
		h.Log.Debug("force updating or cache is invalid, downloading new data")
		t, err := h.Fetcher.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		if t.Empty() {
			return nil, fmt.Errorf("fetched table has no rows")
		}
		if err := h.Cache.Save(t); err != nil {
			return nil, err
		}
		return t, nil
	}
	h.Log.Debug("loading data from cache")
	return h.Cache.Load()
}
