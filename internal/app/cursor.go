package app

import (
	"context"
	"fmt"

	"food_rent/internal/domain"
)

// WindowConfig fixes the page size of one dataset. MaxOffset > 0 caps how
// deep the source lets a client page.
type WindowConfig struct {
	Size      int
	MaxOffset int
}

// Window is the next page to request for a (city, dataset) pair.
type Window struct {
	Offset    int
	Size      int
	Exhausted bool
}

// Cursor derives pagination from what is already stored. There is no cursor
// table: a crashed run resumes from the rows that actually landed.
//
// This assumes the upstream returns a stably ordered, append-only
// collection. If it reorders between calls, offset paging can skip or
// repeat records; repeats are absorbed by insert-once writes, skips are not
// recovered.
type Cursor struct {
	store   domain.Store
	windows map[domain.Dataset]WindowConfig
}

func NewCursor(s domain.Store, windows map[domain.Dataset]WindowConfig) *Cursor {
	return &Cursor{store: s, windows: windows}
}

func (c *Cursor) NextWindow(ctx context.Context, cityID int64, ds domain.Dataset) (Window, error) {
	cfg, ok := c.windows[ds]
	if !ok || cfg.Size <= 0 {
		return Window{}, fmt.Errorf("%w: no window size for %s", domain.ErrConfiguration, ds)
	}
	n, err := c.store.CountRows(ctx, cityID, ds)
	if err != nil {
		return Window{}, fmt.Errorf("count %s rows: %w", ds, err)
	}
	w := Window{Offset: n, Size: cfg.Size}
	if cfg.MaxOffset > 0 && w.Offset+w.Size > cfg.MaxOffset {
		w.Size = cfg.MaxOffset - w.Offset
		if w.Size <= 0 {
			w.Size = 0
			w.Exhausted = true
		}
	}
	return w, nil
}
