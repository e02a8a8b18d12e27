package stats

import (
	"context"
	"fmt"

	"github.com/Lelo88/lostfound-api-golang/internal/items"
)

// Summary son los contadores que expone GET /api/stats.
type Summary struct {
	Total       int `json:"total"`
	ActiveLost  int `json:"active_lost"`
	ActiveFound int `json:"active_found"`
	Resolved    int `json:"resolved"`
}

// Summarize calcula los contadores sobre un listado completo.
func Summarize(all []items.Item) Summary {
	summary := Summary{Total: len(all)}
	for _, item := range all {
		switch {
		case item.IsResolved:
			summary.Resolved++
		case item.Status == items.StatusLost:
			summary.ActiveLost++
		case item.Status == items.StatusFound:
			summary.ActiveFound++
		}
	}
	return summary
}

// Lister es la parte del store que necesita el agregador.
type Lister interface {
	List(ctx context.Context, filter items.Filter) ([]items.Item, error)
}

// Aggregator recalcula los contadores en cada llamada, sin cache.
type Aggregator struct {
	store Lister
}

// NewAggregator crea un agregador sobre el store.
func NewAggregator(store Lister) *Aggregator {
	return &Aggregator{store: store}
}

// Compute lee todos los items (una sola consulta) y los resume.
func (aggregator *Aggregator) Compute(ctx context.Context) (Summary, error) {
	all, err := aggregator.store.List(ctx, items.Filter{Resolution: items.ResolutionAll})
	if err != nil {
		return Summary{}, fmt.Errorf("stats: %w", err)
	}
	return Summarize(all), nil
}
