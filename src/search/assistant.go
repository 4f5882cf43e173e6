package search

import (
	"context"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"

	"tradeconsole/src/model"
)

const defaultDebounce = 500 * time.Millisecond

// StockSearcher is the one engine call the assistant needs.
type StockSearcher interface {
	SearchStocks(ctx context.Context, query string) ([]model.StockMatch, error)
}

// BatchAdd commits a basket of symbols in one go. Supplied by the caller;
// the assistant itself never mutates the watchlist.
type BatchAdd func(ctx context.Context, symbols []string) error

// Assistant is the incremental symbol lookup behind the search box. Each
// keystroke resets a debounce timer, only the last keystroke in a quiet
// window triggers a request, and responses for superseded queries are
// dropped. The selection basket is purely local until Commit.
type Assistant struct {
	searcher StockSearcher
	debounce time.Duration

	mu          sync.Mutex
	query       string
	timer       *time.Timer
	searching   bool
	suggestions []model.StockMatch
	basket      []string
}

func NewAssistant(searcher StockSearcher, debounce time.Duration) *Assistant {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Assistant{
		searcher: searcher,
		debounce: debounce,
	}
}

// SetQuery records a keystroke. Queries shorter than one character clear the
// suggestion list without a request.
func (a *Assistant) SetQuery(query string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.query = query
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}

	if len(query) < 1 {
		a.suggestions = nil
		return
	}

	a.timer = time.AfterFunc(a.debounce, func() {
		a.runSearch(query)
	})
}

func (a *Assistant) runSearch(query string) {
	a.mu.Lock()
	if a.query != query {
		// superseded before the timer fired
		a.mu.Unlock()
		return
	}
	a.searching = true
	a.mu.Unlock()

	matches, err := a.searcher.SearchStocks(context.Background(), query)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.searching = false

	if a.query != query {
		// a newer query finished or is pending; this response is stale
		return
	}
	if err != nil {
		logger.WithError(err).WithField("query", query).Warn("stock search failed")
		return
	}
	a.suggestions = matches
}

// Searching reports whether a lookup is in flight.
func (a *Assistant) Searching() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.searching
}

// Suggestions returns the current matches, excluding symbols already staged
// in the basket.
func (a *Assistant) Suggestions() []model.StockMatch {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.StockMatch, 0, len(a.suggestions))
	for _, s := range a.suggestions {
		if a.inBasketLocked(s.Symbol) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Select stages a symbol into the basket and resets the search box.
func (a *Assistant) Select(symbol string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.inBasketLocked(symbol) {
		a.basket = append(a.basket, symbol)
	}
	a.query = ""
	a.suggestions = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Unselect removes a staged symbol.
func (a *Assistant) Unselect(symbol string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := a.basket[:0]
	for _, s := range a.basket {
		if s != symbol {
			kept = append(kept, s)
		}
	}
	a.basket = kept
}

// Basket returns a copy of the staged symbols.
func (a *Assistant) Basket() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.basket...)
}

// Commit hands the whole basket to the caller's batch-add. An empty basket
// is a no-op with no call; the basket is cleared only when the add succeeds.
func (a *Assistant) Commit(ctx context.Context, add BatchAdd) error {
	a.mu.Lock()
	staged := append([]string(nil), a.basket...)
	a.mu.Unlock()

	if len(staged) == 0 {
		return nil
	}
	if err := add(ctx, staged); err != nil {
		return err
	}

	a.mu.Lock()
	a.basket = nil
	a.mu.Unlock()
	return nil
}

// Close stops any pending debounce timer.
func (a *Assistant) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Assistant) inBasketLocked(symbol string) bool {
	for _, s := range a.basket {
		if s == symbol {
			return true
		}
	}
	return false
}
