package universe

import (
	"context"
	"errors"
	"time"

	"github.com/quantinfra/nifty500/internal/contracts"
	"github.com/quantinfra/nifty500/pkg/logger"
)

// ErrAllSourcesFailed signals that every ticker source was exhausted.
// Terminal: an empty universe would make all downstream stages vacuously
// succeed, so this must never be silently swallowed.
var ErrAllSourcesFailed = errors.New("failed to fetch constituents from all sources")

// Resolver produces the canonical ticker universe by trying ordered sources
// until one succeeds.
type Resolver struct {
	sources     []Source
	sourceDelay time.Duration
	logger      *logger.Logger
}

// NewResolver creates a resolver over the given sources, tried in order.
// sourceDelay is inserted between the first and second attempts to avoid
// triggering rate limits on the secondary source.
func NewResolver(sources []Source, sourceDelay time.Duration, log *logger.Logger) *Resolver {
	return &Resolver{sources: sources, sourceDelay: sourceDelay, logger: log}
}

// Resolve returns the suffixed ticker universe. Each source is tried only if
// the previous returned empty or errored. Fails only when every source is
// exhausted.
func (r *Resolver) Resolve(ctx context.Context) ([]string, error) {
	var symbols []string

	for i, source := range r.sources {
		if i == 1 && r.sourceDelay > 0 {
			time.Sleep(r.sourceDelay)
		}

		fetched, err := source.Fetch(ctx)
		if err != nil {
			r.logger.WithError(err).WithField("source", source.Name()).Error("Ticker source failed")
			continue
		}
		if len(fetched) == 0 {
			r.logger.WithField("source", source.Name()).Warn("Ticker source returned no symbols")
			continue
		}

		r.logger.WithFields(map[string]interface{}{
			"source": source.Name(),
			"count":  len(fetched),
		}).Info("Resolved universe")
		symbols = fetched
		break
	}

	if len(symbols) == 0 {
		return nil, ErrAllSourcesFailed
	}

	// Format for the market data provider.
	tickers := make([]string, len(symbols))
	for i, symbol := range symbols {
		tickers[i] = symbol + contracts.MarketSuffix
	}

	return tickers, nil
}
