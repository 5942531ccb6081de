package screen

import (
	"context"
	"fmt"

	"github.com/wonny/callsight/internal/contracts"
	"github.com/wonny/callsight/pkg/logger"
)

// Enricher fills bid/ask on reference-path contracts from a batch NBBO
// fetch. The snapshot path never needs it; quotes arrive inline there.
type Enricher struct {
	quotes   contracts.QuoteSource
	batchCap int
	logger   *logger.Logger
}

// NewEnricher creates a new quote enricher. batchCap bounds the
// enrichment fan-out: only the first batchCap contracts are sent.
func NewEnricher(quotes contracts.QuoteSource, batchCap int, log *logger.Logger) *Enricher {
	if batchCap <= 0 {
		batchCap = DefaultBatchCap
	}
	return &Enricher{
		quotes:   quotes,
		batchCap: batchCap,
		logger:   log,
	}
}

// Enrich requests last bid/ask for the first batchCap contracts and
// merges results back by contract identifier. Input order is preserved;
// contracts with no matching quote keep nil bid/ask. A failed batch
// fetch skips enrichment entirely and is returned as an error for the
// orchestrator to downgrade to an advisory. It never aborts a screen.
func (e *Enricher) Enrich(ctx context.Context, items []contracts.Contract) ([]contracts.Contract, error) {
	head := items
	if len(head) > e.batchCap {
		head = head[:e.batchCap]
	}

	ids := make([]string, 0, len(head))
	for _, it := range head {
		if it.ContractID != "" {
			ids = append(ids, it.ContractID)
		}
	}
	if len(ids) == 0 {
		return head, nil
	}

	quotes, err := e.quotes.FetchQuotes(ctx, ids)
	if err != nil {
		return head, fmt.Errorf("batch quote fetch failed: %w", err)
	}

	// Lookup keyed by contract identifier; per-contract errors are
	// treated as absent quotes, not failures.
	byID := make(map[string]contracts.QuoteRecord, len(quotes))
	for _, q := range quotes {
		if q.Contract != "" && q.Error == "" {
			byID[q.Contract] = q
		}
	}

	out := make([]contracts.Contract, len(head))
	matched := 0
	for i, it := range head {
		out[i] = it
		if q, ok := byID[it.ContractID]; ok {
			out[i].Bid = q.Bid
			out[i].Ask = q.Ask
			matched++
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"requested": len(ids),
		"matched":   matched,
	}).Debug("Quote enrichment completed")

	return out, nil
}
