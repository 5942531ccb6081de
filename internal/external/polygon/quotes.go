package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/wonny/callsight/internal/contracts"
)

// nbboResponse is the /v2/last/nbbo envelope.
type nbboResponse struct {
	Status  string      `json:"status"`
	Results *nbboResult `json:"results"`
}

type nbboResult struct {
	Bid *nbboSide `json:"bid"`
	Ask *nbboSide `json:"ask"`
}

type nbboSide struct {
	Price *float64 `json:"price"`
}

// FetchQuotes fetches the last NBBO for each contract identifier.
// Per-contract failures are captured in the record's Error field so one
// bad contract never sinks the batch. The call itself fails only when
// every contract errored, which in practice means the whole endpoint is
// not entitled on the current plan.
func (c *Client) FetchQuotes(ctx context.Context, contractIDs []string) ([]contracts.QuoteRecord, error) {
	if len(contractIDs) == 0 {
		return nil, nil
	}

	records := make([]contracts.QuoteRecord, len(contractIDs))

	var wg sync.WaitGroup
	for i, id := range contractIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			records[i] = c.fetchQuote(ctx, id)
		}(i, id)
	}
	wg.Wait()

	failed := 0
	for _, r := range records {
		if r.Error != "" {
			failed++
		}
	}
	if failed == len(records) {
		return nil, fmt.Errorf("all %d quote fetches failed: %s", failed, records[0].Error)
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(contractIDs),
		"failed":    failed,
	}).Debug("NBBO quotes fetched")

	return records, nil
}

// fetchQuote fetches one contract's NBBO, consulting the transport
// cache first. Cache hits make repeated screens of the same symbol
// cheap within the TTL window.
func (c *Client) fetchQuote(ctx context.Context, contractID string) contracts.QuoteRecord {
	cacheKey := fmt.Sprintf("nbbo:%s", contractID)

	var cached contracts.QuoteRecord
	if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached
	}

	path := fmt.Sprintf("/v2/last/nbbo/%s", url.PathEscape(contractID))
	body, err := c.fetchJSON(ctx, path, nil)
	if err != nil {
		return contracts.QuoteRecord{Contract: contractID, Error: err.Error()}
	}

	record, err := parseQuote(contractID, body)
	if err != nil {
		return contracts.QuoteRecord{Contract: contractID, Error: err.Error()}
	}

	if err := c.cache.Set(ctx, cacheKey, record, c.quoteTTL); err != nil {
		c.logger.WithError(err).WithField("contract", contractID).Warn("Quote cache write failed")
	}

	return record
}

func parseQuote(contractID string, body []byte) (contracts.QuoteRecord, error) {
	var resp nbboResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return contracts.QuoteRecord{}, fmt.Errorf("nbbo parse failed: %w", err)
	}

	record := contracts.QuoteRecord{Contract: contractID}
	if resp.Results != nil {
		if resp.Results.Bid != nil {
			record.Bid = resp.Results.Bid.Price
		}
		if resp.Results.Ask != nil {
			record.Ask = resp.Results.Ask.Price
		}
	}
	return record, nil
}
