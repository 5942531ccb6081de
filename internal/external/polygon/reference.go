package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/wonny/callsight/internal/contracts"
)

// referenceResponse is the /v3/reference/options/contracts envelope.
type referenceResponse struct {
	Status  string                      `json:"status"`
	Results []contracts.ReferenceRecord `json:"results"`
}

// referenceLimit bounds the metadata listing. The fallback path only
// needs enough contracts to fill one enrichment batch with headroom.
const referenceLimit = 100

// FetchReference fetches the metadata-only call contract listing.
// Used when the snapshot endpoint is unavailable on the current plan.
func (c *Client) FetchReference(ctx context.Context, symbol string) ([]contracts.ReferenceRecord, error) {
	params := url.Values{}
	params.Set("underlying_ticker", strings.ToUpper(symbol))
	params.Set("contract_type", "call")
	params.Set("limit", strconv.Itoa(referenceLimit))

	body, err := c.fetchJSON(ctx, "/v3/reference/options/contracts", params)
	if err != nil {
		return nil, fmt.Errorf("reference fetch failed: %w", err)
	}

	records, err := parseReference(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":  symbol,
		"records": len(records),
	}).Debug("Reference listing fetched")

	return records, nil
}

func parseReference(body []byte) ([]contracts.ReferenceRecord, error) {
	var resp referenceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("reference parse failed: %w", err)
	}
	return resp.Results, nil
}
