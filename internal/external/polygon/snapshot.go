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

// snapshotResponse is the /v3/snapshot/options envelope.
type snapshotResponse struct {
	Status  string                     `json:"status"`
	Results []contracts.SnapshotRecord `json:"results"`
}

// FetchSnapshot fetches the call-side options chain snapshot for an
// underlying. An empty chain is a valid response, not an error.
func (c *Client) FetchSnapshot(ctx context.Context, symbol string, limit int) ([]contracts.SnapshotRecord, error) {
	params := url.Values{}
	params.Set("contract_type", "call")
	params.Set("limit", strconv.Itoa(limit))

	path := fmt.Sprintf("/v3/snapshot/options/%s", url.PathEscape(strings.ToUpper(symbol)))

	body, err := c.fetchJSON(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("snapshot fetch failed: %w", err)
	}

	records, err := parseSnapshot(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":  symbol,
		"records": len(records),
	}).Debug("Snapshot chain fetched")

	return records, nil
}

func parseSnapshot(body []byte) ([]contracts.SnapshotRecord, error) {
	var resp snapshotResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("snapshot parse failed: %w", err)
	}
	return resp.Results, nil
}
