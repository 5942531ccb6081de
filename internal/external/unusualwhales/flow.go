package unusualwhales

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/callsight/internal/contracts"
)

// flowResponse is the flow endpoint envelope. The payload key varies by
// plan tier, so both are tried.
type flowResponse struct {
	Data    []flowItem `json:"data"`
	Results []flowItem `json:"results"`
}

type flowItem struct {
	Text    string      `json:"text"`
	Type    string      `json:"type"`
	Premium json.Number `json:"premium"`
	Strike  *float64    `json:"strike"`
	Time    string      `json:"time"`
}

// FetchFlow fetches call-side order-flow events for a symbol. Without
// credentials it returns no events and no error; the screen renders a
// disabled-overlay advisory in that case.
func (c *Client) FetchFlow(ctx context.Context, symbol string) ([]contracts.FlowEvent, error) {
	if !c.Enabled() {
		return []contracts.FlowEvent{}, nil
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("type", "call")

	body, err := c.fetchJSON(ctx, "/v1/flow", params)
	if err != nil {
		return nil, fmt.Errorf("flow fetch failed: %w", err)
	}

	events, err := parseFlow(body, symbol)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"events": len(events),
	}).Debug("Flow events fetched")

	return events, nil
}

func parseFlow(body []byte, symbol string) ([]contracts.FlowEvent, error) {
	var resp flowResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("flow parse failed: %w", err)
	}

	items := resp.Data
	if len(items) == 0 {
		items = resp.Results
	}

	events := make([]contracts.FlowEvent, 0, len(items))
	for _, it := range items {
		text := it.Text
		if text == "" {
			text = fmt.Sprintf("%s flow %s prem %s", strings.ToUpper(symbol), it.Type, it.Premium)
		}

		evTime := it.Time
		if evTime == "" {
			evTime = time.Now().Format("15:04:05")
		}

		events = append(events, contracts.FlowEvent{
			Text:   text,
			Strike: it.Strike,
			Time:   evTime,
		})
	}

	return events, nil
}
