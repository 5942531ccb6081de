package stooq

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Direction classifies a session move.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// IndexQuote is one index reading for the sentiment panel.
type IndexQuote struct {
	Symbol    string    `json:"symbol"`
	Last      float64   `json:"last"`
	ChangePct float64   `json:"change_pct"`
	Direction Direction `json:"direction"`
}

// MarketSentiment pairs the broad-market and volatility reads shown
// next to every screen. Risk-on means SPY up while VIX is down.
type MarketSentiment struct {
	SPY    IndexQuote `json:"spy"`
	VIX    IndexQuote `json:"vix"`
	RiskOn bool       `json:"risk_on"`
}

// stooqSymbols maps panel names to Stooq tickers.
var stooqSymbols = map[string]string{
	"SPY": "spy.us",
	"VIX": "^vix",
}

// FetchSentiment scrapes SPY and VIX quote pages and derives the
// sentiment panel. A scrape failure for either symbol fails the panel;
// callers treat that as advisory, never fatal.
func (c *Client) FetchSentiment(ctx context.Context) (*MarketSentiment, error) {
	spy, err := c.fetchIndexQuote(ctx, "SPY")
	if err != nil {
		return nil, err
	}

	vix, err := c.fetchIndexQuote(ctx, "VIX")
	if err != nil {
		return nil, err
	}

	sentiment := &MarketSentiment{
		SPY:    *spy,
		VIX:    *vix,
		RiskOn: spy.Direction == DirectionUp && vix.Direction != DirectionUp,
	}

	c.logger.WithFields(map[string]interface{}{
		"spy":     spy.ChangePct,
		"vix":     vix.ChangePct,
		"risk_on": sentiment.RiskOn,
	}).Debug("Market sentiment fetched")

	return sentiment, nil
}

func (c *Client) fetchIndexQuote(ctx context.Context, name string) (*IndexQuote, error) {
	ticker := stooqSymbols[name]

	params := url.Values{}
	params.Set("s", ticker)

	html, err := c.fetchHTML(ctx, "/q/", params)
	if err != nil {
		return nil, fmt.Errorf("%s quote fetch failed: %w", name, err)
	}

	quote, err := parseQuotePage(html, ticker)
	if err != nil {
		return nil, fmt.Errorf("%s quote parse failed: %w", name, err)
	}
	quote.Symbol = name

	return quote, nil
}

// parseQuotePage extracts last price and percent change from a Stooq
// quote page. Stooq renders both inside spans whose ids embed the
// ticker: _c2 carries the last price, _m2 the percent change.
func parseQuotePage(html, ticker string) (*IndexQuote, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("HTML parse failed: %w", err)
	}

	id := spanID(ticker)

	lastText := doc.Find(fmt.Sprintf("span#aq_%s_c2", id)).First().Text()
	last, err := parseNumber(lastText)
	if err != nil {
		return nil, fmt.Errorf("last price not found: %w", err)
	}

	changeText := doc.Find(fmt.Sprintf("span#aq_%s_m2", id)).First().Text()
	changePct, err := parseNumber(changeText)
	if err != nil {
		return nil, fmt.Errorf("percent change not found: %w", err)
	}

	return &IndexQuote{
		Last:      last,
		ChangePct: changePct,
		Direction: directionOf(changePct),
	}, nil
}

// spanID normalizes a ticker into the id fragment Stooq uses.
func spanID(ticker string) string {
	return strings.ToLower(strings.TrimPrefix(ticker, "^"))
}

// parseNumber strips percent signs, parens and sign decorations that
// Stooq wraps around numeric cells.
func parseNumber(s string) (float64, error) {
	cleaned := strings.NewReplacer("%", "", "(", "", ")", "", ",", "", " ", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.ParseFloat(cleaned, 64)
}

func directionOf(changePct float64) Direction {
	switch {
	case changePct > 0:
		return DirectionUp
	case changePct < 0:
		return DirectionDown
	default:
		return DirectionFlat
	}
}
