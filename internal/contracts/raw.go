package contracts

// Raw upstream shapes. Field names follow the Polygon.io wire format;
// pointers model missing/null fields, which are routine upstream.

// ChainMode tags which upstream shape a chain payload carries.
type ChainMode string

const (
	// ModeSnapshot is the rich quote/greeks chain (primary source).
	ModeSnapshot ChainMode = "snapshot"
	// ModeReference is the metadata-only contract listing (fallback).
	ModeReference ChainMode = "reference"
)

// ChainPayload is the tagged variant handed to the normalizer.
// Exactly one of Snapshot/Reference is populated, per Mode.
type ChainPayload struct {
	Mode      ChainMode
	Snapshot  []SnapshotRecord
	Reference []ReferenceRecord
}

// SnapshotRecord is one contract from the options chain snapshot (shape A).
type SnapshotRecord struct {
	Details     *SnapshotDetails `json:"details"`
	Greeks      *SnapshotGreeks  `json:"greeks"`
	IV          *float64         `json:"implied_volatility"`
	LastQuote   *SnapshotQuote   `json:"last_quote"`
	Day         *SnapshotQuote   `json:"day"`
	StrikePrice *float64         `json:"strike_price"` // top-level fallback
	Expiration  *string          `json:"expiration"`   // top-level fallback
}

// SnapshotDetails holds nested contract metadata.
type SnapshotDetails struct {
	StrikePrice    *float64 `json:"strike_price"`
	Strike         *float64 `json:"strike"`
	ExpirationDate *string  `json:"expiration_date"`
	Expiration     *string  `json:"expiration"`
}

// SnapshotGreeks holds the greeks block. Only IV feeds the screen.
type SnapshotGreeks struct {
	IV    *float64 `json:"iv"`
	Delta *float64 `json:"delta"`
	Gamma *float64 `json:"gamma"`
	Theta *float64 `json:"theta"`
	Vega  *float64 `json:"vega"`
}

// SnapshotQuote holds a bid/ask pair (last NBBO or daily aggregate).
type SnapshotQuote struct {
	Bid *float64 `json:"bid"`
	Ask *float64 `json:"ask"`
}

// ReferenceRecord is one contract from the reference listing (shape B).
// Metadata only; pricing arrives via quote enrichment.
type ReferenceRecord struct {
	Ticker         *string  `json:"ticker"`
	Contract       *string  `json:"contract"` // fallback identifier field
	StrikePrice    *float64 `json:"strike_price"`
	Strike         *float64 `json:"strike"`
	ExpirationDate *string  `json:"expiration_date"`
	Expiration     *string  `json:"expiration"`
}

// QuoteRecord is one per-contract NBBO result from the batch quote fetch.
type QuoteRecord struct {
	Contract string   `json:"contract"`
	Bid      *float64 `json:"bid"`
	Ask      *float64 `json:"ask"`
	Error    string   `json:"error,omitempty"`
}

// FlowEvent is one order-flow alert from the flow feed.
type FlowEvent struct {
	Text   string   `json:"text"`
	Strike *float64 `json:"strike,omitempty"` // explicit strike hint
	Time   string   `json:"time,omitempty"`
}
