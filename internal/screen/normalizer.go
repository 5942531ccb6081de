package screen

import (
	"github.com/wonny/callsight/internal/contracts"
	"github.com/wonny/callsight/pkg/logger"
)

// Normalizer converts both upstream chain shapes into canonical
// contracts. The upstream contract is untyped and sparse, so each
// canonical field resolves through a fixed, ordered accessor chain:
//
//	strike (snapshot):  details.strike_price → details.strike → strike_price
//	expiry (snapshot):  details.expiration_date → details.expiration → expiration
//	iv     (snapshot):  greeks.iv → implied_volatility
//	bid/ask(snapshot):  last_quote → day
//	id     (reference): ticker → contract
//	strike (reference): strike_price → strike
//	expiry (reference): expiration_date → expiration
//
// A record whose strike or expiry (or, on the reference path, contract
// identifier) resolves to nothing is dropped silently; upstream
// sparsity is expected and is not an error. Output preserves upstream
// order; nothing sorts before the ranker.
type Normalizer struct {
	logger *logger.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{logger: log}
}

// Normalize maps a tagged chain payload to canonical contracts,
// dispatching on the payload mode.
func (n *Normalizer) Normalize(payload contracts.ChainPayload, symbol string) []contracts.Contract {
	var out []contracts.Contract
	var dropped int

	switch payload.Mode {
	case contracts.ModeReference:
		out, dropped = n.normalizeReference(payload.Reference, symbol)
	default:
		out, dropped = n.normalizeSnapshot(payload.Snapshot, symbol)
	}

	n.logger.WithFields(map[string]interface{}{
		"symbol":  symbol,
		"mode":    string(payload.Mode),
		"kept":    len(out),
		"dropped": dropped,
	}).Debug("Normalized contract chain")

	return out
}

// normalizeSnapshot handles shape A: quotes and greeks are inline.
func (n *Normalizer) normalizeSnapshot(records []contracts.SnapshotRecord, symbol string) ([]contracts.Contract, int) {
	out := make([]contracts.Contract, 0, len(records))
	dropped := 0

	for _, r := range records {
		strike := firstFloat(
			detailsFloat(r.Details, func(d *contracts.SnapshotDetails) *float64 { return d.StrikePrice }),
			detailsFloat(r.Details, func(d *contracts.SnapshotDetails) *float64 { return d.Strike }),
			r.StrikePrice,
		)
		expiry := firstString(
			detailsString(r.Details, func(d *contracts.SnapshotDetails) *string { return d.ExpirationDate }),
			detailsString(r.Details, func(d *contracts.SnapshotDetails) *string { return d.Expiration }),
			r.Expiration,
		)

		if strike == nil || *strike <= 0 || expiry == nil || *expiry == "" {
			dropped++
			continue
		}

		iv := r.IV
		if r.Greeks != nil && r.Greeks.IV != nil {
			iv = r.Greeks.IV
		}

		var bid, ask *float64
		if r.LastQuote != nil {
			bid, ask = r.LastQuote.Bid, r.LastQuote.Ask
		}
		if bid == nil && ask == nil && r.Day != nil {
			bid, ask = r.Day.Bid, r.Day.Ask
		}

		out = append(out, contracts.Contract{
			Symbol: symbol,
			Strike: *strike,
			Expiry: *expiry,
			IV:     iv,
			Bid:    bid,
			Ask:    ask,
		})
	}

	return out, dropped
}

// normalizeReference handles shape B: metadata only, pricing stays nil
// until quote enrichment. The contract identifier is required here
// because it is the enrichment join key.
func (n *Normalizer) normalizeReference(records []contracts.ReferenceRecord, symbol string) ([]contracts.Contract, int) {
	out := make([]contracts.Contract, 0, len(records))
	dropped := 0

	for _, r := range records {
		id := firstString(r.Ticker, r.Contract)
		strike := firstFloat(r.StrikePrice, r.Strike)
		expiry := firstString(r.ExpirationDate, r.Expiration)

		if id == nil || *id == "" || strike == nil || *strike <= 0 || expiry == nil || *expiry == "" {
			dropped++
			continue
		}

		out = append(out, contracts.Contract{
			Symbol:     symbol,
			Strike:     *strike,
			Expiry:     *expiry,
			ContractID: *id,
		})
	}

	return out, dropped
}

// Accessor helpers: first non-nil wins, in argument order.

func firstFloat(candidates ...*float64) *float64 {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

func firstString(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

func detailsFloat(d *contracts.SnapshotDetails, get func(*contracts.SnapshotDetails) *float64) *float64 {
	if d == nil {
		return nil
	}
	return get(d)
}

func detailsString(d *contracts.SnapshotDetails, get func(*contracts.SnapshotDetails) *string) *string {
	if d == nil {
		return nil
	}
	return get(d)
}
