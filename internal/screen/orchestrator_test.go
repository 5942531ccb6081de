package screen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/callsight/internal/contracts"
	"github.com/wonny/callsight/pkg/logger"
)

type fakeChainSource struct {
	snapshot    []contracts.SnapshotRecord
	snapshotErr error
	reference   []contracts.ReferenceRecord
	refErr      error
}

func (f *fakeChainSource) FetchSnapshot(ctx context.Context, symbol string, limit int) ([]contracts.SnapshotRecord, error) {
	return f.snapshot, f.snapshotErr
}

func (f *fakeChainSource) FetchReference(ctx context.Context, symbol string) ([]contracts.ReferenceRecord, error) {
	return f.reference, f.refErr
}

type fakeFlowSource struct {
	events []contracts.FlowEvent
	err    error
}

func (f *fakeFlowSource) FetchFlow(ctx context.Context, symbol string) ([]contracts.FlowEvent, error) {
	return f.events, f.err
}

func snapshotRecord(strike float64, expiry string, iv, bid, ask *float64) contracts.SnapshotRecord {
	return contracts.SnapshotRecord{
		Details: &contracts.SnapshotDetails{
			StrikePrice:    &strike,
			ExpirationDate: &expiry,
		},
		Greeks:    &contracts.SnapshotGreeks{IV: iv},
		LastQuote: &contracts.SnapshotQuote{Bid: bid, Ask: ask},
	}
}

func referenceRecord(id string, strike float64, expiry string) contracts.ReferenceRecord {
	return contracts.ReferenceRecord{
		Ticker:         &id,
		StrikePrice:    &strike,
		ExpirationDate: &expiry,
	}
}

func TestRun_SnapshotEndToEnd(t *testing.T) {
	chain := &fakeChainSource{
		snapshot: []contracts.SnapshotRecord{
			snapshotRecord(100, "2025-01-17", f64(20), f64(1.00), f64(1.05)),
		},
	}
	flow := &fakeFlowSource{events: []contracts.FlowEvent{{Text: "AAPL 100C sweep"}}}
	o := NewOrchestrator(chain, &fakeQuoteSource{}, flow, logger.NewNop())

	result, err := o.Run(context.Background(), "AAPL", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, result.Ranked, 1)

	top := result.Ranked[0]
	assert.Equal(t, 100.0, top.Strike)
	assert.Equal(t, "2025-01-17", top.Expiry)
	assert.Equal(t, 8.3, top.Score)
	assert.Equal(t, "8.3", top.ScoreString())
	assert.Equal(t, []string{contracts.TagUnusualFlow}, top.Tags)
	assert.Empty(t, result.Advisories)
}

func TestRun_FallsBackToReferenceAndEnriches(t *testing.T) {
	chain := &fakeChainSource{
		snapshotErr: errors.New("snapshot endpoint 403"),
		reference: []contracts.ReferenceRecord{
			referenceRecord("C1", 100, "2025-01-17"),
			referenceRecord("C2", 105, "2025-01-17"),
		},
	}
	quotes := &fakeQuoteSource{
		quotes: []contracts.QuoteRecord{{Contract: "C1", Bid: f64(1.00), Ask: f64(1.05)}},
	}
	o := NewOrchestrator(chain, quotes, &fakeFlowSource{}, logger.NewNop())

	result, err := o.Run(context.Background(), "AAPL", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, result.Ranked, 2)

	byID := map[string]contracts.ScoredContract{}
	for _, r := range result.Ranked {
		byID[r.ContractID] = r
	}
	require.NotNil(t, byID["C1"].Bid)
	assert.Equal(t, 1.00, *byID["C1"].Bid)
	assert.Nil(t, byID["C2"].Bid)
}

func TestRun_EnrichmentFailureIsAdvisory(t *testing.T) {
	chain := &fakeChainSource{
		snapshotErr: errors.New("snapshot down"),
		reference:   []contracts.ReferenceRecord{referenceRecord("C1", 100, "2025-01-17")},
	}
	quotes := &fakeQuoteSource{err: errors.New("NOT_ENTITLED")}
	o := NewOrchestrator(chain, quotes, &fakeFlowSource{}, logger.NewNop())

	result, err := o.Run(context.Background(), "AAPL", DefaultOptions())
	require.NoError(t, err)

	require.Len(t, result.Ranked, 1)
	assert.Nil(t, result.Ranked[0].Bid)
	assert.Nil(t, result.Ranked[0].Ask)
	assert.Contains(t, result.Advisories, advisoryQuotes)
}

func TestRun_QuotesDisabledStillCapsReferencePath(t *testing.T) {
	refs := make([]contracts.ReferenceRecord, 0, 30)
	for i := 0; i < 30; i++ {
		refs = append(refs, referenceRecord("C", 100+float64(i), "2025-01-17"))
	}
	chain := &fakeChainSource{snapshotErr: errors.New("down"), reference: refs}
	quotes := &fakeQuoteSource{err: errors.New("should not be called")}

	o := NewOrchestrator(chain, quotes, &fakeFlowSource{}, logger.NewNop())

	opts := DefaultOptions()
	opts.QuotesEnabled = false
	opts.TopN = 100

	result, err := o.Run(context.Background(), "AAPL", opts)
	require.NoError(t, err)

	assert.Len(t, result.Ranked, DefaultBatchCap)
	assert.Nil(t, quotes.received)
}

func TestRun_BothSourcesFailIsFatal(t *testing.T) {
	chain := &fakeChainSource{
		snapshotErr: errors.New("snapshot down"),
		refErr:      errors.New("reference down"),
	}
	o := NewOrchestrator(chain, &fakeQuoteSource{}, &fakeFlowSource{}, logger.NewNop())

	result, err := o.Run(context.Background(), "AAPL", DefaultOptions())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrimaryUnavailable)
}

func TestRun_EmptySnapshotIsEmptyResultNotError(t *testing.T) {
	chain := &fakeChainSource{snapshot: []contracts.SnapshotRecord{}}
	flow := &fakeFlowSource{err: errors.New("flow down")}
	o := NewOrchestrator(chain, &fakeQuoteSource{}, flow, logger.NewNop())

	result, err := o.Run(context.Background(), "AAPL", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, result.Ranked)
}

func TestRun_FlowFailureIsAdvisory(t *testing.T) {
	chain := &fakeChainSource{
		snapshot: []contracts.SnapshotRecord{snapshotRecord(100, "2025-01-17", nil, nil, nil)},
	}
	flow := &fakeFlowSource{err: errors.New("flow feed 500")}
	o := NewOrchestrator(chain, &fakeQuoteSource{}, flow, logger.NewNop())

	result, err := o.Run(context.Background(), "AAPL", DefaultOptions())
	require.NoError(t, err)

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, 7.5, result.Ranked[0].Score)
	assert.Empty(t, result.Ranked[0].Tags)
	assert.Contains(t, result.Advisories, advisoryFlowUnavailable)
}

func TestRun_EmptyFlowMeansDisabledAdvisory(t *testing.T) {
	chain := &fakeChainSource{
		snapshot: []contracts.SnapshotRecord{snapshotRecord(100, "2025-01-17", nil, nil, nil)},
	}
	o := NewOrchestrator(chain, &fakeQuoteSource{}, &fakeFlowSource{}, logger.NewNop())

	result, err := o.Run(context.Background(), "AAPL", DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, result.Advisories, advisoryFlowDisabled)
}

func TestRun_RankingIsStableAcrossEqualScores(t *testing.T) {
	// Three contracts with identical inputs score identically and must
	// keep upstream order in the shortlist.
	chain := &fakeChainSource{
		snapshot: []contracts.SnapshotRecord{
			snapshotRecord(90, "2025-01-17", nil, nil, nil),
			snapshotRecord(95, "2025-01-17", nil, nil, nil),
			snapshotRecord(100, "2025-01-17", nil, nil, nil),
		},
	}
	o := NewOrchestrator(chain, &fakeQuoteSource{}, &fakeFlowSource{}, logger.NewNop())

	result, err := o.Run(context.Background(), "AAPL", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, result.Ranked, 3)

	assert.Equal(t, 90.0, result.Ranked[0].Strike)
	assert.Equal(t, 95.0, result.Ranked[1].Strike)
	assert.Equal(t, 100.0, result.Ranked[2].Strike)
}
