package screen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/callsight/internal/contracts"
	"github.com/wonny/callsight/pkg/logger"
)

// Screen parameter defaults. Limit mirrors the chain fetch size the
// dashboard always requested.
const (
	DefaultTopN     = 8
	DefaultBatchCap = 24
	DefaultLimit    = 150
)

// ErrPrimaryUnavailable is the screen's only fatal error: both the
// snapshot and reference chain sources failed. Everything else
// degrades to an advisory.
var ErrPrimaryUnavailable = errors.New("primary contract data unavailable")

// Advisory copy, verbatim from the dashboard banners.
const (
	advisoryQuotes          = "Quotes disabled (plan/limits). Showing strikes only."
	advisoryFlowUnavailable = "Flow unavailable right now — showing chain data only."
	advisoryFlowDisabled    = "Flow disabled — set UW_API_KEY to enable Unusual Whales overlays."
)

// State names one phase of a screen invocation.
type State string

const (
	StateIdle         State = "idle"
	StateFetching     State = "fetching"
	StateNormalizing  State = "normalizing"
	StateEnriching    State = "enriching"
	StateFlowMatching State = "flow_matching"
	StateScoring      State = "scoring"
	StateRanked       State = "ranked"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Options control one screen invocation.
type Options struct {
	QuotesEnabled bool // reference-path NBBO enrichment toggle
	TopN          int  // shortlist size
	BatchCap      int  // reference-path enrichment fan-out cap
	Limit         int  // snapshot chain fetch limit
}

// DefaultOptions returns the standard screen parameters.
func DefaultOptions() Options {
	return Options{
		QuotesEnabled: true,
		TopN:          DefaultTopN,
		BatchCap:      DefaultBatchCap,
		Limit:         DefaultLimit,
	}
}

func (o *Options) applyDefaults() {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.BatchCap <= 0 {
		o.BatchCap = DefaultBatchCap
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
}

// Orchestrator sequences the screen pipeline:
// fetch → normalize → enrich → flow-match → score → rank.
// Every entity it produces is created fresh per invocation and
// discarded with the result; nothing is shared between screens.
type Orchestrator struct {
	chain  contracts.ChainSource
	quotes contracts.QuoteSource
	flow   contracts.FlowSource
	logger *logger.Logger
}

// NewOrchestrator creates a new screen orchestrator
func NewOrchestrator(
	chain contracts.ChainSource,
	quotes contracts.QuoteSource,
	flow contracts.FlowSource,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		chain:  chain,
		quotes: quotes,
		flow:   flow,
		logger: log,
	}
}

type flowFetch struct {
	events []contracts.FlowEvent
	err    error
}

// Run executes one screen for a ticker symbol. It returns a ranked,
// possibly empty shortlist plus advisories, or a fatal error when both
// chain sources are unavailable. Enrichment and flow failures never
// abort the screen.
func (o *Orchestrator) Run(ctx context.Context, symbol string, opts Options) (*contracts.ScreenResult, error) {
	opts.applyDefaults()
	startTime := time.Now()

	log := o.logger.WithField("symbol", symbol)
	o.transition(log, StateIdle, StateFetching)

	// Flow is independent of contract data; fetch it concurrently and
	// merge only at the flow-matching stage.
	flowCh := make(chan flowFetch, 1)
	go func() {
		events, err := o.flow.FetchFlow(ctx, symbol)
		flowCh <- flowFetch{events: events, err: err}
	}()

	payload, err := o.fetchChain(ctx, symbol, opts.Limit)
	if err != nil {
		o.transition(log, StateFetching, StateFailed)
		return nil, err
	}

	o.transition(log, StateFetching, StateNormalizing)
	normalizer := NewNormalizer(o.logger)
	items := normalizer.Normalize(payload, symbol)

	cur := StateNormalizing
	advisories := make([]string, 0, 2)

	if payload.Mode == contracts.ModeReference {
		// The reference path bounds fan-out whether or not quotes are
		// fetched; the snapshot path already carries pricing.
		if len(items) > opts.BatchCap {
			items = items[:opts.BatchCap]
		}

		if opts.QuotesEnabled {
			o.transition(log, cur, StateEnriching)
			cur = StateEnriching
			enricher := NewEnricher(o.quotes, opts.BatchCap, o.logger)
			enriched, err := enricher.Enrich(ctx, items)
			if err != nil {
				// Most commonly an entitlement problem: keep going with
				// nil quotes and tell the user once.
				log.WithError(err).Warn("Quote enrichment skipped")
				advisories = append(advisories, advisoryQuotes)
			} else {
				items = enriched
			}
		}
	}

	o.transition(log, cur, StateFlowMatching)
	flowResult := <-flowCh
	var hits contracts.FlowHitIndex
	switch {
	case flowResult.err != nil:
		log.WithError(flowResult.err).Warn("Flow feed unavailable")
		advisories = append(advisories, advisoryFlowUnavailable)
		hits = contracts.FlowHitIndex{}
	case len(flowResult.events) == 0:
		advisories = append(advisories, advisoryFlowDisabled)
		hits = contracts.FlowHitIndex{}
	default:
		matcher := NewFlowMatcher(o.logger)
		hits = matcher.BuildIndex(flowResult.events, items)
	}

	o.transition(log, StateFlowMatching, StateScoring)
	scorer := NewScorer(DefaultScoreWeights())
	scored := make([]contracts.ScoredContract, 0, len(items))
	for _, it := range items {
		scored = append(scored, scorer.Score(it, hits.Hits(it.Strike)))
	}

	ranker := NewRanker(opts.TopN, o.logger)
	ranked := ranker.Rank(scored)
	o.transition(log, StateScoring, StateRanked)

	result := &contracts.ScreenResult{
		Symbol:     symbol,
		Ranked:     ranked,
		Advisories: advisories,
	}

	log.WithFields(map[string]interface{}{
		"mode":       string(payload.Mode),
		"candidates": len(items),
		"ranked":     len(ranked),
		"advisories": len(advisories),
		"duration":   time.Since(startTime).Seconds(),
	}).Info("Screen completed")
	o.transition(log, StateRanked, StateDone)

	return result, nil
}

// fetchChain tries the snapshot source and falls back to the reference
// listing only when the snapshot call itself fails. An empty snapshot
// is a successful, empty screen, not a reason to fall back.
func (o *Orchestrator) fetchChain(ctx context.Context, symbol string, limit int) (contracts.ChainPayload, error) {
	snapshot, snapErr := o.chain.FetchSnapshot(ctx, symbol, limit)
	if snapErr == nil {
		return contracts.ChainPayload{Mode: contracts.ModeSnapshot, Snapshot: snapshot}, nil
	}

	o.logger.WithError(snapErr).WithField("symbol", symbol).Warn("Snapshot fetch failed, trying reference listing")

	reference, refErr := o.chain.FetchReference(ctx, symbol)
	if refErr != nil {
		return contracts.ChainPayload{}, fmt.Errorf("%w: snapshot: %v; reference: %v", ErrPrimaryUnavailable, snapErr, refErr)
	}

	return contracts.ChainPayload{Mode: contracts.ModeReference, Reference: reference}, nil
}

// transition logs a state change. States exist for observability; the
// pipeline itself is a straight line with two optional stages.
func (o *Orchestrator) transition(log *logger.Logger, from, to State) {
	log.WithFields(map[string]interface{}{
		"from": string(from),
		"to":   string(to),
	}).Debug("Screen state transition")
}
