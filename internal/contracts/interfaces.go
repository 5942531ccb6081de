package contracts

import "context"

// Collaborator capabilities consumed by the screen pipeline.
// Transport concerns (timeouts, retries, rate limits) live behind these
// interfaces; the pipeline only reacts to success or failure.

// ChainSource provides the two contract-chain shapes.
type ChainSource interface {
	// FetchSnapshot returns the rich quote/greeks chain (primary).
	FetchSnapshot(ctx context.Context, symbol string, limit int) ([]SnapshotRecord, error)
	// FetchReference returns the metadata-only listing (fallback).
	FetchReference(ctx context.Context, symbol string) ([]ReferenceRecord, error)
}

// QuoteSource provides per-contract NBBO quotes, reference path only.
type QuoteSource interface {
	FetchQuotes(ctx context.Context, contractIDs []string) ([]QuoteRecord, error)
}

// FlowSource provides the optional order-flow overlay.
// Implementations must return an empty slice, not an error, when
// credentials are absent; missing flow access is expected.
type FlowSource interface {
	FetchFlow(ctx context.Context, symbol string) ([]FlowEvent, error)
}
