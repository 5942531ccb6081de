package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/callsight/internal/external/stooq"
	"github.com/wonny/callsight/pkg/logger"
)

// SentimentSource provides the market sentiment panel. Satisfied by
// stooq.Client.
type SentimentSource interface {
	FetchSentiment(ctx context.Context) (*stooq.MarketSentiment, error)
}

// SentimentHandler handles the market sentiment endpoint
type SentimentHandler struct {
	source SentimentSource
	logger *logger.Logger
}

// NewSentimentHandler creates a new sentiment handler
func NewSentimentHandler(source SentimentSource, log *logger.Logger) *SentimentHandler {
	return &SentimentHandler{
		source: source,
		logger: log,
	}
}

// Get returns the current SPY/VIX sentiment read
// GET /api/sentiment
func (h *SentimentHandler) Get(w http.ResponseWriter, r *http.Request) {
	sentiment, err := h.source.FetchSentiment(r.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Sentiment scrape failed")
		respondError(w, http.StatusBadGateway, "Sentiment unavailable")
		return
	}

	respondJSON(w, http.StatusOK, sentiment)
}
