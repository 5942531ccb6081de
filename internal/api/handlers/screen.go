package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/callsight/internal/contracts"
	"github.com/wonny/callsight/internal/screen"
	"github.com/wonny/callsight/pkg/logger"
)

// Screener runs one screen invocation. Satisfied by screen.Orchestrator.
type Screener interface {
	Run(ctx context.Context, symbol string, opts screen.Options) (*contracts.ScreenResult, error)
}

// ScreenHandler handles screen API endpoints
// SSOT: 스크린 API 핸들러는 이 구조체에서만
type ScreenHandler struct {
	screener Screener
	defaults screen.Options
	logger   *logger.Logger
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(screener Screener, defaults screen.Options, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		screener: screener,
		defaults: defaults,
		logger:   log,
	}
}

// Screen runs a call screen for one underlying
// GET /api/screen/{symbol}?quotes=true|false&top=N&limit=N
func (h *ScreenHandler) Screen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["symbol"]))
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Missing symbol")
		return
	}

	opts := h.defaults
	if v := r.URL.Query().Get("quotes"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "quotes must be a boolean")
			return
		}
		opts.QuotesEnabled = enabled
	}
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		opts.TopN = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		opts.Limit = n
	}

	result, err := h.screener.Run(ctx, symbol, opts)
	if err != nil {
		if errors.Is(err, screen.ErrPrimaryUnavailable) {
			h.logger.WithError(err).WithField("symbol", symbol).Error("Screen failed: no contract source")
			respondError(w, http.StatusBadGateway, "Contract data unavailable from upstream")
			return
		}
		h.logger.WithError(err).WithField("symbol", symbol).Error("Screen failed")
		respondError(w, http.StatusInternalServerError, "Screen failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"symbol":     result.Symbol,
			"ranked":     result.Ranked,
			"advisories": result.Advisories,
			"fetched_at": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
