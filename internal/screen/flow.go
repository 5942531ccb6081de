package screen

import (
	"math"
	"strconv"
	"strings"

	"github.com/wonny/callsight/internal/contracts"
	"github.com/wonny/callsight/pkg/logger"
)

// FlowMatcher associates order-flow events with contract strikes.
//
// Matching is heuristic, in priority order per event:
//  1. an explicit strike hint counts as a hit for the strike that
//     rounds to the same integer;
//  2. otherwise the event text is searched for the rounded strike as a
//     decimal substring.
//
// Rule 2 is intentionally loose and can over-match (strike 10 hits
// text containing "100"). That trade-off is accepted: tightening it
// changes ranking outcomes.
type FlowMatcher struct {
	logger *logger.Logger
}

// NewFlowMatcher creates a new flow matcher
func NewFlowMatcher(log *logger.Logger) *FlowMatcher {
	return &FlowMatcher{logger: log}
}

// BuildIndex computes the per-strike hit count for a screen. A nil or
// empty event list yields an index that reports zero everywhere; a
// failed flow feed upstream simply passes no events here.
func (m *FlowMatcher) BuildIndex(events []contracts.FlowEvent, items []contracts.Contract) contracts.FlowHitIndex {
	idx := make(contracts.FlowHitIndex)
	if len(events) == 0 || len(items) == 0 {
		return idx
	}

	// Distinct rounded strikes, each matched independently per event.
	strikes := make(map[int]string, len(items))
	for _, it := range items {
		key := it.RoundedStrike()
		if _, seen := strikes[key]; !seen {
			strikes[key] = strconv.Itoa(key)
		}
	}

	for _, ev := range events {
		if ev.Strike != nil {
			hinted := int(math.Round(*ev.Strike))
			if _, ok := strikes[hinted]; ok {
				idx[hinted]++
			}
			continue
		}

		for key, needle := range strikes {
			if strings.Contains(ev.Text, needle) {
				idx[key]++
			}
		}
	}

	m.logger.WithFields(map[string]interface{}{
		"events":         len(events),
		"strikes":        len(strikes),
		"strikes_marked": len(idx),
	}).Debug("Built flow hit index")

	return idx
}
