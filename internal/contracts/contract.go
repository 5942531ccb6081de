package contracts

import (
	"fmt"
	"math"
)

// Contract is the canonical call-contract record, the pipeline's unit
// of work. Strike and Expiry are always set after normalization;
// records that cannot resolve them are dropped, never carried forward.
// SSOT: 정규화 → 스코어링 → 랭킹 데이터 전달
type Contract struct {
	Symbol     string   `json:"symbol"`
	Strike     float64  `json:"strike"`
	Expiry     string   `json:"expiry"`
	ContractID string   `json:"contract,omitempty"` // enrichment join key; reference path only
	IV         *float64 `json:"iv"`
	Bid        *float64 `json:"bid"`
	Ask        *float64 `json:"ask"`
}

// Spread returns ask-bid when both sides are present.
// ok is false when either side is missing (no usable quote).
func (c *Contract) Spread() (spread float64, ok bool) {
	if c.Bid == nil || c.Ask == nil {
		return 0, false
	}
	return *c.Ask - *c.Bid, true
}

// RoundedStrike returns the strike rounded to the nearest integer,
// the key the flow hit index is built on.
func (c *Contract) RoundedStrike() int {
	return int(math.Round(c.Strike))
}

// TagUnusualFlow marks a contract touched by the flow feed.
const TagUnusualFlow = "Unusual Flow"

// ScoredContract is a Contract with its desirability score attached.
type ScoredContract struct {
	Contract
	Score float64  `json:"score"` // one decimal place, practically [0,10]
	Tags  []string `json:"tags"`
}

// ScoreString renders the score the way it is displayed (one decimal).
func (s *ScoredContract) ScoreString() string {
	return fmt.Sprintf("%.1f", s.Score)
}

// FlowHitIndex maps a rounded strike integer to its flow hit count.
// Derived once per screen and consumed only by the scoring stage.
type FlowHitIndex map[int]int

// Hits returns the hit count for a contract strike.
func (f FlowHitIndex) Hits(strike float64) int {
	if f == nil {
		return 0
	}
	return f[int(math.Round(strike))]
}

// ScreenResult is the terminal output of one screen invocation:
// a ranked, possibly empty shortlist plus zero or more advisory notes
// describing degraded (but completed) output.
type ScreenResult struct {
	Symbol     string           `json:"symbol"`
	Ranked     []ScoredContract `json:"ranked"`
	Advisories []string         `json:"advisories"`
}
