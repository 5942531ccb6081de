package screen

import (
	"math"

	"github.com/wonny/callsight/internal/contracts"
)

// Scorer attaches a heuristic desirability score to each contract.
// Pure computation: no I/O, no error paths. Every input is optional
// and defaulted, so missing data reads as average, not disqualifying.
type Scorer struct {
	weights ScoreWeights
}

// ScoreWeights defines component weights for the blended score
type ScoreWeights struct {
	IV     float64 // lower implied volatility is better
	Spread float64 // tighter absolute spread is better
	Flow   float64 // more flow hits are better
}

// Neutral defaults used when a component has no usable input.
const (
	neutralIVScore     = 7.5 // iv missing
	neutralSpreadScore = 8.0 // spread zero or unknown
	baseFlowScore      = 7.0 // zero flow hits
	flowHitBump        = 0.6 // per matching flow event, capped at 10
)

// NewScorer creates a scorer with the given weights.
func NewScorer(weights ScoreWeights) *Scorer {
	return &Scorer{weights: weights}
}

// DefaultScoreWeights returns the standard IV/spread/flow blend.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		IV:     0.4,
		Spread: 0.3,
		Flow:   0.3,
	}
	// Total: 1.0
}

// Score computes the blended score for one contract, rounded half-up
// to one decimal place, and the tags surfaced with it.
func (s *Scorer) Score(c contracts.Contract, hitCount int) contracts.ScoredContract {
	blended := s.ivScore(c)*s.weights.IV +
		s.spreadScore(c)*s.weights.Spread +
		s.flowScore(hitCount)*s.weights.Flow

	tags := []string{}
	if hitCount > 0 {
		tags = append(tags, contracts.TagUnusualFlow)
	}

	return contracts.ScoredContract{
		Contract: c,
		Score:    roundHalfUp1(blended),
		Tags:     tags,
	}
}

// ivScore maps IV in [0,100] onto [0,10], lower IV scoring higher.
// IV at or above 100 floors to 0; missing IV scores neutral.
func (s *Scorer) ivScore(c contracts.Contract) float64 {
	if c.IV == nil {
		return neutralIVScore
	}
	return math.Max(0, 10-math.Min(100, *c.IV)/10)
}

// spreadScore rewards tight absolute spreads; a $1.00 spread floors to
// 0. Zero or unknown spread scores neutral.
func (s *Scorer) spreadScore(c contracts.Contract) float64 {
	spread, ok := c.Spread()
	if !ok || spread <= 0 {
		return neutralSpreadScore
	}
	return math.Max(0, 10-spread*10)
}

// flowScore starts at the base even with zero hits; each hit bumps it
// until saturation at 10.
func (s *Scorer) flowScore(hitCount int) float64 {
	return math.Min(10, baseFlowScore+float64(hitCount)*flowHitBump)
}

// roundHalfUp1 rounds to one decimal, half away from zero. The display
// contract requires half-up, so this cannot defer to %.1f formatting
// (which rounds half to even).
func roundHalfUp1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
