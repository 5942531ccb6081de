package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/callsight/internal/contracts"
)

func scoreOf(t *testing.T, c contracts.Contract, hits int) float64 {
	t.Helper()
	s := NewScorer(DefaultScoreWeights())
	return s.Score(c, hits).Score
}

func TestScore_AllNeutralDefaults(t *testing.T) {
	// No IV, no quote, no flow hits: exactly 7.5.
	got := scoreOf(t, contracts.Contract{Symbol: "AAPL", Strike: 100, Expiry: "2025-01-17"}, 0)
	assert.Equal(t, 7.5, got)
}

func TestScore_KnownBlend(t *testing.T) {
	// ivScore=8, spreadScore=9.5, flowScore=7.6
	// 8*0.4 + 9.5*0.3 + 7.6*0.3 = 8.33 -> rounds half-up to 8.3
	c := contracts.Contract{
		Symbol: "AAPL",
		Strike: 100,
		Expiry: "2025-01-17",
		IV:     f64(20),
		Bid:    f64(1.00),
		Ask:    f64(1.05),
	}

	scored := NewScorer(DefaultScoreWeights()).Score(c, 1)
	assert.Equal(t, 8.3, scored.Score)
	assert.Equal(t, "8.3", scored.ScoreString())
	assert.Equal(t, []string{contracts.TagUnusualFlow}, scored.Tags)
}

func TestScore_MonotonicInIV(t *testing.T) {
	prev := 11.0
	for iv := 0.0; iv <= 100; iv += 5 {
		c := contracts.Contract{Strike: 100, Expiry: "2025-01-17", IV: f64(iv)}
		got := scoreOf(t, c, 0)
		assert.LessOrEqual(t, got, prev, "score must not increase with iv=%v", iv)
		prev = got
	}
}

func TestScore_IVClampedAt100(t *testing.T) {
	at100 := scoreOf(t, contracts.Contract{Strike: 100, Expiry: "2025-01-17", IV: f64(100)}, 0)
	beyond := scoreOf(t, contracts.Contract{Strike: 100, Expiry: "2025-01-17", IV: f64(400)}, 0)
	assert.Equal(t, at100, beyond)
}

func TestScore_MonotonicInSpread(t *testing.T) {
	prev := 11.0
	for spread := 0.01; spread <= 1.2; spread += 0.05 {
		c := contracts.Contract{
			Strike: 100,
			Expiry: "2025-01-17",
			Bid:    f64(1.00),
			Ask:    f64(1.00 + spread),
		}
		got := scoreOf(t, c, 0)
		assert.LessOrEqual(t, got, prev, "score must not increase with spread=%v", spread)
		prev = got
	}
}

func TestScore_MonotonicInHitsWithSaturation(t *testing.T) {
	prev := -1.0
	var saturated float64
	for hits := 0; hits <= 10; hits++ {
		got := scoreOf(t, contracts.Contract{Strike: 100, Expiry: "2025-01-17"}, hits)
		assert.GreaterOrEqual(t, got, prev, "score must not decrease with hits=%d", hits)
		prev = got
		if hits == 5 {
			// flowScore saturates at 10 once 7 + hits*0.6 >= 10
			saturated = got
		}
	}
	assert.Equal(t, saturated, prev, "score must saturate once flow component hits 10")
}

func TestScore_TagsOnlyOnFlowHits(t *testing.T) {
	s := NewScorer(DefaultScoreWeights())
	c := contracts.Contract{Strike: 100, Expiry: "2025-01-17"}

	assert.Empty(t, s.Score(c, 0).Tags)
	assert.Equal(t, []string{contracts.TagUnusualFlow}, s.Score(c, 3).Tags)
}

func TestRoundHalfUp1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{8.33, 8.3},
		// 8.25 is exactly representable: half-up gives 8.3 where
		// banker's rounding would give 8.2.
		{8.25, 8.3},
		{8.75, 8.8},
		{7.5, 7.5},
		{0, 0},
		{9.99, 10.0},
	}

	for _, tt := range tests {
		if got := roundHalfUp1(tt.in); got != tt.want {
			t.Errorf("roundHalfUp1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
