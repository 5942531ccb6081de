package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestContract_Spread(t *testing.T) {
	tests := []struct {
		name   string
		bid    *float64
		ask    *float64
		want   float64
		wantOK bool
	}{
		{"both present", f64(1.00), f64(1.05), 0.05, true},
		{"missing bid", nil, f64(1.05), 0, false},
		{"missing ask", f64(1.00), nil, 0, false},
		{"both missing", nil, nil, 0, false},
		{"inverted quote", f64(1.10), f64(1.00), -0.10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Contract{Bid: tt.bid, Ask: tt.ask}
			spread, ok := c.Spread()
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.want, spread, 1e-9)
			}
		})
	}
}

func TestContract_RoundedStrike(t *testing.T) {
	tests := []struct {
		strike float64
		want   int
	}{
		{100, 100},
		{100.4, 100},
		{100.5, 101},
		{99.99, 100},
		{102.5, 103},
	}

	for _, tt := range tests {
		c := &Contract{Strike: tt.strike}
		if got := c.RoundedStrike(); got != tt.want {
			t.Errorf("RoundedStrike(%v) = %d, want %d", tt.strike, got, tt.want)
		}
	}
}

func TestFlowHitIndex_Hits(t *testing.T) {
	idx := FlowHitIndex{100: 2, 105: 1}

	assert.Equal(t, 2, idx.Hits(100))
	assert.Equal(t, 2, idx.Hits(99.9))
	assert.Equal(t, 1, idx.Hits(105))
	assert.Equal(t, 0, idx.Hits(110))

	var nilIdx FlowHitIndex
	assert.Equal(t, 0, nilIdx.Hits(100))
}

func TestScoredContract_ScoreString(t *testing.T) {
	s := &ScoredContract{Score: 8.3}
	assert.Equal(t, "8.3", s.ScoreString())

	s.Score = 7.5
	assert.Equal(t, "7.5", s.ScoreString())

	s.Score = 10
	assert.Equal(t, "10.0", s.ScoreString())
}
