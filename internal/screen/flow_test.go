package screen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/callsight/internal/contracts"
	"github.com/wonny/callsight/pkg/logger"
)

func strikeContract(strike float64) contracts.Contract {
	return contracts.Contract{Symbol: "AAPL", Strike: strike, Expiry: "2025-01-17"}
}

func TestBuildIndex_ExplicitStrikeHint(t *testing.T) {
	m := NewFlowMatcher(logger.NewNop())

	items := []contracts.Contract{strikeContract(100), strikeContract(105)}
	events := []contracts.FlowEvent{
		{Text: "irrelevant text", Strike: f64(100)},
		{Text: "also irrelevant", Strike: f64(100)},
		{Text: "no match", Strike: f64(250)},
	}

	idx := m.BuildIndex(events, items)
	assert.Equal(t, 2, idx.Hits(100))
	assert.Equal(t, 0, idx.Hits(105))
}

func TestBuildIndex_HintRoundsToStrike(t *testing.T) {
	m := NewFlowMatcher(logger.NewNop())

	items := []contracts.Contract{strikeContract(102.5)} // rounds to 103
	events := []contracts.FlowEvent{{Strike: f64(103)}}

	idx := m.BuildIndex(events, items)
	assert.Equal(t, 1, idx.Hits(102.5))
}

func TestBuildIndex_SubstringMatch(t *testing.T) {
	m := NewFlowMatcher(logger.NewNop())

	items := []contracts.Contract{strikeContract(100), strikeContract(95)}
	events := []contracts.FlowEvent{
		{Text: "AAPL 100C sweep spotted · Premium $500k"},
		{Text: "AAPL 95C block"},
		{Text: "AAPL 100C repeat sweep"},
	}

	idx := m.BuildIndex(events, items)
	assert.Equal(t, 2, idx.Hits(100))
	assert.Equal(t, 1, idx.Hits(95))
}

func TestBuildIndex_SubstringIsIntentionallyLoose(t *testing.T) {
	m := NewFlowMatcher(logger.NewNop())

	// "100" contains "10": strike 10 over-matches by design.
	items := []contracts.Contract{strikeContract(10), strikeContract(100)}
	events := []contracts.FlowEvent{{Text: "AAPL 100C sweep"}}

	idx := m.BuildIndex(events, items)
	assert.Equal(t, 1, idx.Hits(100))
	assert.Equal(t, 1, idx.Hits(10))
}

func TestBuildIndex_HintSuppressesSubstringRule(t *testing.T) {
	m := NewFlowMatcher(logger.NewNop())

	// Event hints strike 95 even though its text mentions 100: the
	// hint wins and the substring rule is not consulted.
	items := []contracts.Contract{strikeContract(95), strikeContract(100)}
	events := []contracts.FlowEvent{{Text: "roll from 100C", Strike: f64(95)}}

	idx := m.BuildIndex(events, items)
	assert.Equal(t, 1, idx.Hits(95))
	assert.Equal(t, 0, idx.Hits(100))
}

func TestBuildIndex_EmptyInputs(t *testing.T) {
	m := NewFlowMatcher(logger.NewNop())

	idx := m.BuildIndex(nil, []contracts.Contract{strikeContract(100)})
	assert.Equal(t, 0, idx.Hits(100))

	idx = m.BuildIndex([]contracts.FlowEvent{{Text: "100C"}}, nil)
	assert.Equal(t, 0, idx.Hits(100))
}
