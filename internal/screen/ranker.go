package screen

import (
	"sort"

	"github.com/wonny/callsight/internal/contracts"
	"github.com/wonny/callsight/pkg/logger"
)

// Ranker orders scored contracts and truncates to the shortlist size.
// Sorting here is the only reordering in the whole pipeline.
type Ranker struct {
	topN   int
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(topN int, log *logger.Logger) *Ranker {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Ranker{
		topN:   topN,
		logger: log,
	}
}

// Rank sorts descending by score and takes the top N. The sort is
// stable: equal-score contracts keep their prior relative order.
func (r *Ranker) Rank(scored []contracts.ScoredContract) []contracts.ScoredContract {
	ranked := make([]contracts.ScoredContract, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > r.topN {
		ranked = ranked[:r.topN]
	}

	if len(ranked) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"ranked":    len(ranked),
			"top_score": ranked[0].Score,
		}).Debug("Ranking completed")
	}

	return ranked
}
