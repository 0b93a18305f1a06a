package reconcile

import (
	"math"

	"procure/internal"
	"procure/internal/config"
)

// Tiers holds the composite-score cutoffs for the discrete match tiers.
// Anything below Medium is "low".
type Tiers struct {
	Exact  float64
	High   float64
	Medium float64
}

func DefaultTiers() Tiers {
	return Tiers{Exact: 0.90, High: 0.70, Medium: 0.50}
}

func (t Tiers) Classify(score float64) internal.MatchTier {
	switch {
	case score >= t.Exact:
		return internal.TierExact
	case score >= t.High:
		return internal.TierHigh
	case score >= t.Medium:
		return internal.TierMedium
	default:
		return internal.TierLow
	}
}

// Engine scores (PI item, PO line) pairs and runs reconciliation over a PI
// item collection. It holds no state between runs beyond its tunables.
type Engine struct {
	weights  Weights
	tiers    Tiers
	minScore float64
	workers  int
}

func NewEngine(cfg config.Config) *Engine {
	return &Engine{
		weights: Weights{
			Code:  cfg.MatchWeightCode,
			Name:  cfg.MatchWeightName,
			Qty:   cfg.MatchWeightQty,
			Price: cfg.MatchWeightPrice,
		},
		tiers: Tiers{
			Exact:  cfg.MatchExactThreshold,
			High:   cfg.MatchHighThreshold,
			Medium: cfg.MatchMediumThreshold,
		},
		minScore: cfg.MatchMinScore,
		workers:  cfg.MatchWorkers,
	}
}

// scoreCandidate normalizes the weighted partial score by the weight of the
// fields that were comparable. A pair with no comparable field at all scores
// 0 and falls below any sane acceptance threshold.
func (e *Engine) scoreCandidate(pi internal.PIItem, po internal.LineItem) (float64, []string) {
	score, weight, fields := e.weights.scoreFields(pi, po)
	if weight == 0 {
		return 0, nil
	}
	return score / weight, fields
}

func Confidence(score float64) int {
	return int(math.Round(score * 100))
}
