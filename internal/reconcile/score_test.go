package reconcile

import (
	"testing"

	"procure/internal"
	"procure/internal/config"
	"procure/internal/util"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	return NewEngine(cfg)
}

func piItem(code string, qty, price *float64) internal.PIItem {
	item := internal.PIItem{LineItem: internal.LineItem{ID: "pi-1", Qty: qty, UnitPrice: price}, InvoiceRef: "INV-1"}
	if code != "" {
		item.ProductCode = util.StringPtr(code)
	}
	return item
}

func poLine(code string, qty, price *float64) internal.LineItem {
	line := internal.LineItem{ID: "line-1", Qty: qty, UnitPrice: price}
	if code != "" {
		line.ProductCode = util.StringPtr(code)
	}
	return line
}

func TestScoreSelfMatchIsExact(t *testing.T) {
	e := testEngine(t)
	pi := piItem("NJ2214ECP", util.FloatPtr(10), util.FloatPtr(145))
	po := poLine("NJ2214ECP", util.FloatPtr(10), util.FloatPtr(145))

	score, fields := e.scoreCandidate(pi, po)
	if score != 1 {
		t.Fatalf("score=%v, want 1", score)
	}
	if tier := e.tiers.Classify(score); tier != internal.TierExact {
		t.Fatalf("tier=%v, want exact", tier)
	}
	if Confidence(score) != 100 {
		t.Fatalf("confidence=%d, want 100", Confidence(score))
	}
	if len(fields) != 3 {
		t.Fatalf("fields=%v, want code/qty/price", fields)
	}
}

func TestScoreMissingFieldsExcludedFromDenominator(t *testing.T) {
	e := testEngine(t)

	// Code only on the PI side: the composite must equal the code similarity
	// alone, not a code score diluted by absent qty and price.
	pi := piItem("NJ2214ECP-A", nil, nil)
	po := poLine("NJ2214ECP", util.FloatPtr(10), util.FloatPtr(145))

	score, _ := e.scoreCandidate(pi, po)
	want := CodeSimilarity("NJ2214ECP-A", "NJ2214ECP")
	if score != want {
		t.Fatalf("score=%v, want code similarity %v", score, want)
	}
	if tier := e.tiers.Classify(score); tier != internal.TierHigh {
		t.Fatalf("tier=%v, want high", tier)
	}
}

func TestScoreNoComparableFields(t *testing.T) {
	e := testEngine(t)
	pi := internal.PIItem{LineItem: internal.LineItem{ID: "pi-1"}}
	po := internal.LineItem{ID: "line-1", Qty: util.FloatPtr(5)}

	score, fields := e.scoreCandidate(pi, po)
	if score != 0 || fields != nil {
		t.Fatalf("score=%v fields=%v, want 0 and none", score, fields)
	}
}

func TestScoreQtyPartialCredit(t *testing.T) {
	e := testEngine(t)
	pi := piItem("NJ2214ECP", util.FloatPtr(8), nil)
	po := poLine("NJ2214ECP", util.FloatPtr(10), nil)

	score, _ := e.scoreCandidate(pi, po)
	// code 1.0×0.40 + qty 0.5×0.15 over weight 0.55
	want := (1*0.40 + 0.5*0.15) / 0.55
	if diff := score - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("score=%v, want %v", score, want)
	}
}

func TestTierBoundaries(t *testing.T) {
	tiers := DefaultTiers()
	cases := []struct {
		score float64
		want  internal.MatchTier
	}{
		{0.95, internal.TierExact},
		{0.90, internal.TierExact},
		{0.89, internal.TierHigh},
		{0.70, internal.TierHigh},
		{0.69, internal.TierMedium},
		{0.50, internal.TierMedium},
		{0.49, internal.TierLow},
		{0, internal.TierLow},
	}
	for _, c := range cases {
		if got := tiers.Classify(c.score); got != c.want {
			t.Fatalf("Classify(%v)=%v, want %v", c.score, got, c.want)
		}
	}
}
