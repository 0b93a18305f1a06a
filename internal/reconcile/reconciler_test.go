package reconcile

import (
	"fmt"
	"reflect"
	"testing"

	"procure/internal"
	"procure/internal/util"
)

func TestFindMatchesEmptyInput(t *testing.T) {
	e := testEngine(t)

	result := e.FindMatches(nil, testOrders())
	if !result.Success {
		t.Fatalf("empty input not successful: %+v", result)
	}
	if len(result.Matches) != 0 {
		t.Fatalf("matches=%+v, want none", result.Matches)
	}
	if result.Summary != (internal.ReconcileSummary{}) {
		t.Fatalf("summary not zeroed: %+v", result.Summary)
	}
}

func TestFindMatchesExactScenario(t *testing.T) {
	e := testEngine(t)
	piItems := []internal.PIItem{{
		LineItem: internal.LineItem{
			ID:          "pi-1",
			ProductCode: util.StringPtr("NJ2214ECP"),
			Qty:         util.FloatPtr(10),
			UnitPrice:   util.FloatPtr(145),
		},
		InvoiceRef: "INV-1",
	}}

	result := e.FindMatches(piItems, testOrders())
	if !result.Success || len(result.Matches) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	best := result.Matches[0].Matches[0]
	if best.POLineID != "l-1" || best.Score != 1 || best.Tier != internal.TierExact || best.Confidence != 100 {
		t.Fatalf("unexpected best candidate: %+v", best)
	}
	s := result.Summary
	if s.TotalItems != 1 || s.SearchedItems != 1 || s.MatchedItems != 1 || s.HighConfidenceMatches != 1 || s.MatchRate != 100 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestFindMatchesSkipsAlreadyMatched(t *testing.T) {
	e := testEngine(t)
	piItems := []internal.PIItem{
		linkedPIItem("pi-1", "po-1", "l-1"),
		{
			LineItem:   internal.LineItem{ID: "pi-2", ProductCode: util.StringPtr("XK-100"), Qty: util.FloatPtr(4)},
			InvoiceRef: "INV-1",
		},
	}

	result := e.FindMatches(piItems, testOrders())
	if !result.Success {
		t.Fatalf("result: %+v", result)
	}
	s := result.Summary
	if s.TotalItems != 2 || s.AlreadyMatchedItems != 1 || s.SearchedItems != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	for _, entry := range result.Matches {
		if entry.PIItem.ID == "pi-1" {
			t.Fatalf("already-matched item searched: %+v", entry)
		}
		for _, c := range entry.Matches {
			if c.POID == "po-1" && c.POLineID == "l-1" {
				t.Fatalf("claimed PO line offered again: %+v", c)
			}
		}
	}
}

func TestFindMatchesIdempotent(t *testing.T) {
	e := testEngine(t)
	piItems := []internal.PIItem{
		{LineItem: internal.LineItem{ID: "pi-1", ProductCode: util.StringPtr("NJ2214ECP"), Qty: util.FloatPtr(10)}},
		{LineItem: internal.LineItem{ID: "pi-2", ProductName: "Steel bracket", Qty: util.FloatPtr(100)}},
	}
	orders := testOrders()

	first := e.FindMatches(piItems, orders)
	second := e.FindMatches(piItems, orders)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// Full exclusivity loop: find, apply the best candidate, find again — the
// claimed PO line must never be offered to the remaining item.
func TestFindApplyFindExclusivity(t *testing.T) {
	e := testEngine(t)
	orders := testOrders()
	piItems := []internal.PIItem{
		{LineItem: internal.LineItem{ID: "pi-1", ProductCode: util.StringPtr("NJ2214ECP"), Qty: util.FloatPtr(10), UnitPrice: util.FloatPtr(145)}},
		{LineItem: internal.LineItem{ID: "pi-2", ProductCode: util.StringPtr("NJ2214ECP")}},
	}

	first := e.FindMatches(piItems, orders)
	if len(first.Matches) == 0 {
		t.Fatalf("no candidates found: %+v", first)
	}

	var selection internal.MatchCandidate
	for _, entry := range first.Matches {
		if entry.PIItem.ID == "pi-1" {
			selection = entry.Matches[0]
		}
	}
	if selection.POLineID == "" {
		t.Fatalf("pi-1 found nothing: %+v", first)
	}

	updated := ApplyMatches(piItems, map[string]internal.MatchCandidate{"pi-1": selection})
	second := e.FindMatches(updated, orders)
	for _, entry := range second.Matches {
		for _, c := range entry.Matches {
			if c.POID == selection.POID && c.POLineID == selection.POLineID {
				t.Fatalf("claimed line %s/%s proposed again to %s", c.POID, c.POLineID, entry.PIItem.ID)
			}
		}
	}
	if second.Summary.AlreadyMatchedItems != 1 {
		t.Fatalf("applied item not counted as matched: %+v", second.Summary)
	}
}

func TestFindMatchesParallelMatchesSerial(t *testing.T) {
	cfgSerial := testEngine(t)
	parallel := &Engine{
		weights:  DefaultWeights(),
		tiers:    DefaultTiers(),
		minScore: 0.30,
		workers:  4,
	}

	orders := testOrders()
	piItems := make([]internal.PIItem, 0, 40)
	for i := 0; i < 40; i++ {
		piItems = append(piItems, internal.PIItem{
			LineItem: internal.LineItem{
				ID:          fmt.Sprintf("pi-%d", i),
				ProductCode: util.StringPtr("NJ2214ECP"),
				Qty:         util.FloatPtr(float64(i)),
			},
		})
	}

	serialResult := cfgSerial.FindMatches(piItems, orders)
	parallelResult := parallel.FindMatches(piItems, orders)
	if !reflect.DeepEqual(serialResult, parallelResult) {
		t.Fatalf("parallel run diverged:\nserial:   %+v\nparallel: %+v", serialResult.Summary, parallelResult.Summary)
	}
}
