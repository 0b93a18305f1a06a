package reconcile

import (
	"fmt"
	"sync"

	"procure/internal"
)

// parallelMinItems is the searched-item count below which the fan-out is not
// worth the goroutine overhead.
const parallelMinItems = 16

// FindMatches runs one reconciliation pass: already-matched PI items are set
// aside, the availability pool is rebuilt from the full PI collection, and
// every remaining item is scored against the pool.
//
// The result shape is always usable. Empty input yields a successful result
// with a zeroed summary; an unexpected internal failure yields Success=false
// with the error string instead of propagating.
//
// Two concurrent calls working from a stale PI snapshot can propose the same
// PO line to two different items; a single operator applying matches serially
// between runs is assumed.
func (e *Engine) FindMatches(piItems []internal.PIItem, orders []internal.PurchaseOrder) (result internal.ReconcileResult) {
	defer func() {
		if r := recover(); r != nil {
			result = internal.ReconcileResult{
				Success: false,
				Matches: []internal.ItemMatches{},
				Error:   fmt.Sprintf("reconciliation failed: %v", r),
			}
		}
	}()

	result = internal.ReconcileResult{Success: true, Matches: []internal.ItemMatches{}}
	result.Summary.TotalItems = len(piItems)
	if len(piItems) == 0 {
		return result
	}

	unmatched := make([]internal.PIItem, 0, len(piItems))
	for _, item := range piItems {
		if isAlreadyMatched(item) {
			result.Summary.AlreadyMatchedItems++
			continue
		}
		unmatched = append(unmatched, item)
	}
	result.Summary.SearchedItems = len(unmatched)

	// The pool is derived from the full collection, not just the unmatched
	// partition: any linkage on any PI item retires that PO line.
	pool := BuildPool(orders, piItems)

	candidates := e.findAll(unmatched, pool)
	for i, item := range unmatched {
		found := candidates[i]
		if len(found) == 0 {
			result.Summary.NoMatchItems++
			continue
		}
		result.Summary.MatchedItems++
		if found[0].Confidence >= 80 {
			result.Summary.HighConfidenceMatches++
		}
		result.Matches = append(result.Matches, internal.ItemMatches{PIItem: item, Matches: found})
	}

	if result.Summary.SearchedItems > 0 {
		result.Summary.MatchRate = float64(result.Summary.MatchedItems) / float64(result.Summary.SearchedItems) * 100
	}
	return result
}

// findAll evaluates every unmatched item against the pool. Items are
// independent (the pool is read-only for the whole run), so with more than
// one worker configured they are scored concurrently.
func (e *Engine) findAll(items []internal.PIItem, pool []internal.PurchaseOrder) [][]internal.MatchCandidate {
	out := make([][]internal.MatchCandidate, len(items))
	if e.workers <= 1 || len(items) < parallelMinItems {
		for i, item := range items {
			out[i] = e.FindCandidates(item, pool)
		}
		return out
	}

	var wg sync.WaitGroup
	next := make(chan int)
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				out[i] = e.FindCandidates(items[i], pool)
			}
		}()
	}
	for i := range items {
		next <- i
	}
	close(next)
	wg.Wait()
	return out
}

func isAlreadyMatched(item internal.PIItem) bool {
	return item.Matched && item.MatchedPOID != nil && item.MatchedPOLineID != nil
}
