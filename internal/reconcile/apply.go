package reconcile

import "procure/internal"

// ApplyMatches writes operator-confirmed selections onto a copy of the PI
// item collection. Selections are keyed by PI item ID. Items without a
// selection, items already matched, and selections whose PO line is already
// claimed (by an existing link or an earlier item in this call) pass through
// unchanged, so re-applying the same selections is a no-op and no PO line is
// ever assigned twice.
//
// The function is pure: the link ledger is not touched here, it is derived
// from the returned collection on the next reconciliation run.
func ApplyMatches(piItems []internal.PIItem, selections map[string]internal.MatchCandidate) []internal.PIItem {
	claimed := LinkedLines(piItems)

	out := make([]internal.PIItem, len(piItems))
	for i, item := range piItems {
		out[i] = item

		sel, ok := selections[item.ID]
		if !ok || isAlreadyMatched(item) {
			continue
		}
		key := LinkKey{POID: sel.POID, LineID: sel.POLineID}
		if _, taken := claimed[key]; taken {
			continue
		}
		claimed[key] = struct{}{}

		poID := sel.POID
		lineID := sel.POLineID
		confidence := sel.Confidence
		tier := sel.Tier
		out[i].MatchedPOID = &poID
		out[i].MatchedPOLineID = &lineID
		out[i].MatchedClientCode = sel.Item.ProductCode
		out[i].MatchedProjectCode = sel.ProjectCode
		out[i].Matched = true
		out[i].MatchConfidence = &confidence
		out[i].MatchTier = &tier
	}
	return out
}
