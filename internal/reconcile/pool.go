package reconcile

import "procure/internal"

// LinkKey identifies one PO line in the link ledger.
type LinkKey struct {
	POID   string
	LineID string
}

// LinkedLines derives the link ledger from the full PI item collection: the
// set of PO lines currently claimed by any PI item's linkage fields. The
// ledger is never persisted; it is rebuilt from the records on every run so
// repeated runs cannot go stale.
func LinkedLines(piItems []internal.PIItem) map[LinkKey]struct{} {
	linked := map[LinkKey]struct{}{}
	for _, item := range piItems {
		if item.MatchedPOID == nil || item.MatchedPOLineID == nil {
			continue
		}
		linked[LinkKey{POID: *item.MatchedPOID, LineID: *item.MatchedPOLineID}] = struct{}{}
	}
	return linked
}

// BuildPool returns filtered copies of the purchase orders containing only
// lines absent from the link ledger. Orders left with no available lines are
// dropped. The input slices are not mutated.
func BuildPool(orders []internal.PurchaseOrder, piItems []internal.PIItem) []internal.PurchaseOrder {
	linked := LinkedLines(piItems)

	pool := make([]internal.PurchaseOrder, 0, len(orders))
	for _, po := range orders {
		available := make([]internal.LineItem, 0, len(po.Items))
		for _, line := range po.Items {
			if _, taken := linked[LinkKey{POID: po.ID, LineID: line.ID}]; taken {
				continue
			}
			available = append(available, line)
		}
		if len(available) == 0 {
			continue
		}
		filtered := po
		filtered.Items = available
		pool = append(pool, filtered)
	}
	return pool
}
