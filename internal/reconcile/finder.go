package reconcile

import (
	"sort"

	"procure/internal"
)

// FindCandidates scans the availability pool for one unmatched PI item and
// returns every candidate scoring above the acceptance threshold, best
// first. Ties keep pool order so repeated runs rank identically.
func (e *Engine) FindCandidates(item internal.PIItem, pool []internal.PurchaseOrder) []internal.MatchCandidate {
	out := []internal.MatchCandidate{}
	for _, po := range pool {
		for _, line := range po.Items {
			score, fields := e.scoreCandidate(item, line)
			if score <= e.minScore {
				continue
			}
			out = append(out, internal.MatchCandidate{
				POID:          po.ID,
				PONumber:      po.OrderNumber,
				POLineID:      line.ID,
				ClientName:    po.ClientName,
				ProjectCode:   po.ProjectCode,
				Item:          line,
				Score:         score,
				Confidence:    Confidence(score),
				Tier:          e.tiers.Classify(score),
				MatchedFields: fields,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
