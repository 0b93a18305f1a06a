package reconcile

import (
	"math"

	"procure/internal"
)

// materialContribution is the per-field score above which the field is
// reported in MatchedFields for audit display.
const materialContribution = 0.5

// qtyPartialCredit applies when both quantities are present but differ;
// partial shipments make small quantity drift common.
const qtyPartialCredit = 0.5

// Weights holds the per-field contribution weights for the candidate scorer.
type Weights struct {
	Code  float64
	Name  float64
	Qty   float64
	Price float64
}

func DefaultWeights() Weights {
	return Weights{Code: 0.40, Name: 0.35, Qty: 0.15, Price: 0.10}
}

// scoreFields computes the weighted partial score for a (PI item, PO line)
// pair together with the total weight of the fields that were actually
// comparable. A field missing on either side is skipped entirely so items
// are not penalized for simply lacking a price or quantity.
func (w Weights) scoreFields(pi internal.PIItem, po internal.LineItem) (score, weight float64, fields []string) {
	piCode := ""
	if pi.ProductCode != nil {
		piCode = *pi.ProductCode
	}
	poCode := ""
	if po.ProductCode != nil {
		poCode = *po.ProductCode
	}
	if piCode != "" && poCode != "" {
		s := CodeSimilarity(piCode, poCode)
		score += s * w.Code
		weight += w.Code
		if s >= materialContribution {
			fields = append(fields, "productCode")
		}
	}

	if pi.ProductName != "" && po.ProductName != "" {
		s := Similarity(pi.ProductName, po.ProductName)
		score += s * w.Name
		weight += w.Name
		if s >= materialContribution {
			fields = append(fields, "productName")
		}
	}

	if pi.Qty != nil && po.Qty != nil {
		s := qtyPartialCredit
		if *pi.Qty == *po.Qty {
			s = 1
		}
		score += s * w.Qty
		weight += w.Qty
		if s >= materialContribution {
			fields = append(fields, "qty")
		}
	}

	if pi.UnitPrice != nil && po.UnitPrice != nil && *pi.UnitPrice > 0 && *po.UnitPrice > 0 {
		s := priceCloseness(*pi.UnitPrice, *po.UnitPrice)
		score += s * w.Price
		weight += w.Price
		if s >= materialContribution {
			fields = append(fields, "unitPrice")
		}
	}

	return score, weight, fields
}

func priceCloseness(a, b float64) float64 {
	max := math.Max(a, b)
	s := 1 - math.Abs(a-b)/max
	if s < 0 {
		return 0
	}
	return s
}
