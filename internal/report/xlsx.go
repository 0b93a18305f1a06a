package report

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"procure/internal"
	"procure/internal/util"
)

// BuildRows flattens one reconciliation result into export rows, one per PI
// item that found candidates, ordered as the engine ranked them.
func BuildRows(result internal.ReconcileResult) []internal.ReconcileExportRow {
	out := make([]internal.ReconcileExportRow, 0, len(result.Matches))
	for _, entry := range result.Matches {
		row := internal.ReconcileExportRow{
			InvoiceRef:  entry.PIItem.InvoiceRef,
			PIItemID:    entry.PIItem.ID,
			ProductCode: entry.PIItem.ProductCode,
			ProductName: entry.PIItem.ProductName,
			Qty:         entry.PIItem.Qty,
			UnitPrice:   entry.PIItem.UnitPrice,
		}
		if len(entry.Matches) > 0 {
			best := entry.Matches[0]
			row.PONumber = util.StringPtr(best.PONumber)
			row.POLineCode = best.Item.ProductCode
			row.POLineName = util.StringPtr(best.Item.ProductName)
			row.POQty = best.Item.Qty
			row.POUnitPrice = best.Item.UnitPrice
			row.Score = util.FloatPtr(best.Score)
			row.Confidence = util.IntPtr(best.Confidence)
			row.Tier = util.StringPtr(string(best.Tier))
			row.MatchedFields = util.StringPtr(strings.Join(best.MatchedFields, ","))
		}
		if len(entry.Matches) > 1 {
			second := entry.Matches[1]
			row.Candidate2Name = util.StringPtr(second.Item.ProductName)
			row.Candidate2Score = util.FloatPtr(second.Score)
		}
		out = append(out, row)
	}
	return out
}

// DocumentTotal sums qty×price over a set of lines. Decimal arithmetic keeps
// the exported amounts free of float accumulation drift.
func DocumentTotal(items []internal.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Qty == nil || item.UnitPrice == nil {
			continue
		}
		qty := decimal.NewFromFloat(*item.Qty)
		price := decimal.NewFromFloat(*item.UnitPrice)
		total = total.Add(qty.Mul(price))
	}
	return total.Round(2)
}

func PITotal(items []internal.PIItem) decimal.Decimal {
	lines := make([]internal.LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.LineItem)
	}
	return DocumentTotal(lines)
}

func ExportXLSX(rows []internal.ReconcileExportRow, summary internal.ReconcileSummary, piTotal decimal.Decimal, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"invoice_ref", "pi_item_id", "product_code", "product_name", "qty", "unit_price",
		"po_number", "po_line_code", "po_line_name", "po_qty", "po_unit_price",
		"score", "confidence", "tier", "matched_fields",
		"candidate2_name", "candidate2_score",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.InvoiceRef)
		set(2, row.PIItemID)
		set(3, util.DerefString(row.ProductCode))
		set(4, row.ProductName)
		set(5, util.DerefFloat(row.Qty))
		set(6, util.DerefFloat(row.UnitPrice))
		set(7, util.DerefString(row.PONumber))
		set(8, util.DerefString(row.POLineCode))
		set(9, util.DerefString(row.POLineName))
		set(10, util.DerefFloat(row.POQty))
		set(11, util.DerefFloat(row.POUnitPrice))
		set(12, util.DerefFloat(row.Score))
		set(13, util.DerefInt(row.Confidence))
		set(14, util.DerefString(row.Tier))
		set(15, util.DerefString(row.MatchedFields))
		set(16, util.DerefString(row.Candidate2Name))
		set(17, util.DerefFloat(row.Candidate2Score))
	}

	summaryRow := len(rows) + 3
	writeSummary := func(offset int, label string, value any) {
		labelCell, _ := excelize.CoordinatesToCellName(1, summaryRow+offset)
		valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow+offset)
		_ = f.SetCellValue(sheet, labelCell, label)
		_ = f.SetCellValue(sheet, valueCell, value)
	}
	writeSummary(0, "total_items", summary.TotalItems)
	writeSummary(1, "already_matched", summary.AlreadyMatchedItems)
	writeSummary(2, "searched", summary.SearchedItems)
	writeSummary(3, "with_candidates", summary.MatchedItems)
	writeSummary(4, "no_candidates", summary.NoMatchItems)
	writeSummary(5, "high_confidence", summary.HighConfidenceMatches)
	writeSummary(6, "match_rate_pct", summary.MatchRate)
	writeSummary(7, "pi_total_amount", piTotal.InexactFloat64())

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
