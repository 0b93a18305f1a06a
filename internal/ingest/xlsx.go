package ingest

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"procure/internal"
	"procure/internal/util"
)

type columns struct {
	code  int
	name  int
	qty   int
	price int
	unit  int
}

// ParseLineItemsXLSX reads line items from the first populated sheet of a
// spreadsheet. The header row is searched within the first three rows by
// recognized column names; without one, a code/name/qty/price/unit layout is
// assumed. Rows missing a name and code are skipped and counted, never
// fatal: one malformed row must not sink an import.
func ParseLineItemsXLSX(content []byte) (items []internal.LineItem, skipped int, err error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		cols := columns{code: -1, name: -1, qty: -1, price: -1, unit: -1}
		headerRow := -1
		for i := 0; i < len(rows) && i < 3; i++ {
			if c, ok := inferColumns(rows[i]); ok {
				cols = c
				headerRow = i
				break
			}
		}
		if headerRow < 0 {
			cols = columns{code: 0, name: 1, qty: 2, price: 3, unit: 4}
		}

		for i, row := range rows {
			if i <= headerRow {
				continue
			}
			cells := normalizeCells(row)
			if len(cells) == 0 {
				continue
			}

			name := pickCell(cells, cols.name)
			code := pickCell(cells, cols.code)
			if strings.TrimSpace(name) == "" && strings.TrimSpace(code) == "" {
				skipped++
				continue
			}

			item := internal.LineItem{
				ID:          uuid.NewString(),
				ProductName: strings.TrimSpace(name),
				Qty:         util.ParseNumber(pickCell(cells, cols.qty)),
				UnitPrice:   util.ParseNumber(pickCell(cells, cols.price)),
			}
			if c := strings.TrimSpace(code); c != "" {
				item.ProductCode = util.StringPtr(c)
			}
			if u := strings.TrimSpace(pickCell(cells, cols.unit)); u != "" {
				item.Unit = util.StringPtr(u)
			}
			items = append(items, item)
		}

		if len(items) > 0 {
			break
		}
	}

	return items, skipped, nil
}

// ParsePIItemsXLSX wraps ParseLineItemsXLSX tagging every row with the
// invoice it came from.
func ParsePIItemsXLSX(content []byte, invoiceRef string) ([]internal.PIItem, int, error) {
	lines, skipped, err := ParseLineItemsXLSX(content)
	if err != nil {
		return nil, 0, err
	}
	out := make([]internal.PIItem, 0, len(lines))
	for _, line := range lines {
		out = append(out, internal.PIItem{LineItem: line, InvoiceRef: invoiceRef})
	}
	return out, skipped, nil
}

func inferColumns(row []string) (columns, bool) {
	cols := columns{code: -1, name: -1, qty: -1, price: -1, unit: -1}
	found := false
	for i, cell := range row {
		h := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case cols.code < 0 && (h == "code" || h == "sku" || h == "item code" || h == "product code" || h == "part no" || h == "article"):
			cols.code = i
			found = true
		case cols.name < 0 && (strings.Contains(h, "description") || h == "name" || h == "product" || h == "product name" || h == "item"):
			cols.name = i
			found = true
		case cols.qty < 0 && (h == "qty" || h == "quantity" || h == "qty."):
			cols.qty = i
			found = true
		case cols.price < 0 && (strings.Contains(h, "price") || h == "rate" || h == "unit cost"):
			cols.price = i
			found = true
		case cols.unit < 0 && (h == "unit" || h == "uom" || h == "units"):
			cols.unit = i
			found = true
		}
	}
	return cols, found && cols.name >= 0
}

func normalizeCells(row []string) []string {
	out := make([]string, len(row))
	empty := true
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
		if out[i] != "" {
			empty = false
		}
	}
	if empty {
		return nil
	}
	return out
}

func pickCell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
