package reconcile

import (
	"testing"

	"procure/internal"
	"procure/internal/util"
)

func testOrders() []internal.PurchaseOrder {
	return []internal.PurchaseOrder{
		{
			ID:          "po-1",
			OrderNumber: "PO-001",
			ClientName:  "Acme",
			Items: []internal.LineItem{
				{ID: "l-1", ProductCode: util.StringPtr("NJ2214ECP"), ProductName: "Connector plate", Qty: util.FloatPtr(10), UnitPrice: util.FloatPtr(145)},
				{ID: "l-2", ProductCode: util.StringPtr("XK-100"), ProductName: "Brass valve", Qty: util.FloatPtr(4), UnitPrice: util.FloatPtr(22.5)},
			},
		},
		{
			ID:          "po-2",
			OrderNumber: "PO-002",
			ClientName:  "Globex",
			Items: []internal.LineItem{
				{ID: "l-3", ProductCode: util.StringPtr("ZZ-9"), ProductName: "Steel bracket", Qty: util.FloatPtr(100), UnitPrice: util.FloatPtr(1.2)},
			},
		},
	}
}

func linkedPIItem(id, poID, lineID string) internal.PIItem {
	return internal.PIItem{
		LineItem:        internal.LineItem{ID: id, ProductName: "linked"},
		InvoiceRef:      "INV-1",
		Matched:         true,
		MatchedPOID:     util.StringPtr(poID),
		MatchedPOLineID: util.StringPtr(lineID),
	}
}

func TestBuildPoolExcludesLinkedLines(t *testing.T) {
	orders := testOrders()
	piItems := []internal.PIItem{linkedPIItem("pi-1", "po-1", "l-1")}

	pool := BuildPool(orders, piItems)
	for _, po := range pool {
		for _, line := range po.Items {
			if po.ID == "po-1" && line.ID == "l-1" {
				t.Fatalf("linked line still in pool: %+v", line)
			}
		}
	}
	if len(pool) != 2 {
		t.Fatalf("pool size=%d, want 2", len(pool))
	}
}

func TestBuildPoolDropsEmptiedOrders(t *testing.T) {
	orders := testOrders()
	piItems := []internal.PIItem{linkedPIItem("pi-1", "po-2", "l-3")}

	pool := BuildPool(orders, piItems)
	if len(pool) != 1 || pool[0].ID != "po-1" {
		t.Fatalf("pool=%+v, want only po-1", pool)
	}
}

func TestBuildPoolDoesNotMutateInput(t *testing.T) {
	orders := testOrders()
	piItems := []internal.PIItem{linkedPIItem("pi-1", "po-1", "l-1")}

	_ = BuildPool(orders, piItems)
	if len(orders[0].Items) != 2 {
		t.Fatalf("input order mutated: %+v", orders[0])
	}
}

func TestLinkedLinesIgnoresPartialLinkage(t *testing.T) {
	item := internal.PIItem{
		LineItem:    internal.LineItem{ID: "pi-1", ProductName: "half linked"},
		MatchedPOID: util.StringPtr("po-1"),
	}
	if linked := LinkedLines([]internal.PIItem{item}); len(linked) != 0 {
		t.Fatalf("partial linkage counted: %v", linked)
	}
}
