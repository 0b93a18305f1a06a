package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"procure/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS suppliers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS purchase_orders (
  id TEXT PRIMARY KEY,
  orderNumber TEXT NOT NULL,
  clientName TEXT NOT NULL,
  projectCode TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_po_orderNumber ON purchase_orders(orderNumber);

CREATE TABLE IF NOT EXISTS po_line_items (
  id TEXT PRIMARY KEY,
  poId TEXT NOT NULL,
  position INTEGER NOT NULL,
  productCode TEXT,
  productName TEXT NOT NULL,
  qty REAL,
  unitPrice REAL,
  unit TEXT,
  FOREIGN KEY(poId) REFERENCES purchase_orders(id)
);
CREATE INDEX IF NOT EXISTS idx_po_lines_poId ON po_line_items(poId);

CREATE TABLE IF NOT EXISTS pi_items (
  id TEXT PRIMARY KEY,
  invoiceRef TEXT NOT NULL,
  productCode TEXT,
  productName TEXT NOT NULL,
  qty REAL,
  unitPrice REAL,
  unit TEXT,
  matched INTEGER NOT NULL DEFAULT 0,
  matchedPoId TEXT,
  matchedPoLineId TEXT,
  matchedClientCode TEXT,
  matchedProjectCode TEXT,
  matchConfidence INTEGER,
  matchTier TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_pi_items_invoiceRef ON pi_items(invoiceRef);
CREATE INDEX IF NOT EXISTS idx_pi_items_link ON pi_items(matchedPoId, matchedPoLineId);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  summaryJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertSupplier(s internal.Supplier) error {
	_, err := d.conn.Exec(`
INSERT INTO suppliers (id, name, email, phone)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  email=excluded.email,
  phone=excluded.phone,
  updatedAt=CURRENT_TIMESTAMP
`, s.ID, s.Name, s.Email, s.Phone)
	return err
}

func (d *DB) ListSuppliers() ([]internal.Supplier, error) {
	rows, err := d.conn.Query(`SELECT id, name, email, phone FROM suppliers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Supplier
	for rows.Next() {
		var s internal.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (d *DB) InsertPurchaseOrder(po internal.PurchaseOrder) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
INSERT INTO purchase_orders (id, orderNumber, clientName, projectCode)
VALUES (?, ?, ?, ?)
`, po.ID, po.OrderNumber, po.ClientName, po.ProjectCode); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO po_line_items (id, poId, position, productCode, productName, qty, unitPrice, unit)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, line := range po.Items {
		if _, err := stmt.Exec(line.ID, po.ID, i, line.ProductCode, line.ProductName, line.Qty, line.UnitPrice, line.Unit); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListPurchaseOrders() ([]internal.PurchaseOrder, error) {
	rows, err := d.conn.Query(`
SELECT id, orderNumber, clientName, projectCode
FROM purchase_orders ORDER BY createdAt ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.PurchaseOrder
	for rows.Next() {
		var po internal.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.OrderNumber, &po.ClientName, &po.ProjectCode); err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := d.listPOLines(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (d *DB) listPOLines(poID string) ([]internal.LineItem, error) {
	rows, err := d.conn.Query(`
SELECT id, productCode, productName, qty, unitPrice, unit
FROM po_line_items WHERE poId = ? ORDER BY position ASC`, poID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.LineItem
	for rows.Next() {
		var line internal.LineItem
		if err := rows.Scan(&line.ID, &line.ProductCode, &line.ProductName, &line.Qty, &line.UnitPrice, &line.Unit); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (d *DB) InsertPIItems(items []internal.PIItem) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO pi_items (id, invoiceRef, productCode, productName, qty, unitPrice, unit)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.Exec(item.ID, item.InvoiceRef, item.ProductCode, item.ProductName, item.Qty, item.UnitPrice, item.Unit); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListPIItems() ([]internal.PIItem, error) {
	rows, err := d.conn.Query(`
SELECT id, invoiceRef, productCode, productName, qty, unitPrice, unit,
       matched, matchedPoId, matchedPoLineId, matchedClientCode, matchedProjectCode,
       matchConfidence, matchTier
FROM pi_items ORDER BY createdAt ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.PIItem
	for rows.Next() {
		var item internal.PIItem
		var matched int
		var tier *string
		if err := rows.Scan(
			&item.ID, &item.InvoiceRef, &item.ProductCode, &item.ProductName, &item.Qty, &item.UnitPrice, &item.Unit,
			&matched, &item.MatchedPOID, &item.MatchedPOLineID, &item.MatchedClientCode, &item.MatchedProjectCode,
			&item.MatchConfidence, &tier,
		); err != nil {
			return nil, err
		}
		item.Matched = matched != 0
		if tier != nil {
			t := internal.MatchTier(*tier)
			item.MatchTier = &t
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// UpdatePIItemLinks persists the applier's output: only linkage columns are
// written, and only for items carrying a link.
func (d *DB) UpdatePIItemLinks(items []internal.PIItem) (int, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
UPDATE pi_items SET
  matched = 1,
  matchedPoId = ?,
  matchedPoLineId = ?,
  matchedClientCode = ?,
  matchedProjectCode = ?,
  matchConfidence = ?,
  matchTier = ?,
  updatedAt = CURRENT_TIMESTAMP
WHERE id = ?
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	updated := 0
	for _, item := range items {
		if !item.Matched || item.MatchedPOID == nil || item.MatchedPOLineID == nil {
			continue
		}
		var tier *string
		if item.MatchTier != nil {
			t := string(*item.MatchTier)
			tier = &t
		}
		res, err := stmt.Exec(
			item.MatchedPOID, item.MatchedPOLineID, item.MatchedClientCode, item.MatchedProjectCode,
			item.MatchConfidence, tier, item.ID,
		)
		if err != nil {
			return 0, err
		}
		if n, err := res.RowsAffected(); err == nil {
			updated += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return updated, nil
}

func (d *DB) InsertRun(traceID string, summary internal.ReconcileSummary) error {
	summaryJSON, _ := json.Marshal(summary)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, summaryJson) VALUES (?, ?)`, traceID, string(summaryJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
