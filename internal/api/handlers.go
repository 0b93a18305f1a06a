package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"procure/internal"
	"procure/internal/reconcile"
)

func (s *Server) handleListSuppliers(w http.ResponseWriter, _ *http.Request) {
	suppliers, err := s.db.ListSuppliers()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if suppliers == nil {
		suppliers = []internal.Supplier{}
	}
	writeJSON(w, http.StatusOK, suppliers)
}

func (s *Server) handleUpsertSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier internal.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(supplier.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if supplier.ID == "" {
		supplier.ID = uuid.NewString()
	}
	if err := s.db.UpsertSupplier(supplier); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}

func (s *Server) handleListPurchaseOrders(w http.ResponseWriter, _ *http.Request) {
	orders, err := s.db.ListPurchaseOrders()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if orders == nil {
		orders = []internal.PurchaseOrder{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleListPIItems(w http.ResponseWriter, _ *http.Request) {
	items, err := s.db.ListPIItems()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []internal.PIItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// handleReconcile loads everything up front, runs the engine, and records the
// run summary. Engine-internal failures still return 200 with Success=false
// so the UI always has a renderable shape.
func (s *Server) handleReconcile(w http.ResponseWriter, _ *http.Request) {
	orders, err := s.db.ListPurchaseOrders()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	items, err := s.db.ListPIItems()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	engine := reconcile.NewEngine(s.cfg)
	result := engine.FindMatches(items, orders)
	if err := s.db.InsertRun(traceID(), result.Summary); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type applyRequest struct {
	Selections map[string]internal.MatchCandidate `json:"selections"`
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Selections) == 0 {
		writeError(w, http.StatusBadRequest, "selections is required")
		return
	}

	items, err := s.db.ListPIItems()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	updated := reconcile.ApplyMatches(items, req.Selections)
	if _, err := s.db.UpdatePIItemLinks(updated); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b[:])
}
