package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"procure/internal/config"
	"procure/internal/storage"
)

// Server is the JSON surface for the surrounding procurement app. The engine
// itself does no I/O; these handlers load the data, run it, and persist what
// the applier returns.
type Server struct {
	db  *storage.DB
	cfg config.Config
}

func NewServer(db *storage.DB, cfg config.Config) *Server {
	return &Server{db: db, cfg: cfg}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/suppliers", s.handleListSuppliers).Methods("GET")
	r.HandleFunc("/api/suppliers", s.handleUpsertSupplier).Methods("POST")
	r.HandleFunc("/api/purchase-orders", s.handleListPurchaseOrders).Methods("GET")
	r.HandleFunc("/api/pi-items", s.handleListPIItems).Methods("GET")
	r.HandleFunc("/api/reconcile", s.handleReconcile).Methods("POST")
	r.HandleFunc("/api/reconcile/apply", s.handleApply).Methods("POST")
	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	return r
}

func (s *Server) ListenAndServe() error {
	log.Printf("listening on %s", s.cfg.HTTPAddr)
	return http.ListenAndServe(s.cfg.HTTPAddr, s.Router())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
