// Package server implements the bill service HTTP API.
//
// The endpoints are the CRUD contract the gateway client consumes, scoped
// by bill id:
//
//	GET    /bills                      list bills with derived totals
//	POST   /bills                      create a bill
//	GET    /bills/{billID}/items       list items
//	POST   /bills/{billID}/items       create item (assigns id)
//	PUT    /bills/{billID}/items/{id}  replace item fields
//	DELETE /bills/{billID}/items/{id}  delete item
//
// and the same four under /bills/{billID}/fees. The database is the source
// of truth; responses always carry the canonical post-mutation entity.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ncolosso/splitter/internal/storage"
)

// Server holds the handler dependencies.
type Server struct {
	store storage.Store
}

// New creates a Server backed by the given store.
func New(store storage.Store) *Server {
	return &Server{store: store}
}

// Handler builds the route table with logging and CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /bills", s.handleListBills)
	mux.HandleFunc("POST /bills", s.handleCreateBill)
	mux.HandleFunc("GET /bills/{billID}", s.handleGetBill)

	mux.HandleFunc("GET /bills/{billID}/items", s.handleListItems)
	mux.HandleFunc("POST /bills/{billID}/items", s.handleCreateItem)
	mux.HandleFunc("PUT /bills/{billID}/items/{itemID}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /bills/{billID}/items/{itemID}", s.handleDeleteItem)

	mux.HandleFunc("GET /bills/{billID}/fees", s.handleListFees)
	mux.HandleFunc("POST /bills/{billID}/fees", s.handleCreateFee)
	mux.HandleFunc("PUT /bills/{billID}/fees/{feeID}", s.handleUpdateFee)
	mux.HandleFunc("DELETE /bills/{billID}/fees/{feeID}", s.handleDeleteFee)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(corsMiddleware(mux))
}
