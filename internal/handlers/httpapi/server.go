// Package httpapi exposes the claim and payment verification services over
// a small REST surface.
package httpapi

import (
	"net/http"

	"github.com/gabapcia/chainledger/internal/claimcheck"
	"github.com/gabapcia/chainledger/internal/paymatch"

	"github.com/gorilla/mux"
)

// Server bundles the verification services behind HTTP handlers.
type Server struct {
	claims   claimcheck.Service
	payments paymatch.Service
}

// NewServer creates the HTTP handler surface for the given services.
func NewServer(claims claimcheck.Service, payments paymatch.Service) *Server {
	return &Server{
		claims:   claims,
		payments: payments,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/lookup-transaction", s.lookupTransactionHandler).Methods(http.MethodPost)
	r.HandleFunc("/verify-payment", s.verifyPaymentHandler).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
