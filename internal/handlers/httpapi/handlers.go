package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/paymatch"
	"github.com/gabapcia/chainledger/internal/pkg/logger"
	"github.com/gabapcia/chainledger/internal/pkg/validator"
)

type (
	errorResponse struct {
		Error string `json:"error"`
	}

	lookupTransactionRequest struct {
		SendAddress     string `json:"sendAddress"`
		Blockchain      string `json:"blockchain"`
		TransactionHash string `json:"transactionHash"`
	}

	lookupTransactionResponse struct {
		Time      time.Time `json:"time"`
		Direction string    `json:"direction"`
		Amount    string    `json:"amount"`
		From      string    `json:"fromAddress,omitempty"`
		To        string    `json:"toAddress,omitempty"`
		Hash      string    `json:"hash"`
		Found     bool      `json:"found"`
	}

	verifyPaymentRequest struct {
		AmountCents int64             `json:"amount"`
		WindowStart int64             `json:"timeRangeStart"`
		WindowEnd   int64             `json:"timeRangeEnd"`
		Identity    paymatch.Identity `json:"identity"`
	}

	verifyPaymentResponse struct {
		Success bool                   `json:"success"`
		Payment paymatch.PaymentRecord `json:"payment"`
	}
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// lookupTransactionHandler serves POST /lookup-transaction: trigger a
// fresh poll, then check the claimed hash against the chain's ledger
// partition as a received payment.
func (s *Server) lookupTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var req lookupTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := s.claims.VerifyClaim(r.Context(), req.Blockchain, req.TransactionHash, req.SendAddress)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrUnsupportedChain):
			writeError(w, http.StatusBadRequest, "Unsupported blockchain. Use bitcoin, ethereum, litecoin, or solana")
		case errors.Is(err, validator.ErrValidationFailed):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ledger.ErrTransactionNotFound):
			writeError(w, http.StatusNotFound, "Transaction not found")
		default:
			logger.Error(r.Context(), "transaction lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "transaction lookup failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, lookupTransactionResponse{
		Time:      tx.Time,
		Direction: string(tx.Direction),
		Amount:    tx.Amount,
		From:      tx.From,
		To:        tx.To,
		Hash:      tx.Hash,
		Found:     true,
	})
}

// verifyPaymentHandler serves POST /verify-payment: amount-and-window
// search over the provider's recent payments.
func (s *Server) verifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := s.payments.VerifyPayment(r.Context(), paymatch.VerificationRequest{
		AmountCents: req.AmountCents,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
		Identity:    req.Identity,
	})
	if err != nil {
		switch {
		case errors.Is(err, validator.ErrValidationFailed):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, paymatch.ErrPaymentNotFound):
			writeError(w, http.StatusNotFound, "No matching payment found")
		default:
			logger.Error(r.Context(), "payment verification failed", "error", err)
			writeError(w, http.StatusInternalServerError, "payment verification failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, verifyPaymentResponse{
		Success: true,
		Payment: payment,
	})
}
