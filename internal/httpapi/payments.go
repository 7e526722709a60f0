package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/omnipath/internal/payments"
)

func (s *Server) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]any{"methods": s.deps.Payments.Methods()})
}

func (s *Server) handleGenerateQR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount     float64 `json:"amount"`
		Method     string  `json:"method"`
		MerchantID string  `json:"merchantId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, payments.ErrMissingFields)
		return
	}
	qr, paymentID, err := s.deps.Payments.GenerateQR(req.Amount, req.Method, req.MerchantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{
		"qrData":    qr,
		"paymentId": paymentID,
		"expiresIn": 600, // seconds
	})
}

func (s *Server) handleProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentID string  `json:"paymentId"`
		Method    string  `json:"method"`
		Amount    float64 `json:"amount"`
		UserID    string  `json:"userId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, payments.ErrMissingFields)
		return
	}
	payment, err := s.deps.Payments.Process(r.Context(), req.PaymentID, req.Method, req.Amount, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"payment": payment, "message": "Payment processed successfully"})
}

func (s *Server) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]any{"history": s.deps.Payments.History(mux.Vars(r)["userId"])})
}

func (s *Server) handleWalletBalance(w http.ResponseWriter, r *http.Request) {
	writeOK(w, map[string]any{
		"balance":  s.deps.Payments.WalletBalance(mux.Vars(r)["userId"]),
		"currency": "INR",
	})
}
