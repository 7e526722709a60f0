package payments

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/omnipath/internal/models"
)

const (
	qrTTL          = 10 * time.Minute
	defaultBalance = 1000
	currency       = "INR"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrPaymentNotFound = errors.New("payment not found or already processed")
	ErrPaymentExpired  = errors.New("payment has expired")
)

// Method is an available payment instrument.
type Method struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
	Balance int    `json:"balance,omitempty"`
}

// HistoryEntry is one wallet movement line.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"` // debit, credit
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"`
	Method      string    `json:"method"`
}

// Service implements the QR payment flow: GenerateQR opens a pending
// payment with a ten-minute TTL, Process settles it through the Processor
// and debits the wallet for wallet-method payments.
type Service struct {
	Processor Processor

	mu       sync.Mutex
	payments map[string]*models.Payment
	wallets  map[string]float64
	now      func() time.Time
}

func NewService(p Processor) *Service {
	if p == nil {
		p = NewMockProcessor()
	}
	return &Service{
		Processor: p,
		payments:  make(map[string]*models.Payment),
		wallets:   make(map[string]float64),
		now:       time.Now,
	}
}

// Methods lists the supported instruments.
func (s *Service) Methods() []Method {
	return []Method{
		{ID: "wallet", Name: "OmniPath Wallet", Type: "wallet", Enabled: true, Balance: defaultBalance},
		{ID: "upi", Name: "UPI Payment", Type: "upi", Enabled: true},
		{ID: "card", Name: "Credit/Debit Card", Type: "card", Enabled: true},
	}
}

// QRData is the payload encoded into a payment QR image by the client.
type QRData struct {
	PaymentID string    `json:"paymentId"`
	Merchant  string    `json:"merchant"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Method    string    `json:"method"`
	Timestamp time.Time `json:"timestamp"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GenerateQR opens a pending payment and returns the serialized QR payload.
func (s *Service) GenerateQR(amount float64, method, merchantID string) (string, string, error) {
	if amount <= 0 || method == "" {
		return "", "", ErrMissingFields
	}
	if merchantID == "" {
		merchantID = "OmniPath Transit"
	}
	now := s.now()
	p := &models.Payment{
		ID:        "pay_" + uuid.NewString(),
		Merchant:  merchantID,
		Amount:    amount,
		Currency:  currency,
		Method:    method,
		Status:    models.PaymentPending,
		CreatedAt: now,
		ExpiresAt: now.Add(qrTTL),
	}

	s.mu.Lock()
	s.payments[p.ID] = p
	s.mu.Unlock()

	qr, err := json.Marshal(QRData{
		PaymentID: p.ID,
		Merchant:  p.Merchant,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Method:    p.Method,
		Timestamp: p.CreatedAt,
		ExpiresAt: p.ExpiresAt,
	})
	if err != nil {
		return "", "", err
	}
	return string(qr), p.ID, nil
}

// Process settles a pending payment. Expired payments are marked and
// rejected; declined charges are recorded as failed.
func (s *Service) Process(ctx context.Context, paymentID, method string, amount float64, userID string) (*models.Payment, error) {
	if paymentID == "" || method == "" || amount <= 0 {
		return nil, ErrMissingFields
	}

	s.mu.Lock()
	p, ok := s.payments[paymentID]
	if !ok || p.Status != models.PaymentPending {
		s.mu.Unlock()
		return nil, ErrPaymentNotFound
	}
	if s.now().After(p.ExpiresAt) {
		p.Status = models.PaymentExpired
		s.mu.Unlock()
		return nil, ErrPaymentExpired
	}
	s.mu.Unlock()

	txn, err := s.Processor.Charge(ctx, amount, p.Currency, method)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		p.Status = models.PaymentFailed
		p.FailureReason = err.Error()
		cp := *p
		return &cp, err
	}
	p.Status = models.PaymentCompleted
	p.ProcessedAt = s.now()
	p.TransactionID = txn
	if method == "wallet" && userID != "" {
		s.wallets[userID] = s.walletBalanceLocked(userID) - amount
	}
	cp := *p
	return &cp, nil
}

// WalletBalance returns the user's balance, seeding the demo default.
func (s *Service) WalletBalance(userID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.walletBalanceLocked(userID)
}

func (s *Service) walletBalanceLocked(userID string) float64 {
	if b, ok := s.wallets[userID]; ok {
		return b
	}
	return defaultBalance
}

// History returns recent wallet movements. Demo data until a ledger backs it.
func (s *Service) History(userID string) []HistoryEntry {
	now := s.now()
	return []HistoryEntry{
		{ID: "1", Amount: 45, Type: "debit", Description: "Metro - Central to Tech Park", Timestamp: now.Add(-time.Hour), Status: "completed", Method: "QR Payment"},
		{ID: "2", Amount: 500, Type: "credit", Description: "Wallet Top-up", Timestamp: now.Add(-2 * time.Hour), Status: "completed", Method: "UPI"},
		{ID: "3", Amount: 28, Type: "debit", Description: "Bus - Auto Pool Share", Timestamp: now.Add(-24 * time.Hour), Status: "completed", Method: "QR Payment"},
	}
}
