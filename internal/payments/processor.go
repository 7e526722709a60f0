package payments

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrDeclined = errors.New("insufficient funds")

// Processor settles an authorized amount. The mock processor is the default
// backend; Stripe is the real-money implementation.
type Processor interface {
	Charge(ctx context.Context, amount float64, currency, method string) (transactionID string, err error)
}

// MockProcessor approves roughly nine of ten charges, standing in for an
// acquirer integration.
type MockProcessor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockProcessor() *MockProcessor {
	return &MockProcessor{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewMockProcessorWithSeed pins the outcome sequence; used by tests.
func NewMockProcessorWithSeed(seed int64) *MockProcessor {
	return &MockProcessor{rng: rand.New(rand.NewSource(seed))}
}

func (m *MockProcessor) Charge(ctx context.Context, amount float64, currency, method string) (string, error) {
	m.mu.Lock()
	ok := m.rng.Float64() > 0.1
	m.mu.Unlock()
	if !ok {
		return "", ErrDeclined
	}
	return "txn_" + uuid.NewString(), nil
}
