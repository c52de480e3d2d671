//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"beat-fulfillment/internal/domain/purchase"
	"beat-fulfillment/internal/usecase/shared"
)

// FakePayments stands in for the hosted checkout. Sessions start unpaid; a
// test settles them with MarkPaid, the way a buyer completing checkout would.
type FakePayments struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*purchase.PaymentSession
	inputs   map[string]shared.CheckoutSessionInput
}

func NewFakePayments() *FakePayments {
	return &FakePayments{
		sessions: make(map[string]*purchase.PaymentSession),
		inputs:   make(map[string]shared.CheckoutSessionInput),
	}
}

func (f *FakePayments) CreateCheckoutSession(_ context.Context, input shared.CheckoutSessionInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	id := fmt.Sprintf("cs_test_%04d", f.seq)
	f.sessions[id] = &purchase.PaymentSession{
		ID:       id,
		Status:   purchase.PaymentStatusUnpaid,
		Metadata: input.Intent.Metadata().ToMap(),
	}
	f.inputs[id] = input
	return id, nil
}

func (f *FakePayments) FetchSession(_ context.Context, sessionID string) (*purchase.PaymentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, shared.ErrProviderSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *FakePayments) MarkPaid(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[sessionID]; ok {
		s.Status = purchase.PaymentStatusPaid
	}
}

// Input returns what checkout asked the provider to charge.
func (f *FakePayments) Input(sessionID string) (shared.CheckoutSessionInput, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.inputs[sessionID]
	return in, ok
}

func (f *FakePayments) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = make(map[string]*purchase.PaymentSession)
	f.inputs = make(map[string]shared.CheckoutSessionInput)
}

// FakeStore holds deliverable paths in memory and signs URLs with a fake host.
type FakeStore struct {
	mu      sync.Mutex
	objects map[string]struct{}
}

func NewFakeStore() *FakeStore {
	return &FakeStore{objects: make(map[string]struct{})}
}

func (f *FakeStore) Put(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[path] = struct{}{}
}

func (f *FakeStore) Exists(_ context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[path]
	return ok, nil
}

func (f *FakeStore) SignedReadURL(_ context.Context, path string, expiresAt time.Time) (string, error) {
	q := url.Values{}
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	return "https://deliverables.example.test/" + path + "?" + q.Encode(), nil
}

func (f *FakeStore) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects = make(map[string]struct{})
}
