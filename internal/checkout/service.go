package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service hands out checkout sessions, one per customer. Sessions are kept
// in memory for the life of the process; their cart contents survive
// restarts through the cart service.
type Service struct {
	deps *deps

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewService wires the checkout service.
func NewService(carts cartKeeper, couponSvc couponFinder, orderSvc orderSubmitter, dishSvc dishLoader, businessSvc businessLoader) (*Service, error) {
	if carts == nil {
		return nil, errors.New("checkout service: cart service is required")
	}
	if couponSvc == nil {
		return nil, errors.New("checkout service: coupon service is required")
	}
	if orderSvc == nil {
		return nil, errors.New("checkout service: order service is required")
	}
	if dishSvc == nil {
		return nil, errors.New("checkout service: dish service is required")
	}
	if businessSvc == nil {
		return nil, errors.New("checkout service: business service is required")
	}
	return &Service{
		deps: &deps{
			carts:      carts,
			coupons:    couponSvc,
			orders:     orderSvc,
			dishes:     dishSvc,
			businesses: businessSvc,
			now:        time.Now,
		},
		sessions: map[uuid.UUID]*Session{},
	}, nil
}

// Session returns the customer's checkout session, creating it from the
// persisted cart on first use.
func (s *Service) Session(ctx context.Context, customerID uuid.UUID) (*Session, error) {
	s.mu.Lock()
	if session, ok := s.sessions[customerID]; ok {
		s.mu.Unlock()
		return session, nil
	}
	s.mu.Unlock()

	store, err := s.deps.carts.Load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have created the session while the cart loaded.
	if session, ok := s.sessions[customerID]; ok {
		return session, nil
	}
	session := &Session{
		customerID: customerID,
		deps:       s.deps,
		phase:      PhaseIdle,
		store:      store,
	}
	s.sessions[customerID] = session
	return session, nil
}

// Evict forgets a customer's in-memory session. The persisted cart is left
// alone; the next Session call rebuilds from it.
func (s *Service) Evict(customerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, customerID)
}
