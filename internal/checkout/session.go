package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/internal/cart"
	"github.com/mesafina-app/mesafina-backend/internal/coupons"
	"github.com/mesafina-app/mesafina-backend/internal/orders"
	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
	"github.com/mesafina-app/mesafina-backend/pkg/money"
	"github.com/mesafina-app/mesafina-backend/pkg/stream"
)

// Phase is the submission state of one customer's checkout session.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// ContactInfo is what the customer provides at submission time.
type ContactInfo struct {
	Name            string
	Phone           string
	DeliveryAddress string
	Notes           *string
}

// Quote is the priced view of the session: the cart totals with the
// attached coupon applied. Rejection is set when a coupon is attached but
// currently does not apply.
type Quote struct {
	BusinessID       uuid.UUID
	Items            []cart.Item
	SubtotalCents    int
	DiscountCents    int
	DeliveryFeeCents int
	TotalCents       int
	CouponCode       *string
	Rejection        *coupons.Rejection
	Phase            Phase
}

// Result is the terminal outcome of a submission.
type Result struct {
	Order *models.Order
}

// Session owns one customer's cart and coupon through checkout. All methods
// are safe for concurrent use; exactly one submission can be in flight at a
// time.
type Session struct {
	customerID uuid.UUID
	deps       *deps

	mu     sync.Mutex
	phase  Phase
	store  *cart.Store
	coupon *models.Coupon
}

type deps struct {
	carts      cartKeeper
	coupons    couponFinder
	orders     orderSubmitter
	dishes     dishLoader
	businesses businessLoader
	now        func() time.Time
}

// AddItem resolves the dish and merges it into the cart. Unavailable dishes
// and dishes from a different business than the cart's are rejected.
func (s *Session) AddItem(ctx context.Context, dishID uuid.UUID, quantity int) error {
	dish, err := s.deps.dishes.FindByID(ctx, dishID)
	if err != nil {
		return err
	}
	if !dish.IsAvailable {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "dish is not available")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return err
	}

	item := cart.Item{
		DishID:         dish.ID,
		BusinessID:     dish.BusinessID,
		DishName:       dish.Name,
		UnitPriceCents: dish.PriceCents,
		ImageURL:       dish.ImageURL,
	}
	if err := s.store.AddItem(item, quantity); err != nil {
		return err
	}
	return s.persistLocked(ctx)
}

// UpdateQuantity sets an item's quantity; zero or less removes it.
func (s *Session) UpdateQuantity(ctx context.Context, dishID uuid.UUID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return err
	}
	s.store.UpdateQuantity(dishID, quantity)
	s.dropCouponIfEmptyLocked()
	return s.persistLocked(ctx)
}

// RemoveItem drops a dish from the cart.
func (s *Session) RemoveItem(ctx context.Context, dishID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return err
	}
	s.store.RemoveItem(dishID)
	s.dropCouponIfEmptyLocked()
	return s.persistLocked(ctx)
}

// Clear empties the cart and detaches any coupon.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return err
	}
	s.store.Reset()
	s.coupon = nil
	return s.deps.carts.Discard(ctx, s.customerID)
}

// ApplyCoupon attaches a coupon to the session. The validation outcome is
// returned as data; a rejection leaves no coupon attached and detaches any
// previously applied one.
func (s *Session) ApplyCoupon(ctx context.Context, code string) (*coupons.AppliedDiscount, *coupons.Rejection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return nil, nil, err
	}
	if s.store.IsEmpty() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot apply a coupon to an empty cart")
	}

	coupon, err := s.deps.coupons.Lookup(ctx, s.store.BusinessID(), code)
	if err != nil {
		return nil, nil, err
	}

	applied, rejection := coupons.Validate(coupon, s.store.SubtotalCents(), s.store.DishIDs(), s.deps.now())
	if rejection != nil {
		s.coupon = nil
		return nil, rejection, nil
	}
	s.coupon = coupon
	return applied, nil, nil
}

// RemoveCoupon detaches the session's coupon, if any.
func (s *Session) RemoveCoupon() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardMutable(); err != nil {
		return err
	}
	s.coupon = nil
	return nil
}

// Quote prices the current session without mutating it.
func (s *Session) Quote(ctx context.Context) (*Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quoteLocked(ctx)
}

func (s *Session) quoteLocked(ctx context.Context) (*Quote, error) {
	quote := &Quote{
		BusinessID:    s.store.BusinessID(),
		Items:         s.store.Items(),
		SubtotalCents: s.store.SubtotalCents(),
		Phase:         s.phase,
	}

	if !s.store.IsEmpty() {
		business, err := s.deps.businesses.FindByID(ctx, s.store.BusinessID())
		if err != nil {
			return nil, err
		}
		quote.DeliveryFeeCents = business.DeliveryFeeCents
	}

	if s.coupon != nil {
		quote.CouponCode = &s.coupon.Code
		applied, rejection := coupons.Validate(s.coupon, quote.SubtotalCents, s.store.DishIDs(), s.deps.now())
		if rejection != nil {
			quote.Rejection = rejection
		} else {
			quote.DiscountCents = applied.DiscountCents
		}
	}

	quote.TotalCents = quote.SubtotalCents - money.ClampDiscount(quote.DiscountCents, quote.SubtotalCents) + quote.DeliveryFeeCents
	return quote, nil
}

// Submit runs the checkout to completion. Exactly one submission may be in
// flight; concurrent calls fail with CodeStateConflict. The cart and coupon
// survive a failed submission untouched and are released only on success.
func (s *Session) Submit(ctx context.Context, contact ContactInfo) (*Result, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	order, err := s.submit(ctx, contact)
	if err != nil {
		s.finish(PhaseFailed, false)
		return nil, err
	}
	// The cart record was converted inside the order transaction; this
	// settles any record the transaction did not cover and drops the stale
	// cached snapshot.
	_ = s.deps.carts.MarkConverted(ctx, s.customerID)
	s.finish(PhaseSucceeded, true)
	return &Result{Order: order}, nil
}

// SubmitStream is Submit exposed as a result stream: one loading state
// followed by exactly one terminal state. Callers may abandon the channel.
func (s *Session) SubmitStream(ctx context.Context, contact ContactInfo) <-chan stream.State[*Result] {
	return stream.Run(ctx, func(ctx context.Context) (*Result, error) {
		return s.Submit(ctx, contact)
	})
}

// begin moves the session into PhaseSubmitting or reports why it cannot.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseSubmitting {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "a checkout is already in progress")
	}
	if s.store.IsEmpty() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot check out an empty cart")
	}
	s.phase = PhaseSubmitting
	return nil
}

func (s *Session) finish(phase Phase, release bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = phase
	if release {
		s.store.Clear()
		s.coupon = nil
	}
}

func (s *Session) submit(ctx context.Context, contact ContactInfo) (*models.Order, error) {
	if contact.Name == "" || contact.Phone == "" || contact.DeliveryAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, phone and delivery address are required")
	}

	s.mu.Lock()
	businessID := s.store.BusinessID()
	items := s.store.Items()
	subtotal := s.store.SubtotalCents()
	dishIDs := s.store.DishIDs()
	coupon := s.coupon
	s.mu.Unlock()

	business, err := s.deps.businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !business.IsOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "business is not accepting orders")
	}

	// Coupons are re-validated at submission; they may have expired or run
	// out since they were attached.
	var couponID *uuid.UUID
	var couponCode *string
	discount := 0
	if coupon != nil {
		applied, rejection := coupons.Validate(coupon, subtotal, dishIDs, s.deps.now())
		if rejection != nil {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon is no longer valid").WithDetails(map[string]any{
				"reason": rejection.Reason,
			})
		}
		couponID = &coupon.ID
		couponCode = &coupon.Code
		discount = applied.DiscountCents
	}

	cartID, err := s.deps.carts.ActiveCartID(ctx, s.customerID)
	if err != nil {
		return nil, err
	}

	lines := make([]orders.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, orders.Line{
			DishID:         item.DishID,
			Name:           item.DishName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		})
	}

	return s.deps.orders.Submit(ctx, orders.SubmitInput{
		CustomerID:       s.customerID,
		BusinessID:       businessID,
		CartID:           cartID,
		CustomerName:     contact.Name,
		CustomerPhone:    contact.Phone,
		DeliveryAddress:  contact.DeliveryAddress,
		Notes:            contact.Notes,
		Currency:         business.Currency,
		Lines:            lines,
		CouponID:         couponID,
		CouponCode:       couponCode,
		SubtotalCents:    subtotal,
		DiscountCents:    discount,
		DeliveryFeeCents: business.DeliveryFeeCents,
	})
}

func (s *Session) guardMutable() error {
	if s.phase == PhaseSubmitting {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is locked while checkout is in progress")
	}
	return nil
}

func (s *Session) dropCouponIfEmptyLocked() {
	if s.store.IsEmpty() {
		s.coupon = nil
	}
}

func (s *Session) persistLocked(ctx context.Context) error {
	return s.deps.carts.Save(ctx, s.customerID, s.store)
}

// Phase returns the session's current submission phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}
