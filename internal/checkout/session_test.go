package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mesafina-app/mesafina-backend/internal/cart"
	"github.com/mesafina-app/mesafina-backend/internal/coupons"
	"github.com/mesafina-app/mesafina-backend/internal/orders"
	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/enums"
	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
	"github.com/mesafina-app/mesafina-backend/pkg/stream"
)

type stubCarts struct {
	saves     int
	discards  int
	converted int
}

func (s *stubCarts) Load(_ context.Context, _ uuid.UUID) (*cart.Store, error) {
	return cart.NewStore(), nil
}

func (s *stubCarts) Save(_ context.Context, _ uuid.UUID, _ *cart.Store) error {
	s.saves++
	return nil
}

func (s *stubCarts) Discard(_ context.Context, _ uuid.UUID) error {
	s.discards++
	return nil
}

func (s *stubCarts) MarkConverted(_ context.Context, _ uuid.UUID) error {
	s.converted++
	return nil
}

func (s *stubCarts) ActiveCartID(_ context.Context, _ uuid.UUID) (*uuid.UUID, error) {
	id := uuid.New()
	return &id, nil
}

type stubCoupons struct {
	coupon *models.Coupon
}

func (s *stubCoupons) Lookup(_ context.Context, _ uuid.UUID, code string) (*models.Coupon, error) {
	if s.coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return s.coupon, nil
}

type stubOrders struct {
	submitted []orders.SubmitInput
	err       error
	block     chan struct{}
}

func (s *stubOrders) Submit(_ context.Context, input orders.SubmitInput) (*models.Order, error) {
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return nil, s.err
	}
	s.submitted = append(s.submitted, input)
	return &models.Order{
		ID:            uuid.New(),
		BusinessID:    input.BusinessID,
		CustomerID:    input.CustomerID,
		SubtotalCents: input.SubtotalCents,
		DiscountCents: input.DiscountCents,
		TotalCents:    input.SubtotalCents - input.DiscountCents + input.DeliveryFeeCents,
		Status:        enums.OrderStatusPending,
	}, nil
}

type stubDishes struct {
	byID map[uuid.UUID]*models.Dish
}

func (s *stubDishes) FindByID(_ context.Context, id uuid.UUID) (*models.Dish, error) {
	if d, ok := s.byID[id]; ok {
		return d, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dish not found")
}

type stubBusinesses struct {
	business *models.Business
}

func (s *stubBusinesses) FindByID(_ context.Context, _ uuid.UUID) (*models.Business, error) {
	return s.business, nil
}

type fixture struct {
	svc        *Service
	carts      *stubCarts
	coupons    *stubCoupons
	orders     *stubOrders
	dishes     *stubDishes
	businessID uuid.UUID
	tacos      *models.Dish
	flan       *models.Dish
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	businessID := uuid.New()
	tacos := &models.Dish{ID: uuid.New(), BusinessID: businessID, Name: "Tacos al pastor", PriceCents: 250, IsAvailable: true}
	flan := &models.Dish{ID: uuid.New(), BusinessID: businessID, Name: "Flan", PriceCents: 150, IsAvailable: true}

	carts := &stubCarts{}
	couponSvc := &stubCoupons{}
	orderSvc := &stubOrders{}
	dishSvc := &stubDishes{byID: map[uuid.UUID]*models.Dish{tacos.ID: tacos, flan.ID: flan}}
	businessSvc := &stubBusinesses{business: &models.Business{
		ID:               businessID,
		Name:             "La Fonda",
		Currency:         enums.CurrencyMXN,
		DeliveryFeeCents: 200,
		IsOpen:           true,
	}}

	svc, err := NewService(carts, couponSvc, orderSvc, dishSvc, businessSvc)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{
		svc:        svc,
		carts:      carts,
		coupons:    couponSvc,
		orders:     orderSvc,
		dishes:     dishSvc,
		businessID: businessID,
		tacos:      tacos,
		flan:       flan,
	}
}

func (f *fixture) session(t *testing.T) *Session {
	t.Helper()
	session, err := f.svc.Session(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	return session
}

func contact() ContactInfo {
	return ContactInfo{Name: "Ana Torres", Phone: "+52 555 010 0000", DeliveryAddress: "Av. Reforma 100"}
}

func TestSessionReusedPerCustomer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	customerID := uuid.New()
	first, err := f.svc.Session(context.Background(), customerID)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	second, _ := f.svc.Session(context.Background(), customerID)
	if first != second {
		t.Fatal("expected the same session for one customer")
	}

	f.svc.Evict(customerID)
	third, _ := f.svc.Session(context.Background(), customerID)
	if third == first {
		t.Fatal("expected a fresh session after eviction")
	}
}

func TestSubmitSuccessClearsCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.session(t)
	ctx := context.Background()

	if err := session.AddItem(ctx, f.tacos.ID, 3); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := session.AddItem(ctx, f.flan.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	result, err := session.Submit(ctx, contact())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Order.TotalCents != 1100 {
		t.Fatalf("expected 900+200 delivery, got %d", result.Order.TotalCents)
	}
	if session.Phase() != PhaseSucceeded {
		t.Fatalf("expected succeeded, got %q", session.Phase())
	}

	quote, err := session.Quote(ctx)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if len(quote.Items) != 0 || quote.SubtotalCents != 0 {
		t.Fatal("expected the cart released after success")
	}
	if f.orders.submitted[0].Currency != enums.CurrencyMXN {
		t.Fatalf("expected business currency, got %q", f.orders.submitted[0].Currency)
	}
	if f.carts.converted != 1 || f.carts.discards != 0 {
		t.Fatalf("expected the kept cart marked converted, got converted=%d discards=%d", f.carts.converted, f.carts.discards)
	}
}

func TestSubmitFailurePreservesCartAndCoupon(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.coupons.coupon = &models.Coupon{
		ID: uuid.New(), BusinessID: f.businessID, Code: "SAVE20",
		DiscountType: enums.DiscountTypePercentage, DiscountValue: 20, IsActive: true,
	}
	f.orders.err = pkgerrors.New(pkgerrors.CodeDependency, "order store unavailable")

	session := f.session(t)
	ctx := context.Background()
	if err := session.AddItem(ctx, f.tacos.ID, 4); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, rejection, err := session.ApplyCoupon(ctx, "SAVE20"); err != nil || rejection != nil {
		t.Fatalf("ApplyCoupon: %v %+v", err, rejection)
	}

	if _, err := session.Submit(ctx, contact()); err == nil {
		t.Fatal("expected submission failure")
	}
	if session.Phase() != PhaseFailed {
		t.Fatalf("expected failed, got %q", session.Phase())
	}

	quote, err := session.Quote(ctx)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote.SubtotalCents != 1000 || quote.CouponCode == nil {
		t.Fatalf("expected cart and coupon intact, got %+v", quote)
	}
	if quote.DiscountCents != 200 {
		t.Fatalf("expected discount still applied, got %d", quote.DiscountCents)
	}

	// A failed session can submit again.
	f.orders.err = nil
	if _, err := session.Submit(ctx, contact()); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestSubmitConcurrentGuard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.orders.block = make(chan struct{})

	session := f.session(t)
	ctx := context.Background()
	if err := session.AddItem(ctx, f.tacos.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := session.Submit(ctx, contact())
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for session.Phase() != PhaseSubmitting {
		if time.Now().After(deadline) {
			t.Fatal("first submission never started")
		}
		time.Sleep(time.Millisecond)
	}

	_, err := session.Submit(ctx, contact())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected concurrent submission rejected, got %v", err)
	}

	// The cart is locked while the submission runs.
	if err := session.AddItem(ctx, f.flan.ID, 1); pkgerrors.As(err) == nil {
		t.Fatal("expected mutations rejected mid-submission")
	}

	close(f.orders.block)
	if err := <-done; err != nil {
		t.Fatalf("first submission: %v", err)
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.session(t)

	_, err := session.Submit(context.Background(), contact())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected empty cart rejected, got %v", err)
	}
	if session.Phase() != PhaseIdle {
		t.Fatalf("expected still idle, got %q", session.Phase())
	}
}

func TestSubmitRevalidatesCoupon(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	past := time.Now().Add(time.Minute)
	f.coupons.coupon = &models.Coupon{
		ID: uuid.New(), BusinessID: f.businessID, Code: "BRIEF",
		DiscountType: enums.DiscountTypeFixed, DiscountValue: 100,
		ValidUntil: &past, IsActive: true,
	}

	session := f.session(t)
	ctx := context.Background()
	if err := session.AddItem(ctx, f.tacos.ID, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, rejection, err := session.ApplyCoupon(ctx, "BRIEF"); err != nil || rejection != nil {
		t.Fatalf("ApplyCoupon: %v %+v", err, rejection)
	}

	// The coupon expires between attach and submit.
	expired := time.Now().Add(-time.Minute)
	f.coupons.coupon.ValidUntil = &expired

	_, err := session.Submit(ctx, contact())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected stale coupon rejected at submit, got %v", err)
	}
	if len(f.orders.submitted) != 0 {
		t.Fatal("no order may be created with a stale coupon")
	}
}

func TestApplyCouponRejectionAttachesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.coupons.coupon = &models.Coupon{
		ID: uuid.New(), BusinessID: f.businessID, Code: "BIG",
		DiscountType: enums.DiscountTypePercentage, DiscountValue: 10,
		MinOrderValueCents: 10_000, IsActive: true,
	}

	session := f.session(t)
	ctx := context.Background()
	if err := session.AddItem(ctx, f.tacos.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	_, rejection, err := session.ApplyCoupon(ctx, "BIG")
	if err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	if rejection == nil || rejection.Reason != coupons.ReasonMinOrder {
		t.Fatalf("expected min order rejection, got %+v", rejection)
	}

	quote, _ := session.Quote(ctx)
	if quote.CouponCode != nil {
		t.Fatal("a rejected coupon must not attach")
	}
}

func TestApplyCouponRejectionClearsPriorCoupon(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.coupons.coupon = &models.Coupon{
		ID: uuid.New(), BusinessID: f.businessID, Code: "GOOD10",
		DiscountType: enums.DiscountTypePercentage, DiscountValue: 10, IsActive: true,
	}

	session := f.session(t)
	ctx := context.Background()
	if err := session.AddItem(ctx, f.tacos.ID, 4); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, rejection, err := session.ApplyCoupon(ctx, "GOOD10"); err != nil || rejection != nil {
		t.Fatalf("ApplyCoupon: %v %+v", err, rejection)
	}

	f.coupons.coupon = &models.Coupon{
		ID: uuid.New(), BusinessID: f.businessID, Code: "STALE",
		DiscountType: enums.DiscountTypePercentage, DiscountValue: 50, IsActive: false,
	}
	_, rejection, err := session.ApplyCoupon(ctx, "STALE")
	if err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	if rejection == nil || rejection.Reason != coupons.ReasonInactive {
		t.Fatalf("expected inactive rejection, got %+v", rejection)
	}

	quote, _ := session.Quote(ctx)
	if quote.CouponCode != nil {
		t.Fatalf("rejection must clear the prior coupon, still have %v", *quote.CouponCode)
	}
	if quote.DiscountCents != 0 {
		t.Fatalf("expected no discount after rejection, got %d", quote.DiscountCents)
	}
}

func TestRemoveLastItemDropsCoupon(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.coupons.coupon = &models.Coupon{
		ID: uuid.New(), BusinessID: f.businessID, Code: "SAVE20",
		DiscountType: enums.DiscountTypePercentage, DiscountValue: 20, IsActive: true,
	}

	session := f.session(t)
	ctx := context.Background()
	if err := session.AddItem(ctx, f.tacos.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, rejection, err := session.ApplyCoupon(ctx, "SAVE20"); err != nil || rejection != nil {
		t.Fatalf("ApplyCoupon: %v %+v", err, rejection)
	}

	if err := session.RemoveItem(ctx, f.tacos.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	quote, _ := session.Quote(ctx)
	if quote.CouponCode != nil {
		t.Fatal("expected coupon dropped with the last item")
	}
}

func TestSubmitStreamOrdering(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.session(t)
	ctx := context.Background()
	if err := session.AddItem(ctx, f.tacos.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	states := session.SubmitStream(ctx, contact())

	first := <-states
	if first.Phase != stream.PhaseLoading {
		t.Fatalf("expected loading first, got %q", first.Phase)
	}
	final := stream.Await(states)
	if final.Phase != stream.PhaseSuccess {
		t.Fatalf("expected success, got %q (%v)", final.Phase, final.Err)
	}
	if final.Value.Order == nil {
		t.Fatal("expected the order in the terminal state")
	}
	if _, more := <-states; more {
		t.Fatal("expected the stream closed after the terminal state")
	}
}

func TestQuoteIncludesDeliveryFee(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.session(t)
	ctx := context.Background()
	if err := session.AddItem(ctx, f.flan.ID, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	quote, err := session.Quote(ctx)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote.SubtotalCents != 300 || quote.DeliveryFeeCents != 200 || quote.TotalCents != 500 {
		t.Fatalf("unexpected quote %+v", quote)
	}
}
