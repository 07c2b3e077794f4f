package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/enums"
	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
	"github.com/mesafina-app/mesafina-backend/pkg/pagination"
)

type stubRepo struct {
	byID      map[uuid.UUID]*models.Coupon
	createErr error
	increments int
}

func newStubRepo(coupons ...*models.Coupon) *stubRepo {
	r := &stubRepo{byID: map[uuid.UUID]*models.Coupon{}}
	for _, c := range coupons {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.byID[c.ID] = c
	}
	return r
}

func (r *stubRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubRepo) FindByBusinessAndCode(_ context.Context, businessID uuid.UUID, code string) (*models.Coupon, error) {
	for _, c := range r.byID {
		if c.BusinessID == businessID && c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Coupon, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepo) Create(_ context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	coupon.ID = uuid.New()
	r.byID[coupon.ID] = coupon
	return coupon, nil
}

func (r *stubRepo) Update(_ context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	r.byID[coupon.ID] = coupon
	return coupon, nil
}

func (r *stubRepo) ListByBusiness(_ context.Context, businessID uuid.UUID, _ pagination.Params) ([]models.Coupon, error) {
	var out []models.Coupon
	for _, c := range r.byID {
		if c.BusinessID == businessID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubRepo) IncrementUsage(_ context.Context, id uuid.UUID) error {
	r.increments++
	if c, ok := r.byID[id]; ok {
		c.UsageCount++
	}
	return nil
}

type stubCache struct {
	entries map[string]string
	sets    int
	dels    int
}

func newStubCache() *stubCache { return &stubCache{entries: map[string]string{}} }

func (c *stubCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := c.entries[key]; ok {
		return v, nil
	}
	return "", gorm.ErrRecordNotFound
}

func (c *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.sets++
	switch v := value.(type) {
	case []byte:
		c.entries[key] = string(v)
	case string:
		c.entries[key] = v
	}
	return nil
}

func (c *stubCache) Del(_ context.Context, keys ...string) error {
	c.dels++
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *stubCache) CouponKey(businessID, code string) string {
	return "coupon:" + businessID + ":" + code
}

func TestLookupNormalizesAndCaches(t *testing.T) {
	t.Parallel()

	businessID := uuid.New()
	coupon := &models.Coupon{BusinessID: businessID, Code: "SAVE20", DiscountType: enums.DiscountTypePercentage, DiscountValue: 20, IsActive: true}
	repo := newStubRepo(coupon)
	cache := newStubCache()

	svc, err := NewService(repo, cache)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got, err := svc.Lookup(context.Background(), businessID, "  save20 ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.ID != coupon.ID {
		t.Fatal("expected the stored coupon")
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}

	// Second lookup must be served from cache.
	if _, err := svc.Lookup(context.Background(), businessID, "SAVE20"); err != nil {
		t.Fatalf("cached Lookup: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected cache hit, got %d writes", cache.sets)
	}
}

func TestLookupNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubRepo(), nil)
	_, err := svc.Lookup(context.Background(), uuid.New(), "NOPE")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubRepo(), nil)
	businessID := uuid.New()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing code", CreateInput{DiscountType: enums.DiscountTypeFixed, DiscountValue: 100}},
		{"bad type", CreateInput{Code: "X", DiscountType: "bogo", DiscountValue: 100}},
		{"zero value", CreateInput{Code: "X", DiscountType: enums.DiscountTypeFixed}},
		{"over 100 percent", CreateInput{Code: "X", DiscountType: enums.DiscountTypePercentage, DiscountValue: 120}},
		{"limited without limit", CreateInput{Code: "X", DiscountType: enums.DiscountTypeFixed, DiscountValue: 100, UsageLimitType: enums.UsageLimitTotal}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), businessID, tc.input)
			if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected CodeValidation, got %v", err)
			}
		})
	}
}

func TestCreateUppercasesCode(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubRepo(), nil)
	created, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Code:          "save20",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: 20,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Code != "SAVE20" {
		t.Fatalf("expected uppercase code, got %q", created.Code)
	}
	if created.UsageLimitType != enums.UsageLimitUnlimited {
		t.Fatalf("expected unlimited default, got %q", created.UsageLimitType)
	}
}

func TestCreateDuplicateCodeConflicts(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	repo.createErr = errors.New(`ERROR: duplicate key value violates unique constraint "idx_coupons_business_code" (SQLSTATE 23505)`)

	svc, _ := NewService(repo, nil)
	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Code:          "TWICE",
		DiscountType:  enums.DiscountTypeFixed,
		DiscountValue: 100,
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CodeConflict for duplicate code, got %v", err)
	}
}

func TestDeactivateInvalidatesCache(t *testing.T) {
	t.Parallel()

	businessID := uuid.New()
	coupon := &models.Coupon{BusinessID: businessID, Code: "GONE", DiscountType: enums.DiscountTypeFixed, DiscountValue: 100, IsActive: true}
	repo := newStubRepo(coupon)
	cache := newStubCache()
	payload, _ := json.Marshal(coupon)
	cache.entries[cache.CouponKey(businessID.String(), "GONE")] = string(payload)

	svc, _ := NewService(repo, cache)
	if err := svc.Deactivate(context.Background(), businessID, coupon.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if coupon.IsActive {
		t.Fatal("expected coupon inactive")
	}
	if _, ok := cache.entries[cache.CouponKey(businessID.String(), "GONE")]; ok {
		t.Fatal("expected cached lookup dropped")
	}
}

func TestDeactivateWrongBusiness(t *testing.T) {
	t.Parallel()

	coupon := &models.Coupon{BusinessID: uuid.New(), Code: "X", DiscountType: enums.DiscountTypeFixed, DiscountValue: 1, IsActive: true}
	svc, _ := NewService(newStubRepo(coupon), nil)

	err := svc.Deactivate(context.Background(), uuid.New(), coupon.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected CodeForbidden, got %v", err)
	}
}

func TestRecordUseLimitRace(t *testing.T) {
	t.Parallel()

	limit := 1
	coupon := &models.Coupon{
		BusinessID:      uuid.New(),
		Code:            "ONCE",
		DiscountType:    enums.DiscountTypeFixed,
		DiscountValue:   100,
		UsageLimitType:  enums.UsageLimitTotal,
		TotalUsageLimit: &limit,
		IsActive:        true,
	}
	repo := newStubRepo(coupon)
	svc, _ := NewService(repo, nil)

	if err := svc.RecordUse(context.Background(), nil, coupon.ID); err != nil {
		t.Fatalf("first RecordUse: %v", err)
	}
	err := svc.RecordUse(context.Background(), nil, coupon.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected CodeStateConflict at limit, got %v", err)
	}
	if repo.increments != 1 {
		t.Fatalf("expected a single increment, got %d", repo.increments)
	}
}
