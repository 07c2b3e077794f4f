package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mesafina-app/mesafina-backend/pkg/db"
	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/enums"
	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
	"github.com/mesafina-app/mesafina-backend/pkg/pagination"
)

const lookupCacheTTL = 5 * time.Minute

// Service covers both sides of the coupon domain: customer-facing lookup
// feeding the validator, and the business owner's management operations.
type Service interface {
	Lookup(ctx context.Context, businessID uuid.UUID, code string) (*models.Coupon, error)
	Create(ctx context.Context, businessID uuid.UUID, input CreateInput) (*models.Coupon, error)
	Update(ctx context.Context, businessID, id uuid.UUID, input UpdateInput) (*models.Coupon, error)
	Deactivate(ctx context.Context, businessID, id uuid.UUID) error
	List(ctx context.Context, businessID uuid.UUID, params pagination.Params) ([]models.Coupon, string, error)
	RecordUse(ctx context.Context, tx *gorm.DB, couponID uuid.UUID) error
}

// CreateInput carries the fields a business owner sets when minting a coupon.
type CreateInput struct {
	Code               string
	DiscountType       enums.DiscountType
	DiscountValue      int
	MaxDiscountCents   *int
	MinOrderValueCents int
	ValidUntil         *time.Time
	UsageLimitType     enums.UsageLimitType
	TotalUsageLimit    *int
	ApplicableDishIDs  []uuid.UUID
}

// UpdateInput mutates an existing coupon. Nil fields are left untouched.
type UpdateInput struct {
	MaxDiscountCents   *int
	MinOrderValueCents *int
	ValidUntil         *time.Time
	TotalUsageLimit    *int
	IsActive           *bool
}

type service struct {
	repo  Repository
	cache Cache
}

// NewService wires a coupon service. The cache is optional.
func NewService(repo Repository, cache Cache) (Service, error) {
	if repo == nil {
		return nil, errors.New("coupons service: repo is required")
	}
	return &service{repo: repo, cache: cache}, nil
}

// Lookup resolves a coupon code within a business, read-through cached.
// Missing codes surface as CodeNotFound.
func (s *service) Lookup(ctx context.Context, businessID uuid.UUID, code string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if businessID == uuid.Nil || code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business id and coupon code are required")
	}

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, s.cache.CouponKey(businessID.String(), code)); err == nil {
			var coupon models.Coupon
			if jsonErr := json.Unmarshal([]byte(raw), &coupon); jsonErr == nil {
				return &coupon, nil
			}
		}
	}

	coupon, err := s.repo.FindByBusinessAndCode(ctx, businessID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to look up coupon")
	}

	if s.cache != nil {
		if payload, jsonErr := json.Marshal(coupon); jsonErr == nil {
			_ = s.cache.Set(ctx, s.cache.CouponKey(businessID.String(), code), payload, lookupCacheTTL)
		}
	}
	return coupon, nil
}

// Create mints a coupon for the business. Codes are normalized to uppercase
// and must be unique within the business.
func (s *service) Create(ctx context.Context, businessID uuid.UUID, input CreateInput) (*models.Coupon, error) {
	if businessID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business id is required")
	}
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type")
	}
	if input.DiscountValue <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if input.DiscountType == enums.DiscountTypePercentage && input.DiscountValue > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	if input.MinOrderValueCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order value cannot be negative")
	}
	limitType := input.UsageLimitType
	if limitType == "" {
		limitType = enums.UsageLimitUnlimited
	}
	if !limitType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown usage limit type")
	}
	if limitType == enums.UsageLimitTotal && (input.TotalUsageLimit == nil || *input.TotalUsageLimit <= 0) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total usage limit must be positive")
	}

	coupon := &models.Coupon{
		BusinessID:         businessID,
		Code:               code,
		DiscountType:       input.DiscountType,
		DiscountValue:      input.DiscountValue,
		MaxDiscountCents:   input.MaxDiscountCents,
		MinOrderValueCents: input.MinOrderValueCents,
		ValidUntil:         input.ValidUntil,
		UsageLimitType:     limitType,
		TotalUsageLimit:    input.TotalUsageLimit,
		ApplicableDishIDs:  dishIDStrings(input.ApplicableDishIDs),
		IsActive:           true,
	}

	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_coupons_business_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists for this business")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create coupon")
	}
	return created, nil
}

// Update applies partial changes to one of the business's coupons and
// invalidates its cached lookup.
func (s *service) Update(ctx context.Context, businessID, id uuid.UUID, input UpdateInput) (*models.Coupon, error) {
	coupon, err := s.ownedCoupon(ctx, businessID, id)
	if err != nil {
		return nil, err
	}

	if input.MaxDiscountCents != nil {
		coupon.MaxDiscountCents = input.MaxDiscountCents
	}
	if input.MinOrderValueCents != nil {
		if *input.MinOrderValueCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order value cannot be negative")
		}
		coupon.MinOrderValueCents = *input.MinOrderValueCents
	}
	if input.ValidUntil != nil {
		coupon.ValidUntil = input.ValidUntil
	}
	if input.TotalUsageLimit != nil {
		if *input.TotalUsageLimit <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "total usage limit must be positive")
		}
		coupon.TotalUsageLimit = input.TotalUsageLimit
		coupon.UsageLimitType = enums.UsageLimitTotal
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update coupon")
	}
	s.invalidate(ctx, updated)
	return updated, nil
}

// Deactivate turns a coupon off without deleting its redemption history.
func (s *service) Deactivate(ctx context.Context, businessID, id uuid.UUID) error {
	coupon, err := s.ownedCoupon(ctx, businessID, id)
	if err != nil {
		return err
	}
	if !coupon.IsActive {
		return nil
	}
	coupon.IsActive = false
	if _, err := s.repo.Update(ctx, coupon); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to deactivate coupon")
	}
	s.invalidate(ctx, coupon)
	return nil
}

// List pages the business's coupons newest-first and returns the cursor for
// the next page, empty when exhausted.
func (s *service) List(ctx context.Context, businessID uuid.UUID, params pagination.Params) ([]models.Coupon, string, error) {
	if businessID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "business id is required")
	}

	coupons, err := s.repo.ListByBusiness(ctx, businessID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list coupons")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(coupons) > limit {
		coupons = coupons[:limit]
		last := coupons[len(coupons)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return coupons, next, nil
}

// RecordUse re-checks the usage limit and bumps the counter inside the
// caller's transaction. A limit reached between validation and submission
// surfaces as CodeStateConflict.
func (s *service) RecordUse(ctx context.Context, tx *gorm.DB, couponID uuid.UUID) error {
	repo := s.repo.WithTx(tx)

	coupon, err := repo.FindByID(ctx, couponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load coupon for redemption")
	}
	if coupon.UsageLimitType == enums.UsageLimitTotal &&
		coupon.TotalUsageLimit != nil && coupon.UsageCount >= *coupon.TotalUsageLimit {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "coupon usage limit reached")
	}

	if err := repo.IncrementUsage(ctx, couponID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record coupon use")
	}
	s.invalidate(ctx, coupon)
	return nil
}

func (s *service) ownedCoupon(ctx context.Context, businessID, id uuid.UUID) (*models.Coupon, error) {
	if businessID == uuid.Nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business id and coupon id are required")
	}
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load coupon")
	}
	if coupon.BusinessID != businessID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "coupon belongs to another business")
	}
	return coupon, nil
}

func (s *service) invalidate(ctx context.Context, coupon *models.Coupon) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, s.cache.CouponKey(coupon.BusinessID.String(), coupon.Code))
}

func dishIDStrings(ids []uuid.UUID) pq.StringArray {
	if len(ids) == 0 {
		return nil
	}
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
