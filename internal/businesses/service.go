package businesses

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/enums"
	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
	"github.com/mesafina-app/mesafina-backend/pkg/pagination"
)

// Service manages restaurant profiles.
type Service interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	Create(ctx context.Context, input CreateInput) (*models.Business, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Business, error)
	List(ctx context.Context, openOnly bool, params pagination.Params) ([]models.Business, string, error)
}

// CreateInput carries the fields for a new business.
type CreateInput struct {
	Name             string
	Address          string
	Phone            *string
	Currency         enums.Currency
	DeliveryFeeCents int
}

// UpdateInput mutates an existing business. Nil fields are left untouched.
type UpdateInput struct {
	Name             *string
	Address          *string
	Phone            *string
	DeliveryFeeCents *int
	IsOpen           *bool
}

type service struct {
	repo Repository
}

// NewService wires a business service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("businesses service: repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business id is required")
	}
	business, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load business")
	}
	return business, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Business, error) {
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)
	if name == "" || address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name and address are required")
	}
	if input.DeliveryFeeCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee cannot be negative")
	}
	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyUSD
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown currency")
	}

	business := &models.Business{
		Name:             name,
		Address:          address,
		Phone:            input.Phone,
		Currency:         currency,
		DeliveryFeeCents: input.DeliveryFeeCents,
		IsOpen:           true,
	}
	created, err := s.repo.Create(ctx, business)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create business")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Business, error) {
	business, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name cannot be empty")
		}
		business.Name = name
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "business address cannot be empty")
		}
		business.Address = address
	}
	if input.Phone != nil {
		business.Phone = input.Phone
	}
	if input.DeliveryFeeCents != nil {
		if *input.DeliveryFeeCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee cannot be negative")
		}
		business.DeliveryFeeCents = *input.DeliveryFeeCents
	}
	if input.IsOpen != nil {
		business.IsOpen = *input.IsOpen
	}

	updated, err := s.repo.Update(ctx, business)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update business")
	}
	return updated, nil
}

func (s *service) List(ctx context.Context, openOnly bool, params pagination.Params) ([]models.Business, string, error) {
	businesses, err := s.repo.List(ctx, openOnly, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list businesses")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(businesses) > limit {
		businesses = businesses[:limit]
		last := businesses[len(businesses)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return businesses, next, nil
}
