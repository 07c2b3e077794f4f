package dishes

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
	"github.com/mesafina-app/mesafina-backend/pkg/pagination"
)

// Service serves the customer-facing menu and the owner's dish management.
type Service interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dish, error)
	Menu(ctx context.Context, businessID uuid.UUID, params pagination.Params) ([]models.Dish, string, error)
	Create(ctx context.Context, businessID uuid.UUID, input CreateInput) (*models.Dish, error)
	Update(ctx context.Context, businessID, id uuid.UUID, input UpdateInput) (*models.Dish, error)
	SetAvailability(ctx context.Context, businessID, id uuid.UUID, available bool) (*models.Dish, error)
	ListAll(ctx context.Context, businessID uuid.UUID, params pagination.Params) ([]models.Dish, string, error)
}

// CreateInput carries the fields for a new dish.
type CreateInput struct {
	Name        string
	Description *string
	Category    *string
	PriceCents  int
	ImageURL    *string
}

// UpdateInput mutates an existing dish. Nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	Category    *string
	PriceCents  *int
	ImageURL    *string
}

type service struct {
	repo Repository
}

// NewService wires a dish service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("dishes service: repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish id is required")
	}
	dish, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dish not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load dish")
	}
	return dish, nil
}

// Menu lists the dishes customers can order right now.
func (s *service) Menu(ctx context.Context, businessID uuid.UUID, params pagination.Params) ([]models.Dish, string, error) {
	return s.list(ctx, businessID, true, params)
}

// ListAll lists every dish including unavailable ones, for the owner.
func (s *service) ListAll(ctx context.Context, businessID uuid.UUID, params pagination.Params) ([]models.Dish, string, error) {
	return s.list(ctx, businessID, false, params)
}

func (s *service) list(ctx context.Context, businessID uuid.UUID, availableOnly bool, params pagination.Params) ([]models.Dish, string, error) {
	if businessID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "business id is required")
	}
	dishes, err := s.repo.ListByBusiness(ctx, businessID, availableOnly, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list dishes")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(dishes) > limit {
		dishes = dishes[:limit]
		last := dishes[len(dishes)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return dishes, next, nil
}

func (s *service) Create(ctx context.Context, businessID uuid.UUID, input CreateInput) (*models.Dish, error) {
	if businessID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish name is required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	dish := &models.Dish{
		BusinessID:  businessID,
		Name:        name,
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		ImageURL:    input.ImageURL,
		IsAvailable: true,
	}
	created, err := s.repo.Create(ctx, dish)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create dish")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, businessID, id uuid.UUID, input UpdateInput) (*models.Dish, error) {
	dish, err := s.ownedDish(ctx, businessID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish name cannot be empty")
		}
		dish.Name = name
	}
	if input.Description != nil {
		dish.Description = input.Description
	}
	if input.Category != nil {
		dish.Category = input.Category
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		dish.PriceCents = *input.PriceCents
	}
	if input.ImageURL != nil {
		dish.ImageURL = input.ImageURL
	}

	updated, err := s.repo.Update(ctx, dish)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update dish")
	}
	return updated, nil
}

// SetAvailability toggles a dish on or off the menu. Carts already holding
// the dish keep it; availability is enforced when items are added.
func (s *service) SetAvailability(ctx context.Context, businessID, id uuid.UUID, available bool) (*models.Dish, error) {
	dish, err := s.ownedDish(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if dish.IsAvailable == available {
		return dish, nil
	}
	dish.IsAvailable = available
	updated, err := s.repo.Update(ctx, dish)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update dish availability")
	}
	return updated, nil
}

func (s *service) ownedDish(ctx context.Context, businessID, id uuid.UUID) (*models.Dish, error) {
	if businessID == uuid.Nil || id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business id and dish id are required")
	}
	dish, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dish not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load dish")
	}
	if dish.BusinessID != businessID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "dish belongs to another business")
	}
	return dish, nil
}
