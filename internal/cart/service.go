package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafina-app/mesafina-backend/pkg/db/models"
	"github.com/mesafina-app/mesafina-backend/pkg/enums"
	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
	"github.com/mesafina-app/mesafina-backend/pkg/redis"
)

// Service loads and persists per-customer cart state. The Store holds the
// session's working copy; the cache keeps a warm snapshot and the database
// is the durable record.
type Service interface {
	Load(ctx context.Context, customerID uuid.UUID) (*Store, error)
	Save(ctx context.Context, customerID uuid.UUID, store *Store) error
	Discard(ctx context.Context, customerID uuid.UUID) error
	MarkConverted(ctx context.Context, customerID uuid.UUID) error
	ActiveCartID(ctx context.Context, customerID uuid.UUID) (*uuid.UUID, error)
}

type service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

// NewService wires a cart service. The cache is optional.
func NewService(repo Repository, cache Cache, cacheTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, errors.New("cart service: repo is required")
	}
	if cacheTTL <= 0 {
		cacheTTL = 72 * time.Hour
	}
	return &service{repo: repo, cache: cache, cacheTTL: cacheTTL}, nil
}

type snapshot struct {
	BusinessID uuid.UUID      `json:"business_id"`
	Items      []snapshotItem `json:"items"`
}

type snapshotItem struct {
	DishID         uuid.UUID `json:"dish_id"`
	DishName       string    `json:"dish_name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	ImageURL       *string   `json:"image_url,omitempty"`
}

// Load rebuilds the customer's working cart, preferring the cached snapshot
// and falling back to the active database record. A customer with neither
// gets a fresh empty store.
func (s *service) Load(ctx context.Context, customerID uuid.UUID) (*Store, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, s.cache.CartKey(customerID.String()))
		if err == nil {
			var snap snapshot
			if jsonErr := json.Unmarshal([]byte(raw), &snap); jsonErr == nil {
				return storeFromSnapshot(snap), nil
			}
			// Corrupt snapshot: drop it and fall through to the database.
			_ = s.cache.Del(ctx, s.cache.CartKey(customerID.String()))
		} else if !errors.Is(err, redis.ErrNotFound) {
			// Cache outages degrade to the database rather than failing.
			_ = err
		}
	}

	record, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewStore(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart")
	}

	store := storeFromRecord(record)
	s.warmCache(ctx, customerID, store)
	return store, nil
}

// Save persists the working cart. An empty store abandons the active record
// and drops the snapshot; otherwise the record and its items are upserted
// and the snapshot refreshed.
func (s *service) Save(ctx context.Context, customerID uuid.UUID, store *Store) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if store == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}

	if store.IsEmpty() {
		return s.Discard(ctx, customerID)
	}

	record, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart for save")
		}
		record = &models.CartRecord{
			CustomerID: customerID,
			BusinessID: store.BusinessID(),
			Status:     enums.CartStatusActive,
		}
		if record, err = s.repo.Create(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create cart record")
		}
	} else if record.BusinessID != store.BusinessID() {
		record.BusinessID = store.BusinessID()
		if record, err = s.repo.Update(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update cart record")
		}
	}

	items := make([]models.CartItem, 0, len(store.Items()))
	for i, item := range store.Items() {
		items = append(items, models.CartItem{
			DishID:         item.DishID,
			DishName:       item.DishName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			Position:       i,
			ImageURL:       item.ImageURL,
		})
	}
	if err := s.repo.ReplaceItems(ctx, record.ID, items); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to persist cart items")
	}

	s.warmCache(ctx, customerID, store)
	return nil
}

// Discard abandons the customer's active cart and drops its snapshot.
func (s *service) Discard(ctx context.Context, customerID uuid.UUID) error {
	return s.finishActive(ctx, customerID, enums.CartStatusAbandoned)
}

// MarkConverted stamps the active cart as converted after a successful
// checkout and drops its snapshot.
func (s *service) MarkConverted(ctx context.Context, customerID uuid.UUID) error {
	return s.finishActive(ctx, customerID, enums.CartStatusConverted)
}

// ActiveCartID returns the id of the customer's active cart record, nil
// when none exists.
func (s *service) ActiveCartID(ctx context.Context, customerID uuid.UUID) (*uuid.UUID, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	record, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load active cart")
	}
	id := record.ID
	return &id, nil
}

func (s *service) finishActive(ctx context.Context, customerID uuid.UUID, status enums.CartStatus) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	record, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load active cart")
	}
	if record != nil {
		if err := s.repo.UpdateStatus(ctx, record.ID, customerID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update cart status")
		}
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, s.cache.CartKey(customerID.String()))
	}
	return nil
}

func (s *service) warmCache(ctx context.Context, customerID uuid.UUID, store *Store) {
	if s.cache == nil || store.IsEmpty() {
		return
	}
	snap := snapshot{BusinessID: store.BusinessID()}
	for _, item := range store.Items() {
		snap.Items = append(snap.Items, snapshotItem{
			DishID:         item.DishID,
			DishName:       item.DishName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			ImageURL:       item.ImageURL,
		})
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, s.cache.CartKey(customerID.String()), payload, s.cacheTTL)
}

func storeFromSnapshot(snap snapshot) *Store {
	items := make([]Item, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, Item{
			DishID:         it.DishID,
			BusinessID:     snap.BusinessID,
			DishName:       it.DishName,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
			ImageURL:       it.ImageURL,
		})
	}
	store := NewStore()
	if err := store.Restore(snap.BusinessID, items); err != nil {
		return NewStore()
	}
	return store
}

func storeFromRecord(record *models.CartRecord) *Store {
	items := make([]Item, 0, len(record.Items))
	for _, it := range record.Items {
		items = append(items, Item{
			DishID:         it.DishID,
			BusinessID:     record.BusinessID,
			DishName:       it.DishName,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
			ImageURL:       it.ImageURL,
		})
	}
	store := NewStore()
	if err := store.Restore(record.BusinessID, items); err != nil {
		return NewStore()
	}
	return store
}
