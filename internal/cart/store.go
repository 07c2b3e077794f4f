package cart

import (
	"github.com/google/uuid"

	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
)

// Item is one dish line in the working cart.
type Item struct {
	DishID         uuid.UUID
	BusinessID     uuid.UUID
	DishName       string
	UnitPriceCents int
	Quantity       int
	ImageURL       *string
}

// LineTotalCents is the item's contribution to the subtotal.
func (i Item) LineTotalCents() int {
	return i.UnitPriceCents * i.Quantity
}

// Store is the customer's working cart: an insertion-ordered collection of
// items keyed by dish, scoped to a single business. It performs no I/O and
// holds no locks; it must be driven by one logical owner.
type Store struct {
	businessID uuid.UUID
	items      []Item
	index      map[uuid.UUID]int
}

// NewStore builds an empty cart store.
func NewStore() *Store {
	return &Store{index: map[uuid.UUID]int{}}
}

// AddItem merges a dish into the cart. An existing line has its quantity
// incremented; a new dish is appended, preserving insertion order. Adding a
// dish from a different business than the cart is scoped to is rejected;
// the caller must Reset first if the customer is switching restaurants.
func (s *Store) AddItem(dish Item, quantity int) error {
	if dish.DishID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "dish id is required")
	}
	if dish.BusinessID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "business id is required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if dish.UnitPriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	if s.businessID != uuid.Nil && s.businessID != dish.BusinessID && len(s.items) > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cart is scoped to a different business").WithDetails(map[string]any{
			"cart_business_id": s.businessID.String(),
			"dish_business_id": dish.BusinessID.String(),
		})
	}
	s.businessID = dish.BusinessID

	if pos, ok := s.index[dish.DishID]; ok {
		s.items[pos].Quantity += quantity
		return nil
	}

	dish.Quantity = quantity
	s.index[dish.DishID] = len(s.items)
	s.items = append(s.items, dish)
	return nil
}

// UpdateQuantity sets (not increments) the quantity for a dish. A quantity
// of zero or less removes the line. Unknown dishes are a no-op.
func (s *Store) UpdateQuantity(dishID uuid.UUID, quantity int) {
	pos, ok := s.index[dishID]
	if !ok {
		return
	}
	if quantity <= 0 {
		s.removeAt(pos)
		return
	}
	s.items[pos].Quantity = quantity
}

// IncrementQuantity adds one to an existing line. Unknown dishes are a no-op.
func (s *Store) IncrementQuantity(dishID uuid.UUID) {
	if pos, ok := s.index[dishID]; ok {
		s.items[pos].Quantity++
	}
}

// DecrementQuantity subtracts one from an existing line; dropping below one
// removes the line.
func (s *Store) DecrementQuantity(dishID uuid.UUID) {
	pos, ok := s.index[dishID]
	if !ok {
		return
	}
	if s.items[pos].Quantity <= 1 {
		s.removeAt(pos)
		return
	}
	s.items[pos].Quantity--
}

// RemoveItem deletes the line if present.
func (s *Store) RemoveItem(dishID uuid.UUID) {
	if pos, ok := s.index[dishID]; ok {
		s.removeAt(pos)
	}
}

// Clear empties the item collection but keeps the business scope, so a
// customer can keep ordering from the same restaurant.
func (s *Store) Clear() {
	s.items = nil
	s.index = map[uuid.UUID]int{}
}

// Reset empties the cart and forgets the business scope.
func (s *Store) Reset() {
	s.Clear()
	s.businessID = uuid.Nil
}

// Restore replaces the cart's contents with a persisted snapshot. Duplicate
// dish entries in the snapshot are merged.
func (s *Store) Restore(businessID uuid.UUID, items []Item) error {
	s.Reset()
	for _, item := range items {
		item.BusinessID = businessID
		if err := s.AddItem(item, item.Quantity); err != nil {
			s.Reset()
			return err
		}
	}
	s.businessID = businessID
	return nil
}

// ItemCount is the sum of quantities across lines, not the line count.
func (s *Store) ItemCount() int {
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// SubtotalCents recomputes the subtotal from the lines on every call.
func (s *Store) SubtotalCents() int {
	total := 0
	for _, item := range s.items {
		total += item.LineTotalCents()
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

// Contains reports whether the dish has a line in the cart.
func (s *Store) Contains(dishID uuid.UUID) bool {
	_, ok := s.index[dishID]
	return ok
}

// Quantity returns the dish's current quantity, zero when absent.
func (s *Store) Quantity(dishID uuid.UUID) int {
	if pos, ok := s.index[dishID]; ok {
		return s.items[pos].Quantity
	}
	return 0
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// DishIDs returns the dish keys in insertion order.
func (s *Store) DishIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item.DishID)
	}
	return out
}

// BusinessID returns the business the cart is scoped to, or uuid.Nil.
func (s *Store) BusinessID() uuid.UUID {
	return s.businessID
}

func (s *Store) removeAt(pos int) {
	removed := s.items[pos]
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, removed.DishID)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].DishID] = i
	}
}
