package cart

import (
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/mesafina-app/mesafina-backend/pkg/errors"
)

func testItem(businessID uuid.UUID, price int) Item {
	return Item{
		DishID:         uuid.New(),
		BusinessID:     businessID,
		DishName:       "dish",
		UnitPriceCents: price,
	}
}

func TestAddItemMergesQuantities(t *testing.T) {
	t.Parallel()

	store := NewStore()
	businessID := uuid.New()
	dish := testItem(businessID, 500)

	for _, qty := range []int{1, 1, 3} {
		if err := store.AddItem(dish, qty); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if got := len(store.Items()); got != 1 {
		t.Fatalf("expected single merged line, got %d", got)
	}
	if got := store.Quantity(dish.DishID); got != 5 {
		t.Fatalf("expected merged quantity 5, got %d", got)
	}
	if got := store.SubtotalCents(); got != 2500 {
		t.Fatalf("expected subtotal 2500, got %d", got)
	}
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	store := NewStore()
	businessID := uuid.New()
	first := testItem(businessID, 100)
	second := testItem(businessID, 200)
	third := testItem(businessID, 300)

	for _, dish := range []Item{first, second, third} {
		if err := store.AddItem(dish, 1); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := store.AddItem(first, 1); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	items := store.Items()
	if items[0].DishID != first.DishID || items[1].DishID != second.DishID || items[2].DishID != third.DishID {
		t.Fatal("insertion order not preserved after merge")
	}
}

func TestAddItemRejectsCrossBusiness(t *testing.T) {
	t.Parallel()

	store := NewStore()
	if err := store.AddItem(testItem(uuid.New(), 500), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	err := store.AddItem(testItem(uuid.New(), 700), 1)
	if err == nil {
		t.Fatal("expected cross-business add to be rejected")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error code: %v", err)
	}
	if got := len(store.Items()); got != 1 {
		t.Fatalf("rejected add must not mutate cart, got %d lines", got)
	}
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()

	store := NewStore()
	dish := testItem(uuid.New(), 500)

	if err := store.AddItem(dish, 0); err == nil {
		t.Fatal("expected rejection of non-positive quantity")
	}
	dish.UnitPriceCents = -1
	if err := store.AddItem(dish, 1); err == nil {
		t.Fatal("expected rejection of negative price")
	}
	if err := store.AddItem(Item{BusinessID: uuid.New()}, 1); err == nil {
		t.Fatal("expected rejection of missing dish id")
	}
}

func TestUpdateQuantitySetsNotIncrements(t *testing.T) {
	t.Parallel()

	store := NewStore()
	dish := testItem(uuid.New(), 250)
	if err := store.AddItem(dish, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	store.UpdateQuantity(dish.DishID, 7)
	if got := store.Quantity(dish.DishID); got != 7 {
		t.Fatalf("expected quantity set to 7, got %d", got)
	}

	// Unknown dish is a no-op, not an error.
	store.UpdateQuantity(uuid.New(), 4)
	if got := store.ItemCount(); got != 7 {
		t.Fatalf("unexpected item count after no-op update: %d", got)
	}
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	t.Parallel()

	businessID := uuid.New()
	left := testItem(businessID, 100)
	right := testItem(businessID, 100)

	viaUpdate := NewStore()
	viaRemove := NewStore()
	for _, s := range []*Store{viaUpdate, viaRemove} {
		if err := s.AddItem(left, 2); err != nil {
			t.Fatalf("add: %v", err)
		}
		if err := s.AddItem(right, 1); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	viaUpdate.UpdateQuantity(left.DishID, 0)
	viaRemove.RemoveItem(left.DishID)

	if got, want := len(viaUpdate.Items()), len(viaRemove.Items()); got != want {
		t.Fatalf("expected identical collections, got %d vs %d", got, want)
	}
	if viaUpdate.Contains(left.DishID) || viaRemove.Contains(left.DishID) {
		t.Fatal("removed dish still present")
	}
	if viaUpdate.SubtotalCents() != viaRemove.SubtotalCents() {
		t.Fatal("subtotals diverged between update(0) and remove")
	}
}

func TestIncrementDecrement(t *testing.T) {
	t.Parallel()

	store := NewStore()
	dish := testItem(uuid.New(), 400)
	if err := store.AddItem(dish, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	store.IncrementQuantity(dish.DishID)
	if got := store.Quantity(dish.DishID); got != 2 {
		t.Fatalf("expected 2 after increment, got %d", got)
	}

	store.DecrementQuantity(dish.DishID)
	store.DecrementQuantity(dish.DishID)
	if store.Contains(dish.DishID) {
		t.Fatal("decrement below one must remove the line")
	}

	// No-ops on unknown ids.
	store.IncrementQuantity(uuid.New())
	store.DecrementQuantity(uuid.New())
}

func TestSubtotalAlwaysRecomputed(t *testing.T) {
	t.Parallel()

	store := NewStore()
	businessID := uuid.New()
	a := testItem(businessID, 500)
	b := testItem(businessID, 300)

	if err := store.AddItem(a, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.AddItem(b, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := store.SubtotalCents(); got != 1300 {
		t.Fatalf("expected 1300, got %d", got)
	}

	store.UpdateQuantity(a.DishID, 1)
	store.RemoveItem(b.DishID)
	if got := store.SubtotalCents(); got != 500 {
		t.Fatalf("expected 500 after mutations, got %d", got)
	}
	if got := store.ItemCount(); got != 1 {
		t.Fatalf("expected item count 1, got %d", got)
	}
}

func TestClearKeepsBusinessScopeResetForgets(t *testing.T) {
	t.Parallel()

	store := NewStore()
	businessID := uuid.New()
	if err := store.AddItem(testItem(businessID, 100), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	store.Clear()
	if !store.IsEmpty() {
		t.Fatal("expected empty cart after clear")
	}
	if store.BusinessID() != businessID {
		t.Fatal("clear must keep business scope")
	}

	store.Reset()
	if store.BusinessID() != uuid.Nil {
		t.Fatal("reset must forget business scope")
	}

	// After reset, any business is accepted again.
	if err := store.AddItem(testItem(uuid.New(), 100), 1); err != nil {
		t.Fatalf("add after reset: %v", err)
	}
}

func TestRestoreRebuildsSnapshot(t *testing.T) {
	t.Parallel()

	store := NewStore()
	businessID := uuid.New()
	a := testItem(businessID, 200)
	b := testItem(businessID, 350)
	a.Quantity = 2
	b.Quantity = 1

	if err := store.Restore(businessID, []Item{a, b}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := store.SubtotalCents(); got != 750 {
		t.Fatalf("expected 750 after restore, got %d", got)
	}
	if store.BusinessID() != businessID {
		t.Fatal("restore must adopt snapshot business")
	}

	items := store.Items()
	if items[0].DishID != a.DishID || items[1].DishID != b.DishID {
		t.Fatal("restore must preserve snapshot order")
	}
}
