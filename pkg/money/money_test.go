package money

import "testing"

func TestPercentOfFloors(t *testing.T) {
	t.Parallel()

	if got := PercentOf(999, 15); got != 149 {
		t.Fatalf("expected floor(999*15/100)=149, got %d", got)
	}
	if got := PercentOf(1000, 20); got != 200 {
		t.Fatalf("expected 200, got %d", got)
	}
	if got := PercentOf(0, 50); got != 0 {
		t.Fatalf("expected 0 for zero amount, got %d", got)
	}
	if got := PercentOf(100, 0); got != 0 {
		t.Fatalf("expected 0 for zero percent, got %d", got)
	}
}

func TestClampDiscountNeverExceedsSubtotal(t *testing.T) {
	t.Parallel()

	if got := ClampDiscount(500, 300); got != 300 {
		t.Fatalf("expected clamp to subtotal, got %d", got)
	}
	if got := ClampDiscount(200, 300); got != 200 {
		t.Fatalf("expected raw discount, got %d", got)
	}
	if got := ClampDiscount(-10, 300); got != 0 {
		t.Fatalf("negative discounts clamp to zero, got %d", got)
	}
}

func TestCapDiscount(t *testing.T) {
	t.Parallel()

	cap := 150
	if got := CapDiscount(200, &cap); got != 150 {
		t.Fatalf("expected cap applied, got %d", got)
	}
	if got := CapDiscount(100, &cap); got != 100 {
		t.Fatalf("expected raw under cap, got %d", got)
	}
	if got := CapDiscount(200, nil); got != 200 {
		t.Fatalf("expected raw when no cap, got %d", got)
	}
}

func TestDecimalRendering(t *testing.T) {
	t.Parallel()

	if got := Decimal(1250).String(); got != "12.5" {
		t.Fatalf("unexpected decimal rendering: %s", got)
	}
	if got := Decimal(1250).StringFixed(2); got != "12.50" {
		t.Fatalf("unexpected fixed rendering: %s", got)
	}
}
