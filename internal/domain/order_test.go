package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// helper для создания корректного заказа в корзине.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:              "order-1",
		UserID:          "user-1",
		ProductID:       "product-1",
		Amount:          3,
		DeliveryAddress: "221B Baker Street",
		Status:          domain.OrderStatusPending,
		Version:         0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no user",
			mut: func(o *domain.Order) {
				o.UserID = ""
			},
		},
		{
			name: "no product",
			mut: func(o *domain.Order) {
				o.ProductID = ""
			},
		},
		{
			name: "zero amount",
			mut: func(o *domain.Order) {
				o.Amount = 0
			},
		},
		{
			name: "negative amount",
			mut: func(o *domain.Order) {
				o.Amount = -2
			},
		},
		{
			name: "no delivery address",
			mut: func(o *domain.Order) {
				o.DeliveryAddress = ""
			},
		},
		{
			name: "unknown status",
			mut: func(o *domain.Order) {
				o.Status = "archived"
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			if len(order.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestOrderStatusValid(t *testing.T) {
	valid := []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusPaid,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
		domain.OrderStatusCancelled,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Fatalf("status %q must be valid", s)
		}
	}
	if domain.OrderStatus("unknown").Valid() {
		t.Fatal("unknown status must not be valid")
	}
}

func TestOrderIsPending(t *testing.T) {
	order := makeOrder()
	if !order.IsPending() {
		t.Fatal("fresh cart order must be pending")
	}
	order.Status = domain.OrderStatusPaid
	if order.IsPending() {
		t.Fatal("paid order must not be pending")
	}
}
