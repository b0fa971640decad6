package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestProductValidateInvariants(t *testing.T) {
	product := domain.Product{Name: "mate-tea", Title: "Mate tea 500g", PriceMinor: 990, Stock: 5}
	if errs := product.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}

	product.Name = ""
	product.PriceMinor = -1
	product.Stock = -1
	if errs := product.ValidateInvariants(); len(errs) != 3 {
		t.Fatalf("expected 3 validation errors, got %v", errs)
	}
}
