package app

import (
	"context"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestNewDependencies_MemoryFallback(t *testing.T) {
	deps, err := NewDependencies(context.Background(), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer deps.Close()

	if deps.Store == nil {
		t.Fatal("expected store to be initialized")
	}
	if deps.Producer != nil {
		t.Error("expected no kafka producer without brokers")
	}
	if deps.Publisher != nil {
		t.Error("expected no outbox publisher without brokers")
	}
	if deps.Health == nil {
		t.Fatal("expected health handler to be initialized")
	}
	if deps.Logger == nil {
		t.Error("expected logger fallback")
	}
}

func TestNewDependencies_StoreIsUsable(t *testing.T) {
	deps, err := NewDependencies(context.Background(), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer deps.Close()

	if _, err := deps.Store.Products().List(context.Background(), domain.Page{}); err != nil {
		t.Fatalf("expected empty product list, got error: %v", err)
	}
}
