package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newOrder(id string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:              id,
		UserID:          "user-1",
		ProductID:       "product-1",
		Amount:          3,
		DeliveryAddress: "221B Baker Street",
		Status:          domain.OrderStatusPending,
		Version:         0,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Orders()
	order := newOrder("order-1", time.Now().UTC())

	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(ctx, order); err != domain.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	stored, err := repo.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Amount != 3 || stored.Status != domain.OrderStatusPending {
		t.Fatalf("unexpected order: %+v", stored)
	}

	if _, err := repo.Get(ctx, "missing"); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListByUserOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Orders()

	base := time.Now().UTC()
	for i, id := range []string{"order-a", "order-b", "order-c"} {
		order := newOrder(id, base.Add(time.Duration(i)*time.Second))
		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("create %s failed: %v", id, err)
		}
	}

	// Limit <= 0 возвращает всё в порядке создания.
	all, err := repo.ListByUser(ctx, "user-1", domain.OrderFilter{Status: domain.OrderStatusPending})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "order-a" || all[2].ID != "order-c" {
		t.Fatalf("unexpected listing: %+v", all)
	}

	page, err := repo.ListByUser(ctx, "user-1", domain.OrderFilter{
		Status: domain.OrderStatusPending,
		Page:   domain.Page{Skip: 1, Limit: 1},
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page) != 1 || page[0].ID != "order-b" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestOrderRepository_TypedUpdates(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Orders()
	order := newOrder("order-1", time.Now().UTC())
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.UpdateAmount(ctx, order.ID, 7); err != nil {
		t.Fatalf("update amount failed: %v", err)
	}
	if err := repo.UpdateStatus(ctx, order.ID, domain.OrderStatusPaid); err != nil {
		t.Fatalf("update status failed: %v", err)
	}

	stored, err := repo.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Amount != 7 || stored.Status != domain.OrderStatusPaid {
		t.Fatalf("unexpected order after updates: %+v", stored)
	}
	if stored.Version != 2 {
		t.Fatalf("expected two version increments, got %d", stored.Version)
	}

	if err := repo.UpdateAmount(ctx, "missing", 1); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Orders()
	order := newOrder("order-1", time.Now().UTC())
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete(ctx, order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.Delete(ctx, order.ID); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
