package memory

import (
	"context"
	"sort"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// orderRepository — in-memory реализация OrderRepository поверх общего Store.
type orderRepository struct {
	s    *Store
	inTx bool
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepository) Create(_ context.Context, order domain.Order) error {
	defer r.s.lockFor(r.inTx, false)()

	if _, exists := r.s.orders[order.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.s.orders[order.ID] = order
	return nil
}

// Get возвращает заказ или ErrOrderNotFound.
func (r *orderRepository) Get(_ context.Context, id string) (domain.Order, error) {
	defer r.s.lockFor(r.inTx, true)()

	order, ok := r.s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListByUser возвращает заказы пользователя в порядке создания.
func (r *orderRepository) ListByUser(_ context.Context, userID string, filter domain.OrderFilter) ([]domain.Order, error) {
	defer r.s.lockFor(r.inTx, true)()

	result := make([]domain.Order, 0)
	for _, order := range r.s.orders {
		if order.UserID != userID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		result = append(result, order)
	}

	sortByCreation(result)
	return applyPage(result, filter.Page), nil
}

// ListByStatus возвращает заказы всех пользователей с данным статусом.
func (r *orderRepository) ListByStatus(_ context.Context, status domain.OrderStatus, page domain.Page) ([]domain.Order, error) {
	defer r.s.lockFor(r.inTx, true)()

	result := make([]domain.Order, 0)
	for _, order := range r.s.orders {
		if order.Status != status {
			continue
		}
		result = append(result, order)
	}

	sortByCreation(result)
	return applyPage(result, page), nil
}

// UpdateAmount меняет количество и инкрементирует версию.
func (r *orderRepository) UpdateAmount(_ context.Context, id string, amount int64) error {
	defer r.s.lockFor(r.inTx, false)()

	order, ok := r.s.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Amount = amount
	order.Version++
	order.UpdatedAt = time.Now().UTC()
	r.s.orders[id] = order
	return nil
}

// UpdateStatus переводит заказ в новый статус.
func (r *orderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	defer r.s.lockFor(r.inTx, false)()

	order, ok := r.s.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	order.Version++
	order.UpdatedAt = time.Now().UTC()
	r.s.orders[id] = order
	return nil
}

// Delete удаляет заказ.
func (r *orderRepository) Delete(_ context.Context, id string) error {
	defer r.s.lockFor(r.inTx, false)()

	if _, ok := r.s.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.s.orders, id)
	return nil
}

func sortByCreation(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		}
		return orders[i].ID < orders[j].ID
	})
}

// applyPage применяет skip/limit; Limit <= 0 означает "вернуть всё".
func applyPage(orders []domain.Order, page domain.Page) []domain.Order {
	skip := page.Skip
	if skip < 0 {
		skip = 0
	}
	if skip >= len(orders) {
		return []domain.Order{}
	}
	orders = orders[skip:]
	if page.Limit > 0 && len(orders) > page.Limit {
		orders = orders[:page.Limit]
	}
	return orders
}

var _ domain.OrderRepository = (*orderRepository)(nil)
