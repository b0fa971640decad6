package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// timelineRepository хранит события жизненного цикла заказа в памяти.
type timelineRepository struct {
	s    *Store
	inTx bool
}

// Append добавляет событие в историю заказа.
func (r *timelineRepository) Append(_ context.Context, event domain.TimelineEvent) error {
	defer r.s.lockFor(r.inTx, false)()

	events := append(r.s.timeline[event.OrderID], event)
	sort.Slice(events, func(i, j int) bool {
		return events[i].Occurred.Before(events[j].Occurred)
	})
	r.s.timeline[event.OrderID] = events
	return nil
}

// List возвращает события заказа в хронологическом порядке.
func (r *timelineRepository) List(_ context.Context, orderID string) ([]domain.TimelineEvent, error) {
	defer r.s.lockFor(r.inTx, true)()

	events := r.s.timeline[orderID]
	result := make([]domain.TimelineEvent, len(events))
	copy(result, events)
	return result, nil
}

var _ domain.TimelineRepository = (*timelineRepository)(nil)
