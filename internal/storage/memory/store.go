package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Store — in-memory реализация domain.Store для локальной разработки и тестов.
// Транзакции сериализуются одним мьютексом; откат выполняется восстановлением
// снапшота состояния, поэтому семантика all-or-nothing совпадает с PostgreSQL.
type Store struct {
	mu sync.RWMutex

	orders   map[string]domain.Order
	products map[string]domain.Product
	users    map[string]domain.User
	outbox   map[string]*outboxRecord
	timeline map[string][]domain.TimelineEvent
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		orders:   make(map[string]domain.Order),
		products: make(map[string]domain.Product),
		users:    make(map[string]domain.User),
		outbox:   make(map[string]*outboxRecord),
		timeline: make(map[string][]domain.TimelineEvent),
	}
}

// Orders возвращает репозиторий заказов с блокировкой на каждую операцию.
func (s *Store) Orders() domain.OrderRepository { return &orderRepository{s: s} }

// Products возвращает репозиторий товаров.
func (s *Store) Products() domain.ProductRepository { return &productRepository{s: s} }

// Users возвращает репозиторий пользователей.
func (s *Store) Users() domain.UserRepository { return &userRepository{s: s} }

// Outbox возвращает репозиторий transactional outbox.
func (s *Store) Outbox() domain.OutboxRepository { return &outboxRepository{s: s} }

// Timeline возвращает репозиторий событий жизненного цикла.
func (s *Store) Timeline() domain.TimelineRepository { return &timelineRepository{s: s} }

// WithinTx выполняет fn под общим локом. При ошибке состояние восстанавливается
// из снапшота целиком, частичные изменения не видны другим вызовам.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	tx := &storeTx{s: s}
	if err := fn(ctx, tx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// storeTx отдаёт репозитории, работающие без собственных локов:
// WithinTx уже держит эксклюзивный лок.
type storeTx struct {
	s *Store
}

func (t *storeTx) Orders() domain.OrderRepository     { return &orderRepository{s: t.s, inTx: true} }
func (t *storeTx) Products() domain.ProductRepository { return &productRepository{s: t.s, inTx: true} }
func (t *storeTx) Users() domain.UserRepository       { return &userRepository{s: t.s, inTx: true} }
func (t *storeTx) Outbox() domain.OutboxRepository    { return &outboxRepository{s: t.s, inTx: true} }
func (t *storeTx) Timeline() domain.TimelineRepository {
	return &timelineRepository{s: t.s, inTx: true}
}

type storeSnapshot struct {
	orders   map[string]domain.Order
	products map[string]domain.Product
	users    map[string]domain.User
	outbox   map[string]*outboxRecord
	timeline map[string][]domain.TimelineEvent
}

func (s *Store) snapshot() storeSnapshot {
	snap := storeSnapshot{
		orders:   make(map[string]domain.Order, len(s.orders)),
		products: make(map[string]domain.Product, len(s.products)),
		users:    make(map[string]domain.User, len(s.users)),
		outbox:   make(map[string]*outboxRecord, len(s.outbox)),
		timeline: make(map[string][]domain.TimelineEvent, len(s.timeline)),
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.outbox {
		rec := *v
		snap.outbox[k] = &rec
	}
	for k, v := range s.timeline {
		events := make([]domain.TimelineEvent, len(v))
		copy(events, v)
		snap.timeline[k] = events
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.orders = snap.orders
	s.products = snap.products
	s.users = snap.users
	s.outbox = snap.outbox
	s.timeline = snap.timeline
}

// unlocked возвращает no-op, когда репозиторий работает внутри транзакции.
func (s *Store) lockFor(inTx bool, read bool) func() {
	if inTx {
		return func() {}
	}
	if read {
		s.mu.RLock()
		return s.mu.RUnlock
	}
	s.mu.Lock()
	return s.mu.Unlock
}

var _ domain.Store = (*Store)(nil)
