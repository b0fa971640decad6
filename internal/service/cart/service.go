package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/notify"
)

// Options задаёт параметры сервиса корзины.
type Options struct {
	Logger  *log.Entry
	Metrics *metrics.CheckoutMetrics
	Now     func() time.Time
	NewID   func() string
}

// Option настраивает Service.
type Option func(*Options)

// WithLogger задаёт logger для сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMetrics задаёт метрики checkout.
func WithMetrics(m *metrics.CheckoutMetrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// WithClock задаёт источник времени (детерминированные тесты).
func WithClock(now func() time.Time) Option {
	return func(opts *Options) {
		opts.Now = now
	}
}

// WithIDGenerator задаёт генератор идентификаторов заказов.
func WithIDGenerator(newID func() string) Option {
	return func(opts *Options) {
		opts.NewID = newID
	}
}

// Service управляет жизненным циклом заказов: корзина — это pending-заказы
// пользователя, выкуп переводит их в paid и списывает остатки.
// Каждая публичная операция выполняется внутри одной транзакции стора.
type Service struct {
	store   domain.Store
	logger  *log.Entry
	metrics *metrics.CheckoutMetrics
	now     func() time.Time
	newID   func() string
}

// NewService создаёт сервис корзины.
func NewService(store domain.Store, options ...Option) *Service {
	opts := Options{}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "cart")
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Service{
		store:   store,
		logger:  logger,
		metrics: opts.Metrics,
		now:     now,
		newID:   newID,
	}
}

// AddToCart создаёт pending-заказ на amount единиц товара.
// Допуск проверяется по остатку на момент вызова: amount больше остатка —
// ErrInsufficientStock. Проверка не резервирует товар, поэтому к моменту
// выкупа остатка может уже не хватать (разрешается клэмпом в Checkout).
func (s *Service) AddToCart(ctx context.Context, userID, productID string, amount int64) (domain.Order, error) {
	if amount <= 0 {
		return domain.Order{}, domain.ErrAmountInvalid
	}

	var order domain.Order
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		product, err := tx.Products().Get(ctx, productID)
		if err != nil {
			return err
		}
		if amount > product.Stock {
			return domain.ErrInsufficientStock
		}

		now := s.now()
		order = domain.Order{
			ID:              s.newID(),
			UserID:          user.ID,
			ProductID:       product.ID,
			Amount:          amount,
			DeliveryAddress: user.Address,
			Status:          domain.OrderStatusPending,
			Version:         1,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if errs := order.ValidateInvariants(); len(errs) > 0 {
			return errs[0]
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		return tx.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  order.ID,
			Type:     domain.TimelineOrderCreated,
			Occurred: now,
		})
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.recordCartOperation("add")
	s.logger.WithFields(log.Fields{
		"order_id":   order.ID,
		"user_id":    userID,
		"product_id": productID,
		"amount":     amount,
	}).Info("order added to cart")

	return order, nil
}

// ListCart возвращает pending-заказы пользователя в порядке создания.
func (s *Service) ListCart(ctx context.Context, userID string, page domain.Page) ([]domain.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID, domain.OrderFilter{
		Status: domain.OrderStatusPending,
		Page:   page,
	})
}

// UpdateItem меняет количество в pending-заказе. Менять чужие заказы
// нельзя даже менеджеру.
func (s *Service) UpdateItem(ctx context.Context, userID, orderID string, newAmount int64) (domain.Order, error) {
	if newAmount <= 0 {
		return domain.Order{}, domain.ErrAmountInvalid
	}

	var updated domain.Order
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		order, err := tx.Orders().Get(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return domain.ErrNotOwner
		}
		if !order.IsPending() {
			return domain.ErrInvalidOrderState
		}

		if err := tx.Orders().UpdateAmount(ctx, orderID, newAmount); err != nil {
			return err
		}
		if err := tx.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  orderID,
			Type:     domain.TimelineOrderAmountChanged,
			Occurred: s.now(),
		}); err != nil {
			return err
		}

		updated, err = tx.Orders().Get(ctx, orderID)
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.recordCartOperation("update")
	return updated, nil
}

// RemoveItem удаляет pending-заказ из корзины владельца.
func (s *Service) RemoveItem(ctx context.Context, userID, orderID string) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		order, err := tx.Orders().Get(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return domain.ErrNotOwner
		}
		if !order.IsPending() {
			return domain.ErrInvalidOrderState
		}

		if err := tx.Orders().Delete(ctx, orderID); err != nil {
			return err
		}
		return tx.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  orderID,
			Type:     domain.TimelineOrderRemoved,
			Occurred: s.now(),
		})
	})
	if err != nil {
		return err
	}

	s.recordCartOperation("remove")
	return nil
}

// Checkout выкупает корзину пользователя в одной транзакции: каждый
// pending-заказ в порядке создания списывает остаток товара и переходит
// в paid. Если остатка не хватает, заказ урезается до остатка, а остаток
// обнуляется. Любая ошибка стора откатывает выкуп целиком.
func (s *Service) Checkout(ctx context.Context, userID string, page domain.Page) ([]domain.Order, error) {
	start := s.now()
	if s.metrics != nil {
		s.metrics.RecordCheckoutStarted()
		defer func() {
			s.metrics.RecordCheckoutFinished()
			s.metrics.RecordCheckoutDuration(time.Since(start))
		}()
	}

	var paidIDs []string
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return err
		}

		pending, err := tx.Orders().ListByUser(ctx, userID, domain.OrderFilter{
			Status: domain.OrderStatusPending,
			Page:   page,
		})
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		paid := make([]domain.Order, 0, len(pending))
		for _, order := range pending {
			fulfilled, err := s.fulfill(ctx, tx, order)
			if err != nil {
				return err
			}
			paid = append(paid, fulfilled)
			paidIDs = append(paidIDs, fulfilled.ID)
		}

		return s.enqueueNotifications(ctx, tx, user, paid)
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordCheckoutFailed()
		}
		s.logger.WithError(err).WithField("user_id", userID).Warn("checkout rolled back")
		return nil, err
	}

	// Перечитываем после commit: наружу уходит только зафиксированное состояние.
	result := make([]domain.Order, 0, len(paidIDs))
	for _, id := range paidIDs {
		order, err := s.store.Orders().Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reload paid order %s: %w", id, err)
		}
		result = append(result, order)
	}

	if s.metrics != nil {
		s.metrics.RecordCheckoutCompleted()
	}
	s.logger.WithFields(log.Fields{
		"user_id":     userID,
		"orders_paid": len(result),
	}).Info("checkout completed")

	return result, nil
}

// fulfill списывает остаток под один заказ и переводит его в paid.
func (s *Service) fulfill(ctx context.Context, tx domain.Tx, order domain.Order) (domain.Order, error) {
	ok, err := tx.Products().DecrementStock(ctx, order.ProductID, order.Amount)
	if err != nil {
		return domain.Order{}, err
	}

	now := s.now()
	if !ok {
		// Остатка не хватает: заказ урезается до остатка, товар — в ноль.
		remaining, err := tx.Products().DrainStock(ctx, order.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		if err := tx.Orders().UpdateAmount(ctx, order.ID, remaining); err != nil {
			return domain.Order{}, err
		}
		if err := tx.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  order.ID,
			Type:     domain.TimelineOrderClamped,
			Reason:   fmt.Sprintf("amount reduced from %d to remaining stock %d", order.Amount, remaining),
			Occurred: now,
		}); err != nil {
			return domain.Order{}, err
		}
		order.Amount = remaining
		if s.metrics != nil {
			s.metrics.RecordOrderClamped()
		}
		s.logger.WithFields(log.Fields{
			"order_id":   order.ID,
			"product_id": order.ProductID,
			"amount":     order.Amount,
		}).Warn("order clamped to remaining stock")
	}

	if err := tx.Orders().UpdateStatus(ctx, order.ID, domain.OrderStatusPaid); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Timeline().Append(ctx, domain.TimelineEvent{
		OrderID:  order.ID,
		Type:     domain.TimelineOrderStatusChanged,
		Reason:   string(domain.OrderStatusPaid),
		Occurred: now,
	}); err != nil {
		return domain.Order{}, err
	}

	order.Status = domain.OrderStatusPaid
	if s.metrics != nil {
		s.metrics.RecordOrderPaid()
		s.metrics.RecordTimelineEvent()
	}
	return order, nil
}

// enqueueNotifications кладёт письма покупателю и всем менеджерам в outbox
// той же транзакции: уведомления уходят только при успешном commit.
func (s *Service) enqueueNotifications(ctx context.Context, tx domain.Tx, customer domain.User, paid []domain.Order) error {
	recipients := []domain.User{customer}
	managers, err := tx.Users().ListManagers(ctx)
	if err != nil {
		return err
	}
	for _, manager := range managers {
		if manager.ID == customer.ID {
			continue
		}
		recipients = append(recipients, manager)
	}

	for _, recipient := range recipients {
		email := notify.ComposeOrdersEmail(recipient, notify.SubjectOrdersPaid, paid)
		msg, err := notify.BuildEmailMessage(recipient.ID, email)
		if err != nil {
			return err
		}
		if _, err := tx.Outbox().Enqueue(ctx, msg); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrOutboxPublish, err)
		}
		if s.metrics != nil {
			s.metrics.RecordOutboxEvent()
		}
	}
	return nil
}

// Order возвращает заказ с проверкой владения: обычный пользователь видит
// только свои заказы, менеджер — любые.
func (s *Service) Order(ctx context.Context, userID, orderID string) (domain.Order, error) {
	requester, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return domain.Order{}, err
	}
	order, err := s.store.Orders().Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !requester.IsManager && order.UserID != userID {
		return domain.Order{}, domain.ErrNotOwner
	}
	return order, nil
}

// Orders возвращает заказы по фильтру. Менеджер с заданным статусом
// получает заказы всех пользователей, остальные — только свои.
func (s *Service) Orders(ctx context.Context, userID string, filter domain.OrderFilter) ([]domain.Order, error) {
	requester, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if requester.IsManager && filter.Status != "" {
		return s.store.Orders().ListByStatus(ctx, filter.Status, filter.Page)
	}
	return s.store.Orders().ListByUser(ctx, userID, filter)
}

// Timeline возвращает историю событий заказа.
func (s *Service) Timeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error) {
	if _, err := s.store.Orders().Get(ctx, orderID); err != nil {
		return nil, err
	}
	return s.store.Timeline().List(ctx, orderID)
}

func (s *Service) recordCartOperation(operation string) {
	if s.metrics != nil {
		s.metrics.RecordCartOperation(operation)
	}
}
