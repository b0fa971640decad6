package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Service управляет каталогом товаров. Обновления выполняются
// типизированными операциями по полям, generic-патч намеренно отсутствует.
type Service struct {
	store  domain.Store
	logger *log.Entry
	now    func() time.Time
	newID  func() string
}

// NewService создаёт сервис каталога.
func NewService(store domain.Store, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "catalog")
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Create добавляет новый товар. Имя товара уникально.
func (s *Service) Create(ctx context.Context, name, title string, priceMinor, stock int64) (domain.Product, error) {
	name = strings.TrimSpace(name)
	now := s.now()
	product := domain.Product{
		ID:         s.newID(),
		Name:       name,
		Title:      title,
		PriceMinor: priceMinor,
		Stock:      stock,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		return domain.Product{}, err
	}

	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("product created")
	return product, nil
}

// Get возвращает товар по идентификатору.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.store.Products().Get(ctx, id)
}

// GetByName возвращает товар по уникальному имени.
func (s *Service) GetByName(ctx context.Context, name string) (domain.Product, error) {
	return s.store.Products().GetByName(ctx, name)
}

// List возвращает товары в алфавитном порядке имён.
func (s *Service) List(ctx context.Context, page domain.Page) ([]domain.Product, error) {
	return s.store.Products().List(ctx, page)
}

// UpdateName меняет уникальное имя товара.
func (s *Service) UpdateName(ctx context.Context, id, name string) (domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Product{}, domain.ErrProductNameRequired
	}
	return s.update(ctx, id, func(ctx context.Context) error {
		return s.store.Products().UpdateName(ctx, id, name)
	})
}

// UpdateTitle меняет отображаемый заголовок товара.
func (s *Service) UpdateTitle(ctx context.Context, id, title string) (domain.Product, error) {
	return s.update(ctx, id, func(ctx context.Context) error {
		return s.store.Products().UpdateTitle(ctx, id, title)
	})
}

// UpdatePrice меняет цену в минорных единицах.
func (s *Service) UpdatePrice(ctx context.Context, id string, priceMinor int64) (domain.Product, error) {
	if priceMinor < 0 {
		return domain.Product{}, domain.ErrPriceNegative
	}
	return s.update(ctx, id, func(ctx context.Context) error {
		return s.store.Products().UpdatePrice(ctx, id, priceMinor)
	})
}

// UpdateStock задаёт абсолютный остаток товара.
func (s *Service) UpdateStock(ctx context.Context, id string, stock int64) (domain.Product, error) {
	if stock < 0 {
		return domain.Product{}, domain.ErrStockNegative
	}
	return s.update(ctx, id, func(ctx context.Context) error {
		return s.store.Products().UpdateStock(ctx, id, stock)
	})
}

// Delete удаляет товар из каталога.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Products().Delete(ctx, id)
}

func (s *Service) update(ctx context.Context, id string, apply func(ctx context.Context) error) (domain.Product, error) {
	if err := apply(ctx); err != nil {
		return domain.Product{}, err
	}
	return s.store.Products().Get(ctx, id)
}
