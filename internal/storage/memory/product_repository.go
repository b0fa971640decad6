package memory

import (
	"context"
	"sort"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// productRepository — in-memory реализация ProductRepository.
type productRepository struct {
	s    *Store
	inTx bool
}

func (r *productRepository) Create(_ context.Context, product domain.Product) error {
	defer r.s.lockFor(r.inTx, false)()

	if _, exists := r.s.products[product.ID]; exists {
		return domain.ErrAlreadyExists
	}
	for _, existing := range r.s.products {
		// Имя товара уникально, как и в схеме PostgreSQL.
		if existing.Name == product.Name {
			return domain.ErrAlreadyExists
		}
	}
	r.s.products[product.ID] = product
	return nil
}

func (r *productRepository) Get(_ context.Context, id string) (domain.Product, error) {
	defer r.s.lockFor(r.inTx, true)()

	product, ok := r.s.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *productRepository) GetByName(_ context.Context, name string) (domain.Product, error) {
	defer r.s.lockFor(r.inTx, true)()

	for _, product := range r.s.products {
		if product.Name == name {
			return product, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (r *productRepository) List(_ context.Context, page domain.Page) ([]domain.Product, error) {
	defer r.s.lockFor(r.inTx, true)()

	result := make([]domain.Product, 0, len(r.s.products))
	for _, product := range r.s.products {
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	skip := page.Skip
	if skip < 0 {
		skip = 0
	}
	if skip >= len(result) {
		return []domain.Product{}, nil
	}
	result = result[skip:]
	if page.Limit > 0 && len(result) > page.Limit {
		result = result[:page.Limit]
	}
	return result, nil
}

func (r *productRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.mutate(id, func(p *domain.Product) { p.Name = name })
}

func (r *productRepository) UpdateTitle(ctx context.Context, id, title string) error {
	return r.mutate(id, func(p *domain.Product) { p.Title = title })
}

func (r *productRepository) UpdatePrice(ctx context.Context, id string, priceMinor int64) error {
	return r.mutate(id, func(p *domain.Product) { p.PriceMinor = priceMinor })
}

func (r *productRepository) UpdateStock(ctx context.Context, id string, stock int64) error {
	return r.mutate(id, func(p *domain.Product) { p.Stock = stock })
}

// DecrementStock атомарно списывает qty, только если остатка хватает.
func (r *productRepository) DecrementStock(_ context.Context, id string, qty int64) (bool, error) {
	defer r.s.lockFor(r.inTx, false)()

	product, ok := r.s.products[id]
	if !ok {
		return false, domain.ErrProductNotFound
	}
	if product.Stock < qty {
		return false, nil
	}
	product.Stock -= qty
	product.Version++
	product.UpdatedAt = time.Now().UTC()
	r.s.products[id] = product
	return true, nil
}

// DrainStock обнуляет остаток и возвращает списанное количество.
func (r *productRepository) DrainStock(_ context.Context, id string) (int64, error) {
	defer r.s.lockFor(r.inTx, false)()

	product, ok := r.s.products[id]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	drained := product.Stock
	product.Stock = 0
	product.Version++
	product.UpdatedAt = time.Now().UTC()
	r.s.products[id] = product
	return drained, nil
}

func (r *productRepository) Delete(_ context.Context, id string) error {
	defer r.s.lockFor(r.inTx, false)()

	if _, ok := r.s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *productRepository) mutate(id string, fn func(p *domain.Product)) error {
	defer r.s.lockFor(r.inTx, false)()

	product, ok := r.s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	fn(&product)
	product.Version++
	product.UpdatedAt = time.Now().UTC()
	r.s.products[id] = product
	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
