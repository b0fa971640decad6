package domain

import "context"

// Page задаёт границы выборки. Limit <= 0 означает "вернуть всё":
// отсутствие пагинации — это явная политика, а не поведение по умолчанию
// нижележащего хранилища.
type Page struct {
	Skip  int
	Limit int
}

// OrderFilter ограничивает выборку заказов по статусу.
// Пустой Status означает "любой статус".
type OrderFilter struct {
	Status OrderStatus
	Page   Page
}

// OrderRepository описывает требования к хранилищу заказов.
// Обновления выполняются типизированными операциями по полям,
// generic-обновление по имени поля не поддерживается намеренно.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrAlreadyExists, если ID занят.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// ListByUser возвращает заказы пользователя в порядке создания.
	ListByUser(ctx context.Context, userID string, filter OrderFilter) ([]Order, error)
	// ListByStatus возвращает заказы всех пользователей с данным статусом.
	ListByStatus(ctx context.Context, status OrderStatus, page Page) ([]Order, error)
	// UpdateAmount меняет количество в заказе.
	UpdateAmount(ctx context.Context, id string, amount int64) error
	// UpdateStatus переводит заказ в новый статус.
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
	// Delete удаляет заказ или возвращает ErrOrderNotFound.
	Delete(ctx context.Context, id string) error
}

// ProductRepository описывает требования к каталогу товаров.
type ProductRepository interface {
	Create(ctx context.Context, product Product) error
	Get(ctx context.Context, id string) (Product, error)
	GetByName(ctx context.Context, name string) (Product, error)
	List(ctx context.Context, page Page) ([]Product, error)
	UpdateName(ctx context.Context, id, name string) error
	UpdateTitle(ctx context.Context, id, title string) error
	UpdatePrice(ctx context.Context, id string, priceMinor int64) error
	UpdateStock(ctx context.Context, id string, stock int64) error
	// DecrementStock атомарно списывает qty единиц, только если остатка хватает.
	// Возвращает false без изменения остатка, если stock < qty.
	DecrementStock(ctx context.Context, id string, qty int64) (bool, error)
	// DrainStock обнуляет остаток и возвращает количество, которое было списано.
	DrainStock(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository описывает требования к хранилищу пользователей.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	Get(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// ListManagers возвращает пользователей с правами менеджера
	// (получатели уведомлений о выкупленных корзинах).
	ListManagers(ctx context.Context) ([]User, error)
}

// Tx объединяет репозитории, разделяющие одну транзакцию.
type Tx interface {
	Orders() OrderRepository
	Products() ProductRepository
	Users() UserRepository
	Outbox() OutboxRepository
	Timeline() TimelineRepository
}

// Store — корневой контракт хранилища. Каждая публичная операция ядра
// выполняется внутри одного вызова WithinTx: при ошибке fn все изменения
// откатываются целиком, частичное состояние не видно другим вызовам.
type Store interface {
	Tx
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(ctx context.Context, event TimelineEvent) error
	List(ctx context.Context, orderID string) ([]TimelineEvent, error)
}
