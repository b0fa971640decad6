package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора пользователя в заказе.
	ErrUserRequired = errors.New("user_id is required")
	// Ошибка отсутствующего идентификатора товара в заказе.
	ErrProductRequired = errors.New("product_id is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrAmountInvalid = errors.New("order amount must be greater than zero")
	// Ошибка отсутствующего адреса доставки.
	ErrDeliveryAddressRequired = errors.New("delivery_address is required")
	// Ошибка неизвестного статуса заказа.
	ErrStatusInvalid = errors.New("order status is not valid")
	// Ошибка отсутствующего имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrPriceNegative = errors.New("product price must be non-negative")
	// Ошибка отрицательного остатка товара.
	ErrStockNegative = errors.New("product stock must be non-negative")
	// Ошибка отсутствующего e-mail пользователя.
	ErrEmailRequired = errors.New("email is required")
	// Ошибка отсутствующего пароля пользователя.
	ErrPasswordRequired = errors.New("password is required")
	// Ошибка отсутствующего адреса в профиле пользователя.
	ErrAddressRequired = errors.New("address is required")

	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound возвращается, если товар не найден в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrInsufficientStock — запрошенное количество превышает остаток на момент добавления в корзину.
	ErrInsufficientStock = errors.New("insufficient product stock")
	// ErrInvalidOrderState — мутация заказа, который уже не находится в статусе pending.
	ErrInvalidOrderState = errors.New("order status is not pending")
	// ErrNotOwner — вызывающий не владеет заказом, который пытается изменить.
	ErrNotOwner = errors.New("order belongs to another user")
	// ErrVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrVersionConflict = errors.New("version conflict")
	// ErrAlreadyExists возвращается при попытке создать запись с занятым ключом.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsNotFound проверяет, является ли ошибка отсутствием сущности любого вида.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
