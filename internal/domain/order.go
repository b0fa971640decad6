package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в магазине.
type OrderStatus string

const (
	// OrderStatusPending — заказ лежит в корзине и ещё не оплачен.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPaid — заказ оплачен, сток товара списан.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusShipped — заказ передан в доставку (зарезервировано, ядро не переводит).
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен (зарезервировано).
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён (зарезервировано).
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid сообщает, входит ли значение в перечисление статусов.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order агрегирует состояние одной позиции корзины/заказа.
// Заказ ссылается на товар и пользователя по идентификаторам,
// копии сущностей внутрь не встраиваются.
type Order struct {
	ID        string
	UserID    string
	ProductID string
	// Amount — запрошенное количество единиц товара.
	Amount          int64
	DeliveryAddress string
	Status          OrderStatus
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserRequired)
	}
	if o.ProductID == "" {
		errs = append(errs, ErrProductRequired)
	}
	if o.Amount <= 0 {
		errs = append(errs, ErrAmountInvalid)
	}
	if o.DeliveryAddress == "" {
		errs = append(errs, ErrDeliveryAddressRequired)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrStatusInvalid)
	}

	return errs
}

// IsPending сообщает, находится ли заказ в корзине.
// Мутации количества и удаление разрешены только в этом состоянии.
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}
