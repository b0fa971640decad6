package domain

import "time"

// Типы событий жизненного цикла заказа.
const (
	TimelineOrderCreated       = "OrderCreated"
	TimelineOrderStatusChanged = "OrderStatusChanged"
	TimelineOrderAmountChanged = "OrderAmountChanged"
	TimelineOrderRemoved       = "OrderRemoved"
	TimelineOrderClamped       = "OrderAmountClamped"
)

// TimelineEvent фиксирует одно событие в истории заказа.
type TimelineEvent struct {
	OrderID string
	Type    string
	// Reason — человекочитаемое пояснение (например, причина клэмпа количества).
	Reason   string
	Occurred time.Time
}
