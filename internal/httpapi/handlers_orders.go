package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type orderResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ProductID       string    `json:"product_id"`
	Amount          int64     `json:"amount"`
	DeliveryAddress string    `json:"delivery_address"`
	Status          string    `json:"status"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		ProductID:       o.ProductID,
		Amount:          o.Amount,
		DeliveryAddress: o.DeliveryAddress,
		Status:          string(o.Status),
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

type timelineEventResponse struct {
	OrderID  string    `json:"order_id"`
	Type     string    `json:"type"`
	Reason   string    `json:"reason,omitempty"`
	Occurred time.Time `json:"occurred_at"`
}

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Amount    int64  `json:"amount"`
}

type updateOrderRequest struct {
	Amount int64 `json:"amount"`
}

// addToCart кладёт товар в корзину вызывающего.
func (a *API) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	order, err := a.cart.AddToCart(c.Request.Context(), callerID(c), req.ProductID, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// myCart возвращает неоплаченные заказы вызывающего.
func (a *API) myCart(c *gin.Context) {
	orders, err := a.cart.ListCart(c.Request.Context(), callerID(c), parsePage(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// updateOrder меняет количество в позиции корзины. Только владелец,
// только пока заказ не оплачен.
func (a *API) updateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	order, err := a.cart.UpdateItem(c.Request.Context(), callerID(c), c.Param("id"), req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// removeOrder убирает позицию из корзины.
func (a *API) removeOrder(c *gin.Context) {
	if err := a.cart.RemoveItem(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// payMyCart оплачивает корзину целиком и возвращает оплаченные заказы.
func (a *API) payMyCart(c *gin.Context) {
	orders, err := a.cart.Checkout(c.Request.Context(), callerID(c), parsePage(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// getOrder возвращает заказ владельцу или менеджеру.
func (a *API) getOrder(c *gin.Context) {
	order, err := a.cart.Order(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// listOrders возвращает заказы вызывающего; менеджер с фильтром по статусу
// видит заказы всех пользователей.
func (a *API) listOrders(c *gin.Context) {
	filter := domain.OrderFilter{
		Status: domain.OrderStatus(c.Query("status")),
		Page:   parsePage(c),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(c, domain.ErrStatusInvalid)
		return
	}

	orders, err := a.cart.Orders(c.Request.Context(), callerID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// orderTimeline возвращает историю событий заказа.
func (a *API) orderTimeline(c *gin.Context) {
	events, err := a.cart.Timeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]timelineEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, timelineEventResponse{
			OrderID:  e.OrderID,
			Type:     e.Type,
			Reason:   e.Reason,
			Occurred: e.Occurred,
		})
	}

	c.JSON(http.StatusOK, out)
}
