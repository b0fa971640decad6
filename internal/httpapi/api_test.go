package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/account"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

type apiFixture struct {
	router   *gin.Engine
	store    domain.Store
	customer domain.User
	manager  domain.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	entry := log.NewEntry(logger)

	store := memory.NewStore()
	accountSvc := account.NewService(store, entry)
	catalogSvc := catalog.NewService(store, entry)
	cartSvc := cart.NewService(store, cart.WithLogger(entry))

	ctx := context.Background()
	customer, err := accountSvc.Register(ctx, account.Registration{
		Email:     "alice@example.com",
		Password:  "secret",
		FirstName: "Alice",
		LastName:  "Liddell",
		Address:   "1 Wonderland Lane",
	})
	require.NoError(t, err)

	manager, err := accountSvc.Register(ctx, account.Registration{
		Email:     "boss@example.com",
		Password:  "secret",
		Address:   "HQ",
		IsManager: true,
	})
	require.NoError(t, err)

	api := NewAPI(cartSvc, catalogSvc, accountSvc, entry)
	return &apiFixture{
		router:   api.Router(),
		store:    store,
		customer: customer,
		manager:  manager,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(headerUserID, userID)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (f *apiFixture) createProduct(t *testing.T, name string, price, stock int64) productResponse {
	t.Helper()
	w := f.do(t, http.MethodPost, "/products", f.manager.ID, gin.H{
		"name":        name,
		"title":       name,
		"price_minor": price,
		"stock":       stock,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeJSON[productResponse](t, w)
}

func TestRegisterAndCurrentUser(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/users", "", gin.H{
		"email":    "Bob@Example.com",
		"password": "hunter2",
		"address":  "2 Builder St",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decodeJSON[userResponse](t, w)
	require.Equal(t, "bob@example.com", created.Email)
	require.False(t, created.IsManager)
	require.NotEmpty(t, created.ID)

	w = f.do(t, http.MethodGet, "/users/me", created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeJSON[userResponse](t, w)
	require.Equal(t, created.ID, me.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/users", "", gin.H{
		"email":    "alice@example.com",
		"password": "secret",
		"address":  "anywhere",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthRequired(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/orders/my_cart", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProductEndpointsManagerGate(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/products", f.customer.ID, gin.H{
		"name": "laptop", "price_minor": 100, "stock": 5,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	product := f.createProduct(t, "laptop", 149900, 5)
	require.Equal(t, int64(5), product.Stock)

	// читать каталог может любой аутентифицированный пользователь
	w = f.do(t, http.MethodGet, "/products/"+product.ID, f.customer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPut, "/products/"+product.ID+"/price", f.manager.ID, gin.H{"price_minor": int64(99900)})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeJSON[productResponse](t, w)
	require.Equal(t, int64(99900), updated.PriceMinor)
	require.Equal(t, int64(2), updated.Version)

	w = f.do(t, http.MethodPut, "/products/"+product.ID+"/price", f.manager.ID, gin.H{"price_minor": int64(-1)})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodDelete, "/products/"+product.ID, f.manager.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/products/"+product.ID, f.customer.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartLifecycleOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	product := f.createProduct(t, "mouse", 2500, 10)

	w := f.do(t, http.MethodPost, "/orders", f.customer.ID, gin.H{
		"product_id": product.ID,
		"amount":     int64(3),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decodeJSON[orderResponse](t, w)
	require.Equal(t, "pending", order.Status)
	require.Equal(t, f.customer.Address, order.DeliveryAddress)

	w = f.do(t, http.MethodGet, "/orders/my_cart", f.customer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cartItems := decodeJSON[[]orderResponse](t, w)
	require.Len(t, cartItems, 1)

	w = f.do(t, http.MethodPut, "/orders/"+order.ID, f.customer.ID, gin.H{"amount": int64(4)})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(4), decodeJSON[orderResponse](t, w).Amount)

	w = f.do(t, http.MethodPost, "/orders/pay_my_cart", f.customer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decodeJSON[[]orderResponse](t, w)
	require.Len(t, paid, 1)
	require.Equal(t, "paid", paid[0].Status)

	w = f.do(t, http.MethodGet, "/products/"+product.ID, f.customer.ID, nil)
	require.Equal(t, int64(6), decodeJSON[productResponse](t, w).Stock)

	w = f.do(t, http.MethodGet, "/orders/"+order.ID+"/timeline", f.customer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := decodeJSON[[]timelineEventResponse](t, w)
	require.GreaterOrEqual(t, len(events), 2)
	require.Equal(t, domain.TimelineOrderCreated, events[0].Type)
}

func TestOrderValidationAndConflicts(t *testing.T) {
	f := newAPIFixture(t)
	product := f.createProduct(t, "keyboard", 5000, 2)

	w := f.do(t, http.MethodPost, "/orders", f.customer.ID, gin.H{
		"product_id": product.ID,
		"amount":     int64(0),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/orders", f.customer.ID, gin.H{
		"product_id": product.ID,
		"amount":     int64(3),
	})
	require.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/orders", f.customer.ID, gin.H{
		"product_id": "no-such-product",
		"amount":     int64(1),
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/orders?status=bogus", f.customer.ID, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderOwnershipOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	product := f.createProduct(t, "monitor", 30000, 4)

	w := f.do(t, http.MethodPost, "/orders", f.customer.ID, gin.H{
		"product_id": product.ID,
		"amount":     int64(1),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	order := decodeJSON[orderResponse](t, w)

	// менеджер видит чужой заказ, но не может его менять
	w = f.do(t, http.MethodGet, "/orders/"+order.ID, f.manager.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPut, "/orders/"+order.ID, f.manager.ID, gin.H{"amount": int64(2)})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodDelete, "/orders/"+order.ID, f.manager.ID, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestManagerStatusListing(t *testing.T) {
	f := newAPIFixture(t)
	product := f.createProduct(t, "webcam", 8000, 10)

	w := f.do(t, http.MethodPost, "/orders", f.customer.ID, gin.H{
		"product_id": product.ID,
		"amount":     int64(2),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPost, "/orders/pay_my_cart", f.customer.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/orders?status=paid", f.manager.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decodeJSON[[]orderResponse](t, w)
	require.Len(t, orders, 1)
	require.Equal(t, f.customer.ID, orders[0].UserID)

	// без фильтра по статусу менеджер видит только свои заказы
	w = f.do(t, http.MethodGet, "/orders", f.manager.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decodeJSON[[]orderResponse](t, w))
}

func TestRequestIDPropagation(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/orders/my_cart", nil)
	req.Header.Set(headerUserID, f.customer.ID)
	req.Header.Set(headerRequestID, "rid-42")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, "rid-42", w.Header().Get(headerRequestID))
}
