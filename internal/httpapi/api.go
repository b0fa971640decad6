package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/account"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
)

// API собирает REST-поверхность магазина поверх доменных сервисов.
type API struct {
	cart    *cart.Service
	catalog *catalog.Service
	account *account.Service
	logger  *log.Entry
}

// NewAPI создаёт REST API.
func NewAPI(cartSvc *cart.Service, catalogSvc *catalog.Service, accountSvc *account.Service, logger *log.Entry) *API {
	if logger == nil {
		logger = log.WithField("component", "httpapi")
	}
	return &API{
		cart:    cartSvc,
		catalog: catalogSvc,
		account: accountSvc,
		logger:  logger,
	}
}

// Router настраивает маршруты и middleware.
func (a *API) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logger(a.logger))

	router.POST("/users", a.registerUser)

	authed := router.Group("/", Auth())
	{
		authed.GET("/users/me", a.currentUser)

		authed.GET("/products", a.listProducts)
		authed.GET("/products/:id", a.getProduct)

		manager := authed.Group("/", a.requireManager())
		{
			manager.POST("/products", a.createProduct)
			manager.PUT("/products/:id/name", a.updateProductName)
			manager.PUT("/products/:id/title", a.updateProductTitle)
			manager.PUT("/products/:id/price", a.updateProductPrice)
			manager.PUT("/products/:id/stock", a.updateProductStock)
			manager.DELETE("/products/:id", a.deleteProduct)
		}

		authed.POST("/orders", a.addToCart)
		authed.GET("/orders", a.listOrders)
		authed.GET("/orders/my_cart", a.myCart)
		authed.POST("/orders/pay_my_cart", a.payMyCart)
		authed.GET("/orders/:id", a.getOrder)
		authed.PUT("/orders/:id", a.updateOrder)
		authed.DELETE("/orders/:id", a.removeOrder)
		authed.GET("/orders/:id/timeline", a.orderTimeline)
	}

	return router
}

// requireManager пускает дальше только пользователей с правами менеджера.
func (a *API) requireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := a.account.Get(c.Request.Context(), callerID(c))
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		if !user.IsManager {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "manager role required"})
			return
		}
		c.Next()
	}
}

// parsePage читает skip/limit из query. Отсутствующий limit означает "вернуть всё".
func parsePage(c *gin.Context) domain.Page {
	var page domain.Page
	if skip, err := strconv.Atoi(c.Query("skip")); err == nil {
		page.Skip = skip
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		page.Limit = limit
	}
	return page
}
