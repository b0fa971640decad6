package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type productResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	PriceMinor int64     `json:"price_minor"`
	Stock      int64     `json:"stock"`
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:         p.ID,
		Name:       p.Name,
		Title:      p.Title,
		PriceMinor: p.PriceMinor,
		Stock:      p.Stock,
		Version:    p.Version,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type createProductRequest struct {
	Name       string `json:"name" binding:"required"`
	Title      string `json:"title"`
	PriceMinor int64  `json:"price_minor"`
	Stock      int64  `json:"stock"`
}

// createProduct добавляет товар в каталог (только менеджер).
func (a *API) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	product, err := a.catalog.Create(c.Request.Context(), req.Name, req.Title, req.PriceMinor, req.Stock)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(product))
}

// listProducts возвращает страницу каталога.
func (a *API) listProducts(c *gin.Context) {
	products, err := a.catalog.List(c.Request.Context(), parsePage(c))
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}

	c.JSON(http.StatusOK, out)
}

// getProduct возвращает товар по идентификатору.
func (a *API) getProduct(c *gin.Context) {
	product, err := a.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

func (a *API) updateProductName(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	product, err := a.catalog.UpdateName(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (a *API) updateProductTitle(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	product, err := a.catalog.UpdateTitle(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (a *API) updateProductPrice(c *gin.Context) {
	var req struct {
		PriceMinor int64 `json:"price_minor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	product, err := a.catalog.UpdatePrice(c.Request.Context(), c.Param("id"), req.PriceMinor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (a *API) updateProductStock(c *gin.Context) {
	var req struct {
		Stock int64 `json:"stock"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	product, err := a.catalog.UpdateStock(c.Request.Context(), c.Param("id"), req.Stock)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// deleteProduct убирает товар из каталога (только менеджер).
func (a *API) deleteProduct(c *gin.Context) {
	if err := a.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
