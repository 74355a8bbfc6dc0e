package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rmedina-dev/entrega-api/internal/httpx"
	"github.com/rmedina-dev/entrega-api/internal/menu"
)

// GET /menu?category=&q=&limit=&offset=
func listMenuHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		page, err := repo.List(c.Request.Context(), menu.Query{
			Category: c.Query("category"),
			Search:   c.Query("q"),
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GET /menu/categories
func categoriesHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := repo.Categories(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
			return
		}
		if cats == nil {
			cats = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"categories": cats})
	}
}

// GET /menu/:id
func getMenuItemHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		it, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

type menuItemRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          string `json:"price"`
	Stock          int    `json:"stock"`
	Category       string `json:"category"`
	Calories       int    `json:"calories"`
	Ingredients    string `json:"ingredients"`
	Allergens      string `json:"allergens"`
	IsOnSale       bool   `json:"is_on_sale"`
	SalePercentage int    `json:"sale_percentage"`
}

func (r *menuItemRequest) toItem() (*menu.Item, error) {
	if r.Name == "" {
		return nil, errors.New("name is required")
	}
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() {
		return nil, errors.New("price must be a non-negative decimal")
	}
	if r.Stock < 0 {
		return nil, errors.New("stock must be non-negative")
	}
	category := r.Category
	if category == "" {
		category = "Uncategorized"
	}
	return &menu.Item{
		Name:           r.Name,
		Description:    r.Description,
		Price:          price,
		Stock:          r.Stock,
		Category:       category,
		Calories:       r.Calories,
		Ingredients:    r.Ingredients,
		Allergens:      r.Allergens,
		IsOnSale:       r.IsOnSale,
		SalePercentage: r.SalePercentage,
	}, nil
}

// POST /menu
func createMenuItemHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		it, err := req.toItem()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		it.CreatedBy = httpx.CallerID(c)
		if err := repo.Create(c.Request.Context(), it); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create error"})
			return
		}
		c.JSON(http.StatusCreated, it)
	}
}

// PUT /menu/:id
func updateMenuItemHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req menuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		it, err := req.toItem()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		it.ID = id
		if err := repo.Update(c.Request.Context(), it); err != nil {
			if errors.Is(err, menu.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update error"})
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

// DELETE /menu/:id (soft delete)
func deleteMenuItemHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		deleted, err := repo.Delete(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete error"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	}
}

// GET /menu/:id/stats
func menuStatsHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		s, err := repo.Stats(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, menu.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "stats error"})
			return
		}
		c.JSON(http.StatusOK, s)
	}
}
