package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rmedina-dev/entrega-api/internal/httpx"
	"github.com/rmedina-dev/entrega-api/internal/order"
	"github.com/rmedina-dev/entrega-api/internal/user"
)

type createOrderRequest struct {
	Items           []order.CreateItem `json:"items"`
	DeliveryAddress string             `json:"delivery_address"`
	ContactNumber   string             `json:"contact_number"`
	Total           string             `json:"total"`
	PaymentMethod   string             `json:"payment_method"`
}

// POST /orders
func createOrderHandler(orders *order.Service, users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		total, err := decimal.NewFromString(req.Total)
		if err != nil || total.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "total must be a non-negative decimal"})
			return
		}

		caller := httpx.CallerID(c)
		profile, err := users.GetByID(c.Request.Context(), caller)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		o, err := orders.Create(c.Request.Context(), order.CreateInput{
			CustomerID:      caller,
			CustomerName:    profile.FullName,
			DeliveryAddress: req.DeliveryAddress,
			ContactNumber:   req.ContactNumber,
			Items:           req.Items,
			Total:           total,
			PaymentMethod:   req.PaymentMethod,
		})
		if err != nil {
			if errors.Is(err, order.ErrEmptyOrder) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create error"})
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// GET /orders/:id
// A customer may read their own orders, staff with order_management any.
func getOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		o, err := orders.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get error"})
			return
		}
		if o.CustomerID != httpx.CallerID(c) && !user.HasPermission(c.GetString("role"), "order_management") {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// GET /orders/mine
func listMyOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.ListByCustomer(c.Request.Context(), httpx.CallerID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

// GET /orders?limit=&offset=
func listAllOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		out, err := orders.ListAll(c.Request.Context(), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

// GET /orders/user/:user_id
func listOrdersByUserHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := pathID(c, "user_id")
		if !ok {
			return
		}
		out, err := orders.ListByCustomer(c.Request.Context(), uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

// PUT /orders/:id/status  {"status": "preparing"}
// 409 names the exact rejected edge, e.g.
// "invalid status transition: preparing -> delivered".
func updateOrderStatusHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}

		err := orders.UpdateStatus(c.Request.Context(), id, req.Status, httpx.CallerID(c))
		var ite *order.InvalidTransitionError
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": "status updated"})
		case errors.Is(err, order.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.As(err, &ite):
			c.JSON(http.StatusConflict, gin.H{"error": ite.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update error"})
		}
	}
}
