package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rmedina-dev/entrega-api/internal/httpx"
	"github.com/rmedina-dev/entrega-api/internal/user"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// GET /users
func listUsersHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := users.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": out})
	}
}

// POST /users (admin creates an account with a role)
func createUserHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			FullName string `json:"full_name"`
			Role     string `json:"role"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		p, err := users.CreateByAdmin(c.Request.Context(), httpx.CallerID(c),
			req.Email, req.Password, req.FullName, req.Role)
		if err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": p})
	}
}

// PUT /users/:id/active  {"active": true|false}
func setActiveHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req struct {
			Active *bool `json:"active"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		err := users.SetActive(c.Request.Context(), id, httpx.CallerID(c), *req.Active)
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "updated"})
	}
}

// DELETE /users/:id
func deleteUserHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		err := users.Delete(c.Request.Context(), id, httpx.CallerID(c))
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": "deleted"})
		case errors.Is(err, user.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, user.ErrHasOrders):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete error"})
		}
	}
}
