package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmedina-dev/entrega-api/internal/config"
	"github.com/rmedina-dev/entrega-api/internal/httpx"
	"github.com/rmedina-dev/entrega-api/internal/user"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /auth/login
// 200 with token+profile, 423 while the account is locked, 401 otherwise.
// Unknown email, disabled account and wrong password all answer the same 401.
func loginHandler(users *user.Service, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		res, err := users.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "auth error"})
			return
		}
		if res == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if res.Locked {
			c.JSON(http.StatusLocked, gin.H{
				"error":        "account locked",
				"locked_until": res.LockedUntil,
			})
			return
		}

		token, err := httpx.IssueToken(cfg.JWTSecret, cfg.TokenTTL, res.Profile.ID, res.Profile.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": res.Profile})
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// POST /auth/register
func registerHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		p, err := users.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
		if err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
				return
			}
			// validation reasons are user-presentable
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": p})
	}
}

// POST /auth/password-strength
// Backs the signup screen's live strength meter.
func passwordStrengthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		label, score := user.PasswordStrength(req.Password)
		c.JSON(http.StatusOK, gin.H{"label": label, "score": score})
	}
}

// GET /me
func meHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := users.GetByID(c.Request.Context(), httpx.CallerID(c))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": p})
	}
}

type updateProfileRequest struct {
	UserID   int64  `json:"user_id"` // optional, admins may edit others
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Contact  string `json:"contact"`
}

// PUT /me
func updateProfileHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		caller := httpx.CallerID(c)
		target := req.UserID
		if target == 0 {
			target = caller
		}
		err := users.UpdateProfile(c.Request.Context(), caller, target,
			req.FullName, req.Email, req.Address, req.Contact)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
		case errors.Is(err, user.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, user.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
	}
}

// PUT /me/password
func changePasswordHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OldPassword string `json:"old_password"`
			NewPassword string `json:"new_password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		err := users.ChangePassword(c.Request.Context(), httpx.CallerID(c), req.OldPassword, req.NewPassword)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": "password changed"})
		case errors.Is(err, user.ErrWrongPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
	}
}
