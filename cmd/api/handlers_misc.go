package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rmedina-dev/entrega-api/internal/favorite"
	"github.com/rmedina-dev/entrega-api/internal/httpx"
)

// GET /favorites
func listFavoritesHandler(favs favorite.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := favs.ListItemIDs(c.Request.Context(), httpx.CallerID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
			return
		}
		if ids == nil {
			ids = []int64{}
		}
		c.JSON(http.StatusOK, gin.H{"item_ids": ids})
	}
}

// POST /favorites/:item_id
func addFavoriteHandler(favs favorite.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := pathID(c, "item_id")
		if !ok {
			return
		}
		err := favs.Add(c.Request.Context(), httpx.CallerID(c), itemID)
		if errors.Is(err, favorite.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "add error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "added to favorites"})
	}
}

// DELETE /favorites/:item_id
func removeFavoriteHandler(favs favorite.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := pathID(c, "item_id")
		if !ok {
			return
		}
		removed, err := favs.Remove(c.Request.Context(), httpx.CallerID(c), itemID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "remove error"})
			return
		}
		if !removed {
			c.JSON(http.StatusNotFound, gin.H{"error": "not in favorites"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "removed from favorites"})
	}
}

// GET /audit?limit=
func auditHandler(logs auditLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		entries, err := logs.List(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": entries})
	}
}
