package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmedina-dev/entrega-api/internal/audit"
	"github.com/rmedina-dev/entrega-api/internal/config"
	"github.com/rmedina-dev/entrega-api/internal/favorite"
	"github.com/rmedina-dev/entrega-api/internal/httpx"
	"github.com/rmedina-dev/entrega-api/internal/menu"
	"github.com/rmedina-dev/entrega-api/internal/order"
	"github.com/rmedina-dev/entrega-api/internal/user"
)

func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("pgx pool: %v", err)
	}
	defer pool.Close()

	auditLog := audit.NewPGLog(pool)
	orderStore := order.NewPGStore(pool)
	orders := order.NewService(orderStore, auditLog)
	users := user.NewService(user.NewPGRepo(pool), auditLog, orderStore,
		cfg.MaxLoginAttempts, cfg.LockoutDuration)
	menuRepo := menu.NewPGRepo(pool)
	favs := favorite.NewPGRepo(pool)

	r := newRouter(cfg, users, orders, menuRepo, favs, auditLog)

	log.Printf("api listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}

// auditLister is the read side of the audit log, split out so handler tests
// can fake it.
type auditLister interface {
	List(ctx context.Context, limit int) ([]audit.Entry, error)
}

func newRouter(cfg config.Config, users *user.Service, orders *order.Service,
	menuRepo menu.Repository, favs favorite.Repository, logs auditLister) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	r.POST("/auth/login", loginHandler(users, cfg))
	r.POST("/auth/register", registerHandler(users))
	r.POST("/auth/password-strength", passwordStrengthHandler())

	auth := r.Group("/", httpx.Auth(cfg.JWTSecret))

	auth.GET("/me", meHandler(users))
	auth.PUT("/me", updateProfileHandler(users))
	auth.PUT("/me/password", changePasswordHandler(users))

	admin := auth.Group("/users", httpx.Require("user_management"))
	admin.GET("", listUsersHandler(users))
	admin.POST("", createUserHandler(users))
	admin.PUT("/:id/active", setActiveHandler(users))
	admin.DELETE("/:id", deleteUserHandler(users))

	r.GET("/menu", listMenuHandler(menuRepo))
	r.GET("/menu/categories", categoriesHandler(menuRepo))
	r.GET("/menu/:id", getMenuItemHandler(menuRepo))
	mm := auth.Group("/menu", httpx.Require("menu_management"))
	mm.POST("", createMenuItemHandler(menuRepo))
	mm.PUT("/:id", updateMenuItemHandler(menuRepo))
	mm.DELETE("/:id", deleteMenuItemHandler(menuRepo))
	mm.GET("/:id/stats", menuStatsHandler(menuRepo))

	auth.POST("/orders", httpx.Require("place_order"), createOrderHandler(orders, users))
	auth.GET("/orders/mine", listMyOrdersHandler(orders))
	om := auth.Group("/orders", httpx.Require("order_management"))
	om.GET("", listAllOrdersHandler(orders))
	om.GET("/user/:user_id", listOrdersByUserHandler(orders))
	om.PUT("/:id/status", updateOrderStatusHandler(orders))
	auth.GET("/orders/:id", getOrderHandler(orders))

	auth.GET("/favorites", listFavoritesHandler(favs))
	auth.POST("/favorites/:item_id", addFavoriteHandler(favs))
	auth.DELETE("/favorites/:item_id", removeFavoriteHandler(favs))

	auth.GET("/audit", httpx.Require("view_audit_logs"), auditHandler(logs))

	return r
}
