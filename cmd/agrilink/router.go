package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/agrilink/docs"
	"github.com/MikeMC777/agrilink/internal/cart"
	"github.com/MikeMC777/agrilink/internal/httpx"
	"github.com/MikeMC777/agrilink/internal/metrics"
	"github.com/MikeMC777/agrilink/internal/order"
	"github.com/MikeMC777/agrilink/internal/product"
)

// orderService is what the handlers need from order.Service.
type orderService interface {
	Create(ctx context.Context, req order.CreateOrderRequest) (*order.Order, error)
	Get(ctx context.Context, token string) (*order.Order, error)
}

type deps struct {
	products    product.Repository
	orders      orderService
	carts       cart.Store
	metrics     metrics.Repository
	share       metrics.ShareConfig
	window      int
	corsOrigins []string
	release     bool
}

func newRouter(d deps) *gin.Engine {
	if d.release {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())
	if len(d.corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  d.corsOrigins,
			AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/products", listProductsHandler(d.products))
		api.GET("/products/:id", getProductHandler(d.products))

		api.POST("/orders", createOrderHandler(d.orders))
		api.GET("/orders/:token", getOrderHandler(d.orders))
		api.GET("/orders/:token/matrix", orderMatrixHandler(d.orders))

		carts := api.Group("/cart/:session")
		{
			carts.GET("", getCartHandler(d.carts))
			carts.DELETE("", clearCartHandler(d.carts))
			carts.POST("/items", addCartItemHandler(d.carts, d.products))
			carts.PATCH("/items/:productId", updateCartItemHandler(d.carts))
			carts.DELETE("/items/:productId", removeCartItemHandler(d.carts))
			carts.POST("/checkout", checkoutHandler(d.carts, d.orders))
		}

		api.GET("/metrics", listMetricsHandler(d.metrics, d.window))
		api.POST("/metrics", appendMetricHandler(d.metrics))
		api.GET("/metrics/summary", summaryHandler(d.metrics, d.share, d.window))
	}
	return r
}
