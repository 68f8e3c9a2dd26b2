package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shop-backend/internal/shared/middleware"
	"shop-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.ClientIPMiddleware(),
	)
	// ảnh sản phẩm + file import tối đa 32MB trong memory
	router.MaxMultipartMemory = 32 << 20

	auth := middleware.AuthMiddleware(c.JWTManager)
	admin := middleware.AdminMiddleware()

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c, auth)
		setupUserRoutes(v1, c, auth)
		setupProductRoutes(v1, c)
		setupFlashSaleRoutes(v1, c)
		setupVoucherRoutes(v1, c, auth)
		setupCartRoutes(v1, c, auth)
		setupOrderRoutes(v1, c, auth)
		setupNotificationRoutes(v1, c, auth)
		setupChatRoutes(v1, c, auth)

		adminGroup := v1.Group("/admin", auth, admin)
		setupAdminRoutes(adminGroup, c)
	}

	return router
}

// ========================================
// AUTH + USER ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", c.UserHandler.Register)
		authGroup.POST("/login", c.UserHandler.Login)
		authGroup.POST("/refresh", c.UserHandler.RefreshToken)
		authGroup.POST("/logout", auth, c.UserHandler.Logout)
	}
}

func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	users := v1.Group("/users", auth)
	{
		users.GET("/me", c.UserHandler.GetProfile)
		users.PUT("/me", c.UserHandler.UpdateProfile)
	}
}

// ========================================
// PUBLIC CATALOG
// ========================================
func setupProductRoutes(v1 *gin.RouterGroup, c *container.Container) {
	products := v1.Group("/products")
	{
		products.GET("", c.ProductHandler.ListProducts)
		products.GET("/:id", c.ProductHandler.GetProduct)
	}
}

func setupFlashSaleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/flash-sales", c.FlashSaleHandler.ListActive)
}

// ========================================
// CUSTOMER ROUTES
// ========================================
func setupVoucherRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	v1.GET("/vouchers", auth, c.VoucherHandler.ListAvailable)
}

func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	cart := v1.Group("/cart", auth)
	{
		cart.GET("", c.CartHandler.GetCart)
		cart.DELETE("", c.CartHandler.Clear)
		cart.POST("/items", c.CartHandler.AddItem)
		cart.PUT("/items/:productId", c.CartHandler.UpdateItem)
		cart.DELETE("/items/:productId", c.CartHandler.RemoveItem)
	}
}

func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	// VNPay gọi thẳng vào, không có bearer token
	v1.GET("/orders/vnpay_return", c.PaymentHandler.VNPayReturn)
	v1.GET("/orders/vnpay_ipn", c.PaymentHandler.VNPayIPN)

	orders := v1.Group("/orders", auth)
	{
		orders.POST("", c.OrderHandler.CreateOrder)
		orders.GET("", c.OrderHandler.ListMyOrders)
		orders.GET("/:id", c.OrderHandler.GetMyOrder)
		orders.POST("/:id/payment-online", c.OrderHandler.PayOnline)
		orders.PATCH("/:id/cancel", c.OrderHandler.CancelMyOrder)
		orders.POST("/:id/rating", c.OrderHandler.RateOrderDetail)
	}
}

func setupNotificationRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	notifications := v1.Group("/notifications", auth)
	{
		notifications.GET("", c.NotificationHandler.List)
		notifications.GET("/unread-count", c.NotificationHandler.UnreadCount)
		notifications.PATCH("/read-all", c.NotificationHandler.MarkAllRead)
		notifications.PATCH("/:id/read", c.NotificationHandler.MarkRead)
	}
}

func setupChatRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	chats := v1.Group("/chats", auth)
	{
		chats.GET("", c.ChatHandler.GetMyChatroom)
		chats.GET("/recent-messages", c.ChatHandler.ListMyMessages)
		chats.POST("/send/text-message", c.ChatHandler.SendText)
		chats.POST("/send/file-message", c.ChatHandler.SendFile)
		chats.PATCH("/seen", c.ChatHandler.MarkSeen)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(admin *gin.RouterGroup, c *container.Container) {
	admin.GET("/users", c.UserHandler.ListUsers)

	products := admin.Group("/products")
	{
		products.GET("", c.ProductHandler.AdminListProducts)
		products.POST("", c.ProductHandler.CreateProduct)
		products.GET("/import-form", c.ProductHandler.ImportTemplate)
		products.POST("/imports", c.ProductHandler.ImportProducts)
		products.GET("/imports", c.ProductHandler.ListImports)
		products.GET("/imports/:id", c.ProductHandler.GetImport)
		products.PUT("/:id", c.ProductHandler.UpdateProduct)
		products.DELETE("/:id", c.ProductHandler.DeleteProduct)
		products.POST("/:id/images", c.ProductHandler.AddImages)
		products.DELETE("/:id/images", c.ProductHandler.RemoveImage)
		products.POST("/:id/imports", c.ProductHandler.Restock)
	}

	flashSales := admin.Group("/flash-sales")
	{
		flashSales.POST("", c.FlashSaleHandler.Create)
		flashSales.GET("", c.FlashSaleHandler.List)
		flashSales.GET("/:id", c.FlashSaleHandler.Get)
		flashSales.DELETE("/:id", c.FlashSaleHandler.Delete)
	}

	vouchers := admin.Group("/vouchers")
	{
		vouchers.GET("", c.VoucherHandler.List)
		vouchers.GET("/:id", c.VoucherHandler.Get)
		vouchers.POST("/general", c.VoucherHandler.CreateGeneral)
		vouchers.POST("/personal", c.VoucherHandler.CreatePersonal)
		vouchers.DELETE("/:id", c.VoucherHandler.Delete)
	}

	orders := admin.Group("/orders")
	{
		orders.GET("", c.OrderHandler.ListOrders)
		orders.GET("/export", c.OrderHandler.ExportOrders)
		orders.GET("/:id", c.OrderHandler.GetOrder)
		orders.PATCH("/:id/confirm", c.OrderHandler.Confirm)
		orders.PATCH("/:id/shipping", c.OrderHandler.Ship)
		orders.PATCH("/:id/complete", c.OrderHandler.Complete)
		orders.PATCH("/:id/unclaimed", c.OrderHandler.Unclaim)
		orders.PATCH("/:id/cancel", c.OrderHandler.AdminCancel)
	}

	admin.POST("/notifications", c.NotificationHandler.Broadcast)

	chats := admin.Group("/chats")
	{
		chats.GET("", c.ChatHandler.AdminListChatrooms)
		chats.POST("/customer/:customerId", c.ChatHandler.AdminCreateConversation)
		chats.GET("/:chatroomId", c.ChatHandler.AdminGetChatroom)
		chats.GET("/:chatroomId/recent-messages", c.ChatHandler.AdminListMessages)
		chats.POST("/:chatroomId/send/text-message", c.ChatHandler.AdminSendText)
		chats.POST("/:chatroomId/send/file-message", c.ChatHandler.AdminSendFile)
		chats.PATCH("/:chatroomId/seen", c.ChatHandler.AdminMarkSeen)
	}

	reports := admin.Group("/reports")
	{
		reports.GET("/revenue", c.ReportHandler.Revenue)
		reports.GET("/top-products", c.ReportHandler.TopProducts)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := []struct {
			name     string
			critical bool
			fn       func(context.Context) error
		}{
			{"database", true, appCtx.DB.HealthCheck},
			{"redis", true, appCtx.Redis.HealthCheck},
			{"mongodb", false, appCtx.Mongo.HealthCheck},
		}

		services := gin.H{}
		statusCode := http.StatusOK
		for _, check := range checks {
			if err := check.fn(ctx); err != nil {
				services[check.name] = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
				if check.critical {
					statusCode = http.StatusServiceUnavailable
				}
				continue
			}
			services[check.name] = "ok"
		}
		health["services"] = services

		c.JSON(statusCode, health)
	}
}
