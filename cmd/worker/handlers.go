package main

import (
	"github.com/hibiken/asynq"

	flashSaleJob "shop-backend/internal/domains/flashsale/job"
	orderJob "shop-backend/internal/domains/order/job"
	productJob "shop-backend/internal/domains/product/job"
	"shop-backend/internal/shared"
	"shop-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	importProducts *productJob.ImportProductsHandler

	// Flash sale timers: notify / activate / deactivate dùng chung handler
	flashSaleTimer   *flashSaleJob.TimerHandler
	flashSaleRecover *flashSaleJob.RecoverHandler
	flashSaleEmail   *flashSaleJob.EmailHandler

	orderStatusEmail *orderJob.StatusEmailHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	frontendURL := c.Config.Email.FrontendURL

	return &HandlerRegistry{
		importProducts: productJob.NewImportProductsHandler(c.ImportService),

		flashSaleTimer:   flashSaleJob.NewTimerHandler(c.FlashSaleService),
		flashSaleRecover: flashSaleJob.NewRecoverHandler(c.FlashSaleService),
		flashSaleEmail: flashSaleJob.NewEmailHandler(
			c.FlashSaleService,
			c.UserService,
			c.EmailService,
			frontendURL,
		),

		orderStatusEmail: orderJob.NewStatusEmailHandler(
			c.OrderService,
			c.UserService,
			c.EmailService,
			frontendURL,
		),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Product
	mux.HandleFunc(shared.TypeImportProducts, h.importProducts.ProcessTask)

	// Flash sale
	mux.HandleFunc(shared.TypeFlashSaleNotify, h.flashSaleTimer.ProcessTask)
	mux.HandleFunc(shared.TypeFlashSaleActivate, h.flashSaleTimer.ProcessTask)
	mux.HandleFunc(shared.TypeFlashSaleDeactivate, h.flashSaleTimer.ProcessTask)
	mux.HandleFunc(shared.TypeFlashSaleRecover, h.flashSaleRecover.ProcessTask)
	mux.HandleFunc(shared.TypeFlashSaleEmail, h.flashSaleEmail.ProcessTask)

	// Order
	mux.HandleFunc(shared.TypeOrderStatusEmail, h.orderStatusEmail.ProcessTask)
}
