package router

import (
	"github.com/atelierpoz/backoffice/internal/infrastructure/logger"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/handler"
	"github.com/atelierpoz/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers is the set of API handlers mounted by NewEngine
type Handlers struct {
	Health      *handler.HealthHandler
	Products    *handler.ProductHandler
	Orders      *handler.OrderHandler
	Receivables *handler.ReceivableHandler
	Sales       *handler.SaleHandler
	Payables    *handler.PayableHandler
	Sequences   *handler.SequenceHandler
}

// EngineConfig holds the middleware settings of the engine
type EngineConfig struct {
	MaxBodySize int64
	CORS        middleware.CORSConfig
	Tracing     middleware.TracingConfig
}

// NewEngine builds the gin engine: global middleware, health probes outside
// the store scope and the /api/v1 resource routes behind StoreContext.
func NewEngine(cfg EngineConfig, h Handlers, log *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.Tracing(cfg.Tracing),
		logger.GinMiddleware(log),
		middleware.CORSWithConfig(cfg.CORS),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)

	products := NewDomainGroup("products", "/products").
		POST("", h.Products.Create).
		GET("", h.Products.List).
		GET("/:id", h.Products.GetByID)

	orders := NewDomainGroup("orders", "/orders").
		POST("", h.Orders.Create).
		GET("", h.Orders.List).
		GET("/:id", h.Orders.GetByID).
		PATCH("/:id/status", h.Orders.UpdateStatus).
		PUT("/:id/items", h.Orders.ReplaceItems).
		POST("/:id/receivable", h.Orders.Bill)

	receivables := NewDomainGroup("receivables", "/receivables").
		POST("", h.Receivables.Create).
		GET("", h.Receivables.List).
		GET("/:id", h.Receivables.GetByID).
		PATCH("/:id/status", h.Receivables.UpdateStatus).
		POST("/:id/payments", h.Receivables.AddPayment).
		GET("/:id/logs", h.Receivables.ListLogs)

	sales := NewDomainGroup("sales", "/sales").
		POST("", h.Sales.Create).
		GET("", h.Sales.List).
		GET("/:id", h.Sales.GetByID).
		POST("/:id/refund", h.Sales.Refund).
		POST("/:id/cancel", h.Sales.Cancel)

	payables := NewDomainGroup("payables", "/payables").
		POST("", h.Payables.Create).
		GET("", h.Payables.List).
		GET("/:id", h.Payables.GetByID).
		POST("/:id/payments", h.Payables.AddPayment).
		POST("/:id/cancel", h.Payables.Cancel)

	sequences := NewDomainGroup("sequences", "/sequences").
		GET("/:counter/next", h.Sequences.Next)

	NewRouter(engine, WithAPIMiddleware(middleware.StoreContext(), middleware.SpanAttributes())).
		Register(products).
		Register(orders).
		Register(receivables).
		Register(sales).
		Register(payables).
		Register(sequences).
		Setup()

	return engine
}
