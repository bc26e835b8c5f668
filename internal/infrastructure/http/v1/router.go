// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"serialseq/internal/core/serial"
	"serialseq/internal/domain"
	"serialseq/internal/domain/numbering"
	"serialseq/internal/domain/records/booking"
	"serialseq/internal/domain/records/invoice"
	"serialseq/internal/domain/records/order"
	"serialseq/internal/infrastructure/http/v1/dto"
	"serialseq/internal/infrastructure/http/v1/handlers"
	"serialseq/internal/infrastructure/http/v1/middleware"
	"serialseq/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Allocator issues serials; Store answers counter queries
	Allocator *numbering.Allocator
	Store     serial.Store

	// Health checks the database; nil skips the check
	Health  handlers.Pinger
	Backend string
	Version string

	// Record services; nil ones are not routed
	Invoices *domain.RecordService[*invoice.Invoice]
	Orders   *domain.RecordService[*order.Order]
	Bookings *domain.RecordService[*booking.Booking]
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	// Serials may carry a "/" prefix separator; match on the escaped path.
	router.UseRawPath = true

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	// Global middleware (order matters!)
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.Health, cfg.Backend, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	{
		registerSerialRoutes(v1, cfg)
		registerRecordRoutes(v1, cfg)
	}

	return router
}

// registerSerialRoutes registers raw allocation endpoints.
func registerSerialRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Allocator == nil || cfg.Store == nil {
		return
	}

	handler := handlers.NewSerialHandler(handlers.NewBaseHandler(), cfg.Allocator, cfg.Store)
	serials := rg.Group("/serials")
	{
		serials.POST("/:series", handler.Generate)
		serials.GET("/:series/:year/:month", handler.Counter)
	}
}

// registerRecordRoutes registers business record endpoints.
func registerRecordRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	// --- INVOICES ---
	if cfg.Invoices != nil {
		handler := handlers.NewRecordHandler(baseHandler, handlers.RecordHandlerConfig[*invoice.Invoice, dto.CreateInvoiceRequest]{
			Service:       cfg.Invoices,
			DefaultSeries: invoice.Series,
			MapCreateDTO:  func(req dto.CreateInvoiceRequest) *invoice.Invoice { return req.ToEntity() },
			MapToDTO:      func(i *invoice.Invoice) any { return dto.FromInvoice(i) },
		})
		RegisterRecordRoutes(rg.Group("/invoices"), handler)
	}

	// --- ORDERS ---
	if cfg.Orders != nil {
		handler := handlers.NewRecordHandler(baseHandler, handlers.RecordHandlerConfig[*order.Order, dto.CreateOrderRequest]{
			Service:       cfg.Orders,
			DefaultSeries: order.Series,
			MapCreateDTO:  func(req dto.CreateOrderRequest) *order.Order { return req.ToEntity() },
			MapToDTO:      func(o *order.Order) any { return dto.FromOrder(o) },
		})
		RegisterRecordRoutes(rg.Group("/orders"), handler)
	}

	// --- BOOKINGS ---
	if cfg.Bookings != nil {
		handler := handlers.NewRecordHandler(baseHandler, handlers.RecordHandlerConfig[*booking.Booking, dto.CreateBookingRequest]{
			Service:       cfg.Bookings,
			DefaultSeries: booking.Series,
			MapCreateDTO:  func(req dto.CreateBookingRequest) *booking.Booking { return req.ToEntity() },
			MapToDTO:      func(b *booking.Booking) any { return dto.FromBooking(b) },
		})
		RegisterRecordRoutes(rg.Group("/bookings"), handler)
	}
}
