package v1

import (
	"github.com/gin-gonic/gin"
)

// RecordRouteHandler defines the interface for record handlers.
type RecordRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	GetByNumber(c *gin.Context)
}

// RegisterRecordRoutes registers the standard routes of a serial-bearing record.
//
// Usage:
//
//	handler := handlers.NewRecordHandler(baseHandler, handlers.RecordHandlerConfig[...]{...})
//	RegisterRecordRoutes(api.Group("/invoices"), handler)
func RegisterRecordRoutes(group *gin.RouterGroup, handler RecordRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/by-number/:number", handler.GetByNumber)
	group.GET("/:serial", handler.Get)
}
