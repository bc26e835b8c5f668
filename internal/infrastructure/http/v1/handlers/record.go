package handlers

import (
	"github.com/gin-gonic/gin"

	"serialseq/internal/core/entity"
	"serialseq/internal/domain"
	"serialseq/internal/infrastructure/http/v1/dto"
)

// RecordHandler provides generic HTTP handlers for serial-bearing records.
type RecordHandler[T entity.SerialBearer, CreateDTO any] struct {
	*BaseHandler
	service       *domain.RecordService[T]
	defaultSeries string

	// Mapper functions
	mapCreateDTO func(dto CreateDTO) T
	mapToDTO     func(entity T) any
}

// RecordHandlerConfig configures the record handler.
type RecordHandlerConfig[T entity.SerialBearer, CreateDTO any] struct {
	Service *domain.RecordService[T]
	// DefaultSeries is used by lookups that do not name a series.
	DefaultSeries string
	MapCreateDTO  func(dto CreateDTO) T
	MapToDTO      func(entity T) any
}

// NewRecordHandler creates a new record handler.
func NewRecordHandler[T entity.SerialBearer, CreateDTO any](
	base *BaseHandler,
	cfg RecordHandlerConfig[T, CreateDTO],
) *RecordHandler[T, CreateDTO] {
	return &RecordHandler[T, CreateDTO]{
		BaseHandler:   base,
		service:       cfg.Service,
		defaultSeries: cfg.DefaultSeries,
		mapCreateDTO:  cfg.MapCreateDTO,
		mapToDTO:      cfg.MapToDTO,
	}
}

// Create handles POST /{entity}. The serial is assigned on insert.
func (h *RecordHandler[T, CreateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	record := h.mapCreateDTO(req)
	if err := h.service.Create(c.Request.Context(), record); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.mapToDTO(record))
}

// Get handles GET /{entity}/:serial. Serials containing the prefix
// separator must be path-escaped (HQ%2FINV-0224-000001).
func (h *RecordHandler[T, CreateDTO]) Get(c *gin.Context) {
	record, err := h.service.GetBySerial(c.Request.Context(), c.Param("serial"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(record))
}

// GetByNumber handles GET /{entity}/by-number/:number?series=.
func (h *RecordHandler[T, CreateDTO]) GetByNumber(c *gin.Context) {
	number, ok := h.ParseIntParam(c, "number")
	if !ok {
		return
	}

	record, err := h.service.GetBySerialNumber(c.Request.Context(), c.DefaultQuery("series", h.defaultSeries), number)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, h.mapToDTO(record))
}

// List handles GET /{entity}?series=&year=&month= (either may be omitted) or
// GET /{entity}?series=&from=&to= (number range).
func (h *RecordHandler[T, CreateDTO]) List(c *gin.Context) {
	ctx := c.Request.Context()
	series := c.DefaultQuery("series", h.defaultSeries)

	var (
		records []T
		err     error
	)
	if c.Query("year") != "" || c.Query("month") != "" {
		year, ok := h.ParseIntQuery(c, "year", 0)
		if !ok {
			return
		}
		month, ok := h.ParseIntQuery(c, "month", 0)
		if !ok {
			return
		}
		records, err = h.service.ListByPeriod(ctx, series, int(year), int(month))
	} else {
		from, ok := h.ParseIntQuery(c, "from", 0)
		if !ok {
			return
		}
		to, ok := h.ParseIntQuery(c, "to", 0)
		if !ok {
			return
		}
		records, err = h.service.ListByNumberRange(ctx, series, from, to)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(records))
	for i, r := range records {
		items[i] = h.mapToDTO(r)
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
	})
}
