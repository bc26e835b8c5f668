package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"serialseq/internal/core/serial"
	"serialseq/internal/domain/numbering"
	"serialseq/internal/infrastructure/http/v1/dto"
)

// SerialHandler issues serials and reports counter state.
type SerialHandler struct {
	*BaseHandler
	allocator *numbering.Allocator
	store     serial.Store
}

// NewSerialHandler creates a new serial handler.
func NewSerialHandler(base *BaseHandler, allocator *numbering.Allocator, store serial.Store) *SerialHandler {
	return &SerialHandler{BaseHandler: base, allocator: allocator, store: store}
}

// Generate handles POST /serials/:series.
func (h *SerialHandler) Generate(c *gin.Context) {
	var req dto.GenerateSerialRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}

	var asOf time.Time
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	result, err := h.allocator.Generate(c.Request.Context(), c.Param("series"), req.Prefix, asOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromResult(result))
}

// Counter handles GET /serials/:series/:year/:month.
func (h *SerialHandler) Counter(c *gin.Context) {
	year, ok := h.ParseIntParam(c, "year")
	if !ok {
		return
	}
	month, ok := h.ParseIntParam(c, "month")
	if !ok {
		return
	}

	p := serial.Period{Series: c.Param("series"), Year: int(year), Month: int(month)}
	if err := p.Validate(); err != nil {
		h.Error(c, err)
		return
	}

	last, found, err := h.store.Current(c.Request.Context(), p)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.CounterResponse{
		Series:     p.Series,
		Year:       p.Year,
		Month:      p.Month,
		Exists:     found,
		LastNumber: last,
		NextSerial: h.allocator.Format().Format(p.Series, p.Year, p.Month, last+1, ""),
	})
}
