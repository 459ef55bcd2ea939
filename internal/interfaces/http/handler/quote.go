package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/pulsetronic/backend/internal/application/sales"
	"github.com/pulsetronic/backend/internal/interfaces/http/dto"
)

// QuoteHandler handles quote request endpoints. Submit serves the
// public site form; the rest are admin operations.
type QuoteHandler struct {
	BaseHandler
	quotes *salesapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quotes *salesapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// Submit accepts a quote request from the public site form
func (h *QuoteHandler) Submit(c *gin.Context) {
	var req salesapp.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.quotes.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns a paginated quote listing for the admin panel
func (h *QuoteHandler) List(c *gin.Context) {
	var req salesapp.ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.quotes.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns a single quote with its customer embedded
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.quotes.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update applies a partial update to a quote. Only the fields present
// in the request body are touched.
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req salesapp.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.quotes.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a quote
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.quotes.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *QuoteHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return uuid.Nil, false
	}
	return id, true
}
