package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contactapp "github.com/pulsetronic/backend/internal/application/contact"
	"github.com/pulsetronic/backend/internal/interfaces/http/dto"
)

// ContactHandler handles contact message endpoints. Submit serves the
// public site form; the rest are admin operations.
type ContactHandler struct {
	BaseHandler
	contacts *contactapp.Service
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contacts *contactapp.Service) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit accepts a contact message from the public site form
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactapp.SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.contacts.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns a paginated contact listing for the admin panel
func (h *ContactHandler) List(c *gin.Context) {
	var req contactapp.ListContactsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.contacts.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns a single contact message. Fetching a NEW message marks
// it as read.
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.contacts.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reply records a staff reply and emails it to the sender
func (h *ContactHandler) Reply(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req contactapp.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.contacts.Reply(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Close closes a contact thread without replying
func (h *ContactHandler) Close(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.contacts.Close(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a contact message
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ContactHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid contact ID")
		return uuid.Nil, false
	}
	return id, true
}
