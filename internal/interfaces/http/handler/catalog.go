package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/pulsetronic/backend/internal/application/catalog"
	"github.com/pulsetronic/backend/internal/interfaces/http/dto"
)

// ServiceHandler handles the installation service catalog endpoints
type ServiceHandler struct {
	BaseHandler
	services *catalogapp.ServiceService
}

// NewServiceHandler creates a new ServiceHandler
func NewServiceHandler(services *catalogapp.ServiceService) *ServiceHandler {
	return &ServiceHandler{services: services}
}

// ListPublic returns active services for the public site
func (h *ServiceHandler) ListPublic(c *gin.Context) {
	var req catalogapp.ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.services.ListPublic(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetBySlug returns an active service by its URL slug
func (h *ServiceHandler) GetBySlug(c *gin.Context) {
	resp, err := h.services.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns all services, active or not, for the admin panel
func (h *ServiceHandler) List(c *gin.Context) {
	var req catalogapp.ListServicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.services.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns a single service by ID
func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(&h.BaseHandler, c, "Invalid service ID")
	if !ok {
		return
	}

	resp, err := h.services.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Create adds a service to the catalog
func (h *ServiceHandler) Create(c *gin.Context) {
	var req catalogapp.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.services.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update modifies a service. The slug is immutable after creation.
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(&h.BaseHandler, c, "Invalid service ID")
	if !ok {
		return
	}

	var req catalogapp.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.services.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a service and its included items
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(&h.BaseHandler, c, "Invalid service ID")
	if !ok {
		return
	}

	if err := h.services.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// FAQHandler handles the FAQ endpoints
type FAQHandler struct {
	BaseHandler
	faqs *catalogapp.FAQService
}

// NewFAQHandler creates a new FAQHandler
func NewFAQHandler(faqs *catalogapp.FAQService) *FAQHandler {
	return &FAQHandler{faqs: faqs}
}

// ListPublic returns active FAQ entries in display order
func (h *FAQHandler) ListPublic(c *gin.Context) {
	resp, err := h.faqs.ListPublic(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns all FAQ entries for the admin panel
func (h *FAQHandler) List(c *gin.Context) {
	resp, err := h.faqs.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Create adds an FAQ entry
func (h *FAQHandler) Create(c *gin.Context) {
	var req catalogapp.CreateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.faqs.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update modifies an FAQ entry
func (h *FAQHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(&h.BaseHandler, c, "Invalid FAQ ID")
	if !ok {
		return
	}

	var req catalogapp.UpdateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.faqs.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes an FAQ entry
func (h *FAQHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(&h.BaseHandler, c, "Invalid FAQ ID")
	if !ok {
		return
	}

	if err := h.faqs.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// TestimonialHandler handles the testimonial endpoints
type TestimonialHandler struct {
	BaseHandler
	testimonials *catalogapp.TestimonialService
}

// NewTestimonialHandler creates a new TestimonialHandler
func NewTestimonialHandler(testimonials *catalogapp.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonials: testimonials}
}

// Submit accepts a testimonial from the public site. New testimonials
// stay hidden until a staff member approves them.
func (h *TestimonialHandler) Submit(c *gin.Context) {
	var req catalogapp.SubmitTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.testimonials.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListPublic returns approved testimonials for the public site
func (h *TestimonialHandler) ListPublic(c *gin.Context) {
	var req catalogapp.ListTestimonialsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.testimonials.ListPublic(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns all testimonials for the admin panel
func (h *TestimonialHandler) List(c *gin.Context) {
	var req catalogapp.ListTestimonialsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.testimonials.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Moderate approves, rejects or features a testimonial
func (h *TestimonialHandler) Moderate(c *gin.Context) {
	id, ok := parseIDParam(&h.BaseHandler, c, "Invalid testimonial ID")
	if !ok {
		return
	}

	var req catalogapp.ModerateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.testimonials.Moderate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a testimonial
func (h *TestimonialHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(&h.BaseHandler, c, "Invalid testimonial ID")
	if !ok {
		return
	}

	if err := h.testimonials.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// parseIDParam binds and parses the :id path parameter
func parseIDParam(h *BaseHandler, c *gin.Context, message string) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, message)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, message)
		return uuid.Nil, false
	}
	return id, true
}
