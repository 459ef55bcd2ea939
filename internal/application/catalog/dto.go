package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/pulsetronic/backend/internal/domain/catalog"
)

// CreateServiceRequest creates a new installation service
type CreateServiceRequest struct {
	Title         string   `json:"title" binding:"required,max=200"`
	Slug          string   `json:"slug" binding:"required,max=200"`
	Description   string   `json:"description"`
	Category      string   `json:"category" binding:"required,oneof=MULTIMEDIA SOUND CAMERA SECURITY"`
	EstimatedTime int      `json:"estimatedTime" binding:"gte=0"`
	Items         []string `json:"items"`
}

// UpdateServiceRequest updates an existing installation service
type UpdateServiceRequest struct {
	Title         string    `json:"title" binding:"required,max=200"`
	Description   string    `json:"description"`
	Category      string    `json:"category" binding:"required,oneof=MULTIMEDIA SOUND CAMERA SECURITY"`
	EstimatedTime int       `json:"estimatedTime" binding:"gte=0"`
	Items         *[]string `json:"items"`
	Active        *bool     `json:"active"`
}

// ListServicesRequest narrows service listings
type ListServicesRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Category string `form:"category" binding:"omitempty,oneof=MULTIMEDIA SOUND CAMERA SECURITY"`
}

// ServiceResponse is the wire representation of an installation service
type ServiceResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category"`
	EstimatedTime int       `json:"estimatedTime"`
	Active        bool      `json:"active"`
	Items         []string  `json:"items"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ListServicesResponse is a paginated service listing
type ListServicesResponse struct {
	Items    []ServiceResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// CreateFAQRequest creates a new FAQ entry
type CreateFAQRequest struct {
	Question     string `json:"question" binding:"required,max=500"`
	Answer       string `json:"answer" binding:"required"`
	DisplayOrder int    `json:"displayOrder"`
}

// UpdateFAQRequest updates an FAQ entry
type UpdateFAQRequest struct {
	Question     string `json:"question" binding:"required,max=500"`
	Answer       string `json:"answer" binding:"required"`
	DisplayOrder int    `json:"displayOrder"`
	Active       *bool  `json:"active"`
}

// FAQResponse is the wire representation of an FAQ entry
type FAQResponse struct {
	ID           uuid.UUID `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	DisplayOrder int       `json:"displayOrder"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SubmitTestimonialRequest is the public testimonial form payload
type SubmitTestimonialRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,max=2000"`
}

// ModerateTestimonialRequest approves, rejects or features a testimonial
type ModerateTestimonialRequest struct {
	Approved *bool `json:"approved"`
	Featured *bool `json:"featured"`
}

// ListTestimonialsRequest narrows testimonial listings
type ListTestimonialsRequest struct {
	Page         int  `form:"page"`
	PageSize     int  `form:"pageSize"`
	OnlyApproved bool `form:"onlyApproved"`
	OnlyFeatured bool `form:"onlyFeatured"`
}

// TestimonialResponse is the wire representation of a testimonial
type TestimonialResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Approved  bool      `json:"approved"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListTestimonialsResponse is a paginated testimonial listing
type ListTestimonialsResponse struct {
	Items    []TestimonialResponse `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}

func toServiceResponse(s *catalog.Service) ServiceResponse {
	items := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, item.Item)
	}
	return ServiceResponse{
		ID:            s.ID,
		Title:         s.Title,
		Slug:          s.Slug,
		Description:   s.Description,
		Category:      string(s.Category),
		EstimatedTime: s.EstimatedTime,
		Active:        s.Active,
		Items:         items,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toFAQResponse(f *catalog.FAQ) FAQResponse {
	return FAQResponse{
		ID:           f.ID,
		Question:     f.Question,
		Answer:       f.Answer,
		DisplayOrder: f.DisplayOrder,
		Active:       f.Active,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func toTestimonialResponse(tm *catalog.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:        tm.ID,
		Name:      tm.Name,
		Rating:    tm.Rating,
		Comment:   tm.Comment,
		Approved:  tm.Approved,
		Featured:  tm.Featured,
		CreatedAt: tm.CreatedAt,
	}
}
