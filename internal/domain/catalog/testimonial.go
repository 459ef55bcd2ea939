package catalog

import (
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// Testimonial represents a customer review. Only approved testimonials
// are exposed on the public site.
type Testimonial struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(200);not null"`
	Rating   int    `gorm:"not null"`
	Comment  string `gorm:"type:text;not null"`
	Approved bool   `gorm:"not null;default:false"`
	Featured bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Testimonial) TableName() string {
	return "testimonials"
}

// NewTestimonial creates a new testimonial pending approval
func NewTestimonial(name string, rating int, comment string) (*Testimonial, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	if comment == "" {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment cannot be empty")
	}

	return &Testimonial{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Rating:     rating,
		Comment:    comment,
	}, nil
}

// Approve publishes the testimonial on the public site
func (t *Testimonial) Approve() {
	t.Approved = true
	t.Touch()
}

// Reject unpublishes the testimonial
func (t *Testimonial) Reject() {
	t.Approved = false
	t.Featured = false
	t.Touch()
}

// SetFeatured pins or unpins the testimonial on the home page.
// Only approved testimonials can be featured.
func (t *Testimonial) SetFeatured(featured bool) error {
	if featured && !t.Approved {
		return shared.NewDomainError("NOT_APPROVED", "Only approved testimonials can be featured")
	}
	t.Featured = featured
	t.Touch()
	return nil
}
