// Package catalog holds the public website content: installation
// services, frequently asked questions, and customer testimonials.
package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// ServiceCategory represents the category of an installation service
type ServiceCategory string

const (
	ServiceCategoryMultimedia ServiceCategory = "MULTIMEDIA"
	ServiceCategorySound      ServiceCategory = "SOUND"
	ServiceCategoryCamera     ServiceCategory = "CAMERA"
	ServiceCategorySecurity   ServiceCategory = "SECURITY"
)

// Service represents an installation service offered by the shop
type Service struct {
	shared.BaseEntity
	Title         string          `gorm:"type:varchar(200);not null"`
	Slug          string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description   string          `gorm:"type:text"`
	Category      ServiceCategory `gorm:"type:varchar(20);not null;index"`
	EstimatedTime int             `gorm:"not null;default:0"` // minutes
	Active        bool            `gorm:"not null;default:true"`
	Items         []ServiceItem   `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Service) TableName() string {
	return "services"
}

// ServiceItem is a single bullet point describing what a service includes
type ServiceItem struct {
	shared.BaseEntity
	ServiceID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Item         string    `gorm:"type:varchar(500);not null"`
	DisplayOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ServiceItem) TableName() string {
	return "service_items"
}

// NewService creates a new installation service
func NewService(title, slug, description string, category ServiceCategory, estimatedTime int) (*Service, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if estimatedTime < 0 {
		return nil, shared.NewDomainError("INVALID_ESTIMATED_TIME", "Estimated time cannot be negative")
	}

	return &Service{
		BaseEntity:    shared.NewBaseEntity(),
		Title:         title,
		Slug:          slug,
		Description:   description,
		Category:      category,
		EstimatedTime: estimatedTime,
		Active:        true,
	}, nil
}

// Update updates the service's basic information
func (s *Service) Update(title, description string, category ServiceCategory, estimatedTime int) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	if estimatedTime < 0 {
		return shared.NewDomainError("INVALID_ESTIMATED_TIME", "Estimated time cannot be negative")
	}

	s.Title = title
	s.Description = description
	s.Category = category
	s.EstimatedTime = estimatedTime
	s.Touch()
	return nil
}

// ReplaceItems swaps the service's bullet points, preserving input order
func (s *Service) ReplaceItems(items []string) error {
	replaced := make([]ServiceItem, 0, len(items))
	for i, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			return shared.NewDomainError("INVALID_ITEM", "Service item cannot be empty")
		}
		if len(item) > 500 {
			return shared.NewDomainError("INVALID_ITEM", "Service item cannot exceed 500 characters")
		}
		replaced = append(replaced, ServiceItem{
			BaseEntity:   shared.NewBaseEntity(),
			ServiceID:    s.ID,
			Item:         item,
			DisplayOrder: i,
		})
	}
	s.Items = replaced
	s.Touch()
	return nil
}

// Activate makes the service visible on the public site
func (s *Service) Activate() {
	s.Active = true
	s.Touch()
}

// Deactivate hides the service from the public site
func (s *Service) Deactivate() {
	s.Active = false
	s.Touch()
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	return nil
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func validateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 200 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 200 characters")
	}
	if !slugRegex.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug can only contain lowercase letters, numbers, and hyphens")
	}
	return nil
}

func validateCategory(category ServiceCategory) error {
	switch category {
	case ServiceCategoryMultimedia, ServiceCategorySound, ServiceCategoryCamera, ServiceCategorySecurity:
		return nil
	default:
		return shared.NewDomainError("INVALID_CATEGORY", "Invalid service category")
	}
}
