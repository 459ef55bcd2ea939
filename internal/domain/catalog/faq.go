package catalog

import (
	"github.com/pulsetronic/backend/internal/domain/shared"
)

// FAQ represents a frequently asked question shown on the public site
type FAQ struct {
	shared.BaseEntity
	Question     string `gorm:"type:varchar(500);not null"`
	Answer       string `gorm:"type:text;not null"`
	DisplayOrder int    `gorm:"not null;default:0"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (FAQ) TableName() string {
	return "faqs"
}

// NewFAQ creates a new FAQ entry
func NewFAQ(question, answer string, displayOrder int) (*FAQ, error) {
	if err := validateQuestion(question); err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, shared.NewDomainError("INVALID_ANSWER", "Answer cannot be empty")
	}

	return &FAQ{
		BaseEntity:   shared.NewBaseEntity(),
		Question:     question,
		Answer:       answer,
		DisplayOrder: displayOrder,
		Active:       true,
	}, nil
}

// Update updates the FAQ's content
func (f *FAQ) Update(question, answer string, displayOrder int) error {
	if err := validateQuestion(question); err != nil {
		return err
	}
	if answer == "" {
		return shared.NewDomainError("INVALID_ANSWER", "Answer cannot be empty")
	}

	f.Question = question
	f.Answer = answer
	f.DisplayOrder = displayOrder
	f.Touch()
	return nil
}

// Activate makes the FAQ visible on the public site
func (f *FAQ) Activate() {
	f.Active = true
	f.Touch()
}

// Deactivate hides the FAQ from the public site
func (f *FAQ) Deactivate() {
	f.Active = false
	f.Touch()
}

func validateQuestion(question string) error {
	if question == "" {
		return shared.NewDomainError("INVALID_QUESTION", "Question cannot be empty")
	}
	if len(question) > 500 {
		return shared.NewDomainError("INVALID_QUESTION", "Question cannot exceed 500 characters")
	}
	return nil
}
