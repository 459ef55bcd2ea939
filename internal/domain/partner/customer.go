// Package partner holds the customer aggregate. Customers are created
// implicitly from public quote requests and looked up by phone number.
package partner

import (
	"regexp"
	"strings"

	"github.com/pulsetronic/backend/internal/domain/shared"
)

// Customer represents an end customer of the shop
type Customer struct {
	shared.BaseEntity
	Name    string `gorm:"type:varchar(200);not null"`
	Email   string `gorm:"type:varchar(200);index"`
	Phone   string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Vehicle string `gorm:"type:varchar(200)"`
	Notes   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer. Phone is the natural lookup key
// for walk-in and website customers, so it is required.
func NewCustomer(name, email, phone, vehicle string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	phone = NormalizePhone(phone)
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Phone:      phone,
		Vehicle:    vehicle,
	}, nil
}

// Update updates the customer's contact information
func (c *Customer) Update(name, email, vehicle string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.Name = name
	c.Email = email
	c.Vehicle = vehicle
	c.Touch()
	return nil
}

// SetNotes sets free-form notes about the customer
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.Touch()
}

// NormalizePhone strips formatting characters so the same phone number
// always maps to the same customer row.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

var phoneRegex = regexp.MustCompile(`^\+?\d{8,15}$`)

func validatePhone(phone string) error {
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
