package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/pulsetronic/backend/internal/domain/shared"
)

// UserRole represents the role of a staff user
type UserRole string

const (
	UserRoleAdmin   UserRole = "ADMIN"
	UserRoleManager UserRole = "MANAGER"
)

// User represents a staff member with access to the admin panel
type User struct {
	shared.BaseEntity
	Name         string   `gorm:"type:varchar(200);not null"`
	Email        string   `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string   `gorm:"type:varchar(100);not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'MANAGER'"`
	Active       bool     `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new staff user. The password hash must already be computed.
func NewUser(name, email, passwordHash string, role UserRole) (*User, error) {
	if err := validateUserName(name); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateUserEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if err := validateUserRole(role); err != nil {
		return nil, err
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
	}, nil
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	u.PasswordHash = passwordHash
	u.Touch()
	return nil
}

// RecordLogin stores the time of the last successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.Touch()
}

// ChangeRole updates the user's role
func (u *User) ChangeRole(role UserRole) error {
	if err := validateUserRole(role); err != nil {
		return err
	}
	u.Role = role
	u.Touch()
	return nil
}

// Deactivate disables the user account
func (u *User) Deactivate() error {
	if !u.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already inactive")
	}
	u.Active = false
	u.Touch()
	return nil
}

// Activate re-enables the user account
func (u *User) Activate() error {
	if u.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Active = true
	u.Touch()
	return nil
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

func validateUserName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "User name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "User name cannot exceed 200 characters")
	}
	return nil
}

var userEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateUserEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !userEmailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateUserRole(role UserRole) error {
	switch role {
	case UserRoleAdmin, UserRoleManager:
		return nil
	default:
		return shared.NewDomainError("INVALID_ROLE", "Role must be 'ADMIN' or 'MANAGER'")
	}
}
