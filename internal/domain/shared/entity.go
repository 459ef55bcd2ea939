package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamp columns every aggregate
// embeds. IDs are generated application-side so entities are addressable
// before the first save.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity generates a fresh ID with both timestamps set to now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes the update timestamp after a mutation.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
