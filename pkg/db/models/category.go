package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a flat, ordered label owned by a concession. Items reference
// categories for grouping; category-sourced variation groups reference them
// as option filters.
type Category struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ConcessionID uuid.UUID `gorm:"column:concession_id;type:uuid;not null"`
	Name         string    `gorm:"column:name;not null"`
	Position     int       `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
