package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/kioskoapp/kiosko-backend/pkg/enums"
	"github.com/kioskoapp/kiosko-backend/pkg/types"
)

// MenuItem is the canonical merchant listing a customer configures.
type MenuItem struct {
	ID                   uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ConcessionID         uuid.UUID                   `gorm:"column:concession_id;type:uuid;not null"`
	Name                 string                      `gorm:"column:name;not null"`
	Description          *string                     `gorm:"column:description"`
	BasePrice            decimal.Decimal             `gorm:"column:base_price;type:numeric(12,2);not null"`
	Images               pq.StringArray              `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	DisplayImageIndex    int                         `gorm:"column:display_image_index;not null;default:0"`
	Availability         enums.Availability          `gorm:"column:availability;not null;default:'available'"`
	AvailabilitySchedule *types.AvailabilitySchedule `gorm:"column:availability_schedule;type:jsonb;serializer:json"`
	CategoryIDs          pq.StringArray              `gorm:"column:category_ids;type:uuid[];not null;default:ARRAY[]::uuid[]"`
	VariationGroups      []VariationGroup            `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	Addons               []Addon                     `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

// HasCategory reports whether the item carries the given category id.
func (m *MenuItem) HasCategory(categoryID uuid.UUID) bool {
	want := categoryID.String()
	for _, id := range m.CategoryIDs {
		if id == want {
			return true
		}
	}
	return false
}

// SharesCategoryWith reports whether the item carries any of the given ids.
func (m *MenuItem) SharesCategoryWith(categoryIDs []string) bool {
	for _, own := range m.CategoryIDs {
		for _, other := range categoryIDs {
			if own == other {
				return true
			}
		}
	}
	return false
}
