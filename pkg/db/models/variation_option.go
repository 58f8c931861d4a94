package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kioskoapp/kiosko-backend/pkg/enums"
)

// VariationOption is one pickable choice inside a variation group.
//
// For custom-mode groups PriceAdjustment is a signed addend on the item's
// base price. For existing-mode groups the row references another menu item
// (ExistingMenuItemID); Name is denormalized from that item at creation time
// and PriceAdjustment, when set, overrides the referenced item's base price
// rather than adding to it.
type VariationOption struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID            uuid.UUID          `gorm:"column:group_id;type:uuid;not null"`
	Name               string             `gorm:"column:name;not null"`
	PriceAdjustment    string             `gorm:"column:price_adjustment;not null;default:'0'"`
	Availability       enums.Availability `gorm:"column:availability;not null;default:'available'"`
	IsDefault          bool               `gorm:"column:is_default;not null;default:false"`
	ExistingMenuItemID *uuid.UUID         `gorm:"column:existing_menu_item_id;type:uuid"`
	Position           int                `gorm:"column:position;not null;default:0"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
