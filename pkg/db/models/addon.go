package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Addon offers another menu item as an optional (or required) extra on the
// owning item. Label and PriceOverride shadow the target's name and base
// price when set. An addon never targets its own owning item.
type Addon struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MenuItemID       uuid.UUID           `gorm:"column:menu_item_id;type:uuid;not null"`
	TargetMenuItemID uuid.UUID           `gorm:"column:target_menu_item_id;type:uuid;not null"`
	Label            *string             `gorm:"column:label"`
	PriceOverride    decimal.NullDecimal `gorm:"column:price_override;type:numeric(12,2)"`
	Required         bool                `gorm:"column:required;not null;default:false"`
	Position         int                 `gorm:"column:position;not null;default:0"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// DisplayName resolves the customer-facing label against the target item.
func (a *Addon) DisplayName(target *MenuItem) string {
	if a.Label != nil && *a.Label != "" {
		return *a.Label
	}
	if target != nil {
		return target.Name
	}
	return ""
}

// Price resolves the charged price against the target item's base price.
func (a *Addon) Price(target *MenuItem) decimal.Decimal {
	if a.PriceOverride.Valid {
		return a.PriceOverride.Decimal
	}
	if target != nil {
		return target.BasePrice
	}
	return decimal.Zero
}
