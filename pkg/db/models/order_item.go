package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kioskoapp/kiosko-backend/pkg/types"
)

// OrderItem persists one frozen cart line. Snapshot is the authoritative,
// self-contained copy of what the customer configured; the flat columns are
// denormalized from it for querying. MenuItemID is informational only and may
// dangle once the menu item is edited or deleted.
type OrderItem struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID               `gorm:"column:order_id;type:uuid;not null"`
	MenuItemID   *uuid.UUID              `gorm:"column:menu_item_id;type:uuid"`
	MenuItemName string                  `gorm:"column:menu_item_name;not null"`
	Quantity     int                     `gorm:"column:quantity;not null"`
	UnitPrice    decimal.Decimal         `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice   decimal.Decimal         `gorm:"column:total_price;type:numeric(12,2);not null"`
	Snapshot     types.OrderItemSnapshot `gorm:"column:snapshot;type:jsonb;serializer:json"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
