package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kioskoapp/kiosko-backend/pkg/enums"
)

// Order aggregates one or more item snapshots plus order-level metadata.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ConcessionID   uuid.UUID           `gorm:"column:concession_id;type:uuid;not null"`
	CustomerID     uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	OrderMode      enums.OrderMode     `gorm:"column:order_mode;not null"`
	ScheduledFor   *time.Time          `gorm:"column:scheduled_for"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentDetails *string             `gorm:"column:payment_details"`
	PaymentProof   *string             `gorm:"column:payment_proof"`
	Status         enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	Total          decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Items          []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
