package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/kioskoapp/kiosko-backend/internal/selection"
)

// OrderLineInput is one cart line to freeze into the order. The selection
// state is replayed server-side against the live menu item; the client never
// supplies prices.
type OrderLineInput struct {
	MenuItemID      uuid.UUID       `json:"menu_item_id" validate:"required"`
	State           selection.State `json:"state"`
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	CustomerRequest string          `json:"customer_request" validate:"max=500"`
}

// CreateOrderInput carries everything needed to assemble one order.
type CreateOrderInput struct {
	ConcessionID   uuid.UUID        `json:"concession_id" validate:"required"`
	CustomerID     uuid.UUID        `json:"customer_id" validate:"required"`
	OrderMode      string           `json:"order_mode" validate:"required"`
	ScheduledFor   *time.Time       `json:"scheduled_for"`
	PaymentMethod  string           `json:"payment_method" validate:"required"`
	PaymentDetails *string          `json:"payment_details" validate:"omitempty,max=500"`
	PaymentProof   *string          `json:"payment_proof" validate:"omitempty,max=2048"`
	Items          []OrderLineInput `json:"items" validate:"required,min=1,dive"`

	// ClientTotal is the customer app's displayed total. Advisory only: the
	// server recomputes every line and rejects a mismatch.
	ClientTotal *string `json:"client_total"`

	// ConfirmPriceWarning acknowledges a clamped (zero) unit price so
	// checkout can proceed.
	ConfirmPriceWarning bool `json:"confirm_price_warning"`
}

// ListOrdersInput filters and pages a concession's orders.
type ListOrdersInput struct {
	ConcessionID uuid.UUID
	Status       *string
	Limit        int
	Cursor       string
}
