package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/types"
)

type lineResponse struct {
	ID         uuid.UUID               `json:"id"`
	MenuItemID *uuid.UUID              `json:"menu_item_id,omitempty"`
	Name       string                  `json:"name"`
	Quantity   int                     `json:"quantity"`
	UnitPrice  string                  `json:"unit_price"`
	TotalPrice string                  `json:"total_price"`
	Snapshot   types.OrderItemSnapshot `json:"snapshot"`
}

type orderResponse struct {
	ID             uuid.UUID      `json:"id"`
	ConcessionID   uuid.UUID      `json:"concession_id"`
	CustomerID     uuid.UUID      `json:"customer_id"`
	OrderMode      string         `json:"order_mode"`
	ScheduledFor   *time.Time     `json:"scheduled_for,omitempty"`
	PaymentMethod  string         `json:"payment_method"`
	PaymentDetails *string        `json:"payment_details,omitempty"`
	PaymentProof   *string        `json:"payment_proof,omitempty"`
	Status         string         `json:"status"`
	Total          string         `json:"total"`
	Items          []lineResponse `json:"items"`
	CreatedAt      time.Time      `json:"created_at"`
}

type listResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func orderFromModel(order *models.Order) orderResponse {
	out := orderResponse{
		ID:             order.ID,
		ConcessionID:   order.ConcessionID,
		CustomerID:     order.CustomerID,
		OrderMode:      string(order.OrderMode),
		ScheduledFor:   order.ScheduledFor,
		PaymentMethod:  string(order.PaymentMethod),
		PaymentDetails: order.PaymentDetails,
		PaymentProof:   order.PaymentProof,
		Status:         string(order.Status),
		Total:          order.Total.StringFixed(2),
		Items:          []lineResponse{},
		CreatedAt:      order.CreatedAt,
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, lineResponse{
			ID:         item.ID,
			MenuItemID: item.MenuItemID,
			Name:       item.MenuItemName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.StringFixed(2),
			TotalPrice: item.TotalPrice.StringFixed(2),
			Snapshot:   item.Snapshot,
		})
	}
	return out
}

func ordersFromModels(orders []models.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, orderFromModel(&orders[i]))
	}
	return out
}
