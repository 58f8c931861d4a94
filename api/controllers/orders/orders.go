package orders

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kioskoapp/kiosko-backend/api/middleware"
	"github.com/kioskoapp/kiosko-backend/api/responses"
	"github.com/kioskoapp/kiosko-backend/api/validators"
	internalorders "github.com/kioskoapp/kiosko-backend/internal/orders"
	"github.com/kioskoapp/kiosko-backend/internal/selection"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	pkgerrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/logger"
	"github.com/kioskoapp/kiosko-backend/pkg/pagination"
)

// Service is the slice of the orders service the handlers need.
type Service interface {
	Create(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, concessionID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, input internalorders.ListOrdersInput) ([]models.Order, string, error)
	UpdateStatus(ctx context.Context, concessionID, orderID uuid.UUID, rawStatus string) (*models.Order, error)
}

type lineRequest struct {
	MenuItemID      uuid.UUID       `json:"menu_item_id" validate:"required"`
	State           selection.State `json:"state"`
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	CustomerRequest string          `json:"customer_request" validate:"max=500"`
}

type createRequest struct {
	ConcessionID        uuid.UUID     `json:"concession_id" validate:"required"`
	OrderMode           string        `json:"order_mode" validate:"required"`
	ScheduledFor        *time.Time    `json:"scheduled_for"`
	PaymentMethod       string        `json:"payment_method" validate:"required"`
	PaymentDetails      *string       `json:"payment_details" validate:"omitempty,max=500"`
	PaymentProof        *string       `json:"payment_proof" validate:"omitempty,max=2048"`
	Items               []lineRequest `json:"items" validate:"required,min=1,dive"`
	ClientTotal         *string       `json:"client_total"`
	ConfirmPriceWarning bool          `json:"confirm_price_warning"`
}

func (r createRequest) toInput(customerID uuid.UUID) internalorders.CreateOrderInput {
	input := internalorders.CreateOrderInput{
		ConcessionID:        r.ConcessionID,
		CustomerID:          customerID,
		OrderMode:           strings.TrimSpace(r.OrderMode),
		ScheduledFor:        r.ScheduledFor,
		PaymentMethod:       strings.TrimSpace(r.PaymentMethod),
		PaymentDetails:      r.PaymentDetails,
		PaymentProof:        r.PaymentProof,
		ClientTotal:         r.ClientTotal,
		ConfirmPriceWarning: r.ConfirmPriceWarning,
	}
	for _, line := range r.Items {
		input.Items = append(input.Items, internalorders.OrderLineInput{
			MenuItemID:      line.MenuItemID,
			State:           line.State,
			Quantity:        line.Quantity,
			CustomerRequest: validators.SanitizeString(line.CustomerRequest, 500),
		})
	}
	return input
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create assembles and persists an order from the customer's configured
// lines. Every line is repriced server-side; the client total is advisory.
func Create(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), payload.toInput(customerID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orderFromModel(order))
	}
}

// List pages the concession's orders newest-first with an optional status
// filter.
func List(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		concessionID, err := concessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.ListOrdersInput{
			ConcessionID: concessionID,
			Limit:        limit,
			Cursor:       strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
			input.Status = &status
		}

		orders, next, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listResponse{
			Orders:     ordersFromModels(orders),
			NextCursor: next,
		})
	}
}

// Detail returns one owned order with its frozen snapshots.
func Detail(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		concessionID, err := concessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), concessionID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderFromModel(order))
	}
}

// UpdateStatus advances the order through the fulfilment lifecycle.
func UpdateStatus(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		concessionID, err := concessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), concessionID, orderID, strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderFromModel(order))
	}
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

func customerFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}

func concessionFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ConcessionIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "concession context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid concession id")
	}
	return id, nil
}
