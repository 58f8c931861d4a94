package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kioskoapp/kiosko-backend/internal/pricing"
	"github.com/kioskoapp/kiosko-backend/internal/selection"
	"github.com/kioskoapp/kiosko-backend/internal/snapshot"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
	apperrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/logger"
	"github.com/kioskoapp/kiosko-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// menuReader is the slice of the menu repository order assembly needs.
type menuReader interface {
	ListByConcession(ctx context.Context, concessionID uuid.UUID) ([]models.MenuItem, error)
}

// Service assembles and manages orders.
type Service struct {
	tx     txRunner
	repo   Repository
	menu   menuReader
	logger *logger.Logger
	now    func() time.Time
}

// NewService wires the order service.
func NewService(tx txRunner, repo Repository, menu menuReader, logg *logger.Logger) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if menu == nil {
		return nil, fmt.Errorf("menu reader is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{tx: tx, repo: repo, menu: menu, logger: logg, now: time.Now}, nil
}

// Create freezes every cart line into a snapshot and persists the order in
// one transaction. Each line is recomputed from the live menu item; the
// client-sent total is advisory and a mismatch rejects the order.
func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	order, err := s.assemble(ctx, input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating order")
	}

	logCtx := s.logger.WithFields(ctx, map[string]any{
		"concession_id": order.ConcessionID.String(),
		"order_id":      order.ID.String(),
		"total":         order.Total.StringFixed(2),
	})
	s.logger.Info(logCtx, "order created")

	return order, nil
}

func (s *Service) assemble(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.ConcessionID == uuid.Nil || input.CustomerID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "concession id and customer id are required")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "order needs at least one item")
	}

	mode, err := enums.ParseOrderMode(input.OrderMode)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown order mode").
			WithDetails(map[string]any{"order_mode": input.OrderMode})
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"payment_method": input.PaymentMethod})
	}

	switch mode {
	case enums.OrderModeScheduled:
		if input.ScheduledFor == nil || !input.ScheduledFor.After(s.now()) {
			return nil, apperrors.New(apperrors.CodeValidation, "scheduled orders need a future scheduled_for")
		}
	case enums.OrderModeNow:
		if input.ScheduledFor != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "immediate orders cannot carry scheduled_for")
		}
	}

	if method.RequiresProof() && (input.PaymentProof == nil || strings.TrimSpace(*input.PaymentProof) == "") {
		return nil, apperrors.New(apperrors.CodeValidation, "payment method requires a payment proof").
			WithDetails(map[string]any{"payment_method": method.String()})
	}

	allItems, err := s.menu.ListByConcession(ctx, input.ConcessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading menu")
	}
	byID := make(map[uuid.UUID]*models.MenuItem, len(allItems))
	for i := range allItems {
		byID[allItems[i].ID] = &allItems[i]
	}

	order := &models.Order{
		ConcessionID:   input.ConcessionID,
		CustomerID:     input.CustomerID,
		OrderMode:      mode,
		ScheduledFor:   input.ScheduledFor,
		PaymentMethod:  method,
		PaymentDetails: input.PaymentDetails,
		PaymentProof:   input.PaymentProof,
		Status:         enums.OrderStatusPending,
		Total:          decimal.Zero,
	}

	for li, line := range input.Items {
		item, ok := byID[line.MenuItemID]
		if !ok {
			return nil, apperrors.New(apperrors.CodeNotFound, "menu item not found").
				WithDetails(map[string]any{"menu_item_id": line.MenuItemID.String(), "line": li})
		}
		if item.Availability != enums.AvailabilityAvailable {
			return nil, apperrors.New(apperrors.CodeConflict, "menu item is not available").
				WithDetails(map[string]any{"menu_item_id": item.ID.String(), "line": li})
		}

		sources := selection.ResolveSources(item, allItems)
		breakdown := pricing.ComputeUnitPrice(item, sources, allItems, line.State)
		if breakdown.Clamped && !input.ConfirmPriceWarning {
			return nil, apperrors.New(apperrors.CodePriceWarning, "line price clamped to zero, confirmation required").
				WithDetails(map[string]any{
					"menu_item_id":  item.ID.String(),
					"line":          li,
					"confirm_field": "confirm_price_warning",
				})
		}

		snap, err := snapshot.Build(item, allItems, line.State, line.Quantity, line.CustomerRequest)
		if err != nil {
			return nil, err
		}

		menuItemID := item.ID
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID:   &menuItemID,
			MenuItemName: snap.MenuItemName,
			Quantity:     snap.Quantity,
			UnitPrice:    snap.UnitPrice,
			TotalPrice:   snap.TotalPrice,
			Snapshot:     snap,
		})
		order.Total = order.Total.Add(snap.TotalPrice)
	}

	if input.ClientTotal != nil {
		clientTotal, err := decimal.NewFromString(strings.TrimSpace(*input.ClientTotal))
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "client total must be a decimal string")
		}
		if !clientTotal.Round(2).Equal(order.Total) {
			return nil, apperrors.New(apperrors.CodeValidation, "client total does not match server total").
				WithDetails(map[string]any{
					"client_total": clientTotal.StringFixed(2),
					"server_total": order.Total.StringFixed(2),
				})
		}
	}

	return order, nil
}

// Get returns one order scoped to the concession.
func (s *Service) Get(ctx context.Context, concessionID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.loadOwned(ctx, concessionID, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// List pages a concession's orders newest-first.
func (s *Service) List(ctx context.Context, input ListOrdersInput) ([]models.Order, string, error) {
	if input.ConcessionID == uuid.Nil {
		return nil, "", apperrors.New(apperrors.CodeValidation, "concession id is required")
	}

	var status *enums.OrderStatus
	if input.Status != nil && *input.Status != "" {
		parsed, err := enums.ParseOrderStatus(*input.Status)
		if err != nil {
			return nil, "", apperrors.New(apperrors.CodeValidation, "unknown order status").
				WithDetails(map[string]any{"status": *input.Status})
		}
		status = &parsed
	}

	orders, next, err := s.repo.ListByConcession(ctx, input.ConcessionID, status, pagination.Params{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	})
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInternal, err, "listing orders")
	}
	return orders, next, nil
}

// UpdateStatus advances an order through the fulfillment flow. Disallowed
// transitions are state conflicts, not silent no-ops.
func (s *Service) UpdateStatus(ctx context.Context, concessionID, orderID uuid.UUID, rawStatus string) (*models.Order, error) {
	target, err := enums.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": rawStatus})
	}

	order, err := s.loadOwned(ctx, concessionID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == target {
		return order, nil
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, apperrors.New(apperrors.CodeStateConflict, "status transition disallowed").
			WithDetails(map[string]any{
				"from": order.Status.String(),
				"to":   target.String(),
			})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).UpdateStatus(ctx, orderID, target)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating order status")
	}

	order.Status = target
	logCtx := s.logger.WithFields(ctx, map[string]any{
		"order_id": orderID.String(),
		"status":   target.String(),
	})
	s.logger.Info(logCtx, "order status updated")
	return order, nil
}

func (s *Service) loadOwned(ctx context.Context, concessionID, orderID uuid.UUID) (*models.Order, error) {
	if concessionID == uuid.Nil || orderID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "concession id and order id are required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading order")
	}
	if order.ConcessionID != concessionID {
		return nil, apperrors.New(apperrors.CodeForbidden, "order belongs to another concession")
	}
	return order, nil
}
