package selection

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kioskoapp/kiosko-backend/api/responses"
	"github.com/kioskoapp/kiosko-backend/api/validators"
	"github.com/kioskoapp/kiosko-backend/internal/pricing"
	internalselection "github.com/kioskoapp/kiosko-backend/internal/selection"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
	pkgerrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/logger"
)

const sessionHeader = "X-Session-Id"

const maxCustomerRequestLen = 500

// menuReader is the slice of the menu repository the handlers need. The
// configuring item's siblings are required to resolve existing- and
// category-sourced option groups.
type menuReader interface {
	FindByID(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error)
	ListByConcession(ctx context.Context, concessionID uuid.UUID) ([]models.MenuItem, error)
}

// sessionStore is the slice of the selection store the handlers need.
type sessionStore interface {
	Save(ctx context.Context, sessionID string, state internalselection.State) error
	Load(ctx context.Context, sessionID string, menuItemID uuid.UUID) (*internalselection.State, error)
	Delete(ctx context.Context, sessionID string, menuItemID uuid.UUID) error
}

type toggleOptionRequest struct {
	GroupID  uuid.UUID `json:"group_id" validate:"required"`
	OptionID uuid.UUID `json:"option_id" validate:"required"`
}

type toggleAddonRequest struct {
	AddonID uuid.UUID `json:"addon_id" validate:"required"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type customerRequestPayload struct {
	CustomerRequest string `json:"customer_request"`
}

// Start opens (or restarts) a configuration session for one menu item,
// seeding defaults and required addons. The session id is taken from the
// X-Session-Id header or minted and echoed back.
func Start(menus menuReader, store sessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, siblings, err := loadItem(r, menus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if item.Availability != enums.AvailabilityAvailable {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "menu item is unavailable"))
			return
		}

		sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		w.Header().Set(sessionHeader, sessionID)

		state := internalselection.Initialize(item)
		if err := store.Save(r.Context(), sessionID, state); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buildView(sessionID, item, siblings, state))
	}
}

// Get returns the current selection state with its live price breakdown.
func Get(menus menuReader, store sessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, siblings, err := loadItem(r, menus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, state, err := loadState(r, store, item.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buildView(sessionID, item, siblings, *state))
	}
}

// ToggleOption flips one option in one group through the engine: radio
// semantics for single groups, add/remove with the multi limit for multi
// groups.
func ToggleOption(menus menuReader, store sessionStore, logg *logger.Logger) http.HandlerFunc {
	return mutate(menus, store, logg, func(r *http.Request, item *models.MenuItem, sources internalselection.Sources, state internalselection.State) (internalselection.State, error) {
		var payload toggleOptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return state, err
		}
		return internalselection.ToggleOption(item, sources, state, payload.GroupID, payload.OptionID)
	})
}

// ToggleAddon flips one addon; unselecting a required addon is a no-op.
func ToggleAddon(menus menuReader, store sessionStore, logg *logger.Logger) http.HandlerFunc {
	return mutate(menus, store, logg, func(r *http.Request, item *models.MenuItem, _ internalselection.Sources, state internalselection.State) (internalselection.State, error) {
		var payload toggleAddonRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return state, err
		}
		return internalselection.ToggleAddon(item, state, payload.AddonID)
	})
}

// SetQuantity updates the configured quantity, floored at one.
func SetQuantity(menus menuReader, store sessionStore, logg *logger.Logger) http.HandlerFunc {
	return mutate(menus, store, logg, func(r *http.Request, _ *models.MenuItem, _ internalselection.Sources, state internalselection.State) (internalselection.State, error) {
		var payload quantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return state, err
		}
		return internalselection.SetQuantity(state, payload.Quantity), nil
	})
}

// SetCustomerRequest attaches a free-text note to the configuration.
func SetCustomerRequest(menus menuReader, store sessionStore, logg *logger.Logger) http.HandlerFunc {
	return mutate(menus, store, logg, func(r *http.Request, _ *models.MenuItem, _ internalselection.Sources, state internalselection.State) (internalselection.State, error) {
		var payload customerRequestPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return state, err
		}
		note := validators.SanitizeString(payload.CustomerRequest, maxCustomerRequestLen)
		return internalselection.SetCustomerRequest(state, note), nil
	})
}

// Clear abandons the configuration session for the item.
func Clear(store sessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id is required"))
			return
		}

		if err := store.Delete(r.Context(), sessionID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

type mutation func(r *http.Request, item *models.MenuItem, sources internalselection.Sources, state internalselection.State) (internalselection.State, error)

func mutate(menus menuReader, store sessionStore, logg *logger.Logger, apply mutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, siblings, err := loadItem(r, menus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, state, err := loadState(r, store, item.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sources := internalselection.ResolveSources(item, siblings)
		next, err := apply(r, item, sources, *state)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Save(r.Context(), sessionID, next); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, buildView(sessionID, item, siblings, next))
	}
}

func loadItem(r *http.Request, menus menuReader) (*models.MenuItem, []models.MenuItem, error) {
	itemID, err := parseItemID(r)
	if err != nil {
		return nil, nil, err
	}

	item, err := menus.FindByID(r.Context(), itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}

	siblings, err := menus.ListByConcession(r.Context(), item.ConcessionID)
	if err != nil {
		return nil, nil, err
	}
	return item, siblings, nil
}

func loadState(r *http.Request, store sessionStore, itemID uuid.UUID) (string, *internalselection.State, error) {
	sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
	if sessionID == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	state, err := store.Load(r.Context(), sessionID, itemID)
	if err != nil {
		return "", nil, err
	}
	if state == nil {
		return "", nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active selection for this item")
	}
	return sessionID, state, nil
}

func parseItemID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu item id")
	}
	return id, nil
}

func buildView(sessionID string, item *models.MenuItem, siblings []models.MenuItem, state internalselection.State) view {
	sources := internalselection.ResolveSources(item, siblings)
	breakdown := pricing.ComputeUnitPrice(item, sources, siblings, state)
	return newView(sessionID, item, siblings, sources, state, breakdown)
}
