package menu

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kioskoapp/kiosko-backend/api/middleware"
	"github.com/kioskoapp/kiosko-backend/api/responses"
	"github.com/kioskoapp/kiosko-backend/api/validators"
	internalmenu "github.com/kioskoapp/kiosko-backend/internal/menu"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	pkgerrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/logger"
)

// Service is the slice of the menu service the handlers need.
type Service interface {
	List(ctx context.Context, concessionID uuid.UUID) ([]models.MenuItem, error)
	Get(ctx context.Context, concessionID, itemID uuid.UUID) (*models.MenuItem, error)
	Create(ctx context.Context, concessionID uuid.UUID, input internalmenu.ItemInput) (*models.MenuItem, error)
	Update(ctx context.Context, concessionID, itemID uuid.UUID, input internalmenu.ItemInput) (*models.MenuItem, error)
	Delete(ctx context.Context, concessionID, itemID uuid.UUID) error
}

// List returns every menu item of the concession with its full
// configuration tree.
func List(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		concessionID, err := concessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), concessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, itemsFromModels(items))
	}
}

func Get(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		concessionID, err := concessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), concessionID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, itemFromModel(item))
	}
}

// Create authors a new menu item. A saved configuration whose worst-case
// unit price is not positive returns a price warning the client confirms by
// resubmitting with confirm_price_warning=true.
func Create(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		concessionID, err := concessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload internalmenu.ItemInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), concessionID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, itemFromModel(item))
	}
}

func Update(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		concessionID, err := concessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload internalmenu.ItemInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), concessionID, itemID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, itemFromModel(item))
	}
}

func Delete(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		concessionID, err := concessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parseItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), concessionID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseItemID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu item id")
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
