package categories

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kioskoapp/kiosko-backend/api/middleware"
	"github.com/kioskoapp/kiosko-backend/api/responses"
	"github.com/kioskoapp/kiosko-backend/api/validators"
	internalcategories "github.com/kioskoapp/kiosko-backend/internal/categories"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	pkgerrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/logger"
)

// Service is the slice of the categories service the handlers need.
type Service interface {
	List(ctx context.Context, concessionID uuid.UUID) ([]models.Category, error)
	Save(ctx context.Context, concessionID uuid.UUID, inputs []internalcategories.CategoryInput) ([]models.Category, error)
	Delete(ctx context.Context, concessionID, categoryID uuid.UUID) error
}

type categoryPayload struct {
	ID   *uuid.UUID `json:"id"`
	Name string     `json:"name" validate:"required"`
}

type saveRequest struct {
	Categories []categoryPayload `json:"categories" validate:"required,dive"`
}

type categoryResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Position int       `json:"position"`
}

func toResponse(cats []models.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name, Position: c.Position})
	}
	return out
}

// List returns the concession's categories in display order.
func List(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		concessionID, err := concessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cats, err := svc.List(r.Context(), concessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toResponse(cats))
	}
}

// Save replaces the concession's category list, reordering by input position
// and detaching removed categories from items and groups.
func Save(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		concessionID, err := concessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload saveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]internalcategories.CategoryInput, 0, len(payload.Categories))
		for _, c := range payload.Categories {
			inputs = append(inputs, internalcategories.CategoryInput{
				ID:   c.ID,
				Name: strings.TrimSpace(c.Name),
			})
		}

		cats, err := svc.Save(r.Context(), concessionID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toResponse(cats))
	}
}

// Delete removes one category and closes the position gap.
func Delete(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		concessionID, err := concessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := uuid.Parse(chi.URLParam(r, "categoryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
			return
		}

		if err := svc.Delete(r.Context(), concessionID, categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
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
