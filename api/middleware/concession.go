package middleware

import (
	"net/http"

	"github.com/kioskoapp/kiosko-backend/api/responses"
	pkgerrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/logger"
)

// ConcessionContext rejects requests whose token carries no concession claim.
// Concessionaire-facing routes require one.
func ConcessionContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ConcessionIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "concession context missing"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
