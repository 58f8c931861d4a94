package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kioskoapp/kiosko-backend/api/controllers"
	categorycontrollers "github.com/kioskoapp/kiosko-backend/api/controllers/categories"
	menucontrollers "github.com/kioskoapp/kiosko-backend/api/controllers/menu"
	ordercontrollers "github.com/kioskoapp/kiosko-backend/api/controllers/orders"
	selectioncontrollers "github.com/kioskoapp/kiosko-backend/api/controllers/selection"
	"github.com/kioskoapp/kiosko-backend/api/middleware"
	internalmenu "github.com/kioskoapp/kiosko-backend/internal/menu"
	"github.com/kioskoapp/kiosko-backend/internal/selection"
	"github.com/kioskoapp/kiosko-backend/pkg/config"
	"github.com/kioskoapp/kiosko-backend/pkg/db"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
	"github.com/kioskoapp/kiosko-backend/pkg/logger"
	"github.com/kioskoapp/kiosko-backend/pkg/metrics"
	"github.com/kioskoapp/kiosko-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    db.Pinger
	Redis redis.Pinger

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Categories     categorycontrollers.Service
	Menu           menucontrollers.Service
	MenuRepo       internalmenu.Repository
	SelectionStore *selection.Store
	Orders         ordercontrollers.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/concession", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.ActorRoleConcessionaire), logg))
			r.Use(middleware.ConcessionContext(logg))

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categorycontrollers.List(deps.Categories, logg))
				r.Put("/", categorycontrollers.Save(deps.Categories, logg))
				r.Delete("/{categoryId}", categorycontrollers.Delete(deps.Categories, logg))
			})

			r.Route("/menu-items", func(r chi.Router) {
				r.Get("/", menucontrollers.List(deps.Menu, logg))
				r.Post("/", menucontrollers.Create(deps.Menu, logg))
				r.Get("/{itemId}", menucontrollers.Get(deps.Menu, logg))
				r.Put("/{itemId}", menucontrollers.Update(deps.Menu, logg))
				r.Delete("/{itemId}", menucontrollers.Delete(deps.Menu, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(deps.Orders, logg))
				r.Get("/{orderId}", ordercontrollers.Detail(deps.Orders, logg))
				r.Post("/{orderId}/status", ordercontrollers.UpdateStatus(deps.Orders, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.ActorRoleCustomer), logg))

			r.Route("/selection/{itemId}", func(r chi.Router) {
				r.Post("/start", selectioncontrollers.Start(deps.MenuRepo, deps.SelectionStore, logg))
				r.Get("/", selectioncontrollers.Get(deps.MenuRepo, deps.SelectionStore, logg))
				r.Post("/options", selectioncontrollers.ToggleOption(deps.MenuRepo, deps.SelectionStore, logg))
				r.Post("/addons", selectioncontrollers.ToggleAddon(deps.MenuRepo, deps.SelectionStore, logg))
				r.Post("/quantity", selectioncontrollers.SetQuantity(deps.MenuRepo, deps.SelectionStore, logg))
				r.Post("/request", selectioncontrollers.SetCustomerRequest(deps.MenuRepo, deps.SelectionStore, logg))
				r.Delete("/", selectioncontrollers.Clear(deps.SelectionStore, logg))
			})

			r.Post("/orders", ordercontrollers.Create(deps.Orders, logg))
		})
	})

	return r
}
