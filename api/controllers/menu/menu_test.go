package menu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kioskoapp/kiosko-backend/api/middleware"
	internalmenu "github.com/kioskoapp/kiosko-backend/internal/menu"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
	pkgerrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/types"
)

type stubService struct {
	list   func(ctx context.Context, concessionID uuid.UUID) ([]models.MenuItem, error)
	get    func(ctx context.Context, concessionID, itemID uuid.UUID) (*models.MenuItem, error)
	create func(ctx context.Context, concessionID uuid.UUID, input internalmenu.ItemInput) (*models.MenuItem, error)
	update func(ctx context.Context, concessionID, itemID uuid.UUID, input internalmenu.ItemInput) (*models.MenuItem, error)
	del    func(ctx context.Context, concessionID, itemID uuid.UUID) error
}

func (s *stubService) List(ctx context.Context, concessionID uuid.UUID) ([]models.MenuItem, error) {
	return s.list(ctx, concessionID)
}

func (s *stubService) Get(ctx context.Context, concessionID, itemID uuid.UUID) (*models.MenuItem, error) {
	return s.get(ctx, concessionID, itemID)
}

func (s *stubService) Create(ctx context.Context, concessionID uuid.UUID, input internalmenu.ItemInput) (*models.MenuItem, error) {
	return s.create(ctx, concessionID, input)
}

func (s *stubService) Update(ctx context.Context, concessionID, itemID uuid.UUID, input internalmenu.ItemInput) (*models.MenuItem, error) {
	return s.update(ctx, concessionID, itemID, input)
}

func (s *stubService) Delete(ctx context.Context, concessionID, itemID uuid.UUID) error {
	return s.del(ctx, concessionID, itemID)
}

func withConcession(r *http.Request, concessionID uuid.UUID) *http.Request {
	return r.WithContext(middleware.WithConcessionID(r.Context(), concessionID.String()))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateDecodesAuthoringPayload(t *testing.T) {
	concessionID := uuid.New()
	var captured internalmenu.ItemInput
	svc := &stubService{
		create: func(ctx context.Context, _ uuid.UUID, input internalmenu.ItemInput) (*models.MenuItem, error) {
			captured = input
			return &models.MenuItem{
				ID:           uuid.New(),
				ConcessionID: concessionID,
				Name:         input.Name,
				BasePrice:    decimal.NewFromInt(100),
				Availability: enums.AvailabilityAvailable,
			}, nil
		},
	}

	payload := `{
		"name": "Tapsilog",
		"base_price": "100",
		"variation_groups": [
			{
				"name": "Spice",
				"mode": "custom",
				"selection_type": "single_required",
				"options": [{"name": "Mild", "price_adjustment": "0", "is_default": true}]
			}
		]
	}`
	req := withConcession(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)), concessionID)
	resp := httptest.NewRecorder()
	Create(svc, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Name != "Tapsilog" {
		t.Fatalf("unexpected input name %q", captured.Name)
	}
	if len(captured.VariationGroups) != 1 || captured.VariationGroups[0].Mode != "custom" {
		t.Fatalf("variation groups not forwarded: %+v", captured.VariationGroups)
	}
}

func TestCreateSurfacesPriceWarning(t *testing.T) {
	svc := &stubService{
		create: func(ctx context.Context, _ uuid.UUID, _ internalmenu.ItemInput) (*models.MenuItem, error) {
			return nil, pkgerrors.New(pkgerrors.CodePriceWarning, "worst-case unit price is not positive").
				WithDetails(map[string]any{"worst_case_unit_price": "-10", "confirm_field": "confirm_price_warning"})
		},
	}

	payload := `{"name": "Promo", "base_price": "10"}`
	req := withConcession(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)), uuid.New())
	resp := httptest.NewRecorder()
	Create(svc, nil)(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodePriceWarning) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
}

func TestCreateRejectsMissingName(t *testing.T) {
	svc := &stubService{}
	payload := `{"base_price": "10"}`
	req := withConcession(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)), uuid.New())
	resp := httptest.NewRecorder()
	Create(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetRendersConfigurationTree(t *testing.T) {
	concessionID := uuid.New()
	itemID := uuid.New()
	svc := &stubService{
		get: func(ctx context.Context, _ uuid.UUID, got uuid.UUID) (*models.MenuItem, error) {
			if got != itemID {
				t.Fatalf("unexpected item id %s", got)
			}
			return &models.MenuItem{
				ID:           itemID,
				ConcessionID: concessionID,
				Name:         "Tapsilog",
				BasePrice:    decimal.NewFromInt(100),
				Availability: enums.AvailabilityAvailable,
				VariationGroups: []models.VariationGroup{
					{
						ID:            uuid.New(),
						Name:          "Spice",
						Mode:          enums.VariationModeCustom,
						SelectionType: enums.SelectionTypeSingleRequired,
						Options: []models.VariationOption{
							{ID: uuid.New(), Name: "Mild", PriceAdjustment: "0", IsDefault: true},
						},
					},
				},
			}, nil
		},
	}

	req := withConcession(httptest.NewRequest(http.MethodGet, "/"+itemID.String(), nil), concessionID)
	req = withURLParam(req, "itemId", itemID.String())
	resp := httptest.NewRecorder()
	Get(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	data := body.Data.(map[string]any)
	if data["base_price"] != "100.00" {
		t.Fatalf("expected fixed-point base price, got %v", data["base_price"])
	}
	groups := data["variation_groups"].([]any)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group got %d", len(groups))
	}
}

func TestDeleteMapsNotFound(t *testing.T) {
	itemID := uuid.New()
	svc := &stubService{
		del: func(ctx context.Context, _ uuid.UUID, _ uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		},
	}

	req := withConcession(httptest.NewRequest(http.MethodDelete, "/"+itemID.String(), nil), uuid.New())
	req = withURLParam(req, "itemId", itemID.String())
	resp := httptest.NewRecorder()
	Delete(svc, nil)(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
