package selection

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

	internalselection "github.com/kioskoapp/kiosko-backend/internal/selection"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
	pkgerrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/types"
)

type stubMenuReader struct {
	items map[uuid.UUID]*models.MenuItem
}

func (s *stubMenuReader) FindByID(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	return item, nil
}

func (s *stubMenuReader) ListByConcession(ctx context.Context, concessionID uuid.UUID) ([]models.MenuItem, error) {
	out := make([]models.MenuItem, 0, len(s.items))
	for _, item := range s.items {
		if item.ConcessionID == concessionID {
			out = append(out, *item)
		}
	}
	return out, nil
}

type memoryStateStore struct {
	states map[string]internalselection.State
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: map[string]internalselection.State{}}
}

func (m *memoryStateStore) key(sessionID string, itemID uuid.UUID) string {
	return sessionID + ":" + itemID.String()
}

func (m *memoryStateStore) Save(ctx context.Context, sessionID string, state internalselection.State) error {
	m.states[m.key(sessionID, state.MenuItemID)] = state
	return nil
}

func (m *memoryStateStore) Load(ctx context.Context, sessionID string, menuItemID uuid.UUID) (*internalselection.State, error) {
	state, ok := m.states[m.key(sessionID, menuItemID)]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (m *memoryStateStore) Delete(ctx context.Context, sessionID string, menuItemID uuid.UUID) error {
	delete(m.states, m.key(sessionID, menuItemID))
	return nil
}

func testItem() *models.MenuItem {
	groupID := uuid.New()
	return &models.MenuItem{
		ID:           uuid.New(),
		ConcessionID: uuid.New(),
		Name:         "Tapsilog",
		BasePrice:    decimal.NewFromInt(100),
		Availability: enums.AvailabilityAvailable,
		VariationGroups: []models.VariationGroup{
			{
				ID:            groupID,
				Name:          "Spice",
				Mode:          enums.VariationModeCustom,
				SelectionType: enums.SelectionTypeSingleRequired,
				Options: []models.VariationOption{
					{ID: uuid.New(), GroupID: groupID, Name: "Mild", PriceAdjustment: "0", Availability: enums.AvailabilityAvailable, IsDefault: true},
					{ID: uuid.New(), GroupID: groupID, Name: "Extra Hot", PriceAdjustment: "15", Availability: enums.AvailabilityAvailable},
				},
			},
		},
	}
}

func itemRequest(method, path string, item *models.MenuItem, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("itemId", item.ID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeView(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body.Data.(map[string]any)
}

func TestStartSeedsDefaultsAndMintsSession(t *testing.T) {
	item := testItem()
	menus := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	store := newMemoryStateStore()

	req := itemRequest(http.MethodPost, "/"+item.ID.String()+"/start", item, "")
	resp := httptest.NewRecorder()
	Start(menus, store, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	sessionID := resp.Header().Get(sessionHeader)
	if sessionID == "" {
		t.Fatal("expected minted session id header")
	}

	data := decodeView(t, resp)
	if data["is_complete"] != true {
		t.Fatalf("expected defaulted single group to satisfy completeness: %v", data)
	}
	state := data["state"].(map[string]any)
	selections := state["selections"].(map[string]any)
	if len(selections) != 1 {
		t.Fatalf("expected default selection, got %v", selections)
	}

	saved, err := store.Load(context.Background(), sessionID, item.ID)
	if err != nil || saved == nil {
		t.Fatalf("expected state persisted for session %s", sessionID)
	}
}

func TestStartRejectsUnavailableItem(t *testing.T) {
	item := testItem()
	item.Availability = enums.AvailabilityUnavailable
	menus := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}

	req := itemRequest(http.MethodPost, "/"+item.ID.String()+"/start", item, "")
	resp := httptest.NewRecorder()
	Start(menus, newMemoryStateStore(), nil)(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestToggleOptionUpdatesBreakdown(t *testing.T) {
	item := testItem()
	group := item.VariationGroups[0]
	hot := group.Options[1]
	menus := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	store := newMemoryStateStore()

	state := internalselection.Initialize(item)
	if err := store.Save(context.Background(), "sess-1", state); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	body := `{"group_id":"` + group.ID.String() + `","option_id":"` + hot.ID.String() + `"}`
	req := itemRequest(http.MethodPost, "/"+item.ID.String()+"/options", item, body)
	req.Header.Set(sessionHeader, "sess-1")
	resp := httptest.NewRecorder()
	ToggleOption(menus, store, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	data := decodeView(t, resp)
	breakdown := data["breakdown"].(map[string]any)
	if breakdown["unit_price"] != "115" {
		t.Fatalf("expected unit price 115, got %v", breakdown["unit_price"])
	}
}

func TestToggleOptionWithoutSessionRejected(t *testing.T) {
	item := testItem()
	menus := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}

	body := `{"group_id":"` + uuid.NewString() + `","option_id":"` + uuid.NewString() + `"}`
	req := itemRequest(http.MethodPost, "/"+item.ID.String()+"/options", item, body)
	resp := httptest.NewRecorder()
	ToggleOption(menus, newMemoryStateStore(), nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSetQuantityScalesTotal(t *testing.T) {
	item := testItem()
	menus := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	store := newMemoryStateStore()
	state := internalselection.Initialize(item)
	if err := store.Save(context.Background(), "sess-1", state); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	req := itemRequest(http.MethodPost, "/"+item.ID.String()+"/quantity", item, `{"quantity":3}`)
	req.Header.Set(sessionHeader, "sess-1")
	resp := httptest.NewRecorder()
	SetQuantity(menus, store, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	data := decodeView(t, resp)
	if data["total"] != "300" {
		t.Fatalf("expected total 300, got %v", data["total"])
	}
}

func TestClearRemovesState(t *testing.T) {
	item := testItem()
	store := newMemoryStateStore()
	state := internalselection.Initialize(item)
	if err := store.Save(context.Background(), "sess-1", state); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	req := itemRequest(http.MethodDelete, "/"+item.ID.String(), item, "")
	req.Header.Set(sessionHeader, "sess-1")
	resp := httptest.NewRecorder()
	Clear(store, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	remaining, err := store.Load(context.Background(), "sess-1", item.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if remaining != nil {
		t.Fatal("expected state cleared")
	}
}
