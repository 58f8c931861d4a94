package selection

import (
	"github.com/google/uuid"

	"github.com/kioskoapp/kiosko-backend/internal/menu"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	apperrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
)

// State is one customer's in-progress configuration of a single menu item.
// It is a plain value: every mutation returns a new State and leaves the
// input untouched, so a rejected toggle never corrupts the session.
type State struct {
	MenuItemID      uuid.UUID                 `json:"menu_item_id"`
	Selections      map[uuid.UUID][]uuid.UUID `json:"selections"`
	Addons          map[uuid.UUID]bool        `json:"addons"`
	Quantity        int                       `json:"quantity"`
	CustomerRequest string                    `json:"customer_request"`
}

// Sources maps each variation group to its resolved candidate options.
type Sources map[uuid.UUID][]menu.ResolvedOption

// ResolveSources resolves every group of the item against the concession's
// menu in one pass.
func ResolveSources(item *models.MenuItem, allItems []models.MenuItem) Sources {
	sources := make(Sources, len(item.VariationGroups))
	for i := range item.VariationGroups {
		group := &item.VariationGroups[i]
		sources[group.ID] = menu.ResolveOptionSource(group, item.ID, item.CategoryIDs, allItems)
	}
	return sources
}

// Initialize seeds a fresh state from the item's declared defaults: single
// groups start on their default option when one exists, required addons start
// selected. Pure function of the item.
func Initialize(item *models.MenuItem) State {
	state := State{
		MenuItemID: item.ID,
		Selections: make(map[uuid.UUID][]uuid.UUID),
		Addons:     make(map[uuid.UUID]bool),
		Quantity:   1,
	}

	for i := range item.VariationGroups {
		group := &item.VariationGroups[i]
		if !group.SelectionType.IsSingle() {
			continue
		}
		if def := group.DefaultOption(); def != nil {
			state.Selections[group.ID] = []uuid.UUID{def.ID}
		}
	}

	for i := range item.Addons {
		if item.Addons[i].Required {
			state.Addons[item.Addons[i].ID] = true
		}
	}

	return state
}

// ToggleOption applies one option pick. Single groups use radio semantics
// and re-toggling the selected option is a no-op; multi groups add or remove,
// and adding past the group's multi limit is rejected with the prior state
// intact.
func ToggleOption(item *models.MenuItem, sources Sources, state State, groupID, optionID uuid.UUID) (State, error) {
	group := findGroup(item, groupID)
	if group == nil {
		return state, apperrors.New(apperrors.CodeNotFound, "variation group not found").
			WithDetails(map[string]any{"group_id": groupID.String()})
	}
	if !optionAvailable(sources[groupID], optionID) {
		return state, apperrors.New(apperrors.CodeValidation, "option is not available for this group").
			WithDetails(map[string]any{"group_id": groupID.String(), "option_id": optionID.String()})
	}

	next := state.clone()
	selected := next.Selections[groupID]

	if group.SelectionType.IsSingle() {
		if len(selected) == 1 && selected[0] == optionID {
			return state, nil
		}
		next.Selections[groupID] = []uuid.UUID{optionID}
		return next, nil
	}

	if idx := indexOf(selected, optionID); idx >= 0 {
		next.Selections[groupID] = append(selected[:idx:idx], selected[idx+1:]...)
		if len(next.Selections[groupID]) == 0 {
			delete(next.Selections, groupID)
		}
		return next, nil
	}

	if group.MultiLimit != nil && len(selected) >= *group.MultiLimit {
		return state, apperrors.New(apperrors.CodeStateConflict, "selection limit reached for group").
			WithDetails(map[string]any{
				"group_id":    groupID.String(),
				"group_name":  group.Name,
				"multi_limit": *group.MultiLimit,
			})
	}

	next.Selections[groupID] = append(append([]uuid.UUID{}, selected...), optionID)
	return next, nil
}

// ToggleAddon flips an addon. Unselecting a required addon is a silent
// no-op; required means always included.
func ToggleAddon(item *models.MenuItem, state State, addonID uuid.UUID) (State, error) {
	addon := findAddon(item, addonID)
	if addon == nil {
		return state, apperrors.New(apperrors.CodeNotFound, "addon not found").
			WithDetails(map[string]any{"addon_id": addonID.String()})
	}

	if addon.Required && state.Addons[addonID] {
		return state, nil
	}

	next := state.clone()
	if next.Addons[addonID] {
		delete(next.Addons, addonID)
	} else {
		next.Addons[addonID] = true
	}
	return next, nil
}

// SetQuantity returns the state with the new quantity, floored at 1.
func SetQuantity(state State, quantity int) State {
	next := state.clone()
	if quantity < 1 {
		quantity = 1
	}
	next.Quantity = quantity
	return next
}

// SetCustomerRequest returns the state carrying the free-text note.
func SetCustomerRequest(state State, request string) State {
	next := state.clone()
	next.CustomerRequest = request
	return next
}

// IsComplete reports whether the state satisfies every group's minimum.
// Single groups need exactly one pick; a group whose resolved source came
// back empty is treated as satisfied so it can never block checkout.
func IsComplete(item *models.MenuItem, sources Sources, state State) bool {
	for i := range item.VariationGroups {
		group := &item.VariationGroups[i]
		if len(sources[group.ID]) == 0 {
			continue
		}
		if group.SelectionType.IsSingle() && len(state.Selections[group.ID]) != 1 {
			return false
		}
	}
	return true
}

func (s State) clone() State {
	next := State{
		MenuItemID:      s.MenuItemID,
		Selections:      make(map[uuid.UUID][]uuid.UUID, len(s.Selections)),
		Addons:          make(map[uuid.UUID]bool, len(s.Addons)),
		Quantity:        s.Quantity,
		CustomerRequest: s.CustomerRequest,
	}
	for groupID, optionIDs := range s.Selections {
		next.Selections[groupID] = append([]uuid.UUID{}, optionIDs...)
	}
	for addonID, selected := range s.Addons {
		next.Addons[addonID] = selected
	}
	return next
}

func findGroup(item *models.MenuItem, groupID uuid.UUID) *models.VariationGroup {
	for i := range item.VariationGroups {
		if item.VariationGroups[i].ID == groupID {
			return &item.VariationGroups[i]
		}
	}
	return nil
}

func findAddon(item *models.MenuItem, addonID uuid.UUID) *models.Addon {
	for i := range item.Addons {
		if item.Addons[i].ID == addonID {
			return &item.Addons[i]
		}
	}
	return nil
}

func optionAvailable(candidates []menu.ResolvedOption, optionID uuid.UUID) bool {
	for _, candidate := range candidates {
		if candidate.ID == optionID {
			return true
		}
	}
	return false
}

func indexOf(ids []uuid.UUID, id uuid.UUID) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}
