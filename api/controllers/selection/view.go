package selection

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kioskoapp/kiosko-backend/internal/pricing"
	internalselection "github.com/kioskoapp/kiosko-backend/internal/selection"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
)

// view is the customer-facing configuration screen: the item with every
// group's options fully resolved, the current state, and the live price.
type view struct {
	SessionID  string                  `json:"session_id"`
	MenuItemID uuid.UUID               `json:"menu_item_id"`
	Name       string                  `json:"name"`
	Groups     []groupView             `json:"groups"`
	Addons     []addonView             `json:"addons"`
	State      internalselection.State `json:"state"`
	Breakdown  pricing.Breakdown       `json:"breakdown"`
	Total      decimal.Decimal         `json:"total"`
	IsComplete bool                    `json:"is_complete"`
}

type groupView struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	SelectionType string       `json:"selection_type"`
	MultiLimit    *int         `json:"multi_limit,omitempty"`
	Options       []optionView `json:"options"`
}

type optionView struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Adjustment   decimal.Decimal `json:"adjustment"`
	IsDefault    bool            `json:"is_default"`
	Availability string          `json:"availability"`
	Selected     bool            `json:"selected"`
}

type addonView struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Required bool            `json:"required"`
	Selected bool            `json:"selected"`
}

func newView(sessionID string, item *models.MenuItem, siblings []models.MenuItem, sources internalselection.Sources, state internalselection.State, breakdown pricing.Breakdown) view {
	out := view{
		SessionID:  sessionID,
		MenuItemID: item.ID,
		Name:       item.Name,
		Groups:     []groupView{},
		Addons:     []addonView{},
		State:      state,
		Breakdown:  breakdown,
		Total:      breakdown.UnitPrice.Mul(decimal.NewFromInt(int64(state.Quantity))),
		IsComplete: internalselection.IsComplete(item, sources, state),
	}

	for i := range item.VariationGroups {
		group := &item.VariationGroups[i]
		gv := groupView{
			ID:            group.ID,
			Name:          group.Name,
			SelectionType: string(group.SelectionType),
			MultiLimit:    group.MultiLimit,
			Options:       []optionView{},
		}
		selected := map[uuid.UUID]bool{}
		for _, id := range state.Selections[group.ID] {
			selected[id] = true
		}
		for _, candidate := range sources[group.ID] {
			gv.Options = append(gv.Options, optionView{
				ID:           candidate.ID,
				Name:         candidate.Name,
				Adjustment:   candidate.Adjustment,
				IsDefault:    candidate.IsDefault,
				Availability: string(candidate.Availability),
				Selected:     selected[candidate.ID],
			})
		}
		out.Groups = append(out.Groups, gv)
	}

	targets := map[uuid.UUID]*models.MenuItem{}
	for i := range siblings {
		targets[siblings[i].ID] = &siblings[i]
	}
	for i := range item.Addons {
		addon := &item.Addons[i]
		target := targets[addon.TargetMenuItemID]
		out.Addons = append(out.Addons, addonView{
			ID:       addon.ID,
			Name:     addon.DisplayName(target),
			Price:    addon.Price(target),
			Required: addon.Required,
			Selected: state.Addons[addon.ID],
		})
	}

	return out
}
