package snapshot

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kioskoapp/kiosko-backend/internal/menu"
	"github.com/kioskoapp/kiosko-backend/internal/pricing"
	"github.com/kioskoapp/kiosko-backend/internal/selection"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	apperrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/types"
)

// Build freezes the customer's configuration into an immutable snapshot.
//
// Every name and price is copied by value at full precision and rounded to
// two decimals only here, at the snapshot edge; later edits to the menu item
// cannot reach the result. Incomplete selection state is a hard error, the
// snapshot is never partially built.
func Build(item *models.MenuItem, allItems []models.MenuItem, state selection.State, quantity int, customerRequest string) (types.OrderItemSnapshot, error) {
	if quantity < 1 {
		return types.OrderItemSnapshot{}, apperrors.New(apperrors.CodeValidation, "quantity must be at least 1")
	}

	sources := selection.ResolveSources(item, allItems)
	if !selection.IsComplete(item, sources, state) {
		return types.OrderItemSnapshot{}, apperrors.New(apperrors.CodeStateConflict, "selection is incomplete").
			WithDetails(map[string]any{"menu_item_id": item.ID.String()})
	}

	breakdown := pricing.ComputeUnitPrice(item, sources, allItems, state)
	unitPrice := breakdown.UnitPrice.Round(2)

	snap := types.OrderItemSnapshot{
		MenuItemName:    item.Name,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		TotalPrice:      unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		CustomerRequest: customerRequest,
	}

	targets := indexItems(allItems)

	for i := range item.VariationGroups {
		group := &item.VariationGroups[i]
		selected := state.Selections[group.ID]
		if len(selected) == 0 {
			continue
		}

		candidates := sources[group.ID]
		groupSnap := types.SnapshotVariationGroup{GroupName: group.Name}
		for _, optionID := range selected {
			candidate, ok := findCandidate(candidates, optionID)
			if !ok {
				continue
			}
			option := types.SnapshotOption{
				OptionName:         candidate.Name,
				PriceAdjustment:    candidate.Adjustment.Round(2),
				SubVariationGroups: subGroups(candidate, targets, state),
			}
			groupSnap.SelectedOptions = append(groupSnap.SelectedOptions, option)
		}
		if len(groupSnap.SelectedOptions) > 0 {
			snap.VariationGroups = append(snap.VariationGroups, groupSnap)
		}
	}

	for i := range item.Addons {
		addon := &item.Addons[i]
		if !state.Addons[addon.ID] {
			continue
		}
		target := targets[addon.TargetMenuItemID]
		snap.Addons = append(snap.Addons, types.SnapshotAddon{
			AddonName: addon.DisplayName(target),
			Price:     addon.Price(target).Round(2),
		})
	}

	return snap, nil
}

// subGroups freezes one level of variant-of-a-variant nesting: when the
// selected option references another menu item whose own groups carry
// selections in the state, those picks are copied under the option.
func subGroups(candidate menu.ResolvedOption, targets map[uuid.UUID]*models.MenuItem, state selection.State) []types.SnapshotVariationGroup {
	if candidate.SourceItemID == nil {
		return nil
	}
	source, ok := targets[*candidate.SourceItemID]
	if !ok {
		return nil
	}

	var nested []types.SnapshotVariationGroup
	for i := range source.VariationGroups {
		group := &source.VariationGroups[i]
		selected := state.Selections[group.ID]
		if len(selected) == 0 {
			continue
		}

		groupSnap := types.SnapshotVariationGroup{GroupName: group.Name}
		for _, optionID := range selected {
			for oi := range group.Options {
				opt := &group.Options[oi]
				if opt.ID != optionID {
					continue
				}
				groupSnap.SelectedOptions = append(groupSnap.SelectedOptions, types.SnapshotOption{
					OptionName:      opt.Name,
					PriceAdjustment: menu.ParseAdjustment(opt.PriceAdjustment).Round(2),
				})
			}
		}
		if len(groupSnap.SelectedOptions) > 0 {
			nested = append(nested, groupSnap)
		}
	}
	return nested
}

func findCandidate(candidates []menu.ResolvedOption, optionID uuid.UUID) (menu.ResolvedOption, bool) {
	for _, candidate := range candidates {
		if candidate.ID == optionID {
			return candidate, true
		}
	}
	return menu.ResolvedOption{}, false
}

func indexItems(items []models.MenuItem) map[uuid.UUID]*models.MenuItem {
	byID := make(map[uuid.UUID]*models.MenuItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return byID
}
