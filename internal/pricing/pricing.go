package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kioskoapp/kiosko-backend/internal/menu"
	"github.com/kioskoapp/kiosko-backend/internal/selection"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
)

// Breakdown itemizes one configured unit's price. All components carry full
// precision; rounding happens at the snapshot edge, not here.
type Breakdown struct {
	Base                 decimal.Decimal `json:"base"`
	VariationAdjustments decimal.Decimal `json:"variation_adjustments"`
	CategoryAdjustments  decimal.Decimal `json:"category_adjustments"`
	AddonsTotal          decimal.Decimal `json:"addons_total"`
	UnitPrice            decimal.Decimal `json:"unit_price"`

	// Clamped marks a configuration whose raw total went negative and was
	// floored at zero. Callers surface this as a confirm-to-proceed warning.
	Clamped bool `json:"clamped"`
}

// ComputeUnitPrice derives the price of one unit from the item and the
// customer's selection state. Pure and deterministic: identical inputs yield
// identical breakdowns.
//
// Selected options contribute their resolved adjustment (authored addend for
// custom options, variant price for existing-item options, zero for
// category-sourced candidates). Each category-sourced group with at least one
// selection contributes its own category price adjustment exactly once.
// Selected addons contribute their override or the target's base price.
func ComputeUnitPrice(item *models.MenuItem, sources selection.Sources, allItems []models.MenuItem, state selection.State) Breakdown {
	breakdown := Breakdown{
		Base:                 item.BasePrice,
		VariationAdjustments: decimal.Zero,
		CategoryAdjustments:  decimal.Zero,
		AddonsTotal:          decimal.Zero,
	}

	for i := range item.VariationGroups {
		group := &item.VariationGroups[i]
		selected := state.Selections[group.ID]
		if len(selected) == 0 {
			continue
		}

		candidates := indexCandidates(sources[group.ID])
		for _, optionID := range selected {
			if candidate, ok := candidates[optionID]; ok {
				breakdown.VariationAdjustments = breakdown.VariationAdjustments.Add(candidate.Adjustment)
			}
		}

		if group.Mode.IsCategorySourced() {
			breakdown.CategoryAdjustments = breakdown.CategoryAdjustments.
				Add(menu.ParseAdjustment(group.CategoryPriceAdjustment))
		}
	}

	targets := indexItems(allItems)
	for i := range item.Addons {
		addon := &item.Addons[i]
		if !state.Addons[addon.ID] {
			continue
		}
		breakdown.AddonsTotal = breakdown.AddonsTotal.Add(addon.Price(targets[addon.TargetMenuItemID]))
	}

	breakdown.UnitPrice = breakdown.Base.
		Add(breakdown.VariationAdjustments).
		Add(breakdown.CategoryAdjustments).
		Add(breakdown.AddonsTotal)

	if breakdown.UnitPrice.IsNegative() {
		breakdown.UnitPrice = decimal.Zero
		breakdown.Clamped = true
	}

	return breakdown
}

func indexCandidates(candidates []menu.ResolvedOption) map[uuid.UUID]menu.ResolvedOption {
	byID := make(map[uuid.UUID]menu.ResolvedOption, len(candidates))
	for _, candidate := range candidates {
		byID[candidate.ID] = candidate
	}
	return byID
}

func indexItems(items []models.MenuItem) map[uuid.UUID]*models.MenuItem {
	byID := make(map[uuid.UUID]*models.MenuItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return byID
}
