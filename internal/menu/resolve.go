package menu

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
)

// ResolvedOption is one effective candidate a customer can pick from a
// variation group, normalized across option sources. Adjustment is the
// option's signed contribution to the unit price: the authored addend for
// custom options, the variant's own price for existing-item options, zero for
// category-sourced candidates (their group contributes through
// CategoryPriceAdjustment instead).
type ResolvedOption struct {
	ID           uuid.UUID
	Name         string
	Adjustment   decimal.Decimal
	IsDefault    bool
	Availability enums.Availability
	SourceItemID *uuid.UUID
}

// ParseAdjustment reads a signed decimal adjustment string. Malformed or
// empty input counts as zero rather than failing the computation.
func ParseAdjustment(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// ResolveOptionSource returns the group's effective candidate options.
//
// Category modes list every menu item under the filtered categories, minus
// the owning item itself and minus items sharing a category with the owning
// item. An owning item with no categories cannot self-exclude, so no sharing
// exclusion applies then.
func ResolveOptionSource(group *models.VariationGroup, ownerID uuid.UUID, ownerCategoryIDs []string, allItems []models.MenuItem) []ResolvedOption {
	if group == nil {
		return nil
	}

	switch group.Mode {
	case enums.VariationModeCustom:
		return resolveCustom(group)
	case enums.VariationModeExisting:
		return resolveExisting(group, allItems)
	case enums.VariationModeSingleCategory, enums.VariationModeMultiCategory:
		return resolveCategory(group, ownerID, ownerCategoryIDs, allItems)
	default:
		return nil
	}
}

func resolveCustom(group *models.VariationGroup) []ResolvedOption {
	resolved := make([]ResolvedOption, 0, len(group.Options))
	for i := range group.Options {
		opt := &group.Options[i]
		resolved = append(resolved, ResolvedOption{
			ID:           opt.ID,
			Name:         opt.Name,
			Adjustment:   ParseAdjustment(opt.PriceAdjustment),
			IsDefault:    opt.IsDefault,
			Availability: opt.Availability,
		})
	}
	return resolved
}

// resolveExisting maps each authored row onto its referenced menu item. The
// row's price adjustment, when present, overrides the referenced item's base
// price rather than adding to it. Rows whose referenced item has disappeared
// are dropped.
func resolveExisting(group *models.VariationGroup, allItems []models.MenuItem) []ResolvedOption {
	byID := indexItems(allItems)
	resolved := make([]ResolvedOption, 0, len(group.Options))
	for i := range group.Options {
		opt := &group.Options[i]
		if opt.ExistingMenuItemID == nil {
			continue
		}
		target, ok := byID[*opt.ExistingMenuItemID]
		if !ok {
			continue
		}

		price := target.BasePrice
		if strings.TrimSpace(opt.PriceAdjustment) != "" {
			if override, err := decimal.NewFromString(strings.TrimSpace(opt.PriceAdjustment)); err == nil {
				price = override
			}
		}

		name := opt.Name
		if name == "" {
			name = target.Name
		}

		sourceID := *opt.ExistingMenuItemID
		resolved = append(resolved, ResolvedOption{
			ID:           opt.ID,
			Name:         name,
			Adjustment:   price,
			IsDefault:    opt.IsDefault,
			Availability: opt.Availability,
			SourceItemID: &sourceID,
		})
	}
	return resolved
}

func resolveCategory(group *models.VariationGroup, ownerID uuid.UUID, ownerCategoryIDs []string, allItems []models.MenuItem) []ResolvedOption {
	filter := group.FilterCategoryIDs()
	if len(filter) == 0 {
		return nil
	}

	resolved := make([]ResolvedOption, 0)
	for i := range allItems {
		item := &allItems[i]
		if item.ID == ownerID {
			continue
		}
		if !item.SharesCategoryWith(filter) {
			continue
		}
		if len(ownerCategoryIDs) > 0 && item.SharesCategoryWith(ownerCategoryIDs) {
			continue
		}
		sourceID := item.ID
		resolved = append(resolved, ResolvedOption{
			ID:           item.ID,
			Name:         item.Name,
			Adjustment:   decimal.Zero,
			Availability: item.Availability,
			SourceItemID: &sourceID,
		})
	}
	return resolved
}

func indexItems(items []models.MenuItem) map[uuid.UUID]*models.MenuItem {
	byID := make(map[uuid.UUID]*models.MenuItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return byID
}
