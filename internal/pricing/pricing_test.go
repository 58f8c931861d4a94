package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/kioskoapp/kiosko-backend/internal/selection"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
)

func TestComputeUnitPriceAdjustmentAndRequiredAddon(t *testing.T) {
	t.Parallel()

	// Base 100, selected option -20, required addon 15 => 95.
	groupID := uuid.New()
	discountID := uuid.New()
	addonID := uuid.New()
	addonTargetID := uuid.New()

	allItems := []models.MenuItem{
		{ID: addonTargetID, Name: "Extra Egg", BasePrice: decimal.NewFromInt(15)},
	}
	item := &models.MenuItem{
		ID:        uuid.New(),
		BasePrice: decimal.NewFromInt(100),
		VariationGroups: []models.VariationGroup{
			{
				ID:            groupID,
				Mode:          enums.VariationModeCustom,
				SelectionType: enums.SelectionTypeSingleChoice,
				Options: []models.VariationOption{
					{ID: discountID, Name: "Promo", PriceAdjustment: "-20"},
				},
			},
		},
		Addons: []models.Addon{
			{ID: addonID, TargetMenuItemID: addonTargetID, Required: true},
		},
	}

	sources := selection.ResolveSources(item, allItems)
	state := selection.Initialize(item)
	state, err := selection.ToggleOption(item, sources, state, groupID, discountID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	breakdown := ComputeUnitPrice(item, sources, allItems, state)
	if !breakdown.UnitPrice.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("expected unit price 95, got %s", breakdown.UnitPrice)
	}
	if !breakdown.VariationAdjustments.Equal(decimal.NewFromInt(-20)) {
		t.Fatalf("expected adjustments -20, got %s", breakdown.VariationAdjustments)
	}
	if !breakdown.AddonsTotal.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected addons total 15, got %s", breakdown.AddonsTotal)
	}
	if breakdown.Clamped {
		t.Fatal("unexpected clamp")
	}
}

func TestComputeUnitPriceCategoryAdjustmentOncePerGroup(t *testing.T) {
	t.Parallel()

	// Base 100, category adjustment 10 applied once regardless of the
	// chosen option's own zero adjustment => 110.
	drinks := uuid.New()
	groupID := uuid.New()
	icedTeaID := uuid.New()
	sodaID := uuid.New()

	allItems := []models.MenuItem{
		{ID: icedTeaID, Name: "Iced Tea", BasePrice: decimal.NewFromInt(25), CategoryIDs: pq.StringArray{drinks.String()}},
		{ID: sodaID, Name: "Soda", BasePrice: decimal.NewFromInt(30), CategoryIDs: pq.StringArray{drinks.String()}},
	}
	item := &models.MenuItem{
		ID:        uuid.New(),
		BasePrice: decimal.NewFromInt(100),
		VariationGroups: []models.VariationGroup{
			{
				ID:                      groupID,
				Mode:                    enums.VariationModeMultiCategory,
				SelectionType:           enums.SelectionTypeMultiChoice,
				Specificity:             true,
				CategoryFilterIDs:       pq.StringArray{drinks.String()},
				CategoryPriceAdjustment: "10",
			},
		},
	}

	sources := selection.ResolveSources(item, allItems)
	state := selection.Initialize(item)
	state, err := selection.ToggleOption(item, sources, state, groupID, icedTeaID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	breakdown := ComputeUnitPrice(item, sources, allItems, state)
	if !breakdown.UnitPrice.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("expected 110 with one selection, got %s", breakdown.UnitPrice)
	}

	// A second pick from the same group does not re-apply the adjustment.
	state, err = selection.ToggleOption(item, sources, state, groupID, sodaID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	breakdown = ComputeUnitPrice(item, sources, allItems, state)
	if !breakdown.CategoryAdjustments.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected category adjustment 10 once, got %s", breakdown.CategoryAdjustments)
	}
	if !breakdown.UnitPrice.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("expected 110 with two selections, got %s", breakdown.UnitPrice)
	}
}

func TestComputeUnitPriceExistingModeUsesVariantPrice(t *testing.T) {
	t.Parallel()

	riceID := uuid.New()
	groupID := uuid.New()
	optionID := uuid.New()
	allItems := []models.MenuItem{
		{ID: riceID, Name: "Garlic Rice", BasePrice: decimal.NewFromInt(35)},
	}
	item := &models.MenuItem{
		ID:        uuid.New(),
		BasePrice: decimal.NewFromInt(100),
		VariationGroups: []models.VariationGroup{
			{
				ID:            groupID,
				Mode:          enums.VariationModeExisting,
				SelectionType: enums.SelectionTypeSingleChoice,
				Options: []models.VariationOption{
					{ID: optionID, ExistingMenuItemID: &riceID},
				},
			},
		},
	}

	sources := selection.ResolveSources(item, allItems)
	state, err := selection.ToggleOption(item, sources, selection.Initialize(item), groupID, optionID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	breakdown := ComputeUnitPrice(item, sources, allItems, state)
	if !breakdown.UnitPrice.Equal(decimal.NewFromInt(135)) {
		t.Fatalf("expected 135, got %s", breakdown.UnitPrice)
	}
}

func TestComputeUnitPriceClampsNegative(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	optionID := uuid.New()
	item := &models.MenuItem{
		ID:        uuid.New(),
		BasePrice: decimal.NewFromInt(20),
		VariationGroups: []models.VariationGroup{
			{
				ID:            groupID,
				Mode:          enums.VariationModeCustom,
				SelectionType: enums.SelectionTypeSingleChoice,
				Options: []models.VariationOption{
					{ID: optionID, Name: "Void", PriceAdjustment: "-50"},
				},
			},
		},
	}

	sources := selection.ResolveSources(item, nil)
	state, err := selection.ToggleOption(item, sources, selection.Initialize(item), groupID, optionID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	breakdown := ComputeUnitPrice(item, sources, nil, state)
	if !breakdown.UnitPrice.IsZero() {
		t.Fatalf("expected clamp to zero, got %s", breakdown.UnitPrice)
	}
	if !breakdown.Clamped {
		t.Fatal("expected Clamped flag")
	}
}

func TestComputeUnitPriceMalformedAdjustmentIsZero(t *testing.T) {
	t.Parallel()

	groupID := uuid.New()
	optionID := uuid.New()
	item := &models.MenuItem{
		ID:        uuid.New(),
		BasePrice: decimal.NewFromInt(100),
		VariationGroups: []models.VariationGroup{
			{
				ID:            groupID,
				Mode:          enums.VariationModeCustom,
				SelectionType: enums.SelectionTypeSingleChoice,
				Options: []models.VariationOption{
					{ID: optionID, Name: "Odd", PriceAdjustment: "not-a-number"},
				},
			},
		},
	}

	sources := selection.ResolveSources(item, nil)
	state, err := selection.ToggleOption(item, sources, selection.Initialize(item), groupID, optionID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	breakdown := ComputeUnitPrice(item, sources, nil, state)
	if !breakdown.UnitPrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected base price kept, got %s", breakdown.UnitPrice)
	}
}

func TestComputeUnitPriceDeterministic(t *testing.T) {
	t.Parallel()

	limit := 3
	groupID := uuid.New()
	optionIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	item := &models.MenuItem{
		ID:        uuid.New(),
		BasePrice: decimal.NewFromInt(100),
		VariationGroups: []models.VariationGroup{
			{
				ID:            groupID,
				Mode:          enums.VariationModeCustom,
				SelectionType: enums.SelectionTypeMultiLimited,
				MultiLimit:    &limit,
				Options: []models.VariationOption{
					{ID: optionIDs[0], Name: "Egg", PriceAdjustment: "10"},
					{ID: optionIDs[1], Name: "Cheese", PriceAdjustment: "15"},
					{ID: optionIDs[2], Name: "Bacon", PriceAdjustment: "25"},
				},
			},
		},
	}
	sources := selection.ResolveSources(item, nil)

	forward := selection.State{
		MenuItemID: item.ID,
		Selections: map[uuid.UUID][]uuid.UUID{groupID: {optionIDs[0], optionIDs[1], optionIDs[2]}},
		Addons:     map[uuid.UUID]bool{},
		Quantity:   1,
	}
	reversed := selection.State{
		MenuItemID: item.ID,
		Selections: map[uuid.UUID][]uuid.UUID{groupID: {optionIDs[2], optionIDs[1], optionIDs[0]}},
		Addons:     map[uuid.UUID]bool{},
		Quantity:   1,
	}

	first := ComputeUnitPrice(item, sources, nil, forward)
	second := ComputeUnitPrice(item, sources, nil, forward)
	flipped := ComputeUnitPrice(item, sources, nil, reversed)

	if !first.UnitPrice.Equal(second.UnitPrice) || first.Clamped != second.Clamped {
		t.Fatal("expected identical breakdowns for identical state")
	}
	if !first.UnitPrice.Equal(flipped.UnitPrice) {
		t.Fatalf("expected order-independent total, got %s vs %s", first.UnitPrice, flipped.UnitPrice)
	}
	if !first.UnitPrice.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected 150, got %s", first.UnitPrice)
	}
}
