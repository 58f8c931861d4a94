package menu

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
	apperrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/types"
)

// OptionInput is one authored option row inside a variation group.
type OptionInput struct {
	ID                 *uuid.UUID `json:"id" validate:"omitempty"`
	Name               string     `json:"name" validate:"max=120"`
	PriceAdjustment    string     `json:"price_adjustment"`
	Availability       string     `json:"availability" validate:"omitempty,oneof=available unavailable"`
	IsDefault          bool       `json:"is_default"`
	ExistingMenuItemID *uuid.UUID `json:"existing_menu_item_id"`
}

// GroupInput is one authored variation group.
type GroupInput struct {
	ID                      *uuid.UUID    `json:"id"`
	Name                    string        `json:"name" validate:"required,max=120"`
	Mode                    string        `json:"mode" validate:"required"`
	SelectionType           string        `json:"selection_type" validate:"required"`
	MultiLimit              *int          `json:"multi_limit"`
	Specificity             bool          `json:"specificity"`
	CategoryFilterID        *uuid.UUID    `json:"category_filter_id"`
	CategoryFilterIDs       []uuid.UUID   `json:"category_filter_ids"`
	CategoryPriceAdjustment string        `json:"category_price_adjustment"`
	Options                 []OptionInput `json:"options" validate:"dive"`
}

// AddonInput is one authored addon row.
type AddonInput struct {
	ID               *uuid.UUID `json:"id"`
	TargetMenuItemID uuid.UUID  `json:"target_menu_item_id" validate:"required"`
	Label            *string    `json:"label" validate:"omitempty,max=120"`
	PriceOverride    *string    `json:"price_override"`
	Required         bool       `json:"required"`
}

// ItemInput is the full authoring payload for a menu item.
type ItemInput struct {
	Name                 string                      `json:"name" validate:"required,max=160"`
	Description          *string                     `json:"description" validate:"omitempty,max=2000"`
	BasePrice            string                      `json:"base_price" validate:"required"`
	Images               []string                    `json:"images" validate:"dive,max=2048"`
	DisplayImageIndex    int                         `json:"display_image_index"`
	Availability         string                      `json:"availability" validate:"omitempty,oneof=available unavailable"`
	AvailabilitySchedule *types.AvailabilitySchedule `json:"availability_schedule"`
	CategoryIDs          []uuid.UUID                 `json:"category_ids"`
	VariationGroups      []GroupInput                `json:"variation_groups" validate:"dive"`
	Addons               []AddonInput                `json:"addons" validate:"dive"`

	// ConfirmPriceWarning acknowledges a previously returned price warning
	// so the save can proceed.
	ConfirmPriceWarning bool `json:"confirm_price_warning"`
}

// toModel converts the authoring payload into a model tree. Prices on the
// authoring side parse strictly; customer-facing adjustment strings stay
// lenient. prior carries the stored groups so the specificity ratchet
// survives edits.
func (in *ItemInput) toModel(itemID, concessionID uuid.UUID, prior *models.MenuItem) (*models.MenuItem, error) {
	basePrice, err := decimal.NewFromString(strings.TrimSpace(in.BasePrice))
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "base price must be a decimal string").
			WithDetails(map[string]any{"base_price": in.BasePrice})
	}

	availability := enums.AvailabilityAvailable
	if in.Availability != "" {
		parsed, err := enums.ParseAvailability(in.Availability)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "unknown availability").
				WithDetails(map[string]any{"availability": in.Availability})
		}
		availability = parsed
	}

	item := &models.MenuItem{
		ID:                   itemID,
		ConcessionID:         concessionID,
		Name:                 strings.TrimSpace(in.Name),
		Description:          in.Description,
		BasePrice:            basePrice,
		Images:               pq.StringArray(in.Images),
		DisplayImageIndex:    in.DisplayImageIndex,
		Availability:         availability,
		AvailabilitySchedule: in.AvailabilitySchedule,
		CategoryIDs:          uuidStrings(in.CategoryIDs),
	}
	if item.Images == nil {
		item.Images = pq.StringArray{}
	}
	if item.CategoryIDs == nil {
		item.CategoryIDs = pq.StringArray{}
	}

	priorGroups := make(map[uuid.UUID]*models.VariationGroup)
	if prior != nil {
		for i := range prior.VariationGroups {
			priorGroups[prior.VariationGroups[i].ID] = &prior.VariationGroups[i]
		}
	}

	for gi, groupInput := range in.VariationGroups {
		group, err := groupInput.toModel(gi, priorGroups)
		if err != nil {
			return nil, err
		}
		item.VariationGroups = append(item.VariationGroups, *group)
	}

	for ai, addonInput := range in.Addons {
		addon, err := addonInput.toModel(ai)
		if err != nil {
			return nil, err
		}
		item.Addons = append(item.Addons, *addon)
	}

	return item, nil
}

func (in *GroupInput) toModel(position int, prior map[uuid.UUID]*models.VariationGroup) (*models.VariationGroup, error) {
	mode, err := enums.ParseVariationMode(in.Mode)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown variation mode").
			WithDetails(map[string]any{"mode": in.Mode})
	}
	selectionType, err := enums.ParseSelectionType(in.SelectionType)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown selection type").
			WithDetails(map[string]any{"selection_type": in.SelectionType})
	}

	group := &models.VariationGroup{
		Name:                    strings.TrimSpace(in.Name),
		SelectionType:           selectionType,
		MultiLimit:              in.MultiLimit,
		Specificity:             in.Specificity,
		CategoryFilterID:        in.CategoryFilterID,
		CategoryFilterIDs:       uuidStrings(in.CategoryFilterIDs),
		CategoryPriceAdjustment: strings.TrimSpace(in.CategoryPriceAdjustment),
		Position:                position,
	}
	if group.CategoryFilterIDs == nil {
		group.CategoryFilterIDs = pq.StringArray{}
	}
	if in.ID != nil {
		group.ID = *in.ID
		if stored, ok := prior[*in.ID]; ok && stored.Specificity {
			// Once on, specificity stays on even if the payload omits it.
			group.Specificity = true
		}
	}
	group.SetMode(mode)

	existingIDs := make([]uuid.UUID, 0)
	for oi, optionInput := range in.Options {
		option := models.VariationOption{
			Name:            strings.TrimSpace(optionInput.Name),
			PriceAdjustment: strings.TrimSpace(optionInput.PriceAdjustment),
			Availability:    enums.AvailabilityAvailable,
			IsDefault:       optionInput.IsDefault,
			Position:        oi,
		}
		if option.PriceAdjustment == "" && mode == enums.VariationModeCustom {
			option.PriceAdjustment = "0"
		}
		if optionInput.Availability != "" {
			parsed, err := enums.ParseAvailability(optionInput.Availability)
			if err != nil {
				return nil, apperrors.New(apperrors.CodeValidation, "unknown option availability").
					WithDetails(map[string]any{"availability": optionInput.Availability})
			}
			option.Availability = parsed
		}
		if optionInput.ID != nil {
			option.ID = *optionInput.ID
		}
		if optionInput.ExistingMenuItemID != nil {
			id := *optionInput.ExistingMenuItemID
			option.ExistingMenuItemID = &id
			existingIDs = append(existingIDs, id)
		}
		group.Options = append(group.Options, option)
	}
	group.ExistingMenuItemIDs = uuidStrings(existingIDs)
	if group.ExistingMenuItemIDs == nil {
		group.ExistingMenuItemIDs = pq.StringArray{}
	}

	return group, nil
}

func (in *AddonInput) toModel(position int) (*models.Addon, error) {
	addon := &models.Addon{
		TargetMenuItemID: in.TargetMenuItemID,
		Label:            in.Label,
		Required:         in.Required,
		Position:         position,
	}
	if in.ID != nil {
		addon.ID = *in.ID
	}
	if in.PriceOverride != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*in.PriceOverride))
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "addon price override must be a decimal string").
				WithDetails(map[string]any{"price_override": *in.PriceOverride})
		}
		addon.PriceOverride = decimal.NewNullDecimal(price)
	}
	return addon, nil
}

func uuidStrings(ids []uuid.UUID) pq.StringArray {
	if len(ids) == 0 {
		return nil
	}
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
