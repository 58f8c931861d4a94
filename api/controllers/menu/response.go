package menu

import (
	"github.com/google/uuid"

	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/types"
)

type optionResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	PriceAdjustment    string     `json:"price_adjustment"`
	Availability       string     `json:"availability"`
	IsDefault          bool       `json:"is_default"`
	ExistingMenuItemID *uuid.UUID `json:"existing_menu_item_id,omitempty"`
	Position           int        `json:"position"`
}

type groupResponse struct {
	ID                      uuid.UUID        `json:"id"`
	Name                    string           `json:"name"`
	Mode                    string           `json:"mode"`
	SelectionType           string           `json:"selection_type"`
	MultiLimit              *int             `json:"multi_limit,omitempty"`
	Specificity             bool             `json:"specificity"`
	CategoryFilterID        *uuid.UUID       `json:"category_filter_id,omitempty"`
	CategoryFilterIDs       []string         `json:"category_filter_ids,omitempty"`
	CategoryPriceAdjustment string           `json:"category_price_adjustment,omitempty"`
	Options                 []optionResponse `json:"options"`
	Position                int              `json:"position"`
}

type addonResponse struct {
	ID               uuid.UUID `json:"id"`
	TargetMenuItemID uuid.UUID `json:"target_menu_item_id"`
	Label            *string   `json:"label,omitempty"`
	PriceOverride    *string   `json:"price_override,omitempty"`
	Required         bool      `json:"required"`
	Position         int       `json:"position"`
}

type itemResponse struct {
	ID                   uuid.UUID                   `json:"id"`
	Name                 string                      `json:"name"`
	Description          *string                     `json:"description,omitempty"`
	BasePrice            string                      `json:"base_price"`
	Images               []string                    `json:"images"`
	DisplayImageIndex    int                         `json:"display_image_index"`
	Availability         string                      `json:"availability"`
	AvailabilitySchedule *types.AvailabilitySchedule `json:"availability_schedule,omitempty"`
	CategoryIDs          []string                    `json:"category_ids"`
	VariationGroups      []groupResponse             `json:"variation_groups"`
	Addons               []addonResponse             `json:"addons"`
}

func itemFromModel(item *models.MenuItem) itemResponse {
	out := itemResponse{
		ID:                   item.ID,
		Name:                 item.Name,
		Description:          item.Description,
		BasePrice:            item.BasePrice.StringFixed(2),
		Images:               []string(item.Images),
		DisplayImageIndex:    item.DisplayImageIndex,
		Availability:         string(item.Availability),
		AvailabilitySchedule: item.AvailabilitySchedule,
		CategoryIDs:          []string(item.CategoryIDs),
		VariationGroups:      []groupResponse{},
		Addons:               []addonResponse{},
	}
	if out.Images == nil {
		out.Images = []string{}
	}
	if out.CategoryIDs == nil {
		out.CategoryIDs = []string{}
	}

	for _, g := range item.VariationGroups {
		group := groupResponse{
			ID:                      g.ID,
			Name:                    g.Name,
			Mode:                    string(g.Mode),
			SelectionType:           string(g.SelectionType),
			MultiLimit:              g.MultiLimit,
			Specificity:             g.Specificity,
			CategoryFilterID:        g.CategoryFilterID,
			CategoryFilterIDs:       []string(g.CategoryFilterIDs),
			CategoryPriceAdjustment: g.CategoryPriceAdjustment,
			Options:                 []optionResponse{},
			Position:                g.Position,
		}
		for _, o := range g.Options {
			group.Options = append(group.Options, optionResponse{
				ID:                 o.ID,
				Name:               o.Name,
				PriceAdjustment:    o.PriceAdjustment,
				Availability:       string(o.Availability),
				IsDefault:          o.IsDefault,
				ExistingMenuItemID: o.ExistingMenuItemID,
				Position:           o.Position,
			})
		}
		out.VariationGroups = append(out.VariationGroups, group)
	}

	for _, a := range item.Addons {
		addon := addonResponse{
			ID:               a.ID,
			TargetMenuItemID: a.TargetMenuItemID,
			Label:            a.Label,
			Required:         a.Required,
			Position:         a.Position,
		}
		if a.PriceOverride.Valid {
			s := a.PriceOverride.Decimal.StringFixed(2)
			addon.PriceOverride = &s
		}
		out.Addons = append(out.Addons, addon)
	}

	return out
}

func itemsFromModels(items []models.MenuItem) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for i := range items {
		out = append(out, itemFromModel(&items[i]))
	}
	return out
}
