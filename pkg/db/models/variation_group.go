package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kioskoapp/kiosko-backend/pkg/enums"
)

// VariationGroup is a merchant-authored customization axis on a menu item.
// The mode decides where options come from: authored rows (custom), other
// menu items picked one by one (existing), or every item under the filtered
// categories (single_category / multi_category).
type VariationGroup struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MenuItemID uuid.UUID           `gorm:"column:menu_item_id;type:uuid;not null"`
	Name       string              `gorm:"column:name;not null"`
	Mode       enums.VariationMode `gorm:"column:mode;not null"`

	SelectionType enums.SelectionType `gorm:"column:selection_type;not null"`
	MultiLimit    *int                `gorm:"column:multi_limit"`

	// Specificity records selections per category sub-context. Once forced on
	// by a category mode it is never reset automatically.
	Specificity bool `gorm:"column:specificity;not null;default:false"`

	CategoryFilterID  *uuid.UUID     `gorm:"column:category_filter_id;type:uuid"`
	CategoryFilterIDs pq.StringArray `gorm:"column:category_filter_ids;type:uuid[];not null;default:ARRAY[]::uuid[]"`

	// CategoryPriceAdjustment applies once per order item when any option of a
	// category-sourced group is chosen. Signed decimal string; empty means 0.
	CategoryPriceAdjustment string `gorm:"column:category_price_adjustment;not null;default:''"`

	ExistingMenuItemIDs pq.StringArray `gorm:"column:existing_menu_item_ids;type:uuid[];not null;default:ARRAY[]::uuid[]"`

	Options  []VariationOption `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	Position int               `gorm:"column:position;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SetMode switches the option source and enforces the specificity ratchet:
// category-sourced modes force specificity on, switching away never reverts
// it because merchants may have enabled it by hand.
func (g *VariationGroup) SetMode(mode enums.VariationMode) {
	g.Mode = mode
	if mode.IsCategorySourced() {
		g.Specificity = true
	}
}

// FilterCategoryIDs returns the category filter as a string id slice
// regardless of mode arity.
func (g *VariationGroup) FilterCategoryIDs() []string {
	if g.Mode == enums.VariationModeSingleCategory {
		if g.CategoryFilterID == nil {
			return nil
		}
		return []string{g.CategoryFilterID.String()}
	}
	return []string(g.CategoryFilterIDs)
}

// DefaultOption returns the option flagged as default, if any.
func (g *VariationGroup) DefaultOption() *VariationOption {
	for i := range g.Options {
		if g.Options[i].IsDefault {
			return &g.Options[i]
		}
	}
	return nil
}
