package menu

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
	apperrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
)

// FieldError locates one authoring mistake so clients can render it inline.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfiguration checks a menu item's authored configuration. Every
// mistake is collected before returning so merchants fix the whole form in
// one pass. The result is a CodeValidation error carrying the field errors
// as details, or nil.
func ValidateConfiguration(item *models.MenuItem) error {
	var errs error

	if strings.TrimSpace(item.Name) == "" {
		errs = multierr.Append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if item.BasePrice.IsNegative() {
		errs = multierr.Append(errs, FieldError{Field: "base_price", Message: "base price cannot be negative"})
	}
	if len(item.Images) > 0 && (item.DisplayImageIndex < 0 || item.DisplayImageIndex >= len(item.Images)) {
		errs = multierr.Append(errs, FieldError{Field: "display_image_index", Message: "display image index out of range"})
	}

	for gi := range item.VariationGroups {
		errs = multierr.Append(errs, validateGroup(gi, &item.VariationGroups[gi]))
	}

	for ai := range item.Addons {
		addon := &item.Addons[ai]
		if addon.TargetMenuItemID == uuid.Nil {
			errs = multierr.Append(errs, FieldError{
				Field:   fmt.Sprintf("addons[%d].target_menu_item_id", ai),
				Message: "addon target is required",
			})
			continue
		}
		if addon.TargetMenuItemID == item.ID {
			errs = multierr.Append(errs, FieldError{
				Field:   fmt.Sprintf("addons[%d].target_menu_item_id", ai),
				Message: "addon cannot reference its own item",
			})
		}
	}

	return asValidationError(errs)
}

func validateGroup(index int, group *models.VariationGroup) error {
	var errs error
	prefix := fmt.Sprintf("variation_groups[%d]", index)

	if strings.TrimSpace(group.Name) == "" {
		errs = multierr.Append(errs, FieldError{Field: prefix + ".name", Message: "group name is required"})
	}
	if !group.Mode.IsValid() {
		errs = multierr.Append(errs, FieldError{Field: prefix + ".mode", Message: "unknown variation mode"})
	}
	if !group.SelectionType.IsValid() {
		errs = multierr.Append(errs, FieldError{Field: prefix + ".selection_type", Message: "unknown selection type"})
	}

	if group.MultiLimit != nil {
		if !group.SelectionType.IsMulti() {
			errs = multierr.Append(errs, FieldError{
				Field:   prefix + ".multi_limit",
				Message: "multi limit requires a multi selection type",
			})
		} else if *group.MultiLimit < 1 {
			errs = multierr.Append(errs, FieldError{
				Field:   prefix + ".multi_limit",
				Message: "multi limit must be at least 1",
			})
		}
	}

	if group.Mode.IsCategorySourced() {
		if !group.Specificity {
			errs = multierr.Append(errs, FieldError{
				Field:   prefix + ".specificity",
				Message: "category-sourced groups require specificity",
			})
		}
		if len(group.FilterCategoryIDs()) == 0 {
			errs = multierr.Append(errs, FieldError{
				Field:   prefix + ".category_filter",
				Message: "category modes require at least one category",
			})
		}
	}

	switch group.Mode {
	case enums.VariationModeCustom:
		defaults := 0
		for oi := range group.Options {
			opt := &group.Options[oi]
			if strings.TrimSpace(opt.Name) == "" {
				errs = multierr.Append(errs, FieldError{
					Field:   fmt.Sprintf("%s.options[%d].name", prefix, oi),
					Message: "option name is required",
				})
			}
			if opt.IsDefault {
				defaults++
			}
		}
		if defaults > 1 {
			errs = multierr.Append(errs, FieldError{
				Field:   prefix + ".options",
				Message: "at most one option may be the default",
			})
		}
	case enums.VariationModeExisting:
		seen := make(map[uuid.UUID]struct{}, len(group.Options))
		defaults := 0
		for oi := range group.Options {
			opt := &group.Options[oi]
			if opt.ExistingMenuItemID == nil {
				errs = multierr.Append(errs, FieldError{
					Field:   fmt.Sprintf("%s.options[%d].existing_menu_item_id", prefix, oi),
					Message: "existing mode options must reference a menu item",
				})
				continue
			}
			if *opt.ExistingMenuItemID == group.MenuItemID && group.MenuItemID != uuid.Nil {
				errs = multierr.Append(errs, FieldError{
					Field:   fmt.Sprintf("%s.options[%d].existing_menu_item_id", prefix, oi),
					Message: "group cannot offer its own item as a variant",
				})
			}
			if _, dup := seen[*opt.ExistingMenuItemID]; dup {
				errs = multierr.Append(errs, FieldError{
					Field:   fmt.Sprintf("%s.options[%d].existing_menu_item_id", prefix, oi),
					Message: "duplicate menu item reference",
				})
			}
			seen[*opt.ExistingMenuItemID] = struct{}{}
			if opt.IsDefault {
				defaults++
			}
		}
		if defaults > 1 {
			errs = multierr.Append(errs, FieldError{
				Field:   prefix + ".options",
				Message: "at most one option may be the default",
			})
		}
	}

	return errs
}

func asValidationError(errs error) error {
	collected := multierr.Errors(errs)
	if len(collected) == 0 {
		return nil
	}
	details := make([]FieldError, 0, len(collected))
	for _, err := range collected {
		var fieldErr FieldError
		if fe, ok := err.(FieldError); ok {
			fieldErr = fe
		} else {
			fieldErr = FieldError{Field: "configuration", Message: err.Error()}
		}
		details = append(details, fieldErr)
	}
	return apperrors.New(apperrors.CodeValidation, "invalid menu configuration").
		WithDetails(map[string]any{"fields": details})
}
