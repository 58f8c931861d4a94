package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
	apperrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns menu item authoring for concessions.
type Service struct {
	tx     txRunner
	repo   Repository
	logger *logger.Logger
}

// NewService wires the menu authoring service.
func NewService(tx txRunner, repo Repository, logg *logger.Logger) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{tx: tx, repo: repo, logger: logg}, nil
}

// List returns all menu items of a concession with their configuration.
func (s *Service) List(ctx context.Context, concessionID uuid.UUID) ([]models.MenuItem, error) {
	if concessionID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "concession id is required")
	}
	items, err := s.repo.ListByConcession(ctx, concessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing menu items")
	}
	return items, nil
}

// Get returns one menu item scoped to the concession.
func (s *Service) Get(ctx context.Context, concessionID, itemID uuid.UUID) (*models.MenuItem, error) {
	item, err := s.loadOwned(ctx, concessionID, itemID)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Create validates and persists a new menu item with its configuration.
// Configurations whose worst-case adjustments drive the unit price to zero
// or below come back as a price warning until the merchant confirms.
func (s *Service) Create(ctx context.Context, concessionID uuid.UUID, input ItemInput) (*models.MenuItem, error) {
	if concessionID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "concession id is required")
	}

	item, err := input.toModel(uuid.Nil, concessionID, nil)
	if err != nil {
		return nil, err
	}

	siblings, err := s.repo.ListByConcession(ctx, concessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading menu items")
	}
	if err := s.prepare(item, siblings, input.ConfirmPriceWarning); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, item)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating menu item")
	}

	s.logger.Info(s.logger.WithConcessionID(ctx, concessionID.String()), "menu item created")
	return s.repo.FindByID(ctx, item.ID)
}

// Update validates and replaces an existing menu item's configuration.
func (s *Service) Update(ctx context.Context, concessionID, itemID uuid.UUID, input ItemInput) (*models.MenuItem, error) {
	stored, err := s.loadOwned(ctx, concessionID, itemID)
	if err != nil {
		return nil, err
	}

	item, err := input.toModel(itemID, concessionID, stored)
	if err != nil {
		return nil, err
	}

	siblings, err := s.repo.ListByConcession(ctx, concessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading menu items")
	}
	if err := s.prepare(item, siblings, input.ConfirmPriceWarning); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, item); err != nil {
			return err
		}
		return repo.ReplaceConfiguration(ctx, item)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating menu item")
	}

	s.logger.Info(s.logger.WithConcessionID(ctx, concessionID.String()), "menu item updated")
	return s.repo.FindByID(ctx, itemID)
}

// Delete removes a menu item. Variation groups, options and addons cascade.
func (s *Service) Delete(ctx context.Context, concessionID, itemID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, concessionID, itemID); err != nil {
		return err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, itemID)
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting menu item")
	}
	return nil
}

func (s *Service) loadOwned(ctx context.Context, concessionID, itemID uuid.UUID) (*models.MenuItem, error) {
	if concessionID == uuid.Nil || itemID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "concession id and item id are required")
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.New(apperrors.CodeNotFound, "menu item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading menu item")
	}
	if item.ConcessionID != concessionID {
		return nil, apperrors.New(apperrors.CodeForbidden, "menu item belongs to another concession")
	}
	return item, nil
}

// prepare runs authoring validation, cross-item checks, existing-option name
// denormalization, and the price-anomaly gate.
func (s *Service) prepare(item *models.MenuItem, siblings []models.MenuItem, confirmed bool) error {
	if err := ValidateConfiguration(item); err != nil {
		return err
	}

	byID := indexItems(siblings)
	for gi := range item.VariationGroups {
		group := &item.VariationGroups[gi]
		if group.Mode != enums.VariationModeExisting {
			continue
		}
		for oi := range group.Options {
			opt := &group.Options[oi]
			if opt.ExistingMenuItemID == nil {
				continue
			}
			if *opt.ExistingMenuItemID == item.ID && item.ID != uuid.Nil {
				return apperrors.New(apperrors.CodeValidation, "group cannot offer its own item as a variant")
			}
			target, ok := byID[*opt.ExistingMenuItemID]
			if !ok || target.ConcessionID != item.ConcessionID {
				return apperrors.New(apperrors.CodeValidation, "referenced menu item not found").
					WithDetails(map[string]any{"menu_item_id": opt.ExistingMenuItemID.String()})
			}
			if opt.Name == "" {
				opt.Name = target.Name
			}
		}
	}

	for ai := range item.Addons {
		addon := &item.Addons[ai]
		target, ok := byID[addon.TargetMenuItemID]
		if !ok || target.ConcessionID != item.ConcessionID {
			return apperrors.New(apperrors.CodeValidation, "addon target not found").
				WithDetails(map[string]any{"menu_item_id": addon.TargetMenuItemID.String()})
		}
	}

	if floor := worstCaseUnitPrice(item, siblings); !floor.IsPositive() && !confirmed {
		return apperrors.New(apperrors.CodePriceWarning, "configuration can drive the unit price to zero or below").
			WithDetails(map[string]any{
				"worst_case_unit_price": floor.StringFixed(2),
				"confirm_field":         "confirm_price_warning",
			})
	}

	return nil
}

// worstCaseUnitPrice estimates the lowest unit price a customer could reach
// with this configuration. Required addons always count; optional negative
// contributions count at their most damaging combination.
func worstCaseUnitPrice(item *models.MenuItem, siblings []models.MenuItem) decimal.Decimal {
	total := item.BasePrice
	byID := indexItems(siblings)

	for gi := range item.VariationGroups {
		group := &item.VariationGroups[gi]
		adjustments := make([]decimal.Decimal, 0, len(group.Options))
		for oi := range group.Options {
			opt := &group.Options[oi]
			value := ParseAdjustment(opt.PriceAdjustment)
			if group.Mode == enums.VariationModeExisting && opt.ExistingMenuItemID != nil {
				if strings.TrimSpace(opt.PriceAdjustment) == "" {
					if target, ok := byID[*opt.ExistingMenuItemID]; ok {
						value = target.BasePrice
					}
				}
			}
			adjustments = append(adjustments, value)
		}
		total = total.Add(worstGroupContribution(group, adjustments))
		if group.Mode.IsCategorySourced() {
			if adj := ParseAdjustment(group.CategoryPriceAdjustment); adj.IsNegative() {
				total = total.Add(adj)
			}
		}
	}

	for ai := range item.Addons {
		addon := &item.Addons[ai]
		price := decimal.Zero
		if addon.PriceOverride.Valid {
			price = addon.PriceOverride.Decimal
		} else if target, ok := byID[addon.TargetMenuItemID]; ok {
			price = target.BasePrice
		}
		if addon.Required || price.IsNegative() {
			total = total.Add(price)
		}
	}

	return total
}

func worstGroupContribution(group *models.VariationGroup, adjustments []decimal.Decimal) decimal.Decimal {
	if len(adjustments) == 0 {
		return decimal.Zero
	}

	if group.SelectionType.IsSingle() {
		lowest := adjustments[0]
		for _, adj := range adjustments[1:] {
			if adj.LessThan(lowest) {
				lowest = adj
			}
		}
		if lowest.IsNegative() {
			return lowest
		}
		return decimal.Zero
	}

	negatives := make([]decimal.Decimal, 0, len(adjustments))
	for _, adj := range adjustments {
		if adj.IsNegative() {
			negatives = append(negatives, adj)
		}
	}
	limit := len(negatives)
	if group.MultiLimit != nil && *group.MultiLimit < limit {
		limit = *group.MultiLimit
	}
	// Most damaging picks first.
	for i := 0; i < len(negatives); i++ {
		for j := i + 1; j < len(negatives); j++ {
			if negatives[j].LessThan(negatives[i]) {
				negatives[i], negatives[j] = negatives[j], negatives[i]
			}
		}
	}
	total := decimal.Zero
	for i := 0; i < limit; i++ {
		total = total.Add(negatives[i])
	}
	return total
}
