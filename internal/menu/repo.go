package menu

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kioskoapp/kiosko-backend/internal/repo"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
)

// Repository manages menu items and their nested configuration.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByConcession(ctx context.Context, concessionID uuid.UUID) ([]models.MenuItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	Create(ctx context.Context, item *models.MenuItem) error
	Update(ctx context.Context, item *models.MenuItem) error
	ReplaceConfiguration(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	base repo.Base
}

// NewRepository builds a menu repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{base: r.base.Rebind(tx)}
}

func (r *repository) ListByConcession(ctx context.Context, concessionID uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.base.DB(ctx).
		Preload("VariationGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("VariationGroups.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Addons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("concession_id = ?", concessionID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.base.DB(ctx).
		Preload("VariationGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("VariationGroups.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Addons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Create(ctx context.Context, item *models.MenuItem) error {
	return r.base.DB(ctx).Create(item).Error
}

// Update persists the item's scalar columns only. Nested configuration is
// replaced separately so stale groups never linger.
func (r *repository) Update(ctx context.Context, item *models.MenuItem) error {
	return r.base.DB(ctx).Model(&models.MenuItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":                  item.Name,
			"description":           item.Description,
			"base_price":            item.BasePrice,
			"images":                item.Images,
			"display_image_index":   item.DisplayImageIndex,
			"availability":          item.Availability,
			"availability_schedule": item.AvailabilitySchedule,
			"category_ids":          item.CategoryIDs,
		}).Error
}

// ReplaceConfiguration deletes and reinserts the item's variation groups and
// addons wholesale. Option rows cascade with their group.
func (r *repository) ReplaceConfiguration(ctx context.Context, item *models.MenuItem) error {
	tx := r.base.DB(ctx)

	err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.VariationGroup{}).Error
	if err != nil {
		return err
	}
	if err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.Addon{}).Error; err != nil {
		return err
	}

	for i := range item.VariationGroups {
		item.VariationGroups[i].MenuItemID = item.ID
		if err := tx.Create(&item.VariationGroups[i]).Error; err != nil {
			return err
		}
	}
	for i := range item.Addons {
		item.Addons[i].MenuItemID = item.ID
		if err := tx.Create(&item.Addons[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.base.DB(ctx).Where("id = ?", id).Delete(&models.MenuItem{}).Error
}
