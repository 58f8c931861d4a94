package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kioskoapp/kiosko-backend/internal/repo"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
)

// Repository manages persistent categories for a concession.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByConcession(ctx context.Context, concessionID uuid.UUID) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ReplaceForConcession(ctx context.Context, concessionID uuid.UUID, categories []models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	DetachFromGroups(ctx context.Context, categoryID uuid.UUID) error
	DetachFromMenuItems(ctx context.Context, categoryID uuid.UUID) error
}

type repository struct {
	base repo.Base
}

// NewRepository builds a category repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{base: r.base.Rebind(tx)}
}

func (r *repository) ListByConcession(ctx context.Context, concessionID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := r.base.DB(ctx).
		Where("concession_id = ?", concessionID).
		Order("position ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.base.DB(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ReplaceForConcession deletes categories missing from the provided set and
// upserts the rest with their new dense positions.
func (r *repository) ReplaceForConcession(ctx context.Context, concessionID uuid.UUID, categories []models.Category) error {
	tx := r.base.DB(ctx)

	keep := make([]uuid.UUID, 0, len(categories))
	for i := range categories {
		if categories[i].ID != uuid.Nil {
			keep = append(keep, categories[i].ID)
		}
	}

	del := tx.Where("concession_id = ?", concessionID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(&models.Category{}).Error; err != nil {
		return err
	}

	for i := range categories {
		categories[i].ConcessionID = concessionID
		if categories[i].ID == uuid.Nil {
			if err := tx.Create(&categories[i]).Error; err != nil {
				return err
			}
			continue
		}
		err := tx.Model(&models.Category{}).
			Where("id = ? AND concession_id = ?", categories[i].ID, concessionID).
			Updates(map[string]any{
				"name":     categories[i].Name,
				"position": categories[i].Position,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.base.DB(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// DetachFromGroups clears every variation group filter referencing the
// category so groups never point at a deleted category.
func (r *repository) DetachFromGroups(ctx context.Context, categoryID uuid.UUID) error {
	tx := r.base.DB(ctx)
	err := tx.Model(&models.VariationGroup{}).
		Where("category_filter_id = ?", categoryID).
		Update("category_filter_id", nil).Error
	if err != nil {
		return err
	}
	return tx.Exec(
		"UPDATE variation_groups SET category_filter_ids = array_remove(category_filter_ids, ?) WHERE ? = ANY(category_filter_ids)",
		categoryID, categoryID,
	).Error
}

// DetachFromMenuItems removes the category from every item's category list.
func (r *repository) DetachFromMenuItems(ctx context.Context, categoryID uuid.UUID) error {
	return r.base.DB(ctx).Exec(
		"UPDATE menu_items SET category_ids = array_remove(category_ids, ?) WHERE ? = ANY(category_ids)",
		categoryID, categoryID,
	).Error
}
