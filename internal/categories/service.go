package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kioskoapp/kiosko-backend/pkg/db"
	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	apperrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/logger"
)

// CategoryInput is one entry of a full category list save. A nil ID creates a
// new category; a known ID renames or reorders the existing one.
type CategoryInput struct {
	ID   *uuid.UUID `json:"id" validate:"omitempty,uuid"`
	Name string     `json:"name" validate:"required,max=80"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the category registry for concessions.
type Service struct {
	tx     txRunner
	repo   Repository
	logger *logger.Logger
}

// NewService wires the category service.
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

// List returns the concession's categories ordered by position.
func (s *Service) List(ctx context.Context, concessionID uuid.UUID) ([]models.Category, error) {
	if concessionID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "concession id is required")
	}
	categories, err := s.repo.ListByConcession(ctx, concessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing categories")
	}
	return categories, nil
}

// Save replaces the concession's category list wholesale. Positions are
// reassigned densely from 0 in input order, so callers reorder by reordering
// the payload. Categories absent from the input are deleted and detached from
// any menu items or variation group filters that referenced them.
func (s *Service) Save(ctx context.Context, concessionID uuid.UUID, inputs []CategoryInput) ([]models.Category, error) {
	if concessionID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "concession id is required")
	}
	if err := validateInputs(inputs); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByConcession(ctx, concessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading categories")
	}

	known := make(map[uuid.UUID]struct{}, len(existing))
	for _, category := range existing {
		known[category.ID] = struct{}{}
	}

	next := make([]models.Category, 0, len(inputs))
	keep := make(map[uuid.UUID]struct{}, len(inputs))
	for i, input := range inputs {
		category := models.Category{
			ConcessionID: concessionID,
			Name:         strings.TrimSpace(input.Name),
			Position:     i,
		}
		if input.ID != nil {
			if _, ok := known[*input.ID]; !ok {
				return nil, apperrors.New(apperrors.CodeNotFound, "category not found").
					WithDetails(map[string]any{"category_id": input.ID.String()})
			}
			category.ID = *input.ID
			keep[*input.ID] = struct{}{}
		}
		next = append(next, category)
	}

	removed := make([]uuid.UUID, 0)
	for _, category := range existing {
		if _, ok := keep[category.ID]; !ok {
			removed = append(removed, category.ID)
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, id := range removed {
			if err := repo.DetachFromGroups(ctx, id); err != nil {
				return err
			}
			if err := repo.DetachFromMenuItems(ctx, id); err != nil {
				return err
			}
		}
		return repo.ReplaceForConcession(ctx, concessionID, next)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "category names must be unique per concession")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving categories")
	}

	s.logger.Info(s.logger.WithConcessionID(ctx, concessionID.String()), "categories saved")

	return s.repo.ListByConcession(ctx, concessionID)
}

// Delete removes one category and detaches every reference to it.
func (s *Service) Delete(ctx context.Context, concessionID, categoryID uuid.UUID) error {
	if concessionID == uuid.Nil || categoryID == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "concession id and category id are required")
	}

	category, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading category")
	}
	if category.ConcessionID != concessionID {
		return apperrors.New(apperrors.CodeForbidden, "category belongs to another concession")
	}

	remaining, err := s.repo.ListByConcession(ctx, concessionID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading categories")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DetachFromGroups(ctx, categoryID); err != nil {
			return err
		}
		if err := repo.DetachFromMenuItems(ctx, categoryID); err != nil {
			return err
		}
		if err := repo.Delete(ctx, categoryID); err != nil {
			return err
		}

		// Close the position gap left by the deleted category.
		next := make([]models.Category, 0, len(remaining)-1)
		for _, c := range remaining {
			if c.ID == categoryID {
				continue
			}
			c.Position = len(next)
			next = append(next, c)
		}
		return repo.ReplaceForConcession(ctx, concessionID, next)
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting category")
	}

	logCtx := s.logger.WithFields(ctx, map[string]any{
		"concession_id": concessionID.String(),
		"category_id":   categoryID.String(),
	})
	s.logger.Info(logCtx, "category deleted")

	return nil
}

func validateInputs(inputs []CategoryInput) error {
	seenNames := make(map[string]struct{}, len(inputs))
	seenIDs := make(map[uuid.UUID]struct{}, len(inputs))
	for _, input := range inputs {
		name := strings.ToLower(strings.TrimSpace(input.Name))
		if name == "" {
			return apperrors.New(apperrors.CodeValidation, "category name cannot be empty")
		}
		if _, ok := seenNames[name]; ok {
			return apperrors.New(apperrors.CodeValidation, "duplicate category name").
				WithDetails(map[string]any{"name": input.Name})
		}
		seenNames[name] = struct{}{}
		if input.ID != nil {
			if _, ok := seenIDs[*input.ID]; ok {
				return apperrors.New(apperrors.CodeValidation, "duplicate category id").
					WithDetails(map[string]any{"category_id": input.ID.String()})
			}
			seenIDs[*input.ID] = struct{}{}
		}
	}
	return nil
}
