package menu

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kioskoapp/kiosko-backend/pkg/db/models"
	"github.com/kioskoapp/kiosko-backend/pkg/enums"
	apperrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type stubMenuRepo struct {
	items   []models.MenuItem
	created *models.MenuItem
	updated *models.MenuItem
}

func (s *stubMenuRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubMenuRepo) ListByConcession(ctx context.Context, concessionID uuid.UUID) ([]models.MenuItem, error) {
	out := make([]models.MenuItem, 0, len(s.items))
	for _, item := range s.items {
		if item.ConcessionID == concessionID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubMenuRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	if s.created != nil {
		return s.created, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMenuRepo) Create(ctx context.Context, item *models.MenuItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.created = item
	return nil
}

func (s *stubMenuRepo) Update(ctx context.Context, item *models.MenuItem) error {
	s.updated = item
	return nil
}

func (s *stubMenuRepo) ReplaceConfiguration(ctx context.Context, item *models.MenuItem) error {
	s.updated = item
	return nil
}

func (s *stubMenuRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(stubTxRunner{}, repo, logg)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestCreateRejectsZeroedUnitPriceWithoutConfirmation(t *testing.T) {
	t.Parallel()

	concessionID := uuid.New()
	repo := &stubMenuRepo{}
	svc := newTestService(t, repo)

	input := ItemInput{
		Name:      "Loss Leader",
		BasePrice: "50",
		VariationGroups: []GroupInput{
			{
				Name:          "Promo",
				Mode:          "custom",
				SelectionType: "single_choice",
				Options: []OptionInput{
					{Name: "Full discount", PriceAdjustment: "-50"},
				},
			},
		},
	}

	_, err := svc.Create(context.Background(), concessionID, input)
	appErr := apperrors.As(err)
	if appErr == nil || appErr.Code() != apperrors.CodePriceWarning {
		t.Fatalf("expected price warning, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("expected nothing persisted on warning")
	}

	input.ConfirmPriceWarning = true
	if _, err := svc.Create(context.Background(), concessionID, input); err != nil {
		t.Fatalf("expected confirmed save to pass, got %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected item persisted after confirmation")
	}
}

func TestCreateDenormalizesExistingOptionNames(t *testing.T) {
	t.Parallel()

	concessionID := uuid.New()
	riceID := uuid.New()
	repo := &stubMenuRepo{
		items: []models.MenuItem{
			{ID: riceID, ConcessionID: concessionID, Name: "Garlic Rice", BasePrice: decimal.NewFromInt(35)},
		},
	}
	svc := newTestService(t, repo)

	input := ItemInput{
		Name:      "Tapsilog",
		BasePrice: "120",
		VariationGroups: []GroupInput{
			{
				Name:          "Rice",
				Mode:          "existing",
				SelectionType: "single_choice",
				Options: []OptionInput{
					{ExistingMenuItemID: &riceID},
				},
			},
		},
	}

	_, err := svc.Create(context.Background(), concessionID, input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected item persisted")
	}
	opt := repo.created.VariationGroups[0].Options[0]
	if opt.Name != "Garlic Rice" {
		t.Fatalf("expected denormalized name, got %q", opt.Name)
	}
}

func TestCreateRejectsUnknownExistingReference(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubMenuRepo{})
	ghost := uuid.New()

	input := ItemInput{
		Name:      "Tapsilog",
		BasePrice: "120",
		VariationGroups: []GroupInput{
			{
				Name:          "Rice",
				Mode:          "existing",
				SelectionType: "single_choice",
				Options:       []OptionInput{{ExistingMenuItemID: &ghost}},
			},
		},
	}

	_, err := svc.Create(context.Background(), uuid.New(), input)
	appErr := apperrors.As(err)
	if appErr == nil || appErr.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateKeepsSpecificityRatchet(t *testing.T) {
	t.Parallel()

	concessionID := uuid.New()
	itemID := uuid.New()
	groupID := uuid.New()
	repo := &stubMenuRepo{
		items: []models.MenuItem{
			{
				ID:           itemID,
				ConcessionID: concessionID,
				Name:         "Tapsilog",
				BasePrice:    decimal.NewFromInt(120),
				VariationGroups: []models.VariationGroup{
					{
						ID:            groupID,
						MenuItemID:    itemID,
						Name:          "Drink",
						Mode:          enums.VariationModeSingleCategory,
						SelectionType: enums.SelectionTypeSingleChoice,
						Specificity:   true,
					},
				},
			},
		},
	}
	svc := newTestService(t, repo)

	// Switch the group away from a category mode without sending specificity.
	input := ItemInput{
		Name:      "Tapsilog",
		BasePrice: "120",
		VariationGroups: []GroupInput{
			{
				ID:            &groupID,
				Name:          "Drink",
				Mode:          "custom",
				SelectionType: "single_choice",
				Options:       []OptionInput{{Name: "Iced Tea", PriceAdjustment: "25"}},
			},
		},
	}

	_, err := svc.Update(context.Background(), concessionID, itemID, input)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if repo.updated == nil {
		t.Fatal("expected configuration replaced")
	}
	if !repo.updated.VariationGroups[0].Specificity {
		t.Fatal("expected specificity to survive leaving a category mode")
	}
}
