package services

import (
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"

	apperrors "centsimple/internal/errors"
	"centsimple/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new custom category for the user. The name must
// not collide, case-insensitively, with a default category or another of the
// user's own categories.
func (s *categoryService) CreateCategory(userID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	if err := s.checkNameCollision(userID, name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID: &userID,
		Name:   name,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// ListCategories returns the categories visible to the user (their own plus
// the defaults) sorted pinned-first then alphabetically, along with the set
// of pinned category IDs.
func (s *categoryService) ListCategories(userID string) ([]models.Category, []string, error) {
	var pins []models.UserPinnedCategory
	if err := s.db.Where("user_id = ?", userID).Find(&pins).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	pinned := make(map[string]bool, len(pins))
	pinnedIDs := make([]string, 0, len(pins))
	for _, p := range pins {
		pinned[p.CategoryID] = true
		pinnedIDs = append(pinnedIDs, p.CategoryID)
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ? OR user_id IS NULL", userID).Find(&categories).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		pi, pj := pinned[categories[i].ID], pinned[categories[j].ID]
		if pi != pj {
			return pi
		}
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})

	return categories, pinnedIDs, nil
}

// UpdateCategory renames one of the user's own categories. Default categories
// and other users' categories surface as not-found.
func (s *categoryService) UpdateCategory(userID, categoryID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category, err := s.getOwnedCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if err := s.checkNameCollision(userID, name, categoryID); err != nil {
		return nil, err
	}

	if err := s.db.Model(category).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// DeleteCategory deletes one of the user's own categories. The delete is
// refused while any of the user's transactions still references the category;
// dependent transactions must be re-pointed or removed first.
func (s *categoryService) DeleteCategory(userID, categoryID string) (*models.Category, error) {
	category, err := s.getOwnedCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	var inUse int64
	if err := s.db.Model(&models.Transaction{}).
		Where("category_id = ? AND user_id = ?", categoryID, userID).
		Count(&inUse).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if inUse > 0 {
		return nil, apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// TogglePin pins the category for the user if unpinned, or unpins it if
// pinned. Returns the pinned state after the toggle.
func (s *categoryService) TogglePin(userID, categoryID string) (bool, error) {
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrCategoryNotFound
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !category.AccessibleBy(userID) {
		return false, apperrors.ErrCategoryNotFound
	}

	var pin models.UserPinnedCategory
	err := s.db.Where("user_id = ? AND category_id = ?", userID, categoryID).First(&pin).Error
	switch {
	case err == nil:
		if err := s.db.Delete(&pin).Error; err != nil {
			return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		pin = models.UserPinnedCategory{UserID: userID, CategoryID: categoryID}
		if err := s.db.Create(&pin).Error; err != nil {
			return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return true, nil
	default:
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// getOwnedCategory fetches a category and verifies the user owns it. Absent
// categories, defaults, and other users' categories all report not-found so
// responses never reveal what exists outside the caller's own records.
func (s *categoryService) getOwnedCategory(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.IsDefault() || *category.UserID != userID {
		return nil, apperrors.ErrCategoryNotFound
	}
	return &category, nil
}

// checkNameCollision rejects a name that already exists, case-insensitively,
// among the default categories or the user's own. excludeID skips the record
// being updated.
func (s *categoryService) checkNameCollision(userID, name, excludeID string) error {
	q := s.db.Model(&models.Category{}).
		Where("LOWER(name) = LOWER(?)", name).
		Where("user_id = ? OR user_id IS NULL", userID)
	if excludeID != "" {
		q = q.Where("id != ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}
