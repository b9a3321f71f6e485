package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/ownership"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// ListCategories retrieves all categories owned by the user plus all shared
// (ownerless) categories, in insertion order.
func (s *categoryService) ListCategories(userID uint) ([]CategoryRecord, error) {
	var categories []models.Category
	if err := s.db.
		Where("user_id = ? OR user_id IS NULL", userID).
		Order("id").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]CategoryRecord, 0, len(categories))
	for i := range categories {
		records = append(records, mapCategory(&categories[i]))
	}
	return records, nil
}

// GetCategoryByID retrieves a category by ID. Reads are not ownership
// checked: any authenticated user may fetch any category.
func (s *categoryService) GetCategoryByID(categoryID uint) (*CategoryRecord, error) {
	category, err := s.getCategoryEntity(categoryID)
	if err != nil {
		return nil, err
	}
	record := mapCategory(category)
	return &record, nil
}

// CreateCategory creates a new category. Owned categories are always
// attributed to the acting user; the caller cannot hand ownership to
// someone else.
func (s *categoryService) CreateCategory(userID uint, input CategoryInput) (*CategoryRecord, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category := &models.Category{}
	applyCategoryInput(category, input, userID)

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	record := mapCategory(category)
	return &record, nil
}

// UpdateCategory updates an existing category. A category owned by another
// user surfaces as not found.
func (s *categoryService) UpdateCategory(userID, categoryID uint, input CategoryInput) (*CategoryRecord, error) {
	category, err := s.getCategoryEntity(categoryID)
	if err != nil {
		return nil, err
	}

	if !ownership.CanModifyCategory(category, userID) {
		return nil, apperrors.ErrCategoryNotFound
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	applyCategoryInput(category, input, userID)

	if err := s.db.Save(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	record := mapCategory(category)
	return &record, nil
}

// DeleteCategory deletes a category. Deletion is blocked while any
// transaction still references it.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.getCategoryEntity(categoryID)
	if err != nil {
		return err
	}

	if !ownership.CanModifyCategory(category, userID) {
		return apperrors.ErrCategoryNotFound
	}

	var refCount int64
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&refCount).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if refCount > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *categoryService) getCategoryEntity(categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// applyCategoryInput copies the mutable fields onto the entity. Visibility
// owned claims the category for the acting user; anything else stores it as
// shared. Updating a shared category as owned therefore transfers it to the
// editor, mirroring how creation attributes ownership.
func applyCategoryInput(category *models.Category, input CategoryInput, userID uint) {
	category.Name = input.Name
	category.Description = input.Description
	category.Type = input.Type
	if input.Visibility == models.VisibilityOwned {
		category.UserID = &userID
	} else {
		category.UserID = nil
	}
}

func mapCategory(category *models.Category) CategoryRecord {
	return CategoryRecord{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Type:        category.Type,
		UserID:      category.UserID,
	}
}
