package repository

import (
	"context"
	"errors"

	"github.com/blogkit/blogkit/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepositoryImpl implements CategoryRepository interface
type CategoryRepositoryImpl struct {
	*BaseRepository[models.Category, models.CategoryFilter]
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &CategoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Category, models.CategoryFilter](db),
	}
}

// ByUUID retrieves a category by its UUID
func (r *CategoryRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	db := r.getDB(ctx)
	var row models.Category
	if err := db.Where("uuid = ?", id).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByPage retrieves all categories of a page
func (r *CategoryRepositoryImpl) ListByPage(ctx context.Context, pageID uint) ([]*models.Category, error) {
	db := r.getDB(ctx)
	var rows []*models.Category
	if err := db.Model(&models.Category{}).Where("page_id = ?", pageID).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUUIDs retrieves categories of a page for a list of uuid strings
func (r *CategoryRepositoryImpl) ListByUUIDs(ctx context.Context, pageID uint, uuids []string) ([]*models.Category, error) {
	db := r.getDB(ctx)
	if len(uuids) == 0 {
		return []*models.Category{}, nil
	}
	var rows []*models.Category
	if err := db.Model(&models.Category{}).
		Where("page_id = ? AND uuid IN ?", pageID, uuids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *CategoryRepositoryImpl) applyFilter(query *gorm.DB, filter models.CategoryFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.PageID != nil {
		query = query.Where("page_id = ?", *filter.PageID)
	}
	if filter.Slug != nil {
		query = query.Where("slug = ?", *filter.Slug)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	return query
}

// ByFilter retrieves categories based on filter criteria
func (r *CategoryRepositoryImpl) ByFilter(ctx context.Context, filter models.CategoryFilter, orderBy string, limit, offset int) ([]*models.Category, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Category{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Category
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of categories matching the filter
func (r *CategoryRepositoryImpl) Count(ctx context.Context, filter models.CategoryFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Category{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any category matching the filter exists
func (r *CategoryRepositoryImpl) Exists(ctx context.Context, filter models.CategoryFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
