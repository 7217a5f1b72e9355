package repository

import (
	"context"
	"errors"

	"github.com/blogkit/blogkit/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TagRepositoryImpl implements TagRepository interface
type TagRepositoryImpl struct {
	*BaseRepository[models.Tag, models.TagFilter]
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &TagRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Tag, models.TagFilter](db),
	}
}

// ByUUID retrieves a tag by its UUID
func (r *TagRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	db := r.getDB(ctx)
	var row models.Tag
	if err := db.Where("uuid = ?", id).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByPage retrieves all tags of a page
func (r *TagRepositoryImpl) ListByPage(ctx context.Context, pageID uint) ([]*models.Tag, error) {
	db := r.getDB(ctx)
	var rows []*models.Tag
	if err := db.Model(&models.Tag{}).Where("page_id = ?", pageID).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUUIDs retrieves tags of a page for a list of uuid strings
func (r *TagRepositoryImpl) ListByUUIDs(ctx context.Context, pageID uint, uuids []string) ([]*models.Tag, error) {
	db := r.getDB(ctx)
	if len(uuids) == 0 {
		return []*models.Tag{}, nil
	}
	var rows []*models.Tag
	if err := db.Model(&models.Tag{}).
		Where("page_id = ? AND uuid IN ?", pageID, uuids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *TagRepositoryImpl) applyFilter(query *gorm.DB, filter models.TagFilter) *gorm.DB {
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

// ByFilter retrieves tags based on filter criteria
func (r *TagRepositoryImpl) ByFilter(ctx context.Context, filter models.TagFilter, orderBy string, limit, offset int) ([]*models.Tag, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Tag{})

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

	var rows []*models.Tag
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of tags matching the filter
func (r *TagRepositoryImpl) Count(ctx context.Context, filter models.TagFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Tag{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any tag matching the filter exists
func (r *TagRepositoryImpl) Exists(ctx context.Context, filter models.TagFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
