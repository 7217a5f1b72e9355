package repository

import (
	"context"
	"errors"

	"github.com/blogkit/blogkit/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthorRepositoryImpl implements AuthorRepository interface
type AuthorRepositoryImpl struct {
	*BaseRepository[models.Author, models.AuthorFilter]
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &AuthorRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Author, models.AuthorFilter](db),
	}
}

// ByUUID retrieves an author by its UUID
func (r *AuthorRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	db := r.getDB(ctx)
	var row models.Author
	if err := db.Where("uuid = ?", id).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByWorkspace retrieves all authors of a workspace
func (r *AuthorRepositoryImpl) ListByWorkspace(ctx context.Context, workspaceID uint) ([]*models.Author, error) {
	db := r.getDB(ctx)
	var rows []*models.Author
	if err := db.Model(&models.Author{}).Where("workspace_id = ?", workspaceID).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUUIDs retrieves authors of a workspace for a list of uuid strings
func (r *AuthorRepositoryImpl) ListByUUIDs(ctx context.Context, workspaceID uint, uuids []string) ([]*models.Author, error) {
	db := r.getDB(ctx)
	if len(uuids) == 0 {
		return []*models.Author{}, nil
	}
	var rows []*models.Author
	if err := db.Model(&models.Author{}).
		Where("workspace_id = ? AND uuid IN ?", workspaceID, uuids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *AuthorRepositoryImpl) applyFilter(query *gorm.DB, filter models.AuthorFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkspaceID != nil {
		query = query.Where("workspace_id = ?", *filter.WorkspaceID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	return query
}

// ByFilter retrieves authors based on filter criteria
func (r *AuthorRepositoryImpl) ByFilter(ctx context.Context, filter models.AuthorFilter, orderBy string, limit, offset int) ([]*models.Author, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Author{})

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

	var rows []*models.Author
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of authors matching the filter
func (r *AuthorRepositoryImpl) Count(ctx context.Context, filter models.AuthorFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Author{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any author matching the filter exists
func (r *AuthorRepositoryImpl) Exists(ctx context.Context, filter models.AuthorFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
