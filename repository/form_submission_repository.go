package repository

import (
	"context"

	"github.com/blogkit/blogkit/models"
	"gorm.io/gorm"
)

// FormSubmissionRepositoryImpl implements FormSubmissionRepository interface
type FormSubmissionRepositoryImpl struct {
	*BaseRepository[models.FormSubmission, models.FormSubmissionFilter]
}

// NewFormSubmissionRepository creates a new form submission repository
func NewFormSubmissionRepository(db *gorm.DB) FormSubmissionRepository {
	return &FormSubmissionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.FormSubmission, models.FormSubmissionFilter](db),
	}
}

// ListByForm retrieves submissions of one form, newest first
func (r *FormSubmissionRepositoryImpl) ListByForm(ctx context.Context, pageID uint, formID string, limit, offset int) ([]*models.FormSubmission, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.FormSubmission{}).
		Where("page_id = ? AND form_id = ?", pageID, formID).
		Order("id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.FormSubmission
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *FormSubmissionRepositoryImpl) applyFilter(query *gorm.DB, filter models.FormSubmissionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.PageID != nil {
		query = query.Where("page_id = ?", *filter.PageID)
	}
	if filter.FormID != nil {
		query = query.Where("form_id = ?", *filter.FormID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves submissions based on filter criteria
func (r *FormSubmissionRepositoryImpl) ByFilter(ctx context.Context, filter models.FormSubmissionFilter, orderBy string, limit, offset int) ([]*models.FormSubmission, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.FormSubmission{})

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

	var rows []*models.FormSubmission
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of submissions matching the filter
func (r *FormSubmissionRepositoryImpl) Count(ctx context.Context, filter models.FormSubmissionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.FormSubmission{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any submission matching the filter exists
func (r *FormSubmissionRepositoryImpl) Exists(ctx context.Context, filter models.FormSubmissionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
