package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/blogkit/blogkit/models"
	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogPostRepositoryImpl implements BlogPostRepository interface
type BlogPostRepositoryImpl struct {
	*BaseRepository[models.BlogPost, models.BlogPostFilter]
}

// NewBlogPostRepository creates a new blog post repository
func NewBlogPostRepository(db *gorm.DB) BlogPostRepository {
	return &BlogPostRepositoryImpl{
		BaseRepository: NewBaseRepository[models.BlogPost, models.BlogPostFilter](db),
	}
}

// ByUUID retrieves a post by its UUID
func (r *BlogPostRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	db := r.getDB(ctx)
	var row models.BlogPost
	if err := db.Where("uuid = ?", id).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByUUIDs retrieves posts of a page for a list of uuid strings. Missing
// uuids are simply absent from the result; callers detect them by comparing
// lengths.
func (r *BlogPostRepositoryImpl) ListByUUIDs(ctx context.Context, pageID uint, uuids []string) ([]*models.BlogPost, error) {
	db := r.getDB(ctx)
	if len(uuids) == 0 {
		return []*models.BlogPost{}, nil
	}
	var rows []*models.BlogPost
	if err := db.Model(&models.BlogPost{}).
		Where("page_id = ? AND uuid IN ?", pageID, uuids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus sets the publication status of a post. Moving to PUBLISHED
// stamps published_at when it was never set.
func (r *BlogPostRepositoryImpl) UpdateStatus(ctx context.Context, postID uint, status models.PostStatus) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	now := utils.UTCNow()
	updates := map[string]any{
		"status":     status,
		"updated_at": now,
	}
	if status == models.PostStatusPublished {
		if err = db.Model(&models.BlogPost{}).
			Where("id = ? AND published_at IS NULL", postID).
			Update("published_at", now).Error; err != nil {
			return fmt.Errorf("failed to stamp published_at for post %d: %w", postID, err)
		}
	}

	if err = db.Model(&models.BlogPost{}).Where("id = ?", postID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update status for post %d: %w", postID, err)
	}

	return nil
}

// ReplaceCategories overwrites the post's ordered category list
func (r *BlogPostRepositoryImpl) ReplaceCategories(ctx context.Context, postID uint, categoryIDs []string) error {
	return r.replaceColumn(ctx, postID, "category_ids", categoryIDs)
}

// ReplaceTags overwrites the post's ordered tag list
func (r *BlogPostRepositoryImpl) ReplaceTags(ctx context.Context, postID uint, tagIDs []string) error {
	return r.replaceColumn(ctx, postID, "tag_ids", tagIDs)
}

func (r *BlogPostRepositoryImpl) replaceColumn(ctx context.Context, postID uint, column string, ids []string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	if ids == nil {
		ids = []string{}
	}
	err = db.Model(&models.BlogPost{}).Where("id = ?", postID).Updates(map[string]any{
		column:       models.StringSlice(ids),
		"updated_at": utils.UTCNow(),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to replace %s for post %d: %w", column, postID, err)
	}

	return nil
}

// ReplaceAuthors overwrites the primary author and co-author list together
func (r *BlogPostRepositoryImpl) ReplaceAuthors(ctx context.Context, postID uint, primaryAuthorID *string, coAuthorIDs []string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	if coAuthorIDs == nil {
		coAuthorIDs = []string{}
	}
	err = db.Model(&models.BlogPost{}).Where("id = ?", postID).Updates(map[string]any{
		"primary_author_id": primaryAuthorID,
		"co_author_ids":     models.StringSlice(coAuthorIDs),
		"updated_at":        utils.UTCNow(),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to replace authors for post %d: %w", postID, err)
	}

	return nil
}

// DeleteByUUID removes a post of a page
func (r *BlogPostRepositoryImpl) DeleteByUUID(ctx context.Context, pageID uint, id uuid.UUID) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Where("page_id = ? AND uuid = ?", pageID, id).Delete(&models.BlogPost{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *BlogPostRepositoryImpl) applyFilter(query *gorm.DB, filter models.BlogPostFilter) *gorm.DB {
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
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// ByFilter retrieves posts based on filter criteria
func (r *BlogPostRepositoryImpl) ByFilter(ctx context.Context, filter models.BlogPostFilter, orderBy string, limit, offset int) ([]*models.BlogPost, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.BlogPost{})

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

	var rows []*models.BlogPost
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of posts matching the filter
func (r *BlogPostRepositoryImpl) Count(ctx context.Context, filter models.BlogPostFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.BlogPost{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any post matching the filter exists
func (r *BlogPostRepositoryImpl) Exists(ctx context.Context, filter models.BlogPostFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
