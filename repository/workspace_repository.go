package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/blogkit/blogkit/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkspaceRepositoryImpl implements WorkspaceRepository interface
type WorkspaceRepositoryImpl struct {
	*BaseRepository[models.Workspace, models.WorkspaceFilter]
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &WorkspaceRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Workspace, models.WorkspaceFilter](db),
	}
}

// ByUUID retrieves a workspace by its UUID
func (r *WorkspaceRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	db := r.getDB(ctx)
	var row models.Workspace
	if err := db.Where("uuid = ?", id).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// MemberRole returns the role of a user inside a workspace, or nil when the
// user is not a member.
func (r *WorkspaceRepositoryImpl) MemberRole(ctx context.Context, workspaceID, userID uint) (*models.WorkspaceRole, error) {
	db := r.getDB(ctx)
	var row models.WorkspaceMember
	if err := db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row.Role, nil
}

// SaveMember inserts a workspace membership
func (r *WorkspaceRepositoryImpl) SaveMember(ctx context.Context, member *models.WorkspaceMember) error {
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

	err = db.Create(member).Error
	if err != nil {
		return fmt.Errorf("failed to save workspace member: %w", err)
	}

	return nil
}

// ListMembers retrieves all memberships of a workspace
func (r *WorkspaceRepositoryImpl) ListMembers(ctx context.Context, workspaceID uint) ([]*models.WorkspaceMember, error) {
	db := r.getDB(ctx)
	var rows []*models.WorkspaceMember
	if err := db.Model(&models.WorkspaceMember{}).Where("workspace_id = ?", workspaceID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *WorkspaceRepositoryImpl) applyFilter(query *gorm.DB, filter models.WorkspaceFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Slug != nil {
		query = query.Where("slug = ?", *filter.Slug)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves workspaces based on filter criteria
func (r *WorkspaceRepositoryImpl) ByFilter(ctx context.Context, filter models.WorkspaceFilter, orderBy string, limit, offset int) ([]*models.Workspace, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Workspace{})

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

	var rows []*models.Workspace
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of workspaces matching the filter
func (r *WorkspaceRepositoryImpl) Count(ctx context.Context, filter models.WorkspaceFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Workspace{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any workspace matching the filter exists
func (r *WorkspaceRepositoryImpl) Exists(ctx context.Context, filter models.WorkspaceFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
