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

// UserRepositoryImpl implements UserRepository interface
type UserRepositoryImpl struct {
	*BaseRepository[models.User, models.UserFilter]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.User, models.UserFilter](db),
	}
}

// ByEmail retrieves a user by email
func (r *UserRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.User, error) {
	db := r.getDB(ctx)
	var row models.User
	if err := db.Where("email = ?", email).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ByUUID retrieves a user by its UUID
func (r *UserRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	db := r.getDB(ctx)
	var row models.User
	if err := db.Where("uuid = ?", id).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// UpdateLastLogin stamps last_login_at with the current UTC time
func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, userID uint) error {
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

	err = db.Model(&models.User{}).Where("id = ?", userID).Update("last_login_at", utils.UTCNow()).Error
	if err != nil {
		return fmt.Errorf("failed to update last login for user %d: %w", userID, err)
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *UserRepositoryImpl) applyFilter(query *gorm.DB, filter models.UserFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves users based on filter criteria
func (r *UserRepositoryImpl) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.User{})

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

	var rows []*models.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of users matching the filter
func (r *UserRepositoryImpl) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.User{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any user matching the filter exists
func (r *UserRepositoryImpl) Exists(ctx context.Context, filter models.UserFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
