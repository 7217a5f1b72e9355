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

// PageRepositoryImpl implements PageRepository interface
type PageRepositoryImpl struct {
	*BaseRepository[models.Page, models.PageFilter]
}

// NewPageRepository creates a new page repository
func NewPageRepository(db *gorm.DB) PageRepository {
	return &PageRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Page, models.PageFilter](db),
	}
}

// ByUUID retrieves a page by its UUID
func (r *PageRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	db := r.getDB(ctx)
	var row models.Page
	if err := db.Where("uuid = ?", id).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByWorkspace retrieves all pages of a workspace
func (r *PageRepositoryImpl) ListByWorkspace(ctx context.Context, workspaceID uint) ([]*models.Page, error) {
	db := r.getDB(ctx)
	var rows []*models.Page
	if err := db.Model(&models.Page{}).Where("workspace_id = ?", workspaceID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadCtasConfig reads the CTA blob, both mapping indices and the global
// default pointer for a page. A page without saved config yields an empty
// blob and empty mappings, never an error.
func (r *PageRepositoryImpl) LoadCtasConfig(ctx context.Context, pageID uint) (*models.CtasConfig, models.StringMap, models.StringMap, *string, error) {
	db := r.getDB(ctx)

	var row models.Page
	if err := db.Select("id", "ctas_config", "category_cta_mapping", "tag_cta_mapping", "global_default_cta_id").
		First(&row, pageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, nil, ErrPageNotFound
		}
		return nil, nil, nil, nil, fmt.Errorf("failed to load cta config for page %d: %w", pageID, err)
	}

	cfg := row.CtasConfig
	if cfg.Ctas == nil {
		cfg.Ctas = []models.CtaDefinition{}
	}
	catMap := row.CategoryCtaMapping
	if catMap == nil {
		catMap = models.StringMap{}
	}
	tagMap := row.TagCtaMapping
	if tagMap == nil {
		tagMap = models.StringMap{}
	}

	return &cfg, catMap, tagMap, row.GlobalDefaultCtaID, nil
}

// SaveCtasConfig overwrites the CTA blob, mapping indices and global default
// pointer in one update and bumps updated_at.
func (r *PageRepositoryImpl) SaveCtasConfig(ctx context.Context, pageID uint, cfg *models.CtasConfig, categoryMapping, tagMapping models.StringMap, globalDefaultCtaID *string) error {
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
	cfg.LastUpdated = &now

	res := db.Model(&models.Page{}).Where("id = ?", pageID).Updates(map[string]any{
		"ctas_config":           cfg,
		"category_cta_mapping":  categoryMapping,
		"tag_cta_mapping":       tagMapping,
		"global_default_cta_id": globalDefaultCtaID,
		"updated_at":            now,
	})
	if res.Error != nil {
		err = fmt.Errorf("failed to save cta config for page %d: %w", pageID, res.Error)
		return err
	}
	if res.RowsAffected == 0 {
		err = ErrPageNotFound
		return err
	}

	return nil
}

// LoadFormsConfig reads the forms blob for a page. The mapping indices for
// forms live inside the blob itself.
func (r *PageRepositoryImpl) LoadFormsConfig(ctx context.Context, pageID uint) (*models.FormsConfig, error) {
	db := r.getDB(ctx)

	var row models.Page
	if err := db.Select("id", "forms_config").First(&row, pageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to load forms config for page %d: %w", pageID, err)
	}

	cfg := row.FormsConfig
	if cfg.Forms == nil {
		cfg.Forms = []models.FormDefinition{}
	}
	if cfg.CategoryFormMapping == nil {
		cfg.CategoryFormMapping = map[string]string{}
	}
	if cfg.TagFormMapping == nil {
		cfg.TagFormMapping = map[string]string{}
	}

	return &cfg, nil
}

// SaveFormsConfig overwrites the forms blob and bumps updated_at.
func (r *PageRepositoryImpl) SaveFormsConfig(ctx context.Context, pageID uint, cfg *models.FormsConfig) error {
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
	cfg.LastUpdated = &now

	res := db.Model(&models.Page{}).Where("id = ?", pageID).Updates(map[string]any{
		"forms_config": cfg,
		"updated_at":   now,
	})
	if res.Error != nil {
		err = fmt.Errorf("failed to save forms config for page %d: %w", pageID, res.Error)
		return err
	}
	if res.RowsAffected == 0 {
		err = ErrPageNotFound
		return err
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *PageRepositoryImpl) applyFilter(query *gorm.DB, filter models.PageFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.WorkspaceID != nil {
		query = query.Where("workspace_id = ?", *filter.WorkspaceID)
	}
	if filter.Slug != nil {
		query = query.Where("slug = ?", *filter.Slug)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves pages based on filter criteria
func (r *PageRepositoryImpl) ByFilter(ctx context.Context, filter models.PageFilter, orderBy string, limit, offset int) ([]*models.Page, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Page{})

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

	var rows []*models.Page
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of pages matching the filter
func (r *PageRepositoryImpl) Count(ctx context.Context, filter models.PageFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Page{})
	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any page matching the filter exists
func (r *PageRepositoryImpl) Exists(ctx context.Context, filter models.PageFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
