// Package businessflow contains the core business logic for CTA workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/blogkit/blogkit/app/dto"
	"github.com/blogkit/blogkit/models"
	"github.com/blogkit/blogkit/repository"
	"github.com/blogkit/blogkit/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CtaFlow handles the CTA business logic
type CtaFlow interface {
	CreateCta(ctx context.Context, req *dto.CreateCtaRequest, metadata *ClientMetadata) (*dto.CtaResponse, error)
	UpdateCta(ctx context.Context, req *dto.UpdateCtaRequest, metadata *ClientMetadata) (*dto.CtaResponse, error)
	DeleteCta(ctx context.Context, req *dto.DeleteCtaRequest, metadata *ClientMetadata) error
	GetCta(ctx context.Context, req *dto.GetCtaRequest) (*dto.CtaResponse, error)
	ListCtas(ctx context.Context, req *dto.ListCtasRequest) (*dto.ListCtasResponse, error)
	ResolveCtaForPost(ctx context.Context, req *dto.ResolveCtaRequest) (*dto.ResolveCtaResponse, error)
}

// CtaFlowImpl implements the CTA business flow
type CtaFlowImpl struct {
	pageRepo     repository.PageRepository
	postRepo     repository.BlogPostRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	auditRepo    repository.AuditLogRepository
	cache        *ResolutionCache
	validate     *validator.Validate
	db           *gorm.DB
}

// NewCtaFlow creates a new CTA flow instance
func NewCtaFlow(
	pageRepo repository.PageRepository,
	postRepo repository.BlogPostRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	auditRepo repository.AuditLogRepository,
	cache *ResolutionCache,
	db *gorm.DB,
) CtaFlow {
	return &CtaFlowImpl{
		pageRepo:     pageRepo,
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		auditRepo:    auditRepo,
		cache:        cache,
		validate:     newValidator(),
		db:           db,
	}
}

// CreateCta validates, stores and indexes a new CTA definition on a page
func (s *CtaFlowImpl) CreateCta(ctx context.Context, req *dto.CreateCtaRequest, metadata *ClientMetadata) (*dto.CtaResponse, error) {
	if err := s.validateCtaInput(&req.Config, req.Categories, req.Tags); err != nil {
		return nil, err
	}

	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	categories := utils.Dedupe(req.Categories)
	tags := utils.Dedupe(req.Tags)

	if err := s.checkTargetRefs(ctx, page.ID, categories, tags); err != nil {
		return nil, err
	}

	now := utils.UTCNow()
	def := models.CtaDefinition{
		ID:         uuid.New().String(),
		Config:     req.Config,
		Categories: categories,
		Tags:       tags,
		IsActive:   req.IsActive == nil || *req.IsActive,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		cfg, catMap, tagMap, globalID, err := s.pageRepo.LoadCtasConfig(txCtx, page.ID)
		if err != nil {
			return err
		}

		cfg.Ctas = append(cfg.Ctas, def)
		catMap, tagMap, globalID = reindexCtaMappings(&def, catMap, tagMap, globalID, utils.GlobalTargetSentinel)

		return s.pageRepo.SaveCtasConfig(txCtx, page.ID, cfg, catMap, tagMap, globalID)
	})
	if err != nil {
		return nil, NewBusinessError("CTA_CREATION_FAILED", "CTA creation failed", err)
	}

	s.cache.Bump(ctx, page.UUID.String())
	msg := fmt.Sprintf("CTA created: %s", def.ID)
	_ = s.createAuditLog(ctx, page, models.ActionCtaCreated, msg, def.ID, metadata)

	return &dto.CtaResponse{Cta: ToCtaDTO(def)}, nil
}

// UpdateCta overwrites the config and targeting of an existing CTA. The
// mapping indices are rebuilt from the new targeting.
func (s *CtaFlowImpl) UpdateCta(ctx context.Context, req *dto.UpdateCtaRequest, metadata *ClientMetadata) (*dto.CtaResponse, error) {
	if err := s.validateCtaInput(&req.Config, req.Categories, req.Tags); err != nil {
		return nil, err
	}

	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	categories := utils.Dedupe(req.Categories)
	tags := utils.Dedupe(req.Tags)

	if err := s.checkTargetRefs(ctx, page.ID, categories, tags); err != nil {
		return nil, err
	}

	var updated models.CtaDefinition
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		cfg, catMap, tagMap, globalID, err := s.pageRepo.LoadCtasConfig(txCtx, page.ID)
		if err != nil {
			return err
		}

		def := cfg.Find(req.CtaID)
		if def == nil {
			return ErrCtaNotFound
		}

		def.Config = req.Config
		def.Categories = categories
		def.Tags = tags
		if req.IsActive != nil {
			def.IsActive = *req.IsActive
		}
		def.Version++
		def.UpdatedAt = utils.UTCNow()
		updated = *def

		catMap, tagMap, globalID = reindexCtaMappings(def, catMap, tagMap, globalID, utils.GlobalTargetSentinel)

		return s.pageRepo.SaveCtasConfig(txCtx, page.ID, cfg, catMap, tagMap, globalID)
	})
	if err != nil {
		if IsCtaNotFound(err) {
			return nil, err
		}
		return nil, NewBusinessError("CTA_UPDATE_FAILED", "CTA update failed", err)
	}

	s.cache.Bump(ctx, page.UUID.String())
	msg := fmt.Sprintf("CTA updated: %s", updated.ID)
	_ = s.createAuditLog(ctx, page, models.ActionCtaUpdated, msg, updated.ID, metadata)

	return &dto.CtaResponse{Cta: ToCtaDTO(updated)}, nil
}

// DeleteCta removes a CTA definition and every mapping entry owned by it
func (s *CtaFlowImpl) DeleteCta(ctx context.Context, req *dto.DeleteCtaRequest, metadata *ClientMetadata) error {
	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return err
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		cfg, catMap, tagMap, globalID, err := s.pageRepo.LoadCtasConfig(txCtx, page.ID)
		if err != nil {
			return err
		}

		idx := -1
		for i := range cfg.Ctas {
			if cfg.Ctas[i].ID == req.CtaID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrCtaNotFound
		}

		cfg.Ctas = append(cfg.Ctas[:idx], cfg.Ctas[idx+1:]...)
		catMap, tagMap, globalID = unindexCta(req.CtaID, catMap, tagMap, globalID)

		return s.pageRepo.SaveCtasConfig(txCtx, page.ID, cfg, catMap, tagMap, globalID)
	})
	if err != nil {
		if IsCtaNotFound(err) {
			return err
		}
		return NewBusinessError("CTA_DELETION_FAILED", "CTA deletion failed", err)
	}

	s.cache.Bump(ctx, page.UUID.String())
	msg := fmt.Sprintf("CTA deleted: %s", req.CtaID)
	_ = s.createAuditLog(ctx, page, models.ActionCtaDeleted, msg, req.CtaID, metadata)

	return nil
}

// GetCta fetches a single CTA definition
func (s *CtaFlowImpl) GetCta(ctx context.Context, req *dto.GetCtaRequest) (*dto.CtaResponse, error) {
	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	cfg, _, _, _, err := s.pageRepo.LoadCtasConfig(ctx, page.ID)
	if err != nil {
		return nil, NewBusinessError("CTA_LOOKUP_FAILED", "Failed to load CTA config", err)
	}

	def := cfg.Find(req.CtaID)
	if def == nil {
		return nil, ErrCtaNotFound
	}

	return &dto.CtaResponse{Cta: ToCtaDTO(*def)}, nil
}

// ListCtas lists all CTA definitions of a page with the mapping indices
func (s *CtaFlowImpl) ListCtas(ctx context.Context, req *dto.ListCtasRequest) (*dto.ListCtasResponse, error) {
	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	cfg, catMap, tagMap, globalID, err := s.pageRepo.LoadCtasConfig(ctx, page.ID)
	if err != nil {
		return nil, NewBusinessError("CTA_LOOKUP_FAILED", "Failed to load CTA config", err)
	}

	out := make([]dto.CtaDTO, 0, len(cfg.Ctas))
	for _, def := range cfg.Ctas {
		out = append(out, ToCtaDTO(def))
	}

	return &dto.ListCtasResponse{
		Ctas:               out,
		CategoryCtaMapping: catMap,
		TagCtaMapping:      tagMap,
		GlobalDefaultCtaID: globalID,
	}, nil
}

// ResolveCtaForPost picks the CTA to display on a post. Results are cached
// per page generation.
func (s *CtaFlowImpl) ResolveCtaForPost(ctx context.Context, req *dto.ResolveCtaRequest) (*dto.ResolveCtaResponse, error) {
	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	var cached dto.ResolveCtaResponse
	if s.cache.Get(ctx, "cta", page.UUID.String(), req.PostUUID, &cached) {
		return &cached, nil
	}

	postUUID, err := uuid.Parse(req.PostUUID)
	if err != nil {
		return nil, ErrPostNotFound
	}
	post, err := s.postRepo.ByUUID(ctx, postUUID)
	if err != nil {
		return nil, NewBusinessError("POST_LOOKUP_FAILED", "Failed to lookup post", err)
	}
	if post == nil || post.PageID != page.ID {
		return nil, ErrPostNotFound
	}

	cfg, catMap, tagMap, globalID, err := s.pageRepo.LoadCtasConfig(ctx, page.ID)
	if err != nil {
		return nil, NewBusinessError("CTA_LOOKUP_FAILED", "Failed to load CTA config", err)
	}

	def, matched := ResolveCta(cfg, catMap, tagMap, globalID, post)
	resp := &dto.ResolveCtaResponse{Matched: matched}
	if def != nil {
		d := ToCtaDTO(*def)
		resp.Cta = &d
	}

	s.cache.Set(ctx, "cta", page.UUID.String(), req.PostUUID, resp)

	return resp, nil
}

// getPage resolves an active page by uuid string
func (s *CtaFlowImpl) getPage(ctx context.Context, pageUUID string) (*models.Page, error) {
	id, err := uuid.Parse(pageUUID)
	if err != nil {
		return nil, ErrPageNotFound
	}
	page, err := s.pageRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PAGE_LOOKUP_FAILED", "Failed to lookup page", err)
	}
	if page == nil {
		return nil, ErrPageNotFound
	}
	if !utils.IsTrue(page.IsActive) {
		return nil, ErrPageInactive
	}
	return page, nil
}

// validateCtaInput collects every field problem in the config plus the
// cross-field targeting rules into a single ValidationError.
func (s *CtaFlowImpl) validateCtaInput(cfg *models.CtaConfig, categories, tags []string) error {
	details := collectFieldErrors(s.validate.Struct(cfg), "config")

	if cfg.Content == nil && cfg.CustomCode == nil {
		details = append(details, dto.FieldError{
			Path:    "config.content",
			Message: ErrCtaContentRequired.Error(),
		})
	}
	if len(categories) == 0 && len(tags) == 0 {
		details = append(details, dto.FieldError{
			Path:    "categories",
			Message: ErrCtaTargetsRequired.Error(),
		})
	}

	if len(details) > 0 {
		return NewValidationError(details)
	}
	return nil
}

// checkTargetRefs verifies every targeted category and tag exists on the
// page. The global sentinel is not a category reference.
func (s *CtaFlowImpl) checkTargetRefs(ctx context.Context, pageID uint, categories, tags []string) error {
	catRefs := make([]string, 0, len(categories))
	for _, id := range categories {
		if id != utils.GlobalTargetSentinel {
			catRefs = append(catRefs, id)
		}
	}

	if len(catRefs) > 0 {
		rows, err := s.categoryRepo.ListByUUIDs(ctx, pageID, catRefs)
		if err != nil {
			return NewBusinessError("CATEGORY_LOOKUP_FAILED", "Failed to lookup categories", err)
		}
		if len(rows) != len(catRefs) {
			return ErrInvalidCategoryRef
		}
	}

	if len(tags) > 0 {
		rows, err := s.tagRepo.ListByUUIDs(ctx, pageID, tags)
		if err != nil {
			return NewBusinessError("TAG_LOOKUP_FAILED", "Failed to lookup tags", err)
		}
		if len(rows) != len(tags) {
			return ErrInvalidTagRef
		}
	}

	return nil
}

// createAuditLog creates an audit log entry for a CTA operation
func (s *CtaFlowImpl) createAuditLog(ctx context.Context, page *models.Page, action, description, entityID string, metadata *ClientMetadata) error {
	audit := &models.AuditLog{
		WorkspaceID: &page.WorkspaceID,
		Action:      action,
		Description: description,
		EntityID:    &entityID,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			audit.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			audit.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			audit.RequestID = &metadata.RequestID
		}
	}
	return s.auditRepo.Save(ctx, audit)
}
