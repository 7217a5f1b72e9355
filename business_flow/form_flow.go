// Package businessflow contains the core business logic for form workflows
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

// FormFlow handles the form business logic
type FormFlow interface {
	CreateForm(ctx context.Context, req *dto.CreateFormRequest, metadata *ClientMetadata) (*dto.FormResponse, error)
	UpdateForm(ctx context.Context, req *dto.UpdateFormRequest, metadata *ClientMetadata) (*dto.FormResponse, error)
	DeleteForm(ctx context.Context, req *dto.DeleteFormRequest, metadata *ClientMetadata) error
	GetForm(ctx context.Context, req *dto.GetFormRequest) (*dto.FormResponse, error)
	ListForms(ctx context.Context, req *dto.ListFormsRequest) (*dto.ListFormsResponse, error)
	ResolveFormForPost(ctx context.Context, req *dto.ResolveFormRequest) (*dto.ResolveFormResponse, error)
}

// FormFlowImpl implements the form business flow
type FormFlowImpl struct {
	pageRepo     repository.PageRepository
	postRepo     repository.BlogPostRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	auditRepo    repository.AuditLogRepository
	cache        *ResolutionCache
	validate     *validator.Validate
	db           *gorm.DB
}

// NewFormFlow creates a new form flow instance
func NewFormFlow(
	pageRepo repository.PageRepository,
	postRepo repository.BlogPostRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	auditRepo repository.AuditLogRepository,
	cache *ResolutionCache,
	db *gorm.DB,
) FormFlow {
	return &FormFlowImpl{
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

// CreateForm validates, stores and indexes a new form definition on a page
func (s *FormFlowImpl) CreateForm(ctx context.Context, req *dto.CreateFormRequest, metadata *ClientMetadata) (*dto.FormResponse, error) {
	if err := s.validateFormInput(&req.Config, req.CategoryIDs); err != nil {
		return nil, err
	}

	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	categoryIDs := utils.Dedupe(req.CategoryIDs)
	tagIDs := utils.Dedupe(req.TagIDs)

	if err := s.checkTargetRefs(ctx, page.ID, categoryIDs, tagIDs); err != nil {
		return nil, err
	}

	now := utils.UTCNow()
	def := models.FormDefinition{
		ID:          uuid.New().String(),
		Config:      req.Config,
		CategoryIDs: categoryIDs,
		TagIDs:      tagIDs,
		Enabled:     req.Enabled == nil || *req.Enabled,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		cfg, err := s.pageRepo.LoadFormsConfig(txCtx, page.ID)
		if err != nil {
			return err
		}

		cfg.Forms = append(cfg.Forms, def)
		reindexFormMappings(cfg, &def, utils.GlobalTargetSentinel)

		return s.pageRepo.SaveFormsConfig(txCtx, page.ID, cfg)
	})
	if err != nil {
		return nil, NewBusinessError("FORM_CREATION_FAILED", "Form creation failed", err)
	}

	s.cache.Bump(ctx, page.UUID.String())
	msg := fmt.Sprintf("Form created: %s", def.ID)
	_ = s.createAuditLog(ctx, page, models.ActionFormCreated, msg, def.ID, metadata)

	return &dto.FormResponse{Form: ToFormDTO(def)}, nil
}

// UpdateForm overwrites the config and targeting of an existing form
func (s *FormFlowImpl) UpdateForm(ctx context.Context, req *dto.UpdateFormRequest, metadata *ClientMetadata) (*dto.FormResponse, error) {
	if err := s.validateFormInput(&req.Config, req.CategoryIDs); err != nil {
		return nil, err
	}

	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	categoryIDs := utils.Dedupe(req.CategoryIDs)
	tagIDs := utils.Dedupe(req.TagIDs)

	if err := s.checkTargetRefs(ctx, page.ID, categoryIDs, tagIDs); err != nil {
		return nil, err
	}

	var updated models.FormDefinition
	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		cfg, err := s.pageRepo.LoadFormsConfig(txCtx, page.ID)
		if err != nil {
			return err
		}

		def := cfg.Find(req.FormID)
		if def == nil {
			return ErrFormNotFound
		}

		def.Config = req.Config
		def.CategoryIDs = categoryIDs
		def.TagIDs = tagIDs
		if req.Enabled != nil {
			def.Enabled = *req.Enabled
		}
		def.Version++
		def.UpdatedAt = utils.UTCNow()
		updated = *def

		reindexFormMappings(cfg, def, utils.GlobalTargetSentinel)

		return s.pageRepo.SaveFormsConfig(txCtx, page.ID, cfg)
	})
	if err != nil {
		if IsFormNotFound(err) {
			return nil, err
		}
		return nil, NewBusinessError("FORM_UPDATE_FAILED", "Form update failed", err)
	}

	s.cache.Bump(ctx, page.UUID.String())
	msg := fmt.Sprintf("Form updated: %s", updated.ID)
	_ = s.createAuditLog(ctx, page, models.ActionFormUpdated, msg, updated.ID, metadata)

	return &dto.FormResponse{Form: ToFormDTO(updated)}, nil
}

// DeleteForm removes a form definition and every mapping entry owned by it
func (s *FormFlowImpl) DeleteForm(ctx context.Context, req *dto.DeleteFormRequest, metadata *ClientMetadata) error {
	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return err
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		cfg, err := s.pageRepo.LoadFormsConfig(txCtx, page.ID)
		if err != nil {
			return err
		}

		idx := -1
		for i := range cfg.Forms {
			if cfg.Forms[i].ID == req.FormID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrFormNotFound
		}

		cfg.Forms = append(cfg.Forms[:idx], cfg.Forms[idx+1:]...)
		unindexForm(cfg, req.FormID)

		return s.pageRepo.SaveFormsConfig(txCtx, page.ID, cfg)
	})
	if err != nil {
		if IsFormNotFound(err) {
			return err
		}
		return NewBusinessError("FORM_DELETION_FAILED", "Form deletion failed", err)
	}

	s.cache.Bump(ctx, page.UUID.String())
	msg := fmt.Sprintf("Form deleted: %s", req.FormID)
	_ = s.createAuditLog(ctx, page, models.ActionFormDeleted, msg, req.FormID, metadata)

	return nil
}

// GetForm fetches a single form definition
func (s *FormFlowImpl) GetForm(ctx context.Context, req *dto.GetFormRequest) (*dto.FormResponse, error) {
	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.pageRepo.LoadFormsConfig(ctx, page.ID)
	if err != nil {
		return nil, NewBusinessError("FORM_LOOKUP_FAILED", "Failed to load forms config", err)
	}

	def := cfg.Find(req.FormID)
	if def == nil {
		return nil, ErrFormNotFound
	}

	return &dto.FormResponse{Form: ToFormDTO(*def)}, nil
}

// ListForms lists all form definitions of a page with the mapping indices
func (s *FormFlowImpl) ListForms(ctx context.Context, req *dto.ListFormsRequest) (*dto.ListFormsResponse, error) {
	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.pageRepo.LoadFormsConfig(ctx, page.ID)
	if err != nil {
		return nil, NewBusinessError("FORM_LOOKUP_FAILED", "Failed to load forms config", err)
	}

	out := make([]dto.FormDTO, 0, len(cfg.Forms))
	for _, def := range cfg.Forms {
		out = append(out, ToFormDTO(def))
	}

	return &dto.ListFormsResponse{
		Forms:               out,
		CategoryFormMapping: cfg.CategoryFormMapping,
		TagFormMapping:      cfg.TagFormMapping,
		GlobalDefaultFormID: cfg.GlobalDefaultFormID,
	}, nil
}

// ResolveFormForPost picks the form to display on a post. Results are
// cached per page generation.
func (s *FormFlowImpl) ResolveFormForPost(ctx context.Context, req *dto.ResolveFormRequest) (*dto.ResolveFormResponse, error) {
	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	var cached dto.ResolveFormResponse
	if s.cache.Get(ctx, "form", page.UUID.String(), req.PostUUID, &cached) {
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

	cfg, err := s.pageRepo.LoadFormsConfig(ctx, page.ID)
	if err != nil {
		return nil, NewBusinessError("FORM_LOOKUP_FAILED", "Failed to load forms config", err)
	}

	def, matched := ResolveForm(cfg, post)
	resp := &dto.ResolveFormResponse{Matched: matched}
	if def != nil {
		d := ToFormDTO(*def)
		resp.Form = &d
	}

	s.cache.Set(ctx, "form", page.UUID.String(), req.PostUUID, resp)

	return resp, nil
}

// getPage resolves an active page by uuid string
func (s *FormFlowImpl) getPage(ctx context.Context, pageUUID string) (*models.Page, error) {
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

// validateFormInput collects every field problem in the config plus the
// cross-field rules into a single ValidationError. Forms must target at
// least one category (the global sentinel counts) and field keys must be
// unique; select fields need options.
func (s *FormFlowImpl) validateFormInput(cfg *models.FormConfig, categoryIDs []string) error {
	details := collectFieldErrors(s.validate.Struct(cfg), "config")

	if len(categoryIDs) == 0 {
		details = append(details, dto.FieldError{
			Path:    "category_ids",
			Message: ErrFormCategoryRequired.Error(),
		})
	}

	seen := make(map[string]bool, len(cfg.Fields))
	for i, f := range cfg.Fields {
		if seen[f.Key] {
			details = append(details, dto.FieldError{
				Path:    fmt.Sprintf("config.fields.%d.key", i),
				Message: ErrDuplicateFieldKey.Error(),
			})
		}
		seen[f.Key] = true

		if f.Type.NeedsOptions() && len(f.Options) == 0 {
			details = append(details, dto.FieldError{
				Path:    fmt.Sprintf("config.fields.%d.options", i),
				Message: ErrFieldOptionsRequired.Error(),
			})
		}
	}

	if len(details) > 0 {
		return NewValidationError(details)
	}
	return nil
}

// checkTargetRefs verifies every targeted category and tag exists on the
// page. The global sentinel is not a category reference.
func (s *FormFlowImpl) checkTargetRefs(ctx context.Context, pageID uint, categoryIDs, tagIDs []string) error {
	catRefs := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
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

	if len(tagIDs) > 0 {
		rows, err := s.tagRepo.ListByUUIDs(ctx, pageID, tagIDs)
		if err != nil {
			return NewBusinessError("TAG_LOOKUP_FAILED", "Failed to lookup tags", err)
		}
		if len(rows) != len(tagIDs) {
			return ErrInvalidTagRef
		}
	}

	return nil
}

// createAuditLog creates an audit log entry for a form operation
func (s *FormFlowImpl) createAuditLog(ctx context.Context, page *models.Page, action, description, entityID string, metadata *ClientMetadata) error {
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
