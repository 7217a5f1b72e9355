// Package businessflow contains the core business logic for bulk post workflows
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

// BulkPostFlow handles bulk actions over posts
type BulkPostFlow interface {
	BulkApply(ctx context.Context, req *dto.BulkPostRequest, metadata *ClientMetadata) (*dto.BulkPostResponse, error)
	ListPosts(ctx context.Context, req *dto.ListPostsRequest) (*dto.ListPostsResponse, error)
}

// BulkPostFlowImpl implements the bulk post business flow
type BulkPostFlowImpl struct {
	pageRepo      repository.PageRepository
	postRepo      repository.BlogPostRepository
	categoryRepo  repository.CategoryRepository
	tagRepo       repository.TagRepository
	authorRepo    repository.AuthorRepository
	workspaceRepo repository.WorkspaceRepository
	auditRepo     repository.AuditLogRepository
	validate      *validator.Validate
	db            *gorm.DB
}

// NewBulkPostFlow creates a new bulk post flow instance
func NewBulkPostFlow(
	pageRepo repository.PageRepository,
	postRepo repository.BlogPostRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	authorRepo repository.AuthorRepository,
	workspaceRepo repository.WorkspaceRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) BulkPostFlow {
	return &BulkPostFlowImpl{
		pageRepo:      pageRepo,
		postRepo:      postRepo,
		categoryRepo:  categoryRepo,
		tagRepo:       tagRepo,
		authorRepo:    authorRepo,
		workspaceRepo: workspaceRepo,
		auditRepo:     auditRepo,
		validate:      newValidator(),
		db:            db,
	}
}

// BulkApply runs one action over a set of posts. The role check, payload
// reference checks and post lookups fail the whole request before any post is
// touched; after that the updates are issued in request order as independent
// statements, so a failure partway through aborts the batch with a single
// error, leaving earlier posts mutated and later ones untouched.
func (s *BulkPostFlowImpl) BulkApply(ctx context.Context, req *dto.BulkPostRequest, metadata *ClientMetadata) (*dto.BulkPostResponse, error) {
	if details := collectFieldErrors(s.validate.Struct(req), ""); len(details) > 0 {
		return nil, NewValidationError(details)
	}

	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	if err := s.checkRole(ctx, page.WorkspaceID, req.UserID); err != nil {
		return nil, err
	}

	postUUIDs := utils.Dedupe(req.PostUUIDs)
	if len(postUUIDs) == 0 {
		return nil, ErrNoPostsSelected
	}
	if len(postUUIDs) > utils.MaxBulkPostIDs {
		return nil, ErrTooManyPosts
	}

	payload := utils.Dedupe(req.Payload)
	if err := s.checkPayloadRefs(ctx, page, req.Action, payload); err != nil {
		return nil, err
	}

	rows, err := s.postRepo.ListByUUIDs(ctx, page.ID, postUUIDs)
	if err != nil {
		return nil, NewBusinessError("POST_LOOKUP_FAILED", "Failed to lookup posts", err)
	}
	byUUID := make(map[string]*models.BlogPost, len(rows))
	for _, p := range rows {
		byUUID[p.UUID.String()] = p
	}
	for _, id := range postUUIDs {
		if _, ok := byUUID[id]; !ok {
			return nil, fmt.Errorf("post %s: %w", id, ErrPostNotFound)
		}
	}

	resp := &dto.BulkPostResponse{
		Action:  req.Action,
		Results: make([]dto.BulkPostResult, 0, len(postUUIDs)),
	}

	for _, id := range postUUIDs {
		if err := s.applyAction(ctx, page, byUUID[id], req.Action, payload); err != nil {
			msg := fmt.Sprintf("Bulk action %s aborted at post %s after %d updates", req.Action, id, resp.Succeeded)
			_ = s.createAuditLog(ctx, page, req.UserID, models.ActionBulkPostsApplied, msg, metadata)
			return nil, NewBusinessError("BULK_ACTION_FAILED", msg, err)
		}
		resp.Succeeded++
		resp.Results = append(resp.Results, dto.BulkPostResult{PostUUID: id, Success: true})
	}

	msg := fmt.Sprintf("Bulk action %s applied to %d posts", req.Action, resp.Succeeded)
	_ = s.createAuditLog(ctx, page, req.UserID, models.ActionBulkPostsApplied, msg, metadata)

	return resp, nil
}

// ListPosts lists posts of a page with pagination
func (s *BulkPostFlowImpl) ListPosts(ctx context.Context, req *dto.ListPostsRequest) (*dto.ListPostsResponse, error) {
	if details := collectFieldErrors(s.validate.Struct(req), ""); len(details) > 0 {
		return nil, NewValidationError(details)
	}

	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	pageNum := req.Page
	if pageNum < 1 {
		pageNum = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = utils.DefaultPageSize
	}
	if pageSize > utils.MaxPageSize {
		pageSize = utils.MaxPageSize
	}

	filter := models.BlogPostFilter{PageID: &page.ID}
	if req.Status != "" {
		status := models.PostStatus(req.Status)
		filter.Status = &status
	}

	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("POST_LOOKUP_FAILED", "Failed to count posts", err)
	}

	rows, err := s.postRepo.ByFilter(ctx, filter, "id DESC", pageSize, (pageNum-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("POST_LOOKUP_FAILED", "Failed to list posts", err)
	}

	posts := make([]dto.PostDTO, 0, len(rows))
	for _, p := range rows {
		posts = append(posts, ToPostDTO(*p))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &dto.ListPostsResponse{
		Posts: posts,
		Pagination: dto.PaginationInfo{
			Page:       pageNum,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *BulkPostFlowImpl) applyAction(ctx context.Context, page *models.Page, post *models.BlogPost, action string, payload []string) error {
	switch action {
	case dto.BulkActionPublish:
		return s.postRepo.UpdateStatus(ctx, post.ID, models.PostStatusPublished)
	case dto.BulkActionDraft:
		return s.postRepo.UpdateStatus(ctx, post.ID, models.PostStatusDraft)
	case dto.BulkActionArchive:
		return s.postRepo.UpdateStatus(ctx, post.ID, models.PostStatusArchived)
	case dto.BulkActionDelete:
		return s.postRepo.DeleteByUUID(ctx, page.ID, post.UUID)
	case dto.BulkActionSetCategories:
		return s.postRepo.ReplaceCategories(ctx, post.ID, payload)
	case dto.BulkActionSetTags:
		return s.postRepo.ReplaceTags(ctx, post.ID, payload)
	case dto.BulkActionSetAuthors:
		// Zero authors clears the byline, one becomes the primary author,
		// more than one makes the first primary and the rest co-authors.
		var primary *string
		var coAuthors []string
		if len(payload) > 0 {
			p := payload[0]
			primary = &p
			coAuthors = payload[1:]
		}
		return s.postRepo.ReplaceAuthors(ctx, post.ID, primary, coAuthors)
	default:
		return ErrUnknownBulkAction
	}
}

// checkPayloadRefs verifies up front that every referenced taxonomy term or
// author exists, so a bad payload fails before any post is touched.
func (s *BulkPostFlowImpl) checkPayloadRefs(ctx context.Context, page *models.Page, action string, payload []string) error {
	if len(payload) == 0 {
		return nil
	}

	switch action {
	case dto.BulkActionSetCategories:
		rows, err := s.categoryRepo.ListByUUIDs(ctx, page.ID, payload)
		if err != nil {
			return NewBusinessError("CATEGORY_LOOKUP_FAILED", "Failed to lookup categories", err)
		}
		if len(rows) != len(payload) {
			return ErrInvalidCategoryRef
		}
	case dto.BulkActionSetTags:
		rows, err := s.tagRepo.ListByUUIDs(ctx, page.ID, payload)
		if err != nil {
			return NewBusinessError("TAG_LOOKUP_FAILED", "Failed to lookup tags", err)
		}
		if len(rows) != len(payload) {
			return ErrInvalidTagRef
		}
	case dto.BulkActionSetAuthors:
		rows, err := s.authorRepo.ListByUUIDs(ctx, page.WorkspaceID, payload)
		if err != nil {
			return NewBusinessError("AUTHOR_LOOKUP_FAILED", "Failed to lookup authors", err)
		}
		if len(rows) != len(payload) {
			return ErrInvalidAuthorRef
		}
	}

	return nil
}

// checkRole verifies the user may mutate content in the page's workspace
func (s *BulkPostFlowImpl) checkRole(ctx context.Context, workspaceID, userID uint) error {
	role, err := s.workspaceRepo.MemberRole(ctx, workspaceID, userID)
	if err != nil {
		return NewBusinessError("MEMBERSHIP_LOOKUP_FAILED", "Failed to lookup workspace membership", err)
	}
	if role == nil {
		return ErrNotAMember
	}
	if !role.CanMutateContent() {
		return ErrAccessDenied
	}
	return nil
}

// getPage resolves an active page by uuid string
func (s *BulkPostFlowImpl) getPage(ctx context.Context, pageUUID string) (*models.Page, error) {
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

// createAuditLog creates an audit log entry for a bulk post operation
func (s *BulkPostFlowImpl) createAuditLog(ctx context.Context, page *models.Page, userID uint, action, description string, metadata *ClientMetadata) error {
	audit := &models.AuditLog{
		WorkspaceID: &page.WorkspaceID,
		Action:      action,
		Description: description,
	}
	if userID != 0 {
		audit.UserID = &userID
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
