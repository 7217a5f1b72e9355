// Package businessflow contains the core business logic for taxonomy workflows
package businessflow

import (
	"context"

	"github.com/blogkit/blogkit/app/dto"
	"github.com/blogkit/blogkit/models"
	"github.com/blogkit/blogkit/repository"
	"github.com/blogkit/blogkit/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxonomyFlow handles category and tag management
type TaxonomyFlow interface {
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest, metadata *ClientMetadata) (*dto.CategoryResponse, error)
	CreateTag(ctx context.Context, req *dto.CreateTagRequest, metadata *ClientMetadata) (*dto.TagResponse, error)
	ListCategories(ctx context.Context, req *dto.ListTaxonomyRequest) (*dto.ListCategoriesResponse, error)
	ListTags(ctx context.Context, req *dto.ListTaxonomyRequest) (*dto.ListTagsResponse, error)
}

// TaxonomyFlowImpl implements the taxonomy business flow
type TaxonomyFlowImpl struct {
	pageRepo     repository.PageRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	validate     *validator.Validate
	db           *gorm.DB
}

// NewTaxonomyFlow creates a new taxonomy flow instance
func NewTaxonomyFlow(
	pageRepo repository.PageRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	db *gorm.DB,
) TaxonomyFlow {
	return &TaxonomyFlowImpl{
		pageRepo:     pageRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		validate:     newValidator(),
		db:           db,
	}
}

// CreateCategory creates a category on a page
func (s *TaxonomyFlowImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest, metadata *ClientMetadata) (*dto.CategoryResponse, error) {
	if details := collectFieldErrors(s.validate.Struct(req), ""); len(details) > 0 {
		return nil, NewValidationError(details)
	}

	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	row := &models.Category{
		PageID: page.ID,
		Name:   req.Name,
		Slug:   req.Slug,
	}
	if err := s.categoryRepo.Save(ctx, row); err != nil {
		return nil, NewBusinessError("CATEGORY_CREATION_FAILED", "Category creation failed", err)
	}

	return &dto.CategoryResponse{Category: ToCategoryDTO(*row)}, nil
}

// CreateTag creates a tag on a page
func (s *TaxonomyFlowImpl) CreateTag(ctx context.Context, req *dto.CreateTagRequest, metadata *ClientMetadata) (*dto.TagResponse, error) {
	if details := collectFieldErrors(s.validate.Struct(req), ""); len(details) > 0 {
		return nil, NewValidationError(details)
	}

	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	row := &models.Tag{
		PageID: page.ID,
		Name:   req.Name,
		Slug:   req.Slug,
	}
	if err := s.tagRepo.Save(ctx, row); err != nil {
		return nil, NewBusinessError("TAG_CREATION_FAILED", "Tag creation failed", err)
	}

	return &dto.TagResponse{Tag: ToTagDTO(*row)}, nil
}

// ListCategories lists all categories of a page
func (s *TaxonomyFlowImpl) ListCategories(ctx context.Context, req *dto.ListTaxonomyRequest) (*dto.ListCategoriesResponse, error) {
	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	rows, err := s.categoryRepo.ListByPage(ctx, page.ID)
	if err != nil {
		return nil, NewBusinessError("CATEGORY_LOOKUP_FAILED", "Failed to list categories", err)
	}

	out := make([]dto.CategoryDTO, 0, len(rows))
	for _, c := range rows {
		out = append(out, ToCategoryDTO(*c))
	}
	return &dto.ListCategoriesResponse{Categories: out}, nil
}

// ListTags lists all tags of a page
func (s *TaxonomyFlowImpl) ListTags(ctx context.Context, req *dto.ListTaxonomyRequest) (*dto.ListTagsResponse, error) {
	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	rows, err := s.tagRepo.ListByPage(ctx, page.ID)
	if err != nil {
		return nil, NewBusinessError("TAG_LOOKUP_FAILED", "Failed to list tags", err)
	}

	out := make([]dto.TagDTO, 0, len(rows))
	for _, t := range rows {
		out = append(out, ToTagDTO(*t))
	}
	return &dto.ListTagsResponse{Tags: out}, nil
}

// getPage resolves an active page by uuid string
func (s *TaxonomyFlowImpl) getPage(ctx context.Context, pageUUID string) (*models.Page, error) {
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
