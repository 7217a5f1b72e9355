package dto

// CreateCategoryRequest creates a category on a page
type CreateCategoryRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
	Name     string `json:"name" validate:"required,max=255"`
	Slug     string `json:"slug" validate:"required,max=255,lowercase"`
}

// CreateTagRequest creates a tag on a page
type CreateTagRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
	Name     string `json:"name" validate:"required,max=255"`
	Slug     string `json:"slug" validate:"required,max=255,lowercase"`
}

// ListTaxonomyRequest lists categories or tags of a page
type ListTaxonomyRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
}

// CategoryDTO is the API projection of a category
type CategoryDTO struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
}

// TagDTO is the API projection of a tag
type TagDTO struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
}

// CategoryResponse wraps a single category
type CategoryResponse struct {
	Category CategoryDTO `json:"category"`
}

// TagResponse wraps a single tag
type TagResponse struct {
	Tag TagDTO `json:"tag"`
}

// ListCategoriesResponse lists categories of a page
type ListCategoriesResponse struct {
	Categories []CategoryDTO `json:"categories"`
}

// ListTagsResponse lists tags of a page
type ListTagsResponse struct {
	Tags []TagDTO `json:"tags"`
}
