package dto

import "github.com/blogkit/blogkit/models"

// CreateFormRequest creates a new form on a page. Forms must target at
// least one category (or the global sentinel) and carry at least one field.
type CreateFormRequest struct {
	PageUUID    string            `json:"page_uuid" validate:"required,uuid4"`
	Config      models.FormConfig `json:"config" validate:"required"`
	CategoryIDs []string          `json:"category_ids" validate:"omitempty,max=100,dive,max=64"`
	TagIDs      []string          `json:"tag_ids" validate:"omitempty,max=100,dive,uuid4"`
	Enabled     *bool             `json:"enabled"`
}

// UpdateFormRequest overwrites the config and targeting of an existing form
type UpdateFormRequest struct {
	PageUUID    string            `json:"page_uuid" validate:"required,uuid4"`
	FormID      string            `json:"form_id" validate:"required,uuid4"`
	Config      models.FormConfig `json:"config" validate:"required"`
	CategoryIDs []string          `json:"category_ids" validate:"omitempty,max=100,dive,max=64"`
	TagIDs      []string          `json:"tag_ids" validate:"omitempty,max=100,dive,uuid4"`
	Enabled     *bool             `json:"enabled"`
}

// DeleteFormRequest removes a form and unindexes its targeting
type DeleteFormRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
	FormID   string `json:"form_id" validate:"required,uuid4"`
}

// GetFormRequest fetches a single form definition
type GetFormRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
	FormID   string `json:"form_id" validate:"required,uuid4"`
}

// ListFormsRequest lists all form definitions of a page
type ListFormsRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
}

// ResolveFormRequest resolves the form to display on a post
type ResolveFormRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
	PostUUID string `json:"post_uuid" validate:"required,uuid4"`
}

// FormDTO is the API projection of a stored form definition
type FormDTO struct {
	ID          string            `json:"id"`
	Config      models.FormConfig `json:"config"`
	CategoryIDs []string          `json:"category_ids"`
	TagIDs      []string          `json:"tag_ids"`
	Enabled     bool              `json:"enabled"`
	Version     int               `json:"version"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// FormResponse wraps a single form definition
type FormResponse struct {
	Form FormDTO `json:"form"`
}

// ListFormsResponse lists the form definitions of a page together with the
// mapping indices kept inside the forms blob.
type ListFormsResponse struct {
	Forms               []FormDTO         `json:"forms"`
	CategoryFormMapping map[string]string `json:"category_form_mapping"`
	TagFormMapping      map[string]string `json:"tag_form_mapping"`
	GlobalDefaultFormID *string           `json:"global_default_form_id"`
}

// ResolveFormResponse carries the resolved form for a post, if any
type ResolveFormResponse struct {
	Form    *FormDTO `json:"form"`
	Matched string   `json:"matched"`
}
