package dto

import "github.com/blogkit/blogkit/models"

// CreateCtaRequest creates a new CTA on a page together with its targeting.
// Targets must not be empty: at least one category (or the global sentinel)
// or one tag is required.
type CreateCtaRequest struct {
	PageUUID   string           `json:"page_uuid" validate:"required,uuid4"`
	Config     models.CtaConfig `json:"config" validate:"required"`
	Categories []string         `json:"categories" validate:"omitempty,max=100,dive,max=64"`
	Tags       []string         `json:"tags" validate:"omitempty,max=100,dive,uuid4"`
	IsActive   *bool            `json:"is_active"`
}

// UpdateCtaRequest overwrites the config and targeting of an existing CTA
type UpdateCtaRequest struct {
	PageUUID   string           `json:"page_uuid" validate:"required,uuid4"`
	CtaID      string           `json:"cta_id" validate:"required,uuid4"`
	Config     models.CtaConfig `json:"config" validate:"required"`
	Categories []string         `json:"categories" validate:"omitempty,max=100,dive,max=64"`
	Tags       []string         `json:"tags" validate:"omitempty,max=100,dive,uuid4"`
	IsActive   *bool            `json:"is_active"`
}

// DeleteCtaRequest removes a CTA and unindexes its targeting
type DeleteCtaRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
	CtaID    string `json:"cta_id" validate:"required,uuid4"`
}

// GetCtaRequest fetches a single CTA definition
type GetCtaRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
	CtaID    string `json:"cta_id" validate:"required,uuid4"`
}

// ListCtasRequest lists all CTA definitions of a page
type ListCtasRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
}

// ResolveCtaRequest resolves the CTA to display on a post
type ResolveCtaRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
	PostUUID string `json:"post_uuid" validate:"required,uuid4"`
}

// CtaDTO is the API projection of a stored CTA definition
type CtaDTO struct {
	ID         string           `json:"id"`
	Config     models.CtaConfig `json:"config"`
	Categories []string         `json:"categories"`
	Tags       []string         `json:"tags"`
	IsActive   bool             `json:"is_active"`
	Version    int              `json:"version"`
	CreatedAt  string           `json:"created_at"`
	UpdatedAt  string           `json:"updated_at"`
}

// CtaResponse wraps a single CTA definition
type CtaResponse struct {
	Cta CtaDTO `json:"cta"`
}

// ListCtasResponse lists the CTA definitions of a page together with the
// current mapping indices.
type ListCtasResponse struct {
	Ctas               []CtaDTO          `json:"ctas"`
	CategoryCtaMapping map[string]string `json:"category_cta_mapping"`
	TagCtaMapping      map[string]string `json:"tag_cta_mapping"`
	GlobalDefaultCtaID *string           `json:"global_default_cta_id"`
}

// ResolveCtaResponse carries the resolved CTA for a post, if any. Matched
// explains which targeting rule won: "category", "tag", "global" or "none".
type ResolveCtaResponse struct {
	Cta     *CtaDTO `json:"cta"`
	Matched string  `json:"matched"`
}
