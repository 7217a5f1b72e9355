// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/blogkit/blogkit/app/dto"
	"github.com/blogkit/blogkit/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToCtaDTO converts a stored CTA definition to its API projection
func ToCtaDTO(def models.CtaDefinition) dto.CtaDTO {
	categories := def.Categories
	if categories == nil {
		categories = []string{}
	}
	tags := def.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.CtaDTO{
		ID:         def.ID,
		Config:     def.Config,
		Categories: categories,
		Tags:       tags,
		IsActive:   def.IsActive,
		Version:    def.Version,
		CreatedAt:  def.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  def.UpdatedAt.Format(time.RFC3339),
	}
}

// ToFormDTO converts a stored form definition to its API projection
func ToFormDTO(def models.FormDefinition) dto.FormDTO {
	categoryIDs := def.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []string{}
	}
	tagIDs := def.TagIDs
	if tagIDs == nil {
		tagIDs = []string{}
	}
	return dto.FormDTO{
		ID:          def.ID,
		Config:      def.Config,
		CategoryIDs: categoryIDs,
		TagIDs:      tagIDs,
		Enabled:     def.Enabled,
		Version:     def.Version,
		CreatedAt:   def.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   def.UpdatedAt.Format(time.RFC3339),
	}
}

// ToPostDTO converts a blog post to its API projection
func ToPostDTO(post models.BlogPost) dto.PostDTO {
	out := dto.PostDTO{
		UUID:            post.UUID.String(),
		Title:           post.Title,
		Slug:            post.Slug,
		Status:          post.Status.String(),
		CategoryIDs:     post.CategoryIDs,
		TagIDs:          post.TagIDs,
		PrimaryAuthorID: post.PrimaryAuthorID,
		CoAuthorIDs:     post.CoAuthorIDs,
		CreatedAt:       post.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       post.UpdatedAt.Format(time.RFC3339),
	}
	if out.CategoryIDs == nil {
		out.CategoryIDs = []string{}
	}
	if out.TagIDs == nil {
		out.TagIDs = []string{}
	}
	if out.CoAuthorIDs == nil {
		out.CoAuthorIDs = []string{}
	}
	if post.PublishedAt != nil {
		s := post.PublishedAt.Format(time.RFC3339)
		out.PublishedAt = &s
	}
	return out
}

// ToCategoryDTO converts a category to its API projection
func ToCategoryDTO(c models.Category) dto.CategoryDTO {
	return dto.CategoryDTO{
		UUID:      c.UUID.String(),
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

// ToTagDTO converts a tag to its API projection
func ToTagDTO(t models.Tag) dto.TagDTO {
	return dto.TagDTO{
		UUID:      t.UUID.String(),
		Name:      t.Name,
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

// ToSubmissionDTO converts a form submission to its API projection
func ToSubmissionDTO(s models.FormSubmission) dto.SubmissionDTO {
	values := map[string]any(s.Payload)
	if values == nil {
		values = map[string]any{}
	}
	return dto.SubmissionDTO{
		UUID:      s.UUID.String(),
		FormID:    s.FormID,
		PostUUID:  s.PostUUID,
		Values:    values,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
