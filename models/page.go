package models

import (
	"time"

	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageType represents the kind of content surface a page hosts
type PageType string

const (
	PageTypeBlog       PageType = "BLOG"
	PageTypeHelpDoc    PageType = "HELP_DOC"
	PageTypeChangelog  PageType = "CHANGELOG"
	PageTypeNewsletter PageType = "NEWSLETTER"
)

// String returns the string representation of the page type
func (t PageType) String() string {
	return string(t)
}

// Valid checks if the page type is valid
func (t PageType) Valid() bool {
	switch t {
	case PageTypeBlog, PageTypeHelpDoc, PageTypeChangelog, PageTypeNewsletter:
		return true
	default:
		return false
	}
}

// Page is a content surface inside a workspace. The CTA definitions, their
// mapping indices and the forms blob are stored as jsonb columns here; the
// two CTA mapping maps are kept as separate columns while the forms mappings
// live inside forms_config.
type Page struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	UUID               uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uk_pages_uuid" json:"uuid"`
	WorkspaceID        uint        `gorm:"not null;index:idx_pages_workspace_id;uniqueIndex:uk_pages_ws_slug" json:"workspace_id"`
	Name               string      `gorm:"size:255;not null" json:"name"`
	Slug               string      `gorm:"size:255;not null;uniqueIndex:uk_pages_ws_slug" json:"slug"`
	Type               PageType    `gorm:"size:32;not null;default:'BLOG'" json:"type"`
	CtasConfig         CtasConfig  `gorm:"type:jsonb" json:"ctas_config"`
	CategoryCtaMapping StringMap   `gorm:"type:jsonb" json:"category_cta_mapping"`
	TagCtaMapping      StringMap   `gorm:"type:jsonb" json:"tag_cta_mapping"`
	GlobalDefaultCtaID *string     `gorm:"size:64" json:"global_default_cta_id"`
	FormsConfig        FormsConfig `gorm:"type:jsonb" json:"forms_config"`
	IsActive           *bool       `gorm:"default:true;index:idx_pages_is_active" json:"is_active"`
	CreatedAt          time.Time   `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt          time.Time   `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Workspace  *Workspace `gorm:"foreignKey:WorkspaceID;references:ID" json:"workspace,omitempty"`
	Categories []Category `gorm:"foreignKey:PageID" json:"categories,omitempty"`
	Tags       []Tag      `gorm:"foreignKey:PageID" json:"tags,omitempty"`
	Posts      []BlogPost `gorm:"foreignKey:PageID" json:"posts,omitempty"`
}

func (Page) TableName() string { return "pages" }

// BeforeCreate is called before creating a new record
func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.CtasConfig.Ctas == nil {
		p.CtasConfig.Ctas = []CtaDefinition{}
	}
	if p.CategoryCtaMapping == nil {
		p.CategoryCtaMapping = StringMap{}
	}
	if p.TagCtaMapping == nil {
		p.TagCtaMapping = StringMap{}
	}
	if p.FormsConfig.Forms == nil {
		p.FormsConfig.Forms = []FormDefinition{}
	}
	if p.FormsConfig.CategoryFormMapping == nil {
		p.FormsConfig.CategoryFormMapping = map[string]string{}
	}
	if p.FormsConfig.TagFormMapping == nil {
		p.FormsConfig.TagFormMapping = map[string]string{}
	}
	return nil
}

// PageFilter represents filter criteria for page queries
type PageFilter struct {
	ID          *uint
	UUID        *uuid.UUID
	WorkspaceID *uint
	Slug        *string
	Type        *PageType
	IsActive    *bool
}
