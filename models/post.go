package models

import (
	"time"

	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStatus represents the publication state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusArchived  PostStatus = "ARCHIVED"
)

// String returns the string representation of the status
func (s PostStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	default:
		return false
	}
}

// BlogPost is a single article on a page. Taxonomy membership and co-author
// lists are ordered jsonb arrays of uuid strings; order matters for CTA and
// form resolution.
type BlogPost struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UUID            uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uk_blog_posts_uuid" json:"uuid"`
	PageID          uint        `gorm:"not null;index:idx_blog_posts_page_id;uniqueIndex:uk_blog_posts_page_slug" json:"page_id"`
	Title           string      `gorm:"size:512;not null" json:"title"`
	Slug            string      `gorm:"size:512;not null;uniqueIndex:uk_blog_posts_page_slug" json:"slug"`
	Body            string      `gorm:"type:text" json:"body"`
	Status          PostStatus  `gorm:"size:32;not null;default:'DRAFT';index:idx_blog_posts_status" json:"status"`
	CategoryIDs     StringSlice `gorm:"type:jsonb" json:"category_ids"`
	TagIDs          StringSlice `gorm:"type:jsonb" json:"tag_ids"`
	PrimaryAuthorID *string     `gorm:"size:64" json:"primary_author_id"`
	CoAuthorIDs     StringSlice `gorm:"type:jsonb" json:"co_author_ids"`
	PublishedAt     *time.Time  `json:"published_at"`
	CreatedAt       time.Time   `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Page *Page `gorm:"foreignKey:PageID;references:ID" json:"page,omitempty"`
}

func (BlogPost) TableName() string { return "blog_posts" }

// BeforeCreate is called before creating a new record
func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.CategoryIDs == nil {
		p.CategoryIDs = StringSlice{}
	}
	if p.TagIDs == nil {
		p.TagIDs = StringSlice{}
	}
	if p.CoAuthorIDs == nil {
		p.CoAuthorIDs = StringSlice{}
	}
	return nil
}

// BlogPostFilter represents filter criteria for post queries
type BlogPostFilter struct {
	ID     *uint
	UUID   *uuid.UUID
	PageID *uint
	Slug   *string
	Status *PostStatus
}
