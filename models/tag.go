package models

import (
	"time"

	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag represents a page-scoped label attached to posts. Tags participate in
// CTA and form targeting at a lower precedence than categories.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_tags_uuid" json:"uuid"`
	PageID    uint      `gorm:"not null;index:idx_tags_page_id;uniqueIndex:uk_tags_page_slug" json:"page_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"size:255;not null;uniqueIndex:uk_tags_page_slug" json:"slug"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Page *Page `gorm:"foreignKey:PageID;references:ID" json:"page,omitempty"`
}

func (Tag) TableName() string { return "tags" }

// BeforeCreate is called before creating a new record
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	return nil
}

// TagFilter represents filter criteria for tag queries
type TagFilter struct {
	ID     *uint
	UUID   *uuid.UUID
	PageID *uint
	Slug   *string
	Name   *string
}
