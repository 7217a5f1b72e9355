package models

import (
	"time"

	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a page-scoped taxonomy term used to group posts and
// to target CTAs and forms.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_categories_uuid" json:"uuid"`
	PageID    uint      `gorm:"not null;index:idx_categories_page_id;uniqueIndex:uk_categories_page_slug" json:"page_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"size:255;not null;uniqueIndex:uk_categories_page_slug" json:"slug"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Page *Page `gorm:"foreignKey:PageID;references:ID" json:"page,omitempty"`
}

func (Category) TableName() string { return "categories" }

// BeforeCreate is called before creating a new record
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// CategoryFilter represents filter criteria for category queries
type CategoryFilter struct {
	ID     *uint
	UUID   *uuid.UUID
	PageID *uint
	Slug   *string
	Name   *string
}
