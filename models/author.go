package models

import (
	"time"

	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Author is a workspace-level byline identity. Authors are display entities
// and are independent of sign-in users.
type Author struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_authors_uuid" json:"uuid"`
	WorkspaceID uint      `gorm:"not null;index:idx_authors_workspace_id" json:"workspace_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	AvatarURL   *string   `gorm:"size:1024" json:"avatar_url"`
	Bio         *string   `gorm:"type:text" json:"bio"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Workspace *Workspace `gorm:"foreignKey:WorkspaceID;references:ID" json:"workspace,omitempty"`
}

func (Author) TableName() string { return "authors" }

// BeforeCreate is called before creating a new record
func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// AuthorFilter represents filter criteria for author queries
type AuthorFilter struct {
	ID          *uint
	UUID        *uuid.UUID
	WorkspaceID *uint
	Name        *string
}
