package models

import (
	"time"

	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormSubmission stores one visitor submission against a form definition.
// The payload keeps the submitted values keyed by field key.
type FormSubmission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_form_submissions_uuid" json:"uuid"`
	PageID    uint      `gorm:"not null;index:idx_form_submissions_page_id" json:"page_id"`
	FormID    string    `gorm:"size:64;not null;index:idx_form_submissions_form_id" json:"form_id"`
	PostUUID  *string   `gorm:"size:64" json:"post_uuid"`
	Payload   JSONMap   `gorm:"type:jsonb;not null" json:"payload"`
	IPAddress *string   `gorm:"size:45" json:"ip_address"`
	UserAgent *string   `gorm:"size:512" json:"user_agent"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	// Relations
	Page *Page `gorm:"foreignKey:PageID;references:ID" json:"page,omitempty"`
}

func (FormSubmission) TableName() string { return "form_submissions" }

// BeforeCreate is called before creating a new record
func (s *FormSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	if s.Payload == nil {
		s.Payload = JSONMap{}
	}
	return nil
}

// FormSubmissionFilter represents filter criteria for submission queries
type FormSubmissionFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	PageID        *uint
	FormID        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
