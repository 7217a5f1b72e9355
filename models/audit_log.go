package models

import (
	"time"

	"github.com/blogkit/blogkit/utils"
	"gorm.io/gorm"
)

// Audit log action constants
const (
	ActionCtaCreated       = "cta_created"
	ActionCtaUpdated       = "cta_updated"
	ActionCtaDeleted       = "cta_deleted"
	ActionFormCreated      = "form_created"
	ActionFormUpdated      = "form_updated"
	ActionFormDeleted      = "form_deleted"
	ActionBulkPostsApplied = "bulk_posts_applied"
	ActionFormSubmitted    = "form_submitted"
)

// AuditLog records mutating actions against workspace content for
// troubleshooting and accountability.
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WorkspaceID *uint     `gorm:"index:idx_audit_logs_workspace_id" json:"workspace_id"`
	UserID      *uint     `gorm:"index:idx_audit_logs_user_id" json:"user_id"`
	Action      string    `gorm:"size:64;not null;index:idx_audit_logs_action" json:"action"`
	Description string    `gorm:"size:1024;not null" json:"description"`
	EntityID    *string   `gorm:"size:64" json:"entity_id"`
	Metadata    JSONMap   `gorm:"type:jsonb" json:"metadata"`
	IPAddress   *string   `gorm:"size:45" json:"ip_address"`
	UserAgent   *string   `gorm:"size:512" json:"user_agent"`
	RequestID   *string   `gorm:"size:64" json:"request_id"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// BeforeCreate is called before creating a new record
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID          *uint
	WorkspaceID *uint
	UserID      *uint
	Action      *string
}
