package models

import (
	"time"

	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workspace represents a tenant boundary. Pages, authors, taxonomies and
// memberships all hang off a workspace.
type Workspace struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_workspaces_uuid" json:"uuid"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"size:255;not null;uniqueIndex:uk_workspaces_slug" json:"slug"`
	IsActive  *bool     `gorm:"default:true;index:idx_workspaces_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	// Relations
	Members []WorkspaceMember `gorm:"foreignKey:WorkspaceID" json:"members,omitempty"`
	Pages   []Page            `gorm:"foreignKey:WorkspaceID" json:"pages,omitempty"`
}

func (Workspace) TableName() string { return "workspaces" }

// BeforeCreate is called before creating a new record
func (w *Workspace) BeforeCreate(tx *gorm.DB) error {
	if w.UUID == uuid.Nil {
		w.UUID = uuid.New()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = utils.UTCNow()
	}
	return nil
}

// WorkspaceRole represents a member's role inside a workspace
type WorkspaceRole string

const (
	RoleOwner  WorkspaceRole = "OWNER"
	RoleAdmin  WorkspaceRole = "ADMIN"
	RoleEditor WorkspaceRole = "EDITOR"
	RoleViewer WorkspaceRole = "VIEWER"
)

// String returns the string representation of the role
func (r WorkspaceRole) String() string {
	return string(r)
}

// Valid checks if the role is valid
func (r WorkspaceRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return true
	default:
		return false
	}
}

// CanMutateContent reports whether the role may create or modify content,
// including bulk post actions.
func (r WorkspaceRole) CanMutateContent() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor:
		return true
	default:
		return false
	}
}

// WorkspaceMember links a user to a workspace with a role
type WorkspaceMember struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	WorkspaceID uint          `gorm:"not null;uniqueIndex:uk_workspace_members_ws_user;index:idx_workspace_members_ws" json:"workspace_id"`
	UserID      uint          `gorm:"not null;uniqueIndex:uk_workspace_members_ws_user" json:"user_id"`
	Role        WorkspaceRole `gorm:"size:32;not null;default:'EDITOR'" json:"role"`
	CreatedAt   time.Time     `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	// Relations
	Workspace *Workspace `gorm:"foreignKey:WorkspaceID;references:ID" json:"workspace,omitempty"`
	User      *User      `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (WorkspaceMember) TableName() string { return "workspace_members" }

// WorkspaceFilter represents filter criteria for workspace queries
type WorkspaceFilter struct {
	ID       *uint
	UUID     *uuid.UUID
	Slug     *string
	IsActive *bool
}

// WorkspaceMemberFilter represents filter criteria for membership queries
type WorkspaceMemberFilter struct {
	ID          *uint
	WorkspaceID *uint
	UserID      *uint
	Role        *WorkspaceRole
}
