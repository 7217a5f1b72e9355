// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/blogkit/blogkit/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// ErrPageNotFound is returned by page blob loads when the page row itself is
// missing. An empty or absent blob on an existing page is not an error.
var ErrPageNotFound = errors.New("page not found")

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// WorkspaceRepository defines operations for workspaces and memberships
type WorkspaceRepository interface {
	Repository[models.Workspace, models.WorkspaceFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Workspace, error)
	MemberRole(ctx context.Context, workspaceID, userID uint) (*models.WorkspaceRole, error)
	SaveMember(ctx context.Context, member *models.WorkspaceMember) error
	ListMembers(ctx context.Context, workspaceID uint) ([]*models.WorkspaceMember, error)
}

// UserRepository defines operations for users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUUID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint) error
}

// PageRepository defines operations for pages including the jsonb config
// blobs. Save*Config overwrites the whole blob and bumps updated_at.
type PageRepository interface {
	Repository[models.Page, models.PageFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Page, error)
	ListByWorkspace(ctx context.Context, workspaceID uint) ([]*models.Page, error)
	LoadCtasConfig(ctx context.Context, pageID uint) (*models.CtasConfig, models.StringMap, models.StringMap, *string, error)
	SaveCtasConfig(ctx context.Context, pageID uint, cfg *models.CtasConfig, categoryMapping, tagMapping models.StringMap, globalDefaultCtaID *string) error
	LoadFormsConfig(ctx context.Context, pageID uint) (*models.FormsConfig, error)
	SaveFormsConfig(ctx context.Context, pageID uint, cfg *models.FormsConfig) error
}

// BlogPostRepository defines operations for posts
type BlogPostRepository interface {
	Repository[models.BlogPost, models.BlogPostFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	ListByUUIDs(ctx context.Context, pageID uint, uuids []string) ([]*models.BlogPost, error)
	UpdateStatus(ctx context.Context, postID uint, status models.PostStatus) error
	ReplaceCategories(ctx context.Context, postID uint, categoryIDs []string) error
	ReplaceTags(ctx context.Context, postID uint, tagIDs []string) error
	ReplaceAuthors(ctx context.Context, postID uint, primaryAuthorID *string, coAuthorIDs []string) error
	DeleteByUUID(ctx context.Context, pageID uint, id uuid.UUID) error
}

// CategoryRepository defines operations for categories
type CategoryRepository interface {
	Repository[models.Category, models.CategoryFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListByPage(ctx context.Context, pageID uint) ([]*models.Category, error)
	ListByUUIDs(ctx context.Context, pageID uint, uuids []string) ([]*models.Category, error)
}

// TagRepository defines operations for tags
type TagRepository interface {
	Repository[models.Tag, models.TagFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	ListByPage(ctx context.Context, pageID uint) ([]*models.Tag, error)
	ListByUUIDs(ctx context.Context, pageID uint, uuids []string) ([]*models.Tag, error)
}

// AuthorRepository defines operations for authors
type AuthorRepository interface {
	Repository[models.Author, models.AuthorFilter]
	ByUUID(ctx context.Context, id uuid.UUID) (*models.Author, error)
	ListByWorkspace(ctx context.Context, workspaceID uint) ([]*models.Author, error)
	ListByUUIDs(ctx context.Context, workspaceID uint, uuids []string) ([]*models.Author, error)
}

// FormSubmissionRepository defines operations for form submissions
type FormSubmissionRepository interface {
	Repository[models.FormSubmission, models.FormSubmissionFilter]
	ListByForm(ctx context.Context, pageID uint, formID string, limit, offset int) ([]*models.FormSubmission, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByWorkspace(ctx context.Context, workspaceID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}
