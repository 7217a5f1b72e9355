// Package testing provides test utilities, in-memory repository fakes and
// database setup for testing the content targeting system
package testing

import (
	"context"

	"github.com/blogkit/blogkit/models"
	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
)

// Fixtures bundles the in-memory fakes with helpers for building the
// workspace/page/post graph that most flow tests need.
type Fixtures struct {
	Pages       *FakePageRepository
	Posts       *FakeBlogPostRepository
	Categories  *FakeCategoryRepository
	Tags        *FakeTagRepository
	Authors     *FakeAuthorRepository
	Workspaces  *FakeWorkspaceRepository
	AuditLogs   *FakeAuditLogRepository
	Submissions *FakeFormSubmissionRepository
}

// NewFixtures creates a fresh set of empty fakes
func NewFixtures() *Fixtures {
	return &Fixtures{
		Pages:       NewFakePageRepository(),
		Posts:       NewFakeBlogPostRepository(),
		Categories:  NewFakeCategoryRepository(),
		Tags:        NewFakeTagRepository(),
		Authors:     NewFakeAuthorRepository(),
		Workspaces:  NewFakeWorkspaceRepository(),
		AuditLogs:   NewFakeAuditLogRepository(),
		Submissions: NewFakeFormSubmissionRepository(),
	}
}

// CreateWorkspace creates a workspace with the given slug
func (f *Fixtures) CreateWorkspace(slug string) *models.Workspace {
	ws := &models.Workspace{
		Name:     slug,
		Slug:     slug,
		IsActive: utils.ToPtr(true),
	}
	_ = f.Workspaces.Save(context.Background(), ws)
	return ws
}

// AddMember adds a user to a workspace with the given role
func (f *Fixtures) AddMember(workspaceID, userID uint, role models.WorkspaceRole) {
	_ = f.Workspaces.SaveMember(context.Background(), &models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
	})
}

// CreatePage creates an active blog page in the workspace
func (f *Fixtures) CreatePage(workspaceID uint, slug string) *models.Page {
	page := &models.Page{
		WorkspaceID: workspaceID,
		Name:        slug,
		Slug:        slug,
		Type:        models.PageTypeBlog,
		IsActive:    utils.ToPtr(true),
	}
	_ = f.Pages.Save(context.Background(), page)
	return page
}

// CreateCategory creates a category on the page
func (f *Fixtures) CreateCategory(pageID uint, slug string) *models.Category {
	row := &models.Category{PageID: pageID, Name: slug, Slug: slug}
	_ = f.Categories.Save(context.Background(), row)
	return row
}

// CreateTag creates a tag on the page
func (f *Fixtures) CreateTag(pageID uint, slug string) *models.Tag {
	row := &models.Tag{PageID: pageID, Name: slug, Slug: slug}
	_ = f.Tags.Save(context.Background(), row)
	return row
}

// CreateAuthor creates an author in the workspace
func (f *Fixtures) CreateAuthor(workspaceID uint, name string) *models.Author {
	row := &models.Author{WorkspaceID: workspaceID, Name: name}
	_ = f.Authors.Save(context.Background(), row)
	return row
}

// CreatePost creates a draft post on the page with the given taxonomy lists
func (f *Fixtures) CreatePost(pageID uint, slug string, categoryIDs, tagIDs []string) *models.BlogPost {
	post := &models.BlogPost{
		PageID:      pageID,
		Title:       slug,
		Slug:        slug,
		Status:      models.PostStatusDraft,
		CategoryIDs: append(models.StringSlice{}, categoryIDs...),
		TagIDs:      append(models.StringSlice{}, tagIDs...),
	}
	_ = f.Posts.Save(context.Background(), post)
	return post
}

// SampleCtaConfig returns a minimal valid standard CTA config
func SampleCtaConfig(name string) models.CtaConfig {
	return models.CtaConfig{
		Name: name,
		Type: models.CtaTypeEndOfPost,
		Content: &models.CtaContent{
			Heading: "Try it free",
			PrimaryButton: models.CtaButton{
				Text: "Start now",
				URL:  "https://example.com/signup",
			},
		},
	}
}

// SampleFormConfig returns a minimal valid form config with one email field
func SampleFormConfig(name string) models.FormConfig {
	return models.FormConfig{
		Name:       name,
		Heading:    "Subscribe",
		ButtonText: "Join",
		Fields: []models.FormField{
			{Key: "email", Label: "Email", Type: models.FieldTypeEmail, Required: true},
		},
	}
}

// NewUUIDString returns a fresh uuid string for tests
func NewUUIDString() string {
	return uuid.New().String()
}
