package repository_test

import (
	"context"
	"testing"

	"github.com/blogkit/blogkit/models"
	"github.com/blogkit/blogkit/repository"
	testutil "github.com/blogkit/blogkit/testing"
	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestPostgresRepositories exercises the GORM repositories against a real
// database. It is skipped unless TEST_DB_HOST is set.
func TestPostgresRepositories(t *testing.T) {
	if !testutil.DBAvailable() {
		t.Skip("TEST_DB_HOST not set, skipping database integration tests")
	}

	tdb, err := testutil.SetupTestDB()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, tdb.TeardownTestDB())
	}()

	ctx := context.Background()
	db := tdb.DB

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	pageRepo := repository.NewPageRepository(db)
	postRepo := repository.NewBlogPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	submissionRepo := repository.NewFormSubmissionRepository(db)

	owner := &models.User{Email: "owner@example.com", DisplayName: "Owner", IsActive: utils.ToPtr(true)}
	require.NoError(t, owner.SetPassword("s3cret-enough-for-bcrypt"))
	require.NoError(t, userRepo.Save(ctx, owner))

	workspace := &models.Workspace{Name: "Acme", Slug: "acme", IsActive: utils.ToPtr(true)}
	require.NoError(t, workspaceRepo.Save(ctx, workspace))
	require.NoError(t, workspaceRepo.SaveMember(ctx, &models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      owner.ID,
		Role:        models.RoleOwner,
	}))

	page := &models.Page{
		WorkspaceID: workspace.ID,
		Name:        "Blog",
		Slug:        "blog",
		Type:        models.PageTypeBlog,
		IsActive:    utils.ToPtr(true),
	}
	require.NoError(t, pageRepo.Save(ctx, page))

	t.Run("member role lookup", func(t *testing.T) {
		role, err := workspaceRepo.MemberRole(ctx, workspace.ID, owner.ID)
		require.NoError(t, err)
		require.NotNil(t, role)
		require.Equal(t, models.RoleOwner, *role)

		role, err = workspaceRepo.MemberRole(ctx, workspace.ID, owner.ID+1)
		require.NoError(t, err)
		require.Nil(t, role)
	})

	t.Run("cta config blob round trip", func(t *testing.T) {
		cfg, catMap, tagMap, globalID, err := pageRepo.LoadCtasConfig(ctx, page.ID)
		require.NoError(t, err)
		require.Empty(t, cfg.Ctas)
		require.Empty(t, catMap)
		require.Empty(t, tagMap)
		require.Nil(t, globalID)

		ctaID := uuid.NewString()
		catID := uuid.NewString()
		stored := &models.CtasConfig{
			Ctas: []models.CtaDefinition{{
				ID: ctaID,
				Config: models.CtaConfig{
					Name: "Newsletter",
					Type: models.CtaTypeEndOfPost,
					Content: &models.CtaContent{
						Heading:       "Subscribe",
						PrimaryButton: models.CtaButton{Text: "Go", URL: "https://example.com/subscribe"},
					},
				},
				Categories: []string{catID},
				Tags:       []string{},
				IsActive:   true,
				Version:    1,
			}},
			LastUpdated: utils.UTCNowPtr(),
		}
		err = pageRepo.SaveCtasConfig(ctx, page.ID,
			stored,
			models.StringMap{catID: ctaID},
			models.StringMap{},
			utils.ToPtr(ctaID),
		)
		require.NoError(t, err)

		cfg, catMap, tagMap, globalID, err = pageRepo.LoadCtasConfig(ctx, page.ID)
		require.NoError(t, err)
		require.Len(t, cfg.Ctas, 1)
		require.Equal(t, ctaID, cfg.Ctas[0].ID)
		require.Equal(t, "Newsletter", cfg.Ctas[0].Config.Name)
		require.Equal(t, ctaID, catMap[catID])
		require.Empty(t, tagMap)
		require.NotNil(t, globalID)
		require.Equal(t, ctaID, *globalID)
	})

	t.Run("forms config blob round trip", func(t *testing.T) {
		formID := uuid.NewString()
		err := pageRepo.SaveFormsConfig(ctx, page.ID, &models.FormsConfig{
			Forms: []models.FormDefinition{{
				ID: formID,
				Config: models.FormConfig{
					Name:       "Contact",
					Heading:    "Get in touch",
					ButtonText: "Send",
					Fields: []models.FormField{
						{Key: "email", Label: "Email", Type: models.FieldTypeEmail, Required: true},
					},
				},
				CategoryIDs: []string{},
				Enabled:     true,
				Version:     1,
			}},
			CategoryFormMapping: map[string]string{},
			TagFormMapping:      map[string]string{},
			GlobalDefaultFormID: utils.ToPtr(formID),
		})
		require.NoError(t, err)

		loaded, err := pageRepo.LoadFormsConfig(ctx, page.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Forms, 1)
		require.Equal(t, formID, loaded.Forms[0].ID)
		require.NotNil(t, loaded.GlobalDefaultFormID)
	})

	t.Run("post mutations", func(t *testing.T) {
		category := &models.Category{PageID: page.ID, Name: "News", Slug: "news"}
		require.NoError(t, categoryRepo.Save(ctx, category))

		post := &models.BlogPost{
			PageID: page.ID,
			Title:  "Hello",
			Slug:   "hello",
			Status: models.PostStatusDraft,
		}
		require.NoError(t, postRepo.Save(ctx, post))

		found, err := postRepo.ByUUID(ctx, post.UUID)
		require.NoError(t, err)
		require.NotNil(t, found)
		require.Equal(t, "Hello", found.Title)

		require.NoError(t, postRepo.UpdateStatus(ctx, post.ID, models.PostStatusPublished))
		require.NoError(t, postRepo.ReplaceCategories(ctx, post.ID, []string{category.UUID.String()}))

		listed, err := postRepo.ListByUUIDs(ctx, page.ID, []string{post.UUID.String()})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.Equal(t, models.PostStatusPublished, listed[0].Status)
		require.Equal(t, models.StringSlice{category.UUID.String()}, listed[0].CategoryIDs)

		require.NoError(t, postRepo.DeleteByUUID(ctx, page.ID, post.UUID))
		found, err = postRepo.ByUUID(ctx, post.UUID)
		require.NoError(t, err)
		require.Nil(t, found)
	})

	t.Run("submission listing", func(t *testing.T) {
		formID := uuid.NewString()
		for i := 0; i < 3; i++ {
			require.NoError(t, submissionRepo.Save(ctx, &models.FormSubmission{
				PageID:  page.ID,
				FormID:  formID,
				Payload: models.JSONMap{"email": "visitor@example.com"},
			}))
		}

		rows, err := submissionRepo.ListByForm(ctx, page.ID, formID, 2, 0)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		total, err := submissionRepo.Count(ctx, models.FormSubmissionFilter{PageID: &page.ID, FormID: &formID})
		require.NoError(t, err)
		require.EqualValues(t, 3, total)
	})
}
