package businessflow_test

import (
	"context"
	"testing"

	"github.com/blogkit/blogkit/app/dto"
	businessflow "github.com/blogkit/blogkit/business_flow"
	"github.com/blogkit/blogkit/models"
	testutil "github.com/blogkit/blogkit/testing"
	"github.com/blogkit/blogkit/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formFlowFixture struct {
	fx   *testutil.Fixtures
	flow businessflow.FormFlow
	page *models.Page
}

func newFormFlowFixture(t *testing.T) *formFlowFixture {
	t.Helper()
	fx := testutil.NewFixtures()
	ws := fx.CreateWorkspace("acme")
	page := fx.CreatePage(ws.ID, "blog")

	flow := businessflow.NewFormFlow(
		fx.Pages, fx.Posts, fx.Categories, fx.Tags, fx.AuditLogs,
		businessflow.NewResolutionCache(nil), nil,
	)
	return &formFlowFixture{fx: fx, flow: flow, page: page}
}

func TestCreateForm(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and indexes inside the forms blob", func(t *testing.T) {
		f := newFormFlowFixture(t)
		cat := f.fx.CreateCategory(f.page.ID, "news")

		resp, err := f.flow.CreateForm(ctx, &dto.CreateFormRequest{
			PageUUID:    f.page.UUID.String(),
			Config:      testutil.SampleFormConfig("signup"),
			CategoryIDs: []string{cat.UUID.String()},
		}, nil)
		require.NoError(t, err)
		require.NotEmpty(t, resp.Form.ID)
		assert.True(t, resp.Form.Enabled)

		list, err := f.flow.ListForms(ctx, &dto.ListFormsRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		require.Len(t, list.Forms, 1)
		assert.Equal(t, resp.Form.ID, list.CategoryFormMapping[cat.UUID.String()])
	})

	t.Run("global sentinel sets the blob-level default", func(t *testing.T) {
		f := newFormFlowFixture(t)

		resp, err := f.flow.CreateForm(ctx, &dto.CreateFormRequest{
			PageUUID:    f.page.UUID.String(),
			Config:      testutil.SampleFormConfig("default"),
			CategoryIDs: []string{utils.GlobalTargetSentinel},
		}, nil)
		require.NoError(t, err)

		list, err := f.flow.ListForms(ctx, &dto.ListFormsRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		require.NotNil(t, list.GlobalDefaultFormID)
		assert.Equal(t, resp.Form.ID, *list.GlobalDefaultFormID)
	})

	t.Run("requires at least one category target", func(t *testing.T) {
		f := newFormFlowFixture(t)

		_, err := f.flow.CreateForm(ctx, &dto.CreateFormRequest{
			PageUUID: f.page.UUID.String(),
			Config:   testutil.SampleFormConfig("untargeted"),
		}, nil)

		ve, ok := businessflow.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "category_ids", ve.Details[0].Path)
	})

	t.Run("requires at least one field", func(t *testing.T) {
		f := newFormFlowFixture(t)
		cfg := testutil.SampleFormConfig("empty")
		cfg.Fields = nil

		_, err := f.flow.CreateForm(ctx, &dto.CreateFormRequest{
			PageUUID:    f.page.UUID.String(),
			Config:      cfg,
			CategoryIDs: []string{utils.GlobalTargetSentinel},
		}, nil)

		ve, ok := businessflow.AsValidationError(err)
		require.True(t, ok)
		found := false
		for _, d := range ve.Details {
			if d.Path == "config.fields" {
				found = true
			}
		}
		assert.True(t, found, "expected a config.fields error, got %v", ve.Details)
	})

	t.Run("rejects duplicate field keys and optionless selects", func(t *testing.T) {
		f := newFormFlowFixture(t)
		cfg := testutil.SampleFormConfig("dupes")
		cfg.Fields = append(cfg.Fields,
			models.FormField{Key: "email", Label: "Email again", Type: models.FieldTypeShortText},
			models.FormField{Key: "plan", Label: "Plan", Type: models.FieldTypeSelect},
		)

		_, err := f.flow.CreateForm(ctx, &dto.CreateFormRequest{
			PageUUID:    f.page.UUID.String(),
			Config:      cfg,
			CategoryIDs: []string{utils.GlobalTargetSentinel},
		}, nil)

		ve, ok := businessflow.AsValidationError(err)
		require.True(t, ok)
		paths := make([]string, 0, len(ve.Details))
		for _, d := range ve.Details {
			paths = append(paths, d.Path)
		}
		assert.Contains(t, paths, "config.fields.1.key")
		assert.Contains(t, paths, "config.fields.2.options")
	})
}

func TestUpdateForm(t *testing.T) {
	ctx := context.Background()

	t.Run("bumps version and reindexes", func(t *testing.T) {
		f := newFormFlowFixture(t)
		catA := f.fx.CreateCategory(f.page.ID, "a")
		catB := f.fx.CreateCategory(f.page.ID, "b")

		created, err := f.flow.CreateForm(ctx, &dto.CreateFormRequest{
			PageUUID:    f.page.UUID.String(),
			Config:      testutil.SampleFormConfig("mover"),
			CategoryIDs: []string{catA.UUID.String()},
		}, nil)
		require.NoError(t, err)

		updated, err := f.flow.UpdateForm(ctx, &dto.UpdateFormRequest{
			PageUUID:    f.page.UUID.String(),
			FormID:      created.Form.ID,
			Config:      testutil.SampleFormConfig("mover"),
			CategoryIDs: []string{catB.UUID.String()},
			Enabled:     utils.ToPtr(false),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Form.Version)
		assert.False(t, updated.Form.Enabled)

		list, err := f.flow.ListForms(ctx, &dto.ListFormsRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		_, hasOld := list.CategoryFormMapping[catA.UUID.String()]
		assert.False(t, hasOld)
		assert.Equal(t, created.Form.ID, list.CategoryFormMapping[catB.UUID.String()])
	})

	t.Run("unknown form", func(t *testing.T) {
		f := newFormFlowFixture(t)
		_, err := f.flow.UpdateForm(ctx, &dto.UpdateFormRequest{
			PageUUID:    f.page.UUID.String(),
			FormID:      testutil.NewUUIDString(),
			Config:      testutil.SampleFormConfig("x"),
			CategoryIDs: []string{utils.GlobalTargetSentinel},
		}, nil)
		assert.True(t, businessflow.IsFormNotFound(err))
	})
}

func TestDeleteForm(t *testing.T) {
	ctx := context.Background()

	f := newFormFlowFixture(t)
	cat := f.fx.CreateCategory(f.page.ID, "a")

	created, err := f.flow.CreateForm(ctx, &dto.CreateFormRequest{
		PageUUID:    f.page.UUID.String(),
		Config:      testutil.SampleFormConfig("doomed"),
		CategoryIDs: []string{cat.UUID.String(), utils.GlobalTargetSentinel},
	}, nil)
	require.NoError(t, err)

	err = f.flow.DeleteForm(ctx, &dto.DeleteFormRequest{
		PageUUID: f.page.UUID.String(),
		FormID:   created.Form.ID,
	}, nil)
	require.NoError(t, err)

	list, err := f.flow.ListForms(ctx, &dto.ListFormsRequest{PageUUID: f.page.UUID.String()})
	require.NoError(t, err)
	assert.Empty(t, list.Forms)
	assert.Empty(t, list.CategoryFormMapping)
	assert.Nil(t, list.GlobalDefaultFormID)
}

func TestResolveFormForPost(t *testing.T) {
	ctx := context.Background()

	f := newFormFlowFixture(t)
	cat := f.fx.CreateCategory(f.page.ID, "news")
	tag := f.fx.CreateTag(f.page.ID, "go")
	post := f.fx.CreatePost(f.page.ID, "hello", nil, []string{tag.UUID.String()})

	_, err := f.flow.CreateForm(ctx, &dto.CreateFormRequest{
		PageUUID:    f.page.UUID.String(),
		Config:      testutil.SampleFormConfig("by-category"),
		CategoryIDs: []string{cat.UUID.String()},
	}, nil)
	require.NoError(t, err)

	tagged, err := f.flow.CreateForm(ctx, &dto.CreateFormRequest{
		PageUUID:    f.page.UUID.String(),
		Config:      testutil.SampleFormConfig("by-tag"),
		CategoryIDs: []string{cat.UUID.String()},
		TagIDs:      []string{tag.UUID.String()},
	}, nil)
	require.NoError(t, err)

	resp, err := f.flow.ResolveFormForPost(ctx, &dto.ResolveFormRequest{
		PageUUID: f.page.UUID.String(),
		PostUUID: post.UUID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Form)
	assert.Equal(t, tagged.Form.ID, resp.Form.ID)
	assert.Equal(t, businessflow.MatchedTag, resp.Matched)
}
