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

type ctaFlowFixture struct {
	fx   *testutil.Fixtures
	flow businessflow.CtaFlow
	page *models.Page
}

func newCtaFlowFixture(t *testing.T) *ctaFlowFixture {
	t.Helper()
	fx := testutil.NewFixtures()
	ws := fx.CreateWorkspace("acme")
	page := fx.CreatePage(ws.ID, "blog")

	flow := businessflow.NewCtaFlow(
		fx.Pages, fx.Posts, fx.Categories, fx.Tags, fx.AuditLogs,
		businessflow.NewResolutionCache(nil), nil,
	)
	return &ctaFlowFixture{fx: fx, flow: flow, page: page}
}

func TestCreateCta(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and indexes category targeting", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		cat := f.fx.CreateCategory(f.page.ID, "news")

		resp, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("newsletter"),
			Categories: []string{cat.UUID.String()},
		}, nil)
		require.NoError(t, err)
		require.NotEmpty(t, resp.Cta.ID)
		assert.Equal(t, 1, resp.Cta.Version)
		assert.True(t, resp.Cta.IsActive)

		list, err := f.flow.ListCtas(ctx, &dto.ListCtasRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		require.Len(t, list.Ctas, 1)
		assert.Equal(t, resp.Cta.ID, list.CategoryCtaMapping[cat.UUID.String()])
		assert.Nil(t, list.GlobalDefaultCtaID)
	})

	t.Run("global sentinel sets page-wide default instead of a mapping entry", func(t *testing.T) {
		f := newCtaFlowFixture(t)

		resp, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("default"),
			Categories: []string{utils.GlobalTargetSentinel},
		}, nil)
		require.NoError(t, err)

		list, err := f.flow.ListCtas(ctx, &dto.ListCtasRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		require.NotNil(t, list.GlobalDefaultCtaID)
		assert.Equal(t, resp.Cta.ID, *list.GlobalDefaultCtaID)
		assert.Empty(t, list.CategoryCtaMapping)
	})

	t.Run("second global claimant overwrites the page default", func(t *testing.T) {
		f := newCtaFlowFixture(t)

		first, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("old default"),
			Categories: []string{utils.GlobalTargetSentinel},
		}, nil)
		require.NoError(t, err)

		second, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("new default"),
			Categories: []string{utils.GlobalTargetSentinel},
		}, nil)
		require.NoError(t, err)

		list, err := f.flow.ListCtas(ctx, &dto.ListCtasRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		require.NotNil(t, list.GlobalDefaultCtaID)
		assert.Equal(t, second.Cta.ID, *list.GlobalDefaultCtaID)
		assert.NotEqual(t, first.Cta.ID, *list.GlobalDefaultCtaID)
		// The displaced CTA stays defined, it just no longer wins.
		assert.Len(t, list.Ctas, 2)
	})

	t.Run("retargeting an already-mapped category is last writer wins", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		cat := f.fx.CreateCategory(f.page.ID, "news")

		first, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("first"),
			Categories: []string{cat.UUID.String()},
		}, nil)
		require.NoError(t, err)

		second, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("second"),
			Categories: []string{cat.UUID.String()},
		}, nil)
		require.NoError(t, err)

		list, err := f.flow.ListCtas(ctx, &dto.ListCtasRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		assert.Equal(t, second.Cta.ID, list.CategoryCtaMapping[cat.UUID.String()])
		assert.NotEqual(t, first.Cta.ID, list.CategoryCtaMapping[cat.UUID.String()])
		assert.Len(t, list.Ctas, 2)
	})

	t.Run("custom code alone satisfies the content rule, toggle preserved", func(t *testing.T) {
		f := newCtaFlowFixture(t)

		resp, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID: f.page.UUID.String(),
			Config: models.CtaConfig{
				Name: "embed",
				Type: models.CtaTypeEndOfPost,
				CustomCode: &models.CtaCustomCode{
					IsEnabled: false,
					Code:      `<script src="https://cdn.example.com/widget.js"></script>`,
				},
			},
			Categories: []string{utils.GlobalTargetSentinel},
		}, nil)
		require.NoError(t, err)

		list, err := f.flow.ListCtas(ctx, &dto.ListCtasRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		require.Len(t, list.Ctas, 1)
		stored := list.Ctas[0].Config
		assert.Equal(t, resp.Cta.ID, list.Ctas[0].ID)
		require.NotNil(t, stored.CustomCode)
		// Switched-off code is kept so authors can re-enable it later.
		assert.False(t, stored.CustomCode.IsEnabled)
		assert.Contains(t, stored.CustomCode.Code, "widget.js")
		assert.Nil(t, stored.Content)
	})

	t.Run("rejects unknown category reference", func(t *testing.T) {
		f := newCtaFlowFixture(t)

		_, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("bad"),
			Categories: []string{testutil.NewUUIDString()},
		}, nil)
		assert.True(t, businessflow.IsInvalidCategoryRef(err))
	})

	t.Run("rejects empty targeting", func(t *testing.T) {
		f := newCtaFlowFixture(t)

		_, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID: f.page.UUID.String(),
			Config:   testutil.SampleCtaConfig("untargeted"),
		}, nil)

		ve, ok := businessflow.AsValidationError(err)
		require.True(t, ok)
		require.NotEmpty(t, ve.Details)
		assert.Equal(t, "categories", ve.Details[0].Path)
	})

	t.Run("validation failure leaves stored config untouched", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		cat := f.fx.CreateCategory(f.page.ID, "news")

		_, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("good"),
			Categories: []string{cat.UUID.String()},
		}, nil)
		require.NoError(t, err)

		bad := testutil.SampleCtaConfig("bad")
		bad.Content.PrimaryButton.URL = "not-a-url"
		_, err = f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     bad,
			Categories: []string{cat.UUID.String()},
		}, nil)
		_, ok := businessflow.AsValidationError(err)
		require.True(t, ok)

		list, err := f.flow.ListCtas(ctx, &dto.ListCtasRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		assert.Len(t, list.Ctas, 1)
		assert.Equal(t, "good", list.Ctas[0].Config.Name)
	})

	t.Run("unknown page", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		_, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   testutil.NewUUIDString(),
			Config:     testutil.SampleCtaConfig("x"),
			Categories: []string{utils.GlobalTargetSentinel},
		}, nil)
		assert.True(t, businessflow.IsPageNotFound(err))
	})
}

func TestUpdateCta(t *testing.T) {
	ctx := context.Background()

	t.Run("retargeting moves mapping entries", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		catA := f.fx.CreateCategory(f.page.ID, "a")
		catB := f.fx.CreateCategory(f.page.ID, "b")

		created, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("mover"),
			Categories: []string{catA.UUID.String()},
		}, nil)
		require.NoError(t, err)

		updated, err := f.flow.UpdateCta(ctx, &dto.UpdateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			CtaID:      created.Cta.ID,
			Config:     testutil.SampleCtaConfig("mover"),
			Categories: []string{catB.UUID.String()},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Cta.Version)

		list, err := f.flow.ListCtas(ctx, &dto.ListCtasRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		_, hasOld := list.CategoryCtaMapping[catA.UUID.String()]
		assert.False(t, hasOld)
		assert.Equal(t, created.Cta.ID, list.CategoryCtaMapping[catB.UUID.String()])
	})

	t.Run("dropping the global sentinel keeps the page default", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		cat := f.fx.CreateCategory(f.page.ID, "a")

		created, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("default"),
			Categories: []string{utils.GlobalTargetSentinel},
		}, nil)
		require.NoError(t, err)

		_, err = f.flow.UpdateCta(ctx, &dto.UpdateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			CtaID:      created.Cta.ID,
			Config:     testutil.SampleCtaConfig("default"),
			Categories: []string{cat.UUID.String()},
		}, nil)
		require.NoError(t, err)

		list, err := f.flow.ListCtas(ctx, &dto.ListCtasRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		require.NotNil(t, list.GlobalDefaultCtaID)
		assert.Equal(t, created.Cta.ID, *list.GlobalDefaultCtaID)
	})

	t.Run("unknown cta", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		_, err := f.flow.UpdateCta(ctx, &dto.UpdateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			CtaID:      testutil.NewUUIDString(),
			Config:     testutil.SampleCtaConfig("x"),
			Categories: []string{utils.GlobalTargetSentinel},
		}, nil)
		assert.True(t, businessflow.IsCtaNotFound(err))
	})
}

func TestDeleteCta(t *testing.T) {
	ctx := context.Background()

	t.Run("removes definition and all owned mapping entries", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		cat := f.fx.CreateCategory(f.page.ID, "a")
		tag := f.fx.CreateTag(f.page.ID, "z")

		created, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("doomed"),
			Categories: []string{cat.UUID.String(), utils.GlobalTargetSentinel},
			Tags:       []string{tag.UUID.String()},
		}, nil)
		require.NoError(t, err)

		err = f.flow.DeleteCta(ctx, &dto.DeleteCtaRequest{
			PageUUID: f.page.UUID.String(),
			CtaID:    created.Cta.ID,
		}, nil)
		require.NoError(t, err)

		list, err := f.flow.ListCtas(ctx, &dto.ListCtasRequest{PageUUID: f.page.UUID.String()})
		require.NoError(t, err)
		assert.Empty(t, list.Ctas)
		assert.Empty(t, list.CategoryCtaMapping)
		assert.Empty(t, list.TagCtaMapping)
		assert.Nil(t, list.GlobalDefaultCtaID)
	})

	t.Run("unknown cta", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		err := f.flow.DeleteCta(ctx, &dto.DeleteCtaRequest{
			PageUUID: f.page.UUID.String(),
			CtaID:    testutil.NewUUIDString(),
		}, nil)
		assert.True(t, businessflow.IsCtaNotFound(err))
	})
}

func TestResolveCtaForPost(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end resolution over stored config", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		cat := f.fx.CreateCategory(f.page.ID, "news")
		post := f.fx.CreatePost(f.page.ID, "hello", []string{cat.UUID.String()}, nil)

		created, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     testutil.SampleCtaConfig("newsletter"),
			Categories: []string{cat.UUID.String()},
		}, nil)
		require.NoError(t, err)

		resp, err := f.flow.ResolveCtaForPost(ctx, &dto.ResolveCtaRequest{
			PageUUID: f.page.UUID.String(),
			PostUUID: post.UUID.String(),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Cta)
		assert.Equal(t, created.Cta.ID, resp.Cta.ID)
		assert.Equal(t, businessflow.MatchedCategory, resp.Matched)
	})

	t.Run("post without rules resolves to none", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		post := f.fx.CreatePost(f.page.ID, "lonely", nil, nil)

		resp, err := f.flow.ResolveCtaForPost(ctx, &dto.ResolveCtaRequest{
			PageUUID: f.page.UUID.String(),
			PostUUID: post.UUID.String(),
		})
		require.NoError(t, err)
		assert.Nil(t, resp.Cta)
		assert.Equal(t, businessflow.MatchedNone, resp.Matched)
	})

	t.Run("post of another page is not found", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		other := f.fx.CreatePage(f.page.WorkspaceID, "other")
		post := f.fx.CreatePost(other.ID, "elsewhere", nil, nil)

		_, err := f.flow.ResolveCtaForPost(ctx, &dto.ResolveCtaRequest{
			PageUUID: f.page.UUID.String(),
			PostUUID: post.UUID.String(),
		})
		assert.True(t, businessflow.IsPostNotFound(err))
	})
}
