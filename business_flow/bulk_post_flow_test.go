package businessflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/blogkit/blogkit/app/dto"
	businessflow "github.com/blogkit/blogkit/business_flow"
	"github.com/blogkit/blogkit/models"
	testutil "github.com/blogkit/blogkit/testing"
	"github.com/blogkit/blogkit/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const editorUserID = uint(7)

type bulkFlowFixture struct {
	fx   *testutil.Fixtures
	flow businessflow.BulkPostFlow
	ws   *models.Workspace
	page *models.Page
}

func newBulkFlowFixture(t *testing.T) *bulkFlowFixture {
	t.Helper()
	fx := testutil.NewFixtures()
	ws := fx.CreateWorkspace("acme")
	page := fx.CreatePage(ws.ID, "blog")
	fx.AddMember(ws.ID, editorUserID, models.RoleEditor)

	flow := businessflow.NewBulkPostFlow(
		fx.Pages, fx.Posts, fx.Categories, fx.Tags, fx.Authors,
		fx.Workspaces, fx.AuditLogs, nil,
	)
	return &bulkFlowFixture{fx: fx, flow: flow, ws: ws, page: page}
}

func (b *bulkFlowFixture) request(action string, postUUIDs, payload []string) *dto.BulkPostRequest {
	return &dto.BulkPostRequest{
		UserID:    editorUserID,
		PageUUID:  b.page.UUID.String(),
		Action:    action,
		PostUUIDs: postUUIDs,
		Payload:   payload,
	}
}

func TestBulkApplyRoleCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("viewer cannot mutate content", func(t *testing.T) {
		b := newBulkFlowFixture(t)
		b.fx.AddMember(b.ws.ID, 42, models.RoleViewer)
		post := b.fx.CreatePost(b.page.ID, "p1", nil, nil)

		req := b.request(dto.BulkActionPublish, []string{post.UUID.String()}, nil)
		req.UserID = 42

		_, err := b.flow.BulkApply(ctx, req, nil)
		assert.True(t, businessflow.IsAccessDenied(err))
		assert.Equal(t, models.PostStatusDraft, b.fx.Posts.Posts[post.ID].Status)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		b := newBulkFlowFixture(t)
		post := b.fx.CreatePost(b.page.ID, "p1", nil, nil)

		req := b.request(dto.BulkActionPublish, []string{post.UUID.String()}, nil)
		req.UserID = 99

		_, err := b.flow.BulkApply(ctx, req, nil)
		assert.True(t, businessflow.IsNotAMember(err))
	})
}

func TestBulkApplyPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes every post and stamps published_at", func(t *testing.T) {
		b := newBulkFlowFixture(t)
		p1 := b.fx.CreatePost(b.page.ID, "p1", nil, nil)
		p2 := b.fx.CreatePost(b.page.ID, "p2", nil, nil)

		resp, err := b.flow.BulkApply(ctx, b.request(dto.BulkActionPublish,
			[]string{p1.UUID.String(), p2.UUID.String()}, nil), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Succeeded)
		require.Len(t, resp.Results, 2)

		for _, id := range []uint{p1.ID, p2.ID} {
			stored := b.fx.Posts.Posts[id]
			assert.Equal(t, models.PostStatusPublished, stored.Status)
			assert.NotNil(t, stored.PublishedAt)
		}
	})

	t.Run("failure partway aborts with one error, later posts untouched", func(t *testing.T) {
		b := newBulkFlowFixture(t)
		p1 := b.fx.CreatePost(b.page.ID, "p1", nil, nil)
		p2 := b.fx.CreatePost(b.page.ID, "p2", nil, nil)
		p3 := b.fx.CreatePost(b.page.ID, "p3", nil, nil)
		b.fx.Posts.StatusErrFor[p2.UUID.String()] = errors.New("write conflict")

		resp, err := b.flow.BulkApply(ctx, b.request(dto.BulkActionPublish,
			[]string{p1.UUID.String(), p2.UUID.String(), p3.UUID.String()}, nil), nil)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorContains(t, err, "write conflict")

		// Earlier updates already happened; everything after the failure did not.
		assert.Equal(t, models.PostStatusPublished, b.fx.Posts.Posts[p1.ID].Status)
		assert.Equal(t, models.PostStatusDraft, b.fx.Posts.Posts[p2.ID].Status)
		assert.Equal(t, models.PostStatusDraft, b.fx.Posts.Posts[p3.ID].Status)
	})

	t.Run("unknown post uuid fails the batch before touching anything", func(t *testing.T) {
		b := newBulkFlowFixture(t)
		p1 := b.fx.CreatePost(b.page.ID, "p1", nil, nil)
		missing := testutil.NewUUIDString()

		_, err := b.flow.BulkApply(ctx, b.request(dto.BulkActionPublish,
			[]string{p1.UUID.String(), missing}, nil), nil)
		assert.True(t, businessflow.IsPostNotFound(err))
		assert.Equal(t, models.PostStatusDraft, b.fx.Posts.Posts[p1.ID].Status)
	})
}

func TestBulkApplySetCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the category list", func(t *testing.T) {
		b := newBulkFlowFixture(t)
		cat := b.fx.CreateCategory(b.page.ID, "news")
		post := b.fx.CreatePost(b.page.ID, "p1", nil, nil)

		resp, err := b.flow.BulkApply(ctx, b.request(dto.BulkActionSetCategories,
			[]string{post.UUID.String()}, []string{cat.UUID.String()}), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Succeeded)
		assert.Equal(t, models.StringSlice{cat.UUID.String()}, b.fx.Posts.Posts[post.ID].CategoryIDs)
	})

	t.Run("empty payload clears the category list", func(t *testing.T) {
		b := newBulkFlowFixture(t)
		cat := b.fx.CreateCategory(b.page.ID, "news")
		p1 := b.fx.CreatePost(b.page.ID, "p1", []string{cat.UUID.String()}, nil)
		p2 := b.fx.CreatePost(b.page.ID, "p2", []string{cat.UUID.String()}, nil)

		resp, err := b.flow.BulkApply(ctx, b.request(dto.BulkActionSetCategories,
			[]string{p1.UUID.String(), p2.UUID.String()}, nil), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Succeeded)
		assert.Empty(t, b.fx.Posts.Posts[p1.ID].CategoryIDs)
		assert.Empty(t, b.fx.Posts.Posts[p2.ID].CategoryIDs)
	})

	t.Run("unknown category ref fails before touching any post", func(t *testing.T) {
		b := newBulkFlowFixture(t)
		post := b.fx.CreatePost(b.page.ID, "p1", []string{testutil.NewUUIDString()}, nil)
		before := append(models.StringSlice{}, b.fx.Posts.Posts[post.ID].CategoryIDs...)

		_, err := b.flow.BulkApply(ctx, b.request(dto.BulkActionSetCategories,
			[]string{post.UUID.String()}, []string{testutil.NewUUIDString()}), nil)
		assert.True(t, businessflow.IsInvalidCategoryRef(err))
		assert.Equal(t, before, b.fx.Posts.Posts[post.ID].CategoryIDs)
	})
}

func TestBulkApplySetAuthors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty payload clears the byline", func(t *testing.T) {
		b := newBulkFlowFixture(t)
		author := b.fx.CreateAuthor(b.ws.ID, "Sam")
		post := b.fx.CreatePost(b.page.ID, "p1", nil, nil)
		require.NoError(t, b.fx.Posts.ReplaceAuthors(ctx, post.ID, utils.ToPtr(author.UUID.String()), nil))

		_, err := b.flow.BulkApply(ctx, b.request(dto.BulkActionSetAuthors,
			[]string{post.UUID.String()}, nil), nil)
		require.NoError(t, err)
		stored := b.fx.Posts.Posts[post.ID]
		assert.Nil(t, stored.PrimaryAuthorID)
		assert.Empty(t, stored.CoAuthorIDs)
	})

	t.Run("single author becomes primary", func(t *testing.T) {
		b := newBulkFlowFixture(t)
		author := b.fx.CreateAuthor(b.ws.ID, "Sam")
		post := b.fx.CreatePost(b.page.ID, "p1", nil, nil)

		_, err := b.flow.BulkApply(ctx, b.request(dto.BulkActionSetAuthors,
			[]string{post.UUID.String()}, []string{author.UUID.String()}), nil)
		require.NoError(t, err)
		stored := b.fx.Posts.Posts[post.ID]
		require.NotNil(t, stored.PrimaryAuthorID)
		assert.Equal(t, author.UUID.String(), *stored.PrimaryAuthorID)
		assert.Empty(t, stored.CoAuthorIDs)
	})

	t.Run("first author is primary and the rest co-authors", func(t *testing.T) {
		b := newBulkFlowFixture(t)
		a1 := b.fx.CreateAuthor(b.ws.ID, "Sam")
		a2 := b.fx.CreateAuthor(b.ws.ID, "Kim")
		a3 := b.fx.CreateAuthor(b.ws.ID, "Lee")
		post := b.fx.CreatePost(b.page.ID, "p1", nil, nil)

		_, err := b.flow.BulkApply(ctx, b.request(dto.BulkActionSetAuthors,
			[]string{post.UUID.String()},
			[]string{a1.UUID.String(), a2.UUID.String(), a3.UUID.String()}), nil)
		require.NoError(t, err)
		stored := b.fx.Posts.Posts[post.ID]
		require.NotNil(t, stored.PrimaryAuthorID)
		assert.Equal(t, a1.UUID.String(), *stored.PrimaryAuthorID)
		assert.Equal(t, models.StringSlice{a2.UUID.String(), a3.UUID.String()}, stored.CoAuthorIDs)
	})
}

func TestBulkApplyDelete(t *testing.T) {
	ctx := context.Background()

	b := newBulkFlowFixture(t)
	post := b.fx.CreatePost(b.page.ID, "p1", nil, nil)
	keep := b.fx.CreatePost(b.page.ID, "p2", nil, nil)

	resp, err := b.flow.BulkApply(ctx, b.request(dto.BulkActionDelete,
		[]string{post.UUID.String()}, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	assert.NotContains(t, b.fx.Posts.Posts, post.ID)
	assert.Contains(t, b.fx.Posts.Posts, keep.ID)
}

func TestListPosts(t *testing.T) {
	ctx := context.Background()

	b := newBulkFlowFixture(t)
	for i := 0; i < 12; i++ {
		b.fx.CreatePost(b.page.ID, testutil.NewUUIDString(), nil, nil)
	}

	resp, err := b.flow.ListPosts(ctx, &dto.ListPostsRequest{
		PageUUID: b.page.UUID.String(),
		Page:     1,
		PageSize: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, 5, resp.Pagination.PageSize)
}
