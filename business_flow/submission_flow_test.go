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

type submissionFlowFixture struct {
	fx   *testutil.Fixtures
	flow businessflow.SubmissionFlow
	page *models.Page
	form models.FormDefinition
}

// newSubmissionFlowFixture wires a page carrying one enabled form with an
// email field, a plan select and an optional note.
func newSubmissionFlowFixture(t *testing.T) *submissionFlowFixture {
	t.Helper()
	fx := testutil.NewFixtures()
	ws := fx.CreateWorkspace("acme")
	page := fx.CreatePage(ws.ID, "blog")

	form := models.FormDefinition{
		ID: testutil.NewUUIDString(),
		Config: models.FormConfig{
			Name:       "signup",
			Heading:    "Subscribe",
			ButtonText: "Join",
			Fields: []models.FormField{
				{Key: "email", Label: "Email", Type: models.FieldTypeEmail, Required: true},
				{Key: "plan", Label: "Plan", Type: models.FieldTypeSelect, Required: true, Options: []string{"free", "pro"}},
				{Key: "note", Label: "Note", Type: models.FieldTypeLongText},
			},
			Confirmation: &models.FormConfirmation{
				Message:     utils.ToPtr("Thanks for subscribing"),
				RedirectURL: utils.ToPtr("https://example.com/thanks"),
			},
		},
		Enabled: true,
		Version: 1,
	}
	fx.Pages.Pages[page.ID].FormsConfig = models.FormsConfig{
		Forms:               []models.FormDefinition{form},
		CategoryFormMapping: map[string]string{},
		TagFormMapping:      map[string]string{},
	}

	flow := businessflow.NewSubmissionFlow(fx.Pages, fx.Submissions, fx.AuditLogs, nil)
	return &submissionFlowFixture{fx: fx, flow: flow, page: page, form: form}
}

func (f *submissionFlowFixture) submit(values map[string]any) *dto.SubmitFormRequest {
	return &dto.SubmitFormRequest{
		PageUUID: f.page.UUID.String(),
		FormID:   f.form.ID,
		Values:   values,
	}
}

func TestSubmitForm(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a valid submission and echoes the confirmation", func(t *testing.T) {
		f := newSubmissionFlowFixture(t)

		resp, err := f.flow.SubmitForm(ctx, f.submit(map[string]any{
			"email": "sam@example.com",
			"plan":  "pro",
		}), nil)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.SubmissionUUID)
		require.NotNil(t, resp.Message)
		assert.Equal(t, "Thanks for subscribing", *resp.Message)
		require.NotNil(t, resp.RedirectURL)
		assert.Equal(t, "https://example.com/thanks", *resp.RedirectURL)

		require.Len(t, f.fx.Submissions.Rows, 1)
		stored := f.fx.Submissions.Rows[0]
		assert.Equal(t, f.form.ID, stored.FormID)
		assert.Equal(t, "pro", stored.Payload["plan"])
	})

	t.Run("missing required field", func(t *testing.T) {
		f := newSubmissionFlowFixture(t)

		_, err := f.flow.SubmitForm(ctx, f.submit(map[string]any{
			"plan": "free",
		}), nil)
		ve, ok := businessflow.AsValidationError(err)
		require.True(t, ok)
		require.Len(t, ve.Details, 1)
		assert.Equal(t, "values.email", ve.Details[0].Path)
		assert.Empty(t, f.fx.Submissions.Rows)
	})

	t.Run("unknown field key is rejected", func(t *testing.T) {
		f := newSubmissionFlowFixture(t)

		_, err := f.flow.SubmitForm(ctx, f.submit(map[string]any{
			"email":   "sam@example.com",
			"plan":    "free",
			"company": "ACME",
		}), nil)
		ve, ok := businessflow.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "values.company", ve.Details[0].Path)
	})

	t.Run("select value must match a configured option", func(t *testing.T) {
		f := newSubmissionFlowFixture(t)

		_, err := f.flow.SubmitForm(ctx, f.submit(map[string]any{
			"email": "sam@example.com",
			"plan":  "enterprise",
		}), nil)
		ve, ok := businessflow.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "values.plan", ve.Details[0].Path)
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		f := newSubmissionFlowFixture(t)

		_, err := f.flow.SubmitForm(ctx, f.submit(map[string]any{
			"email": "not an email",
			"plan":  "free",
		}), nil)
		ve, ok := businessflow.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "values.email", ve.Details[0].Path)
	})

	t.Run("disabled form rejects submissions", func(t *testing.T) {
		f := newSubmissionFlowFixture(t)
		f.fx.Pages.Pages[f.page.ID].FormsConfig.Forms[0].Enabled = false

		_, err := f.flow.SubmitForm(ctx, f.submit(map[string]any{
			"email": "sam@example.com",
			"plan":  "free",
		}), nil)
		assert.True(t, businessflow.IsFormDisabled(err))
	})

	t.Run("unknown form", func(t *testing.T) {
		f := newSubmissionFlowFixture(t)

		req := f.submit(map[string]any{"email": "sam@example.com", "plan": "free"})
		req.FormID = testutil.NewUUIDString()

		_, err := f.flow.SubmitForm(ctx, req, nil)
		assert.True(t, businessflow.IsFormNotFound(err))
	})
}

func TestListSubmissions(t *testing.T) {
	ctx := context.Background()

	f := newSubmissionFlowFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.flow.SubmitForm(ctx, f.submit(map[string]any{
			"email": "sam@example.com",
			"plan":  "free",
		}), nil)
		require.NoError(t, err)
	}

	resp, err := f.flow.ListSubmissions(ctx, &dto.ListSubmissionsRequest{
		PageUUID: f.page.UUID.String(),
		FormID:   f.form.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	require.Len(t, resp.Submissions, 3)
	assert.Equal(t, "free", resp.Submissions[0].Values["plan"])
}

func TestExportSubmissions(t *testing.T) {
	ctx := context.Background()

	f := newSubmissionFlowFixture(t)
	_, err := f.flow.SubmitForm(ctx, f.submit(map[string]any{
		"email": "sam@example.com",
		"plan":  "pro",
		"note":  "hi there",
	}), nil)
	require.NoError(t, err)

	resp, err := f.flow.ExportSubmissions(ctx, &dto.ExportSubmissionsRequest{
		PageUUID: f.page.UUID.String(),
		FormID:   f.form.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "submissions-"+f.form.ID+".xlsx", resp.FileName)
	assert.NotEmpty(t, resp.Content)
}
