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

// Validation errors must carry dotted json paths into the submitted config
// and collect every problem in one response.
func TestValidationErrorPaths(t *testing.T) {
	ctx := context.Background()

	t.Run("nested button url", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		cfg := models.CtaConfig{
			Name: "broken",
			Type: models.CtaTypeEndOfPost,
			Content: &models.CtaContent{
				Heading: "Try it",
				PrimaryButton: models.CtaButton{
					Text: "Go",
					URL:  "not a url",
				},
			},
		}

		_, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     cfg,
			Categories: []string{utils.GlobalTargetSentinel},
		}, nil)

		ve, ok := businessflow.AsValidationError(err)
		require.True(t, ok)
		require.Len(t, ve.Details, 1)
		assert.Equal(t, "config.content.primaryButton.url", ve.Details[0].Path)
		assert.Equal(t, "must be a valid URL", ve.Details[0].Message)
	})

	t.Run("all problems are collected at once", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		cfg := models.CtaConfig{
			Type: models.CtaTypeEndOfPost,
			Content: &models.CtaContent{
				PrimaryButton: models.CtaButton{
					Text: "Go",
					URL:  "not a url",
				},
			},
		}

		_, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID: f.page.UUID.String(),
			Config:   cfg,
		}, nil)

		ve, ok := businessflow.AsValidationError(err)
		require.True(t, ok)

		paths := make([]string, 0, len(ve.Details))
		for _, d := range ve.Details {
			paths = append(paths, d.Path)
		}
		assert.Contains(t, paths, "config.name")
		assert.Contains(t, paths, "config.content.heading")
		assert.Contains(t, paths, "config.content.primaryButton.url")
		assert.Contains(t, paths, "categories")
	})

	t.Run("invalid trigger value", func(t *testing.T) {
		f := newCtaFlowFixture(t)
		trigger := models.CtaTrigger("ON_HOVER")
		cfg := testutil.SampleCtaConfig("popup")
		cfg.Type = models.CtaTypePopUp
		cfg.Trigger = &trigger

		_, err := f.flow.CreateCta(ctx, &dto.CreateCtaRequest{
			PageUUID:   f.page.UUID.String(),
			Config:     cfg,
			Categories: []string{utils.GlobalTargetSentinel},
		}, nil)

		ve, ok := businessflow.AsValidationError(err)
		require.True(t, ok)
		require.Len(t, ve.Details, 1)
		assert.Equal(t, "config.trigger", ve.Details[0].Path)
		assert.Equal(t, "must be one of: TIME_DELAY SCROLL EXIT_INTENT", ve.Details[0].Message)
	})
}
