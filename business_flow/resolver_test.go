package businessflow_test

import (
	"testing"

	businessflow "github.com/blogkit/blogkit/business_flow"
	"github.com/blogkit/blogkit/models"
	"github.com/blogkit/blogkit/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCta(id string, active bool) models.CtaDefinition {
	return models.CtaDefinition{
		ID:       id,
		IsActive: active,
		Config: models.CtaConfig{
			Name: "cta-" + id,
			Type: models.CtaTypeEndOfPost,
		},
	}
}

func makePost(categoryIDs, tagIDs []string) *models.BlogPost {
	return &models.BlogPost{
		UUID:        uuid.New(),
		CategoryIDs: categoryIDs,
		TagIDs:      tagIDs,
	}
}

func TestResolveCta(t *testing.T) {
	ctaA := uuid.New().String()
	ctaB := uuid.New().String()
	ctaGlobal := uuid.New().String()

	catX := uuid.New().String()
	catY := uuid.New().String()
	tagZ := uuid.New().String()

	cfg := &models.CtasConfig{Ctas: []models.CtaDefinition{
		makeCta(ctaA, true),
		makeCta(ctaB, true),
		makeCta(ctaGlobal, true),
	}}

	t.Run("first matching category in post order wins", func(t *testing.T) {
		catMap := models.StringMap{catX: ctaA, catY: ctaB}
		post := makePost([]string{catY, catX}, nil)

		def, matched := businessflow.ResolveCta(cfg, catMap, models.StringMap{}, nil, post)
		require.NotNil(t, def)
		assert.Equal(t, ctaB, def.ID)
		assert.Equal(t, businessflow.MatchedCategory, matched)
	})

	t.Run("category beats tag", func(t *testing.T) {
		catMap := models.StringMap{catX: ctaA}
		tagMap := models.StringMap{tagZ: ctaB}
		post := makePost([]string{catX}, []string{tagZ})

		def, matched := businessflow.ResolveCta(cfg, catMap, tagMap, nil, post)
		require.NotNil(t, def)
		assert.Equal(t, ctaA, def.ID)
		assert.Equal(t, businessflow.MatchedCategory, matched)
	})

	t.Run("tag fallback when no category matches", func(t *testing.T) {
		tagMap := models.StringMap{tagZ: ctaB}
		post := makePost([]string{catX}, []string{tagZ})

		def, matched := businessflow.ResolveCta(cfg, models.StringMap{}, tagMap, nil, post)
		require.NotNil(t, def)
		assert.Equal(t, ctaB, def.ID)
		assert.Equal(t, businessflow.MatchedTag, matched)
	})

	t.Run("global default as last resort", func(t *testing.T) {
		post := makePost([]string{catX}, []string{tagZ})

		def, matched := businessflow.ResolveCta(cfg, models.StringMap{}, models.StringMap{}, utils.ToPtr(ctaGlobal), post)
		require.NotNil(t, def)
		assert.Equal(t, ctaGlobal, def.ID)
		assert.Equal(t, businessflow.MatchedGlobal, matched)
	})

	t.Run("no mapping yields none", func(t *testing.T) {
		post := makePost([]string{catX}, nil)

		def, matched := businessflow.ResolveCta(cfg, models.StringMap{}, models.StringMap{}, nil, post)
		assert.Nil(t, def)
		assert.Equal(t, businessflow.MatchedNone, matched)
	})

	t.Run("inactive cta is skipped in favor of later rules", func(t *testing.T) {
		inactive := uuid.New().String()
		localCfg := &models.CtasConfig{Ctas: []models.CtaDefinition{
			makeCta(inactive, false),
			makeCta(ctaB, true),
		}}
		catMap := models.StringMap{catX: inactive}
		tagMap := models.StringMap{tagZ: ctaB}
		post := makePost([]string{catX}, []string{tagZ})

		def, matched := businessflow.ResolveCta(localCfg, catMap, tagMap, nil, post)
		require.NotNil(t, def)
		assert.Equal(t, ctaB, def.ID)
		assert.Equal(t, businessflow.MatchedTag, matched)
	})

	t.Run("dangling mapping entry is skipped", func(t *testing.T) {
		catMap := models.StringMap{catX: uuid.New().String()}
		post := makePost([]string{catX}, nil)

		def, matched := businessflow.ResolveCta(cfg, catMap, models.StringMap{}, utils.ToPtr(ctaGlobal), post)
		require.NotNil(t, def)
		assert.Equal(t, ctaGlobal, def.ID)
		assert.Equal(t, businessflow.MatchedGlobal, matched)
	})

	t.Run("nil config resolves to none", func(t *testing.T) {
		def, matched := businessflow.ResolveCta(nil, nil, nil, nil, makePost(nil, nil))
		assert.Nil(t, def)
		assert.Equal(t, businessflow.MatchedNone, matched)
	})
}

func TestResolveForm(t *testing.T) {
	formA := uuid.New().String()
	formB := uuid.New().String()
	formGlobal := uuid.New().String()

	catX := uuid.New().String()
	tagZ := uuid.New().String()

	makeForm := func(id string, enabled bool) models.FormDefinition {
		return models.FormDefinition{
			ID:      id,
			Enabled: enabled,
			Config: models.FormConfig{
				Name: "form-" + id,
			},
		}
	}

	t.Run("category mapping wins over tag and global", func(t *testing.T) {
		cfg := &models.FormsConfig{
			Forms:               []models.FormDefinition{makeForm(formA, true), makeForm(formB, true), makeForm(formGlobal, true)},
			CategoryFormMapping: map[string]string{catX: formA},
			TagFormMapping:      map[string]string{tagZ: formB},
			GlobalDefaultFormID: utils.ToPtr(formGlobal),
		}
		post := makePost([]string{catX}, []string{tagZ})

		def, matched := businessflow.ResolveForm(cfg, post)
		require.NotNil(t, def)
		assert.Equal(t, formA, def.ID)
		assert.Equal(t, businessflow.MatchedCategory, matched)
	})

	t.Run("disabled form is skipped", func(t *testing.T) {
		cfg := &models.FormsConfig{
			Forms:               []models.FormDefinition{makeForm(formA, false), makeForm(formGlobal, true)},
			CategoryFormMapping: map[string]string{catX: formA},
			TagFormMapping:      map[string]string{},
			GlobalDefaultFormID: utils.ToPtr(formGlobal),
		}
		post := makePost([]string{catX}, nil)

		def, matched := businessflow.ResolveForm(cfg, post)
		require.NotNil(t, def)
		assert.Equal(t, formGlobal, def.ID)
		assert.Equal(t, businessflow.MatchedGlobal, matched)
	})

	t.Run("no rules yields none", func(t *testing.T) {
		cfg := &models.FormsConfig{
			Forms:               []models.FormDefinition{},
			CategoryFormMapping: map[string]string{},
			TagFormMapping:      map[string]string{},
		}
		def, matched := businessflow.ResolveForm(cfg, makePost([]string{catX}, nil))
		assert.Nil(t, def)
		assert.Equal(t, businessflow.MatchedNone, matched)
	})
}
