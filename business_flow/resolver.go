package businessflow

import "github.com/blogkit/blogkit/models"

// Resolution match kinds
const (
	MatchedCategory = "category"
	MatchedTag      = "tag"
	MatchedGlobal   = "global"
	MatchedNone     = "none"
)

// ResolveCta picks the CTA to display on a post. Precedence: the first post
// category (in the post's own order) with a mapping entry wins, then the
// first mapped post tag, then the page-wide default. Inactive and dangling
// ids are skipped at each step rather than aborting resolution.
func ResolveCta(cfg *models.CtasConfig, categoryMapping, tagMapping models.StringMap, globalDefaultCtaID *string, post *models.BlogPost) (*models.CtaDefinition, string) {
	if cfg == nil || post == nil {
		return nil, MatchedNone
	}

	pick := func(id string) *models.CtaDefinition {
		def := cfg.Find(id)
		if def == nil || !def.IsActive {
			return nil
		}
		return def
	}

	for _, catID := range post.CategoryIDs {
		if ctaID, ok := categoryMapping[catID]; ok {
			if def := pick(ctaID); def != nil {
				return def, MatchedCategory
			}
		}
	}

	for _, tagID := range post.TagIDs {
		if ctaID, ok := tagMapping[tagID]; ok {
			if def := pick(ctaID); def != nil {
				return def, MatchedTag
			}
		}
	}

	if globalDefaultCtaID != nil {
		if def := pick(*globalDefaultCtaID); def != nil {
			return def, MatchedGlobal
		}
	}

	return nil, MatchedNone
}

// ResolveForm picks the form to display on a post with the same precedence
// as ResolveCta. The mapping indices live inside the forms blob.
func ResolveForm(cfg *models.FormsConfig, post *models.BlogPost) (*models.FormDefinition, string) {
	if cfg == nil || post == nil {
		return nil, MatchedNone
	}

	pick := func(id string) *models.FormDefinition {
		def := cfg.Find(id)
		if def == nil || !def.Enabled {
			return nil
		}
		return def
	}

	for _, catID := range post.CategoryIDs {
		if formID, ok := cfg.CategoryFormMapping[catID]; ok {
			if def := pick(formID); def != nil {
				return def, MatchedCategory
			}
		}
	}

	for _, tagID := range post.TagIDs {
		if formID, ok := cfg.TagFormMapping[tagID]; ok {
			if def := pick(formID); def != nil {
				return def, MatchedTag
			}
		}
	}

	if cfg.GlobalDefaultFormID != nil {
		if def := pick(*cfg.GlobalDefaultFormID); def != nil {
			return def, MatchedGlobal
		}
	}

	return nil, MatchedNone
}

// reindexCtaMappings rebuilds the category and tag mapping indices and the
// global default pointer after a definition's targeting changed. Entries
// owned by other CTAs are preserved; entries previously pointing at this CTA
// but no longer claimed are removed. A global default owned by this CTA is
// kept even when the sentinel is dropped from its categories, so an explicit
// page-wide default survives a retargeting until another CTA claims it.
func reindexCtaMappings(def *models.CtaDefinition, categoryMapping, tagMapping models.StringMap, globalDefaultCtaID *string, globalSentinel string) (models.StringMap, models.StringMap, *string) {
	catOut := categoryMapping.Clone()
	tagOut := tagMapping.Clone()

	for catID, ctaID := range catOut {
		if ctaID == def.ID {
			delete(catOut, catID)
		}
	}
	for tagID, ctaID := range tagOut {
		if ctaID == def.ID {
			delete(tagOut, tagID)
		}
	}

	globalOut := globalDefaultCtaID
	for _, catID := range def.Categories {
		if catID == globalSentinel {
			id := def.ID
			globalOut = &id
			continue
		}
		catOut[catID] = def.ID
	}
	for _, tagID := range def.Tags {
		tagOut[tagID] = def.ID
	}

	return catOut, tagOut, globalOut
}

// unindexCta removes every mapping entry owned by the given CTA id,
// including the global default when it points at it.
func unindexCta(ctaID string, categoryMapping, tagMapping models.StringMap, globalDefaultCtaID *string) (models.StringMap, models.StringMap, *string) {
	catOut := categoryMapping.Clone()
	tagOut := tagMapping.Clone()

	for catID, id := range catOut {
		if id == ctaID {
			delete(catOut, catID)
		}
	}
	for tagID, id := range tagOut {
		if id == ctaID {
			delete(tagOut, tagID)
		}
	}

	globalOut := globalDefaultCtaID
	if globalOut != nil && *globalOut == ctaID {
		globalOut = nil
	}

	return catOut, tagOut, globalOut
}

// reindexFormMappings mirrors reindexCtaMappings for the forms blob.
func reindexFormMappings(cfg *models.FormsConfig, def *models.FormDefinition, globalSentinel string) {
	for catID, formID := range cfg.CategoryFormMapping {
		if formID == def.ID {
			delete(cfg.CategoryFormMapping, catID)
		}
	}
	for tagID, formID := range cfg.TagFormMapping {
		if formID == def.ID {
			delete(cfg.TagFormMapping, tagID)
		}
	}

	for _, catID := range def.CategoryIDs {
		if catID == globalSentinel {
			id := def.ID
			cfg.GlobalDefaultFormID = &id
			continue
		}
		cfg.CategoryFormMapping[catID] = def.ID
	}
	for _, tagID := range def.TagIDs {
		cfg.TagFormMapping[tagID] = def.ID
	}
}

// unindexForm removes every mapping entry owned by the given form id.
func unindexForm(cfg *models.FormsConfig, formID string) {
	for catID, id := range cfg.CategoryFormMapping {
		if id == formID {
			delete(cfg.CategoryFormMapping, catID)
		}
	}
	for tagID, id := range cfg.TagFormMapping {
		if id == formID {
			delete(cfg.TagFormMapping, tagID)
		}
	}
	if cfg.GlobalDefaultFormID != nil && *cfg.GlobalDefaultFormID == formID {
		cfg.GlobalDefaultFormID = nil
	}
}
