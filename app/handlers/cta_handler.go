// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/blogkit/blogkit/app/dto"
	"github.com/blogkit/blogkit/app/middleware"
	businessflow "github.com/blogkit/blogkit/business_flow"
	"github.com/gofiber/fiber/v3"
)

// CtaHandlerInterface defines the contract for CTA handlers
type CtaHandlerInterface interface {
	CreateCta(c fiber.Ctx) error
	UpdateCta(c fiber.Ctx) error
	DeleteCta(c fiber.Ctx) error
	GetCta(c fiber.Ctx) error
	ListCtas(c fiber.Ctx) error
	ResolveCta(c fiber.Ctx) error
}

// CtaHandler handles CTA-related HTTP requests
type CtaHandler struct {
	ctaFlow businessflow.CtaFlow
}

// NewCtaHandler creates a new CTA handler
func NewCtaHandler(ctaFlow businessflow.CtaFlow) *CtaHandler {
	return &CtaHandler{ctaFlow: ctaFlow}
}

// CreateCta handles CTA creation on a page
func (h *CtaHandler) CreateCta(c fiber.Ctx) error {
	var req dto.CreateCtaRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	req.PageUUID = c.Params("page_uuid")

	result, err := h.ctaFlow.CreateCta(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/ctas"), &req, clientMetadata(c))
	if err != nil {
		if resp, ok := validationErrorResponse(c, err); ok {
			return resp
		}
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}
		if businessflow.IsInvalidCategoryRef(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Unknown category reference", "INVALID_CATEGORY_REF", nil)
		}
		if businessflow.IsInvalidTagRef(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Unknown tag reference", "INVALID_TAG_REF", nil)
		}

		log.Println("CTA creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "CTA creation failed", "CTA_CREATION_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusCreated, "CTA created successfully", result)
}

// UpdateCta handles updating an existing CTA
func (h *CtaHandler) UpdateCta(c fiber.Ctx) error {
	var req dto.UpdateCtaRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	req.PageUUID = c.Params("page_uuid")
	req.CtaID = c.Params("cta_id")

	result, err := h.ctaFlow.UpdateCta(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/ctas/"+req.CtaID), &req, clientMetadata(c))
	if err != nil {
		if resp, ok := validationErrorResponse(c, err); ok {
			return resp
		}
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}
		if businessflow.IsCtaNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "CTA not found", "CTA_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidCategoryRef(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Unknown category reference", "INVALID_CATEGORY_REF", nil)
		}
		if businessflow.IsInvalidTagRef(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Unknown tag reference", "INVALID_TAG_REF", nil)
		}

		log.Println("CTA update failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "CTA update failed", "CTA_UPDATE_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "CTA updated successfully", result)
}

// DeleteCta handles removing a CTA and its mapping entries
func (h *CtaHandler) DeleteCta(c fiber.Ctx) error {
	req := dto.DeleteCtaRequest{
		PageUUID: c.Params("page_uuid"),
		CtaID:    c.Params("cta_id"),
	}

	err := h.ctaFlow.DeleteCta(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/ctas/"+req.CtaID), &req, clientMetadata(c))
	if err != nil {
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}
		if businessflow.IsCtaNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "CTA not found", "CTA_NOT_FOUND", nil)
		}

		log.Println("CTA deletion failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "CTA deletion failed", "CTA_DELETION_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "CTA deleted successfully", nil)
}

// GetCta fetches a single CTA definition
func (h *CtaHandler) GetCta(c fiber.Ctx) error {
	req := dto.GetCtaRequest{
		PageUUID: c.Params("page_uuid"),
		CtaID:    c.Params("cta_id"),
	}

	result, err := h.ctaFlow.GetCta(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/ctas/"+req.CtaID), &req)
	if err != nil {
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}
		if businessflow.IsCtaNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "CTA not found", "CTA_NOT_FOUND", nil)
		}

		log.Println("CTA lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "CTA lookup failed", "CTA_LOOKUP_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "CTA retrieved successfully", result)
}

// ListCtas lists the CTA definitions of a page with their mapping indices
func (h *CtaHandler) ListCtas(c fiber.Ctx) error {
	req := dto.ListCtasRequest{PageUUID: c.Params("page_uuid")}

	result, err := h.ctaFlow.ListCtas(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/ctas"), &req)
	if err != nil {
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}

		log.Println("CTA listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "CTA listing failed", "CTA_LOOKUP_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "CTAs retrieved successfully", result)
}

// ResolveCta resolves which CTA to display on a post
func (h *CtaHandler) ResolveCta(c fiber.Ctx) error {
	req := dto.ResolveCtaRequest{
		PageUUID: c.Params("page_uuid"),
		PostUUID: c.Params("post_uuid"),
	}

	result, err := h.ctaFlow.ResolveCtaForPost(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/posts/"+req.PostUUID+"/cta"), &req)
	if err != nil {
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}
		if businessflow.IsPostNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}

		log.Println("CTA resolution failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "CTA resolution failed", "CTA_RESOLUTION_FAILED", nil)
	}

	middleware.ObserveResolution("cta", result.Matched)
	return SuccessResponse(c, fiber.StatusOK, "CTA resolved successfully", result)
}
