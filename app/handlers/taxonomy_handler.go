// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/blogkit/blogkit/app/dto"
	businessflow "github.com/blogkit/blogkit/business_flow"
	"github.com/gofiber/fiber/v3"
)

// TaxonomyHandlerInterface defines the contract for taxonomy handlers
type TaxonomyHandlerInterface interface {
	CreateCategory(c fiber.Ctx) error
	ListCategories(c fiber.Ctx) error
	CreateTag(c fiber.Ctx) error
	ListTags(c fiber.Ctx) error
}

// TaxonomyHandler handles category and tag HTTP requests
type TaxonomyHandler struct {
	taxonomyFlow businessflow.TaxonomyFlow
}

// NewTaxonomyHandler creates a new taxonomy handler
func NewTaxonomyHandler(taxonomyFlow businessflow.TaxonomyFlow) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyFlow: taxonomyFlow}
}

// CreateCategory creates a category on a page
func (h *TaxonomyHandler) CreateCategory(c fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	req.PageUUID = c.Params("page_uuid")

	result, err := h.taxonomyFlow.CreateCategory(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/categories"), &req, clientMetadata(c))
	if err != nil {
		if resp, ok := validationErrorResponse(c, err); ok {
			return resp
		}
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}

		log.Println("Category creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Category creation failed", "CATEGORY_CREATION_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusCreated, "Category created successfully", result)
}

// ListCategories lists all categories of a page
func (h *TaxonomyHandler) ListCategories(c fiber.Ctx) error {
	req := dto.ListTaxonomyRequest{PageUUID: c.Params("page_uuid")}

	result, err := h.taxonomyFlow.ListCategories(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/categories"), &req)
	if err != nil {
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}

		log.Println("Category listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Category listing failed", "CATEGORY_LOOKUP_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Categories retrieved successfully", result)
}

// CreateTag creates a tag on a page
func (h *TaxonomyHandler) CreateTag(c fiber.Ctx) error {
	var req dto.CreateTagRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	req.PageUUID = c.Params("page_uuid")

	result, err := h.taxonomyFlow.CreateTag(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/tags"), &req, clientMetadata(c))
	if err != nil {
		if resp, ok := validationErrorResponse(c, err); ok {
			return resp
		}
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}

		log.Println("Tag creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Tag creation failed", "TAG_CREATION_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusCreated, "Tag created successfully", result)
}

// ListTags lists all tags of a page
func (h *TaxonomyHandler) ListTags(c fiber.Ctx) error {
	req := dto.ListTaxonomyRequest{PageUUID: c.Params("page_uuid")}

	result, err := h.taxonomyFlow.ListTags(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/tags"), &req)
	if err != nil {
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}

		log.Println("Tag listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Tag listing failed", "TAG_LOOKUP_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Tags retrieved successfully", result)
}
