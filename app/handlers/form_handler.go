// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/blogkit/blogkit/app/dto"
	"github.com/blogkit/blogkit/app/middleware"
	businessflow "github.com/blogkit/blogkit/business_flow"
	"github.com/gofiber/fiber/v3"
)

// FormHandlerInterface defines the contract for form handlers
type FormHandlerInterface interface {
	CreateForm(c fiber.Ctx) error
	UpdateForm(c fiber.Ctx) error
	DeleteForm(c fiber.Ctx) error
	GetForm(c fiber.Ctx) error
	ListForms(c fiber.Ctx) error
	ResolveForm(c fiber.Ctx) error
}

// FormHandler handles form-related HTTP requests
type FormHandler struct {
	formFlow businessflow.FormFlow
}

// NewFormHandler creates a new form handler
func NewFormHandler(formFlow businessflow.FormFlow) *FormHandler {
	return &FormHandler{formFlow: formFlow}
}

// CreateForm handles form creation on a page
func (h *FormHandler) CreateForm(c fiber.Ctx) error {
	var req dto.CreateFormRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	req.PageUUID = c.Params("page_uuid")

	result, err := h.formFlow.CreateForm(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/forms"), &req, clientMetadata(c))
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

		log.Println("Form creation failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Form creation failed", "FORM_CREATION_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusCreated, "Form created successfully", result)
}

// UpdateForm handles updating an existing form
func (h *FormHandler) UpdateForm(c fiber.Ctx) error {
	var req dto.UpdateFormRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	req.PageUUID = c.Params("page_uuid")
	req.FormID = c.Params("form_id")

	result, err := h.formFlow.UpdateForm(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/forms/"+req.FormID), &req, clientMetadata(c))
	if err != nil {
		if resp, ok := validationErrorResponse(c, err); ok {
			return resp
		}
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}
		if businessflow.IsFormNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Form not found", "FORM_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidCategoryRef(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Unknown category reference", "INVALID_CATEGORY_REF", nil)
		}
		if businessflow.IsInvalidTagRef(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Unknown tag reference", "INVALID_TAG_REF", nil)
		}

		log.Println("Form update failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Form update failed", "FORM_UPDATE_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Form updated successfully", result)
}

// DeleteForm handles removing a form and its mapping entries
func (h *FormHandler) DeleteForm(c fiber.Ctx) error {
	req := dto.DeleteFormRequest{
		PageUUID: c.Params("page_uuid"),
		FormID:   c.Params("form_id"),
	}

	err := h.formFlow.DeleteForm(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/forms/"+req.FormID), &req, clientMetadata(c))
	if err != nil {
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}
		if businessflow.IsFormNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Form not found", "FORM_NOT_FOUND", nil)
		}

		log.Println("Form deletion failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Form deletion failed", "FORM_DELETION_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Form deleted successfully", nil)
}

// GetForm fetches a single form definition
func (h *FormHandler) GetForm(c fiber.Ctx) error {
	req := dto.GetFormRequest{
		PageUUID: c.Params("page_uuid"),
		FormID:   c.Params("form_id"),
	}

	result, err := h.formFlow.GetForm(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/forms/"+req.FormID), &req)
	if err != nil {
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}
		if businessflow.IsFormNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Form not found", "FORM_NOT_FOUND", nil)
		}

		log.Println("Form lookup failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Form lookup failed", "FORM_LOOKUP_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Form retrieved successfully", result)
}

// ListForms lists the form definitions of a page with their mapping indices
func (h *FormHandler) ListForms(c fiber.Ctx) error {
	req := dto.ListFormsRequest{PageUUID: c.Params("page_uuid")}

	result, err := h.formFlow.ListForms(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/forms"), &req)
	if err != nil {
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}

		log.Println("Form listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Form listing failed", "FORM_LOOKUP_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Forms retrieved successfully", result)
}

// ResolveForm resolves which form to display on a post
func (h *FormHandler) ResolveForm(c fiber.Ctx) error {
	req := dto.ResolveFormRequest{
		PageUUID: c.Params("page_uuid"),
		PostUUID: c.Params("post_uuid"),
	}

	result, err := h.formFlow.ResolveFormForPost(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/posts/"+req.PostUUID+"/form"), &req)
	if err != nil {
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}
		if businessflow.IsPostNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}

		log.Println("Form resolution failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Form resolution failed", "FORM_RESOLUTION_FAILED", nil)
	}

	middleware.ObserveResolution("form", result.Matched)
	return SuccessResponse(c, fiber.StatusOK, "Form resolved successfully", result)
}
