// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/blogkit/blogkit/app/dto"
	businessflow "github.com/blogkit/blogkit/business_flow"
	"github.com/gofiber/fiber/v3"
)

// SubmissionHandlerInterface defines the contract for submission handlers
type SubmissionHandlerInterface interface {
	SubmitForm(c fiber.Ctx) error
	ListSubmissions(c fiber.Ctx) error
	ExportSubmissions(c fiber.Ctx) error
}

// SubmissionHandler handles visitor form submissions and their export
type SubmissionHandler struct {
	submissionFlow businessflow.SubmissionFlow
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionFlow businessflow.SubmissionFlow) *SubmissionHandler {
	return &SubmissionHandler{submissionFlow: submissionFlow}
}

// SubmitForm records a visitor submission. This endpoint is public.
func (h *SubmissionHandler) SubmitForm(c fiber.Ctx) error {
	var req dto.SubmitFormRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	req.PageUUID = c.Params("page_uuid")
	req.FormID = c.Params("form_id")

	result, err := h.submissionFlow.SubmitForm(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/forms/"+req.FormID+"/submissions"), &req, clientMetadata(c))
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
		if businessflow.IsFormDisabled(err) {
			return ErrorResponse(c, fiber.StatusForbidden, "Form is disabled", "FORM_DISABLED", nil)
		}
		if businessflow.IsSubmissionValuesRequired(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Submission values are required", "SUBMISSION_VALUES_REQUIRED", nil)
		}

		log.Println("Form submission failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Form submission failed", "SUBMISSION_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusCreated, "Submission recorded successfully", result)
}

// ListSubmissions lists submissions of one form with pagination
func (h *SubmissionHandler) ListSubmissions(c fiber.Ctx) error {
	req := dto.ListSubmissionsRequest{
		PageUUID: c.Params("page_uuid"),
		FormID:   c.Params("form_id"),
	}
	req.Page, _ = strconv.Atoi(c.Query("page", "1"))
	req.PageSize, _ = strconv.Atoi(c.Query("page_size", "10"))

	result, err := h.submissionFlow.ListSubmissions(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/forms/"+req.FormID+"/submissions"), &req)
	if err != nil {
		if resp, ok := validationErrorResponse(c, err); ok {
			return resp
		}
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}

		log.Println("Submission listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Submission listing failed", "SUBMISSION_LOOKUP_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Submissions retrieved successfully", result)
}

// ExportSubmissions streams all submissions of one form as an xlsx download
func (h *SubmissionHandler) ExportSubmissions(c fiber.Ctx) error {
	req := dto.ExportSubmissionsRequest{
		PageUUID: c.Params("page_uuid"),
		FormID:   c.Params("form_id"),
	}

	result, err := h.submissionFlow.ExportSubmissions(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/forms/"+req.FormID+"/submissions/export"), &req)
	if err != nil {
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}
		if businessflow.IsFormNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Form not found", "FORM_NOT_FOUND", nil)
		}

		log.Println("Submission export failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Submission export failed", "EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+result.FileName+`"`)
	return c.Status(fiber.StatusOK).Send(result.Content)
}
