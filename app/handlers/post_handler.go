// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/blogkit/blogkit/app/dto"
	businessflow "github.com/blogkit/blogkit/business_flow"
	"github.com/gofiber/fiber/v3"
)

// PostHandlerInterface defines the contract for post handlers
type PostHandlerInterface interface {
	BulkApply(c fiber.Ctx) error
	ListPosts(c fiber.Ctx) error
}

// PostHandler handles bulk post actions and listings
type PostHandler struct {
	bulkPostFlow businessflow.BulkPostFlow
}

// NewPostHandler creates a new post handler
func NewPostHandler(bulkPostFlow businessflow.BulkPostFlow) *PostHandler {
	return &PostHandler{bulkPostFlow: bulkPostFlow}
}

// BulkApply runs one action over a set of posts on a page
func (h *PostHandler) BulkApply(c fiber.Ctx) error {
	var req dto.BulkPostRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", nil)
	}
	req.PageUUID = c.Params("page_uuid")

	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "User ID not found in context", "MISSING_USER_ID", nil)
	}
	req.UserID = userID

	result, err := h.bulkPostFlow.BulkApply(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/posts/bulk"), &req, clientMetadata(c))
	if err != nil {
		if resp, ok := validationErrorResponse(c, err); ok {
			return resp
		}
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}
		if businessflow.IsNotAMember(err) {
			return ErrorResponse(c, fiber.StatusForbidden, "Not a member of this workspace", "NOT_A_MEMBER", nil)
		}
		if businessflow.IsAccessDenied(err) {
			return ErrorResponse(c, fiber.StatusForbidden, "Role does not allow content changes", "ACCESS_DENIED", nil)
		}
		if businessflow.IsPostNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}
		if businessflow.IsNoPostsSelected(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "No posts selected", "NO_POSTS_SELECTED", nil)
		}
		if businessflow.IsTooManyPosts(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Too many posts in one request", "TOO_MANY_POSTS", nil)
		}
		if businessflow.IsUnknownBulkAction(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Unknown bulk action", "UNKNOWN_BULK_ACTION", nil)
		}
		if businessflow.IsInvalidCategoryRef(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Unknown category reference", "INVALID_CATEGORY_REF", nil)
		}
		if businessflow.IsInvalidTagRef(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Unknown tag reference", "INVALID_TAG_REF", nil)
		}
		if businessflow.IsInvalidAuthorRef(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Unknown author reference", "INVALID_AUTHOR_REF", nil)
		}

		log.Println("Bulk post action failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Bulk post action failed", "BULK_ACTION_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Bulk action applied", result)
}

// ListPosts lists posts of a page with pagination
func (h *PostHandler) ListPosts(c fiber.Ctx) error {
	req := dto.ListPostsRequest{
		PageUUID: c.Params("page_uuid"),
		Status:   c.Query("status"),
	}
	req.Page, _ = strconv.Atoi(c.Query("page", "1"))
	req.PageSize, _ = strconv.Atoi(c.Query("page_size", "10"))

	result, err := h.bulkPostFlow.ListPosts(createRequestContext(c, "/api/v1/pages/"+req.PageUUID+"/posts"), &req)
	if err != nil {
		if resp, ok := validationErrorResponse(c, err); ok {
			return resp
		}
		if resp, ok := pageErrorResponse(c, err); ok {
			return resp
		}

		log.Println("Post listing failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Post listing failed", "POST_LOOKUP_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Posts retrieved successfully", result)
}
