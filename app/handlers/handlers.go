// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"time"

	"github.com/blogkit/blogkit/app/dto"
	businessflow "github.com/blogkit/blogkit/business_flow"
	"github.com/blogkit/blogkit/utils"
	"github.com/gofiber/fiber/v3"
)

// ErrorResponse writes the standard error envelope
func ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details []dto.FieldError) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: &dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// SuccessResponse writes the standard success envelope
func SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// clientMetadata builds audit metadata from the request
func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))
	return metadata
}

// validationErrorResponse turns a flow-level ValidationError into a 400 with
// per-field paths; returns false when err is some other error.
func validationErrorResponse(c fiber.Ctx, err error) (error, bool) {
	ve, ok := businessflow.AsValidationError(err)
	if !ok {
		return nil, false
	}
	return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", ve.Details), true
}

// pageErrorResponse handles the page lookup errors shared by every endpoint;
// returns false when err is some other error.
func pageErrorResponse(c fiber.Ctx, err error) (error, bool) {
	if businessflow.IsPageNotFound(err) {
		return ErrorResponse(c, fiber.StatusNotFound, "Page not found", "PAGE_NOT_FOUND", nil), true
	}
	if businessflow.IsPageInactive(err) {
		return ErrorResponse(c, fiber.StatusForbidden, "Page is inactive", "PAGE_INACTIVE", nil), true
	}
	return nil, false
}

func createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get(businessflow.RequestIDKey))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
