// Package businessflow contains the core business logic for CTA targeting,
// form targeting and bulk post workflows.
package businessflow

import (
	"errors"
	"fmt"

	"github.com/blogkit/blogkit/app/dto"
)

// Business flow error constants
var (
	// Workspace and access errors
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrWorkspaceInactive = errors.New("workspace is inactive")
	ErrAccessDenied      = errors.New("access denied")
	ErrNotAMember        = errors.New("user is not a member of the workspace")

	// Page errors
	ErrPageNotFound = errors.New("page not found")
	ErrPageInactive = errors.New("page is inactive")

	// CTA errors
	ErrCtaNotFound        = errors.New("cta not found")
	ErrCtaTargetsRequired = errors.New("at least one category or tag target is required")
	ErrCtaContentRequired = errors.New("either content or custom code is required")

	// Form errors
	ErrFormNotFound         = errors.New("form not found")
	ErrFormCategoryRequired = errors.New("at least one category target is required")
	ErrFormFieldsRequired   = errors.New("at least one field is required")
	ErrFormDisabled         = errors.New("form is disabled")
	ErrDuplicateFieldKey    = errors.New("duplicate field key")
	ErrFieldOptionsRequired = errors.New("options are required for select fields")

	// Targeting reference errors
	ErrInvalidCategoryRef = errors.New("category does not exist on this page")
	ErrInvalidTagRef      = errors.New("tag does not exist on this page")
	ErrInvalidAuthorRef   = errors.New("author does not exist in this workspace")

	// Post errors
	ErrPostNotFound      = errors.New("post not found")
	ErrNoPostsSelected   = errors.New("no posts selected")
	ErrTooManyPosts      = errors.New("too many posts selected")
	ErrUnknownBulkAction = errors.New("unknown bulk action")

	// Submission errors
	ErrSubmissionValuesRequired = errors.New("submission values are required")
	ErrUnknownFieldKey          = errors.New("unknown field key")
	ErrRequiredFieldMissing     = errors.New("required field is missing")
	ErrInvalidFieldValue        = errors.New("invalid field value")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// ValidationError carries the full list of field problems found in one
// request so clients can render every invalid input at once.
type ValidationError struct {
	Details []dto.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Details[0].Path, e.Details[0].Message)
	}
	return fmt.Sprintf("validation failed with %d errors", len(e.Details))
}

// NewValidationError creates a ValidationError from collected field errors
func NewValidationError(details []dto.FieldError) *ValidationError {
	return &ValidationError{Details: details}
}

// AsValidationError extracts a ValidationError from an error chain
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func IsWorkspaceNotFound(err error) bool {
	return errors.Is(err, ErrWorkspaceNotFound)
}

func IsWorkspaceInactive(err error) bool {
	return errors.Is(err, ErrWorkspaceInactive)
}

func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

func IsNotAMember(err error) bool {
	return errors.Is(err, ErrNotAMember)
}

func IsPageNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound)
}

func IsPageInactive(err error) bool {
	return errors.Is(err, ErrPageInactive)
}

func IsCtaNotFound(err error) bool {
	return errors.Is(err, ErrCtaNotFound)
}

func IsCtaTargetsRequired(err error) bool {
	return errors.Is(err, ErrCtaTargetsRequired)
}

func IsCtaContentRequired(err error) bool {
	return errors.Is(err, ErrCtaContentRequired)
}

func IsFormNotFound(err error) bool {
	return errors.Is(err, ErrFormNotFound)
}

func IsFormCategoryRequired(err error) bool {
	return errors.Is(err, ErrFormCategoryRequired)
}

func IsFormFieldsRequired(err error) bool {
	return errors.Is(err, ErrFormFieldsRequired)
}

func IsFormDisabled(err error) bool {
	return errors.Is(err, ErrFormDisabled)
}

func IsDuplicateFieldKey(err error) bool {
	return errors.Is(err, ErrDuplicateFieldKey)
}

func IsFieldOptionsRequired(err error) bool {
	return errors.Is(err, ErrFieldOptionsRequired)
}

func IsInvalidCategoryRef(err error) bool {
	return errors.Is(err, ErrInvalidCategoryRef)
}

func IsInvalidTagRef(err error) bool {
	return errors.Is(err, ErrInvalidTagRef)
}

func IsInvalidAuthorRef(err error) bool {
	return errors.Is(err, ErrInvalidAuthorRef)
}

func IsPostNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}

func IsNoPostsSelected(err error) bool {
	return errors.Is(err, ErrNoPostsSelected)
}

func IsTooManyPosts(err error) bool {
	return errors.Is(err, ErrTooManyPosts)
}

func IsUnknownBulkAction(err error) bool {
	return errors.Is(err, ErrUnknownBulkAction)
}

func IsSubmissionValuesRequired(err error) bool {
	return errors.Is(err, ErrSubmissionValuesRequired)
}

func IsUnknownFieldKey(err error) bool {
	return errors.Is(err, ErrUnknownFieldKey)
}

func IsRequiredFieldMissing(err error) bool {
	return errors.Is(err, ErrRequiredFieldMissing)
}

func IsInvalidFieldValue(err error) bool {
	return errors.Is(err, ErrInvalidFieldValue)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
