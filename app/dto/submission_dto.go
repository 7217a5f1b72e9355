package dto

// SubmitFormRequest records a visitor submission against a form. Values are
// keyed by field key and validated against the form definition.
type SubmitFormRequest struct {
	PageUUID string         `json:"page_uuid" validate:"required,uuid4"`
	FormID   string         `json:"form_id" validate:"required,uuid4"`
	PostUUID *string        `json:"post_uuid" validate:"omitempty,uuid4"`
	Values   map[string]any `json:"values" validate:"required"`
}

// SubmitFormResponse acknowledges a stored submission and echoes the
// confirmation behaviour configured on the form.
type SubmitFormResponse struct {
	SubmissionUUID string  `json:"submission_uuid"`
	Message        *string `json:"message,omitempty"`
	RedirectURL    *string `json:"redirect_url,omitempty"`
}

// ListSubmissionsRequest lists submissions of one form
type ListSubmissionsRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
	FormID   string `json:"form_id" validate:"required,uuid4"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// SubmissionDTO is the API projection of a stored submission
type SubmissionDTO struct {
	UUID      string         `json:"uuid"`
	FormID    string         `json:"form_id"`
	PostUUID  *string        `json:"post_uuid"`
	Values    map[string]any `json:"values"`
	CreatedAt string         `json:"created_at"`
}

// ListSubmissionsResponse lists submissions with pagination
type ListSubmissionsResponse struct {
	Submissions []SubmissionDTO `json:"submissions"`
	Pagination  PaginationInfo  `json:"pagination"`
}

// ExportSubmissionsRequest exports all submissions of one form as xlsx
type ExportSubmissionsRequest struct {
	PageUUID string `json:"page_uuid" validate:"required,uuid4"`
	FormID   string `json:"form_id" validate:"required,uuid4"`
}

// ExportSubmissionsResponse carries the generated workbook
type ExportSubmissionsResponse struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"-"`
}
