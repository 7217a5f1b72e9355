// Package businessflow contains the core business logic for form submission workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/blogkit/blogkit/app/dto"
	"github.com/blogkit/blogkit/models"
	"github.com/blogkit/blogkit/repository"
	"github.com/blogkit/blogkit/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// SubmissionFlow handles visitor form submissions and their export
type SubmissionFlow interface {
	SubmitForm(ctx context.Context, req *dto.SubmitFormRequest, metadata *ClientMetadata) (*dto.SubmitFormResponse, error)
	ListSubmissions(ctx context.Context, req *dto.ListSubmissionsRequest) (*dto.ListSubmissionsResponse, error)
	ExportSubmissions(ctx context.Context, req *dto.ExportSubmissionsRequest) (*dto.ExportSubmissionsResponse, error)
}

// SubmissionFlowImpl implements the submission business flow
type SubmissionFlowImpl struct {
	pageRepo       repository.PageRepository
	submissionRepo repository.FormSubmissionRepository
	auditRepo      repository.AuditLogRepository
	validate       *validator.Validate
	db             *gorm.DB
}

// NewSubmissionFlow creates a new submission flow instance
func NewSubmissionFlow(
	pageRepo repository.PageRepository,
	submissionRepo repository.FormSubmissionRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) SubmissionFlow {
	return &SubmissionFlowImpl{
		pageRepo:       pageRepo,
		submissionRepo: submissionRepo,
		auditRepo:      auditRepo,
		validate:       newValidator(),
		db:             db,
	}
}

// SubmitForm validates a visitor submission against the form definition and
// stores it. Disabled forms reject submissions.
func (s *SubmissionFlowImpl) SubmitForm(ctx context.Context, req *dto.SubmitFormRequest, metadata *ClientMetadata) (*dto.SubmitFormResponse, error) {
	if details := collectFieldErrors(s.validate.Struct(req), ""); len(details) > 0 {
		return nil, NewValidationError(details)
	}

	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.pageRepo.LoadFormsConfig(ctx, page.ID)
	if err != nil {
		return nil, NewBusinessError("FORM_LOOKUP_FAILED", "Failed to load forms config", err)
	}

	def := cfg.Find(req.FormID)
	if def == nil {
		return nil, ErrFormNotFound
	}
	if !def.Enabled {
		return nil, ErrFormDisabled
	}

	if err := validateSubmissionValues(def, req.Values); err != nil {
		return nil, err
	}

	row := &models.FormSubmission{
		PageID:   page.ID,
		FormID:   def.ID,
		PostUUID: req.PostUUID,
		Payload:  models.JSONMap(req.Values),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			row.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			row.UserAgent = &metadata.UserAgent
		}
	}

	if err := s.submissionRepo.Save(ctx, row); err != nil {
		return nil, NewBusinessError("SUBMISSION_FAILED", "Failed to store submission", err)
	}

	msg := fmt.Sprintf("Form submission stored: %s", row.UUID.String())
	_ = s.createAuditLog(ctx, page, models.ActionFormSubmitted, msg, def.ID, metadata)

	resp := &dto.SubmitFormResponse{SubmissionUUID: row.UUID.String()}
	if def.Config.Confirmation != nil {
		resp.Message = def.Config.Confirmation.Message
		resp.RedirectURL = def.Config.Confirmation.RedirectURL
	}
	return resp, nil
}

// ListSubmissions lists submissions of one form with pagination
func (s *SubmissionFlowImpl) ListSubmissions(ctx context.Context, req *dto.ListSubmissionsRequest) (*dto.ListSubmissionsResponse, error) {
	if details := collectFieldErrors(s.validate.Struct(req), ""); len(details) > 0 {
		return nil, NewValidationError(details)
	}

	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	pageNum := req.Page
	if pageNum < 1 {
		pageNum = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = utils.DefaultPageSize
	}
	if pageSize > utils.MaxPageSize {
		pageSize = utils.MaxPageSize
	}

	filter := models.FormSubmissionFilter{PageID: &page.ID, FormID: &req.FormID}
	total, err := s.submissionRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("SUBMISSION_LOOKUP_FAILED", "Failed to count submissions", err)
	}

	rows, err := s.submissionRepo.ListByForm(ctx, page.ID, req.FormID, pageSize, (pageNum-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("SUBMISSION_LOOKUP_FAILED", "Failed to list submissions", err)
	}

	out := make([]dto.SubmissionDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToSubmissionDTO(*r))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &dto.ListSubmissionsResponse{
		Submissions: out,
		Pagination: dto.PaginationInfo{
			Page:       pageNum,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// ExportSubmissions renders every submission of a form into an xlsx
// workbook, one column per field in definition order.
func (s *SubmissionFlowImpl) ExportSubmissions(ctx context.Context, req *dto.ExportSubmissionsRequest) (*dto.ExportSubmissionsResponse, error) {
	page, err := s.getPage(ctx, req.PageUUID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.pageRepo.LoadFormsConfig(ctx, page.ID)
	if err != nil {
		return nil, NewBusinessError("FORM_LOOKUP_FAILED", "Failed to load forms config", err)
	}

	def := cfg.Find(req.FormID)
	if def == nil {
		return nil, ErrFormNotFound
	}

	rows, err := s.submissionRepo.ListByForm(ctx, page.ID, req.FormID, 0, 0)
	if err != nil {
		return nil, NewBusinessError("SUBMISSION_LOOKUP_FAILED", "Failed to list submissions", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Submissions"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, NewBusinessError("EXPORT_FAILED", "Failed to create worksheet", err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Submitted At"}
	for _, field := range def.Config.Fields {
		headers = append(headers, field.Label)
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, sub := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetCellValue(sheet, cell, sub.CreatedAt.Format("2006-01-02 15:04:05"))
		for j, field := range def.Config.Fields {
			cell, _ := excelize.CoordinatesToCellName(j+2, i+2)
			_ = f.SetCellValue(sheet, cell, formatCellValue(sub.Payload[field.Key]))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, NewBusinessError("EXPORT_FAILED", "Failed to write workbook", err)
	}

	return &dto.ExportSubmissionsResponse{
		FileName: fmt.Sprintf("submissions-%s.xlsx", req.FormID),
		Content:  buf.Bytes(),
	}, nil
}

func formatCellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

// validateSubmissionValues checks the submitted values against the form
// definition: unknown keys are rejected, required fields must be present
// and every value must fit its field type.
func validateSubmissionValues(def *models.FormDefinition, values map[string]any) error {
	if len(values) == 0 {
		return ErrSubmissionValuesRequired
	}

	var details []dto.FieldError

	for key := range values {
		if def.FindField(key) == nil {
			details = append(details, dto.FieldError{
				Path:    "values." + key,
				Message: ErrUnknownFieldKey.Error(),
			})
		}
	}

	for _, field := range def.Config.Fields {
		raw, present := values[field.Key]
		if !present || isEmptyValue(raw) {
			if field.Required {
				details = append(details, dto.FieldError{
					Path:    "values." + field.Key,
					Message: ErrRequiredFieldMissing.Error(),
				})
			}
			continue
		}

		if msg := checkFieldValue(field, raw); msg != "" {
			details = append(details, dto.FieldError{
				Path:    "values." + field.Key,
				Message: msg,
			})
		}
	}

	if len(details) > 0 {
		return NewValidationError(details)
	}
	return nil
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	default:
		return false
	}
}

func checkFieldValue(field models.FormField, raw any) string {
	switch field.Type {
	case models.FieldTypeMultiSelect:
		items, ok := raw.([]any)
		if !ok {
			return "must be a list of options"
		}
		for _, item := range items {
			s, ok := item.(string)
			if !ok || !containsOption(field.Options, s) {
				return "contains an unknown option"
			}
		}
		return ""
	case models.FieldTypeSelect:
		s, ok := raw.(string)
		if !ok || !containsOption(field.Options, s) {
			return "must be one of the configured options"
		}
		return ""
	case models.FieldTypeEmail:
		s, ok := raw.(string)
		if !ok || !strings.Contains(s, "@") || strings.Contains(s, " ") {
			return "must be a valid email address"
		}
		return ""
	case models.FieldTypePhone:
		s, ok := raw.(string)
		if !ok {
			return "must be a string"
		}
		for _, r := range s {
			if r != '+' && r != '-' && r != ' ' && (r < '0' || r > '9') {
				return "must be a valid phone number"
			}
		}
		return ""
	default:
		if _, ok := raw.(string); !ok {
			return "must be a string"
		}
		return ""
	}
}

func containsOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// getPage resolves an active page by uuid string
func (s *SubmissionFlowImpl) getPage(ctx context.Context, pageUUID string) (*models.Page, error) {
	id, err := uuid.Parse(pageUUID)
	if err != nil {
		return nil, ErrPageNotFound
	}
	page, err := s.pageRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PAGE_LOOKUP_FAILED", "Failed to lookup page", err)
	}
	if page == nil {
		return nil, ErrPageNotFound
	}
	if !utils.IsTrue(page.IsActive) {
		return nil, ErrPageInactive
	}
	return page, nil
}

// createAuditLog creates an audit log entry for a submission operation
func (s *SubmissionFlowImpl) createAuditLog(ctx context.Context, page *models.Page, action, description, entityID string, metadata *ClientMetadata) error {
	audit := &models.AuditLog{
		WorkspaceID: &page.WorkspaceID,
		Action:      action,
		Description: description,
		EntityID:    &entityID,
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			audit.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			audit.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			audit.RequestID = &metadata.RequestID
		}
	}
	return s.auditRepo.Save(ctx, audit)
}
