package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FormFieldType represents the input kind of a single form field
type FormFieldType string

const (
	FieldTypeEmail       FormFieldType = "EMAIL"
	FieldTypeShortText   FormFieldType = "SHORT_TEXT"
	FieldTypeLongText    FormFieldType = "LONG_TEXT"
	FieldTypePhone       FormFieldType = "PHONE"
	FieldTypeCountry     FormFieldType = "COUNTRY"
	FieldTypeSelect      FormFieldType = "SELECT"
	FieldTypeMultiSelect FormFieldType = "MULTI_SELECT"
)

// String returns the string representation of the field type
func (t FormFieldType) String() string {
	return string(t)
}

// Valid checks if the field type is valid
func (t FormFieldType) Valid() bool {
	switch t {
	case FieldTypeEmail, FieldTypeShortText, FieldTypeLongText,
		FieldTypePhone, FieldTypeCountry, FieldTypeSelect, FieldTypeMultiSelect:
		return true
	default:
		return false
	}
}

// NeedsOptions reports whether the field type requires a non-empty option list.
func (t FormFieldType) NeedsOptions() bool {
	return t == FieldTypeSelect || t == FieldTypeMultiSelect
}

// FormField is one input inside a form definition
type FormField struct {
	Key      string        `json:"key" validate:"required,max=64"`
	Label    string        `json:"label" validate:"required,max=255"`
	Type     FormFieldType `json:"type" validate:"required,oneof=EMAIL SHORT_TEXT LONG_TEXT PHONE COUNTRY SELECT MULTI_SELECT"`
	Required bool          `json:"required"`
	Options  []string      `json:"options,omitempty" validate:"omitempty,max=100,dive,max=255"`
}

// FormConfirmation controls what the visitor sees after submitting
type FormConfirmation struct {
	Message     *string `json:"message,omitempty" validate:"omitempty,max=2000"`
	RedirectURL *string `json:"redirectUrl,omitempty" validate:"omitempty,url,max=2048"`
}

// FormConfig is the author-editable configuration of a single form
type FormConfig struct {
	Name         string            `json:"name" validate:"required,max=255"`
	Heading      string            `json:"heading" validate:"required,max=255"`
	Description  *string           `json:"description,omitempty" validate:"omitempty,max=2000"`
	ButtonText   string            `json:"buttonText" validate:"required,max=120"`
	Fields       []FormField       `json:"fields" validate:"required,min=1,max=30,dive"`
	Confirmation *FormConfirmation `json:"confirmation,omitempty" validate:"omitempty"`
}

// FormDefinition is a form stored inside a page's forms_config blob,
// together with its targeting lists.
type FormDefinition struct {
	ID          string     `json:"id"`
	Config      FormConfig `json:"config"`
	CategoryIDs []string   `json:"categoryIds"`
	TagIDs      []string   `json:"tagIds"`
	Enabled     bool       `json:"enabled"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FormsConfig is the full jsonb blob stored in pages.forms_config. Unlike
// CTAs, the forms mapping indices live inside the blob itself.
type FormsConfig struct {
	Forms               []FormDefinition  `json:"forms"`
	CategoryFormMapping map[string]string `json:"categoryFormMapping"`
	TagFormMapping      map[string]string `json:"tagFormMapping"`
	GlobalDefaultFormID *string           `json:"globalDefaultFormId,omitempty"`
	LastUpdated         *time.Time        `json:"lastUpdated,omitempty"`
}

// Value implements the driver.Valuer interface for FormsConfig
func (c FormsConfig) Value() (driver.Value, error) {
	if c.Forms == nil {
		c.Forms = []FormDefinition{}
	}
	if c.CategoryFormMapping == nil {
		c.CategoryFormMapping = map[string]string{}
	}
	if c.TagFormMapping == nil {
		c.TagFormMapping = map[string]string{}
	}
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for FormsConfig
func (c *FormsConfig) Scan(value any) error {
	if value == nil {
		*c = FormsConfig{
			Forms:               []FormDefinition{},
			CategoryFormMapping: map[string]string{},
			TagFormMapping:      map[string]string{},
		}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into FormsConfig", value)
	}

	if err := json.Unmarshal(bytes, c); err != nil {
		return err
	}
	if c.Forms == nil {
		c.Forms = []FormDefinition{}
	}
	if c.CategoryFormMapping == nil {
		c.CategoryFormMapping = map[string]string{}
	}
	if c.TagFormMapping == nil {
		c.TagFormMapping = map[string]string{}
	}
	return nil
}

// Find returns the definition with the given id, or nil when absent.
func (c *FormsConfig) Find(id string) *FormDefinition {
	for i := range c.Forms {
		if c.Forms[i].ID == id {
			return &c.Forms[i]
		}
	}
	return nil
}

// FindField returns the field with the given key, or nil when absent.
func (f *FormDefinition) FindField(key string) *FormField {
	for i := range f.Config.Fields {
		if f.Config.Fields[i].Key == key {
			return &f.Config.Fields[i]
		}
	}
	return nil
}
