package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CtaType represents the placement of a call-to-action on a rendered post
type CtaType string

const (
	CtaTypeEndOfPost CtaType = "END_OF_POST"
	CtaTypeSidebar   CtaType = "SIDEBAR"
	CtaTypeInLine    CtaType = "IN_LINE"
	CtaTypePopUp     CtaType = "POP_UP"
	CtaTypeFloating  CtaType = "FLOATING"
)

// String returns the string representation of the CTA type
func (t CtaType) String() string {
	return string(t)
}

// Valid checks if the CTA type is valid
func (t CtaType) Valid() bool {
	switch t {
	case CtaTypeEndOfPost, CtaTypeSidebar, CtaTypeInLine, CtaTypePopUp, CtaTypeFloating:
		return true
	default:
		return false
	}
}

// CtaTrigger represents when a pop-up or floating CTA is shown
type CtaTrigger string

const (
	CtaTriggerTimeDelay  CtaTrigger = "TIME_DELAY"
	CtaTriggerScroll     CtaTrigger = "SCROLL"
	CtaTriggerExitIntent CtaTrigger = "EXIT_INTENT"
)

// String returns the string representation of the trigger
func (t CtaTrigger) String() string {
	return string(t)
}

// Valid checks if the trigger is valid
func (t CtaTrigger) Valid() bool {
	switch t {
	case CtaTriggerTimeDelay, CtaTriggerScroll, CtaTriggerExitIntent:
		return true
	default:
		return false
	}
}

// CtaButton is a labelled link inside CTA content
type CtaButton struct {
	Text string `json:"text" validate:"required,max=120"`
	URL  string `json:"url" validate:"required,url,max=2048"`
}

// CtaContent is the rendered body of a standard CTA
type CtaContent struct {
	Heading         string     `json:"heading" validate:"required,max=255"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	ImageURL        *string    `json:"imageUrl,omitempty" validate:"omitempty,url,max=2048"`
	PrimaryButton   CtaButton  `json:"primaryButton" validate:"required"`
	SecondaryButton *CtaButton `json:"secondaryButton,omitempty" validate:"omitempty"`
	Footnote        *string    `json:"footnote,omitempty" validate:"omitempty,max=500"`
}

// CtaCustomCode is author-supplied embed markup. The toggle lets authors keep
// the code saved while it is switched off.
type CtaCustomCode struct {
	IsEnabled bool   `json:"isEnabled"`
	Code      string `json:"code" validate:"required,max=65536"`
}

// CtaConfig is the author-editable configuration of a single CTA. Either
// Content or CustomCode is set; an enabled CustomCode wins when both are
// present.
type CtaConfig struct {
	Name       string         `json:"name" validate:"required,max=255"`
	Type       CtaType        `json:"type" validate:"required,oneof=END_OF_POST SIDEBAR IN_LINE POP_UP FLOATING"`
	Trigger    *CtaTrigger    `json:"trigger,omitempty" validate:"omitempty,oneof=TIME_DELAY SCROLL EXIT_INTENT"`
	DelaySecs  *int           `json:"delaySeconds,omitempty" validate:"omitempty,min=0,max=600"`
	ScrollPct  *int           `json:"scrollPercent,omitempty" validate:"omitempty,min=1,max=100"`
	Content    *CtaContent    `json:"content,omitempty" validate:"omitempty"`
	CustomCode *CtaCustomCode `json:"customCode,omitempty" validate:"omitempty"`
}

// CtaDefinition is a CTA stored inside a page's ctas_config blob, together
// with its targeting lists. IDs are uuid strings minted at creation.
type CtaDefinition struct {
	ID         string    `json:"id"`
	Config     CtaConfig `json:"config"`
	Categories []string  `json:"categories"`
	Tags       []string  `json:"tags"`
	IsActive   bool      `json:"isActive"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CtasConfig is the full jsonb blob stored in pages.ctas_config
type CtasConfig struct {
	Ctas        []CtaDefinition `json:"ctas"`
	LastUpdated *time.Time      `json:"lastUpdated,omitempty"`
}

// Value implements the driver.Valuer interface for CtasConfig
func (c CtasConfig) Value() (driver.Value, error) {
	if c.Ctas == nil {
		c.Ctas = []CtaDefinition{}
	}
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for CtasConfig
func (c *CtasConfig) Scan(value any) error {
	if value == nil {
		*c = CtasConfig{Ctas: []CtaDefinition{}}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CtasConfig", value)
	}

	if err := json.Unmarshal(bytes, c); err != nil {
		return err
	}
	if c.Ctas == nil {
		c.Ctas = []CtaDefinition{}
	}
	return nil
}

// Find returns the definition with the given id, or nil when absent.
func (c *CtasConfig) Find(id string) *CtaDefinition {
	for i := range c.Ctas {
		if c.Ctas[i].ID == id {
			return &c.Ctas[i]
		}
	}
	return nil
}
