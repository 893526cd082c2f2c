package alert

import "strings"

// CreateAlertDTO is the transport shape for alert creation. Audience is only
// meaningful for super_admin/admin creators; head_department targets are
// fixed regardless of what is supplied.
type CreateAlertDTO struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Audience string `json:"audience,omitempty"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Normalize trims the user-supplied text fields.
func (d *CreateAlertDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Message = strings.TrimSpace(d.Message)
	d.Audience = strings.TrimSpace(d.Audience)
}

// Validate checks required fields after normalization.
func (d CreateAlertDTO) Validate() error {
	if d.Title == "" {
		return ValidationError{Msg: "alert title is required"}
	}
	if d.Message == "" {
		return ValidationError{Msg: "alert message is required"}
	}
	return nil
}
