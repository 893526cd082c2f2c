package branch

import "strings"

// CreateBranchDTO is the transport shape for branch creation requests.
type CreateBranchDTO struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Normalize trims both fields and upper-cases the code.
func (d *CreateBranchDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
}

// Validate checks required fields after normalization.
func (d CreateBranchDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "branch name is required"}
	}
	if d.Code == "" {
		return ValidationError{Msg: "branch code is required"}
	}
	return nil
}
