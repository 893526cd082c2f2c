package user

import (
	"strings"

	"github.com/rupeedesk/cbs-admin/internal/permission"
)

// CreateUserDTO is the transport shape for user provisioning requests.
type CreateUserDTO struct {
	FullName       string          `json:"full_name"`
	Username       string          `json:"username"`
	Password       string          `json:"password"`
	Role           permission.Role `json:"role"`
	BranchName     string          `json:"branch_name,omitempty"`
	BranchCode     string          `json:"branch_code,omitempty"`
	DepartmentName string          `json:"department_name,omitempty"`
	Departments    []string        `json:"departments,omitempty"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks the role-independent required fields.
func (d CreateUserDTO) Validate() error {
	if strings.TrimSpace(d.FullName) == "" {
		return ValidationError{Msg: "full_name is required"}
	}
	if strings.TrimSpace(d.Username) == "" {
		return ValidationError{Msg: "username is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	if !d.Role.Valid() {
		return ValidationError{Msg: "role is invalid"}
	}
	return nil
}

// CleanDepartments drops blank entries, preserving order.
func (d CreateUserDTO) CleanDepartments() []string {
	out := make([]string, 0, len(d.Departments))
	for _, dept := range d.Departments {
		if trimmed := strings.TrimSpace(dept); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
