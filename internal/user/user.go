package user

import (
	"errors"
	"strings"
	"time"

	userDatamodel "github.com/rupeedesk/cbs-admin/internal/core/datamodel/user"
	"github.com/rupeedesk/cbs-admin/internal/permission"
)

// User is a record of the managed user directory. Permissions are derived
// from the role when the record is loaded; they are never stored.
type User struct {
	ID             string             `json:"id"`
	Username       string             `json:"username"`
	Email          string             `json:"email"`
	FullName       string             `json:"full_name"`
	PasswordHash   string             `json:"-"`
	Role           permission.Role    `json:"role"`
	BranchName     string             `json:"branch_name,omitempty"`
	BranchCode     string             `json:"branch_code,omitempty"`
	DepartmentName string             `json:"department_name,omitempty"`
	Departments    []string           `json:"departments,omitempty"`
	IsLocked       bool               `json:"is_locked"`
	IsDemo         bool               `json:"is_demo,omitempty"`
	CreatedBy      string             `json:"created_by,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Permissions    []permission.Grant `json:"permissions"`
}

const (
	// MaxStaffPerBranch caps staff accounts per branch.
	MaxStaffPerBranch = 10
	// MaxDepartments caps the departments a head_department user may own.
	MaxDepartments = 3
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrUsernameTaken       = errors.New("a user with this login already exists")
	ErrCreationNotAllowed  = errors.New("you are not allowed to create accounts with this role")
	ErrLockNotAllowed      = errors.New("you are not allowed to change this user's lock state")
	ErrBranchRequired      = errors.New("select a branch for this user")
	ErrInvalidBranch       = errors.New("invalid branch selection")
	ErrManagerExists       = errors.New("this branch already has a branch manager")
	ErrStaffCapacity       = errors.New("this branch already has the maximum number of staff members")
	ErrDepartmentsRequired = errors.New("assign at least one department to this head")
	ErrTooManyDepartments  = errors.New("head departments can manage at most three departments")
)

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		BranchName:     u.BranchName,
		BranchCode:     u.BranchCode,
		DepartmentName: u.DepartmentName,
		Departments:    strings.Join(u.Departments, ","),
		IsLocked:       u.IsLocked,
		IsDemo:         u.IsDemo,
		CreatedBy:      u.CreatedBy,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func FromDataModel(row *userDatamodel.User) *User {
	var departments []string
	if row.Departments != "" {
		departments = strings.Split(row.Departments, ",")
	}
	role := permission.Role(row.Role)
	return &User{
		ID:             row.ID,
		Username:       row.Username,
		Email:          row.Email,
		FullName:       row.FullName,
		PasswordHash:   row.PasswordHash,
		Role:           role,
		BranchName:     row.BranchName,
		BranchCode:     row.BranchCode,
		DepartmentName: row.DepartmentName,
		Departments:    departments,
		IsLocked:       row.IsLocked,
		IsDemo:         row.IsDemo,
		CreatedBy:      row.CreatedBy,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		Permissions:    permission.Resolve(role),
	}
}
