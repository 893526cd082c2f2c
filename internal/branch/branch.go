package branch

import (
	"errors"
	"time"

	branchDatamodel "github.com/rupeedesk/cbs-admin/internal/core/datamodel/branch"
)

// Branch is a row of the branch directory. Codes are stored upper-cased and
// are unique; names are unique case-insensitively.
type Branch struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrNotFound      = errors.New("branch not found")
	ErrAlreadyExists = errors.New("a branch with this name or code already exists")
	ErrNotPermitted  = errors.New("only the super admin can manage branches")
)

func ToDataModel(b *Branch) *branchDatamodel.Branch {
	return &branchDatamodel.Branch{
		Code:      b.Code,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
	}
}

func FromDataModel(b *branchDatamodel.Branch) *Branch {
	return &Branch{
		Code:      b.Code,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
	}
}
