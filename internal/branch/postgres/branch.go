package postgres

import (
	"errors"

	"github.com/rupeedesk/cbs-admin/internal/branch"
	branchDatamodel "github.com/rupeedesk/cbs-admin/internal/core/datamodel/branch"
	userDatamodel "github.com/rupeedesk/cbs-admin/internal/core/datamodel/user"
	"github.com/rupeedesk/cbs-admin/internal/permission"
	"gorm.io/gorm"
)

// BranchRepository implements the branch.Repository interface using GORM
type BranchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) branch.Repository {
	return &BranchRepository{db: db}
}

func (r *BranchRepository) List() ([]*branch.Branch, error) {
	var rows []*branchDatamodel.Branch
	if err := r.db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	branches := make([]*branch.Branch, 0, len(rows))
	for _, row := range rows {
		branches = append(branches, branch.FromDataModel(row))
	}
	return branches, nil
}

func (r *BranchRepository) GetByCode(code string) (*branch.Branch, error) {
	var row branchDatamodel.Branch
	err := r.db.Where("UPPER(code) = UPPER(?)", code).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, branch.ErrNotFound
		}
		return nil, err
	}
	return branch.FromDataModel(&row), nil
}

func (r *BranchRepository) Exists(code, name string) (bool, error) {
	var count int64
	err := r.db.Model(&branchDatamodel.Branch{}).
		Where("UPPER(code) = UPPER(?) OR LOWER(name) = LOWER(?)", code, name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BranchRepository) Create(b *branch.Branch) error {
	return r.db.Create(branch.ToDataModel(b)).Error
}

// DeleteCascade removes the branch and every branch_manager/staff user
// assigned to it in one transaction. Users from other branches and roles
// outside the branch tier are untouched.
func (r *BranchRepository) DeleteCascade(code string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("branch_code = ? AND role IN ?", code,
				[]string{string(permission.RoleBranchManager), string(permission.RoleStaff)}).
			Delete(&userDatamodel.User{}).Error; err != nil {
			return err
		}
		return tx.Where("code = ?", code).Delete(&branchDatamodel.Branch{}).Error
	})
}
