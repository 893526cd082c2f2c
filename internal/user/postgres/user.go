package postgres

import (
	"errors"
	"time"

	userDatamodel "github.com/rupeedesk/cbs-admin/internal/core/datamodel/user"
	"github.com/rupeedesk/cbs-admin/internal/permission"
	"github.com/rupeedesk/cbs-admin/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id string) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) List() ([]*user.User, error) {
	var rows []*userDatamodel.User
	if err := r.db.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *UserRepository) ListByRoles(roles []permission.Role) ([]*user.User, error) {
	var rows []*userDatamodel.User
	err := r.db.Where("role IN ?", roleStrings(roles)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *UserRepository) ListBranchUsers(branchCode string, roles []permission.Role) ([]*user.User, error) {
	var rows []*userDatamodel.User
	err := r.db.Where("branch_code = ? AND role IN ?", branchCode, roleStrings(roles)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func (r *UserRepository) HasBranchManager(branchCode string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("branch_code = ? AND role = ?", branchCode, string(permission.RoleBranchManager)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) CountBranchStaff(branchCode string) (int64, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("branch_code = ? AND role = ?", branchCode, string(permission.RoleStaff)).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) Create(u *user.User) error {
	return r.db.Create(user.ToDataModel(u)).Error
}

func (r *UserRepository) SetLocked(id string, locked bool) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_locked":  locked,
			"updated_at": time.Now(),
		}).Error
}

func fromRows(rows []*userDatamodel.User) []*user.User {
	users := make([]*user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, user.FromDataModel(row))
	}
	return users
}

func roleStrings(roles []permission.Role) []string {
	out := make([]string, len(roles))
	for i, role := range roles {
		out[i] = string(role)
	}
	return out
}
