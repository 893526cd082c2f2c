package postgres

import (
	"errors"

	"github.com/rupeedesk/cbs-admin/internal/auth"
	userDatamodel "github.com/rupeedesk/cbs-admin/internal/core/datamodel/user"
	"github.com/rupeedesk/cbs-admin/internal/permission"
	"gorm.io/gorm"
)

// UserDirectory implements auth.UserDirectory using GORM over the shared
// users table.
type UserDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) auth.UserDirectory {
	return &UserDirectory{db: db}
}

func (d *UserDirectory) FindByUsername(username string) (*auth.User, error) {
	var row userDatamodel.User
	err := d.db.Where("LOWER(username) = LOWER(?)", username).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return fromDataModel(&row), nil
}

func (d *UserDirectory) GetByID(id string) (*auth.User, error) {
	var row userDatamodel.User
	err := d.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return fromDataModel(&row), nil
}

func fromDataModel(row *userDatamodel.User) *auth.User {
	role := permission.Role(row.Role)
	return &auth.User{
		ID:             row.ID,
		Username:       row.Username,
		Email:          row.Email,
		FullName:       row.FullName,
		Role:           role,
		BranchName:     row.BranchName,
		BranchCode:     row.BranchCode,
		DepartmentName: row.DepartmentName,
		IsLocked:       row.IsLocked,
		PasswordHash:   row.PasswordHash,
		Permissions:    permission.Resolve(role),
	}
}
