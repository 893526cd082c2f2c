package user

import "time"

type User struct {
	ID             string    `gorm:"primaryKey"`
	Username       string    `gorm:"column:username;uniqueIndex;not null"`
	Email          string    `gorm:"column:email;not null"`
	FullName       string    `gorm:"column:full_name;not null"`
	PasswordHash   string    `gorm:"column:password_hash;not null"`
	Role           string    `gorm:"column:role;not null;index"`
	BranchName     string    `gorm:"column:branch_name"`
	BranchCode     string    `gorm:"column:branch_code;index"`
	DepartmentName string    `gorm:"column:department_name"`
	Departments    string    `gorm:"column:departments"`
	IsLocked       bool      `gorm:"column:is_locked;default:false"`
	IsDemo         bool      `gorm:"column:is_demo;default:false"`
	CreatedBy      string    `gorm:"column:created_by"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
