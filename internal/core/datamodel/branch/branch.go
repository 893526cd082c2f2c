package branch

import "time"

type Branch struct {
	Code      string    `gorm:"primaryKey;column:code"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Branch) TableName() string {
	return "branches"
}
