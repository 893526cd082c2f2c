package alert

import "time"

type Alert struct {
	ID          string    `gorm:"primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Message     string    `gorm:"column:message;not null"`
	CreatorID   string    `gorm:"column:creator_id;not null"`
	CreatorName string    `gorm:"column:creator_name;not null"`
	CreatorRole string    `gorm:"column:creator_role;not null"`
	// TargetRoles is stored comma-joined; alerts are immutable so the
	// denormalization never needs updating.
	TargetRoles string    `gorm:"column:target_roles;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Alert) TableName() string {
	return "alerts"
}

// AlertSeen records that a user has acknowledged an alert.
type AlertSeen struct {
	UserID  string    `gorm:"column:user_id;primaryKey"`
	AlertID string    `gorm:"column:alert_id;primaryKey"`
	SeenAt  time.Time `gorm:"column:seen_at"`
}

func (AlertSeen) TableName() string {
	return "alert_seen"
}
