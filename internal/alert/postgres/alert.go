package postgres

import (
	"errors"
	"time"

	"github.com/rupeedesk/cbs-admin/internal/alert"
	alertDatamodel "github.com/rupeedesk/cbs-admin/internal/core/datamodel/alert"
	"github.com/rupeedesk/cbs-admin/internal/permission"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertRepository implements the alert.Repository interface using GORM
type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) alert.Repository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(a *alert.Alert) error {
	return r.db.Create(alert.ToDataModel(a)).Error
}

func (r *AlertRepository) GetByID(id string) (*alert.Alert, error) {
	var row alertDatamodel.Alert
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, alert.ErrNotFound
		}
		return nil, err
	}
	return alert.FromDataModel(&row), nil
}

// ListByRole returns the alerts whose target set includes role, newest first.
// Target roles are stored comma-joined, so the match wraps both sides in
// commas to avoid substring collisions between role names.
func (r *AlertRepository) ListByRole(role permission.Role) ([]*alert.Alert, error) {
	var rows []*alertDatamodel.Alert
	err := r.db.
		Where("(',' || target_roles || ',') LIKE ?", "%,"+string(role)+",%").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]*alert.Alert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, alert.FromDataModel(row))
	}
	return alerts, nil
}

func (r *AlertRepository) MarkSeen(userID, alertID string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "alert_id"}},
		DoNothing: true,
	}).Create(&alertDatamodel.AlertSeen{
		UserID:  userID,
		AlertID: alertID,
		SeenAt:  time.Now(),
	}).Error
}

func (r *AlertRepository) SeenIDs(userID string) (map[string]bool, error) {
	var ids []string
	err := r.db.Model(&alertDatamodel.AlertSeen{}).
		Where("user_id = ?", userID).
		Pluck("alert_id", &ids).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return seen, nil
}
