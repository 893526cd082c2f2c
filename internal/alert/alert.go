package alert

import (
	"errors"
	"strings"
	"time"

	alertDatamodel "github.com/rupeedesk/cbs-admin/internal/core/datamodel/alert"
	"github.com/rupeedesk/cbs-admin/internal/permission"
)

// Alert is a role-targeted broadcast notice. Alerts are append-only: once
// created they are never edited or deleted.
type Alert struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	CreatorID   string            `json:"creator_id"`
	CreatorName string            `json:"creator_name"`
	CreatorRole permission.Role   `json:"creator_role"`
	TargetRoles []permission.Role `json:"target_roles"`
	CreatedAt   time.Time         `json:"created_at"`

	// Seen is a per-viewer annotation filled in by ListFor; it is not part
	// of the stored record.
	Seen bool `json:"seen"`
}

// AudienceEveryone broadcasts to all five roles.
const AudienceEveryone = "everyone"

var (
	ErrNotFound     = errors.New("alert not found")
	ErrNotPermitted = errors.New("you are not allowed to create alerts")
	ErrNoAudience   = errors.New("select an alert audience")
)

func ToDataModel(a *Alert) *alertDatamodel.Alert {
	roles := make([]string, len(a.TargetRoles))
	for i, role := range a.TargetRoles {
		roles[i] = string(role)
	}
	return &alertDatamodel.Alert{
		ID:          a.ID,
		Title:       a.Title,
		Message:     a.Message,
		CreatorID:   a.CreatorID,
		CreatorName: a.CreatorName,
		CreatorRole: string(a.CreatorRole),
		TargetRoles: strings.Join(roles, ","),
		CreatedAt:   a.CreatedAt,
	}
}

func FromDataModel(row *alertDatamodel.Alert) *Alert {
	var roles []permission.Role
	if row.TargetRoles != "" {
		for _, r := range strings.Split(row.TargetRoles, ",") {
			roles = append(roles, permission.Role(r))
		}
	}
	return &Alert{
		ID:          row.ID,
		Title:       row.Title,
		Message:     row.Message,
		CreatorID:   row.CreatorID,
		CreatorName: row.CreatorName,
		CreatorRole: permission.Role(row.CreatorRole),
		TargetRoles: roles,
		CreatedAt:   row.CreatedAt,
	}
}
