package alert

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rupeedesk/cbs-admin/internal/permission"
)

// Repository is the persistence boundary for the alert store.
type Repository interface {
	Create(a *Alert) error
	GetByID(id string) (*Alert, error)
	ListByRole(role permission.Role) ([]*Alert, error)
	MarkSeen(userID, alertID string) error
	SeenIDs(userID string) (map[string]bool, error)
}

// Creator identifies who is broadcasting an alert.
type Creator struct {
	ID   string
	Name string
	Role permission.Role
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create broadcasts an alert. Department heads always target the branch tier;
// the super admin and admins must name an audience explicitly; nobody else
// may broadcast.
func (s *Service) Create(dto CreateAlertDTO, creator Creator) (*Alert, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	targetRoles, err := resolveAudience(dto.Audience, creator.Role)
	if err != nil {
		return nil, err
	}

	a := &Alert{
		ID:          uuid.NewString(),
		Title:       dto.Title,
		Message:     dto.Message,
		CreatorID:   creator.ID,
		CreatorName: creator.Name,
		CreatorRole: creator.Role,
		TargetRoles: targetRoles,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(a); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	return a, nil
}

func resolveAudience(audience string, creatorRole permission.Role) ([]permission.Role, error) {
	switch creatorRole {
	case permission.RoleHeadDepartment:
		// Fixed target set; any supplied audience is ignored.
		return []permission.Role{permission.RoleBranchManager, permission.RoleStaff}, nil
	case permission.RoleSuperAdmin, permission.RoleAdmin:
		if audience == "" {
			return nil, ErrNoAudience
		}
		if audience == AudienceEveryone {
			roles := make([]permission.Role, len(permission.AllRoles))
			copy(roles, permission.AllRoles)
			return roles, nil
		}
		role := permission.Role(audience)
		if !role.Valid() {
			return nil, ValidationError{Msg: "audience is invalid"}
		}
		return []permission.Role{role}, nil
	default:
		return nil, ErrNotPermitted
	}
}

// ListFor returns the alerts targeted at the viewer's role, newest first,
// annotated with the viewer's seen state.
func (s *Service) ListFor(viewerID string, viewerRole permission.Role) ([]*Alert, error) {
	alerts, err := s.repo.ListByRole(viewerRole)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	seen, err := s.repo.SeenIDs(viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seen alerts: %w", err)
	}

	for _, a := range alerts {
		a.Seen = seen[a.ID]
	}
	return alerts, nil
}

// MarkSeen records that the viewer has acknowledged the alert. Marking twice
// is a no-op.
func (s *Service) MarkSeen(viewerID, alertID string) error {
	if _, err := s.repo.GetByID(alertID); err != nil {
		return err
	}
	if err := s.repo.MarkSeen(viewerID, alertID); err != nil {
		return fmt.Errorf("failed to mark alert seen: %w", err)
	}
	return nil
}
