package branch

import (
	"context"
	"fmt"
	"time"

	"github.com/rupeedesk/cbs-admin/internal/core/events"
	"github.com/rupeedesk/cbs-admin/internal/permission"
)

// Repository is the persistence boundary for the branch directory. DeleteCascade
// must remove the branch and every branch_manager/staff user tied to it in a
// single transaction.
type Repository interface {
	List() ([]*Branch, error)
	GetByCode(code string) (*Branch, error)
	Exists(code, name string) (bool, error)
	Create(b *Branch) error
	DeleteCascade(code string) error
}

type Service struct {
	repo     Repository
	eventBus *events.EventBus
}

func NewService(repo Repository, eventBus *events.EventBus) *Service {
	return &Service{repo: repo, eventBus: eventBus}
}

func (s *Service) List() ([]*Branch, error) {
	branches, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}

// GetByCode resolves a single branch. Lookup is case-insensitive on the code.
func (s *Service) GetByCode(code string) (*Branch, error) {
	return s.repo.GetByCode(code)
}

// Create adds a branch to the directory. Only the super admin may create
// branches; the code is upper-cased before the uniqueness check, and both
// code and name must be unique case-insensitively.
func (s *Service) Create(dto CreateBranchDTO, actorRole permission.Role) (*Branch, error) {
	if actorRole != permission.RoleSuperAdmin {
		return nil, ErrNotPermitted
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(dto.Code, dto.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check branch uniqueness: %w", err)
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	b := &Branch{
		Code:      dto.Code,
		Name:      dto.Name,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(b); err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}
	return b, nil
}

// Delete removes a branch and cascades to the branch personnel assigned to
// it. The removal is hard: affected branch_manager and staff records are
// deleted from the directory, not flagged.
func (s *Service) Delete(code string, actorRole permission.Role) (*Branch, error) {
	if actorRole != permission.RoleSuperAdmin {
		return nil, ErrNotPermitted
	}

	target, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteCascade(target.Code); err != nil {
		return nil, fmt.Errorf("failed to delete branch %s: %w", target.Code, err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(context.Background(), events.NewBranchDeletedEvent(target.Code, target.Name))
	}
	return target, nil
}
