package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rupeedesk/cbs-admin/internal/core/events"
	"github.com/rupeedesk/cbs-admin/internal/permission"
	"golang.org/x/crypto/bcrypt"
)

// Repository is the persistence boundary for the user directory.
type Repository interface {
	GetByID(id string) (*User, error)
	UsernameExists(username string) (bool, error)
	List() ([]*User, error)
	ListByRoles(roles []permission.Role) ([]*User, error)
	ListBranchUsers(branchCode string, roles []permission.Role) ([]*User, error)
	HasBranchManager(branchCode string) (bool, error)
	CountBranchStaff(branchCode string) (int64, error)
	Create(u *User) error
	SetLocked(id string, locked bool) error
}

// BranchInfo is the slice of the branch directory the user service needs for
// validating branch assignments.
type BranchInfo struct {
	Name string
	Code string
}

// BranchDirectory resolves branch codes against the live branch directory.
type BranchDirectory interface {
	GetBranch(code string) (*BranchInfo, error)
}

// Actor identifies who is performing a directory mutation.
type Actor struct {
	ID   string
	Role permission.Role
}

type Service struct {
	repo       Repository
	branches   BranchDirectory
	eventBus   *events.EventBus
	bcryptCost int
}

func NewService(repo Repository, branches BranchDirectory, eventBus *events.EventBus, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		branches:   branches,
		eventBus:   eventBus,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) publish(event events.Event) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.Publish(context.Background(), event)
}

func (s *Service) GetByID(id string) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListFor returns the directory slice the viewer is allowed to see: the super
// admin and admins see everyone, department heads see the branch tier, branch
// managers see their own branch staff, staff see only themselves.
func (s *Service) ListFor(viewer Actor) ([]*User, error) {
	switch viewer.Role {
	case permission.RoleSuperAdmin, permission.RoleAdmin:
		return s.repo.List()
	case permission.RoleHeadDepartment:
		users, err := s.repo.ListByRoles([]permission.Role{permission.RoleBranchManager, permission.RoleStaff})
		if err != nil {
			return nil, err
		}
		return s.withSelf(users, viewer.ID)
	case permission.RoleBranchManager:
		self, err := s.repo.GetByID(viewer.ID)
		if err != nil {
			return nil, err
		}
		users, err := s.repo.ListBranchUsers(self.BranchCode, []permission.Role{permission.RoleStaff})
		if err != nil {
			return nil, err
		}
		return append([]*User{self}, users...), nil
	default:
		self, err := s.repo.GetByID(viewer.ID)
		if err != nil {
			return nil, err
		}
		return []*User{self}, nil
	}
}

func (s *Service) withSelf(users []*User, viewerID string) ([]*User, error) {
	for _, u := range users {
		if u.ID == viewerID {
			return users, nil
		}
	}
	self, err := s.repo.GetByID(viewerID)
	if err != nil {
		return nil, err
	}
	return append([]*User{self}, users...), nil
}

// Create provisions a new directory record. Every validation runs before any
// write, so a failed creation never mutates the directory.
func (s *Service) Create(dto CreateUserDTO, creator Actor) (*User, error) {
	if !permission.CanCreate(creator.Role, dto.Role) {
		return nil, ErrCreationNotAllowed
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.UsernameExists(NormalizeUsername(dto.Username))
	if err != nil {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	branchName, branchCode := dto.BranchName, dto.BranchCode
	if dto.Role == permission.RoleBranchManager || dto.Role == permission.RoleStaff {
		if dto.BranchCode == "" {
			return nil, ErrBranchRequired
		}
		meta, err := s.branches.GetBranch(dto.BranchCode)
		if err != nil {
			return nil, ErrInvalidBranch
		}
		branchName, branchCode = meta.Name, meta.Code

		if dto.Role == permission.RoleBranchManager {
			hasManager, err := s.repo.HasBranchManager(meta.Code)
			if err != nil {
				return nil, fmt.Errorf("failed to check branch manager: %w", err)
			}
			if hasManager {
				return nil, ErrManagerExists
			}
		} else {
			staffCount, err := s.repo.CountBranchStaff(meta.Code)
			if err != nil {
				return nil, fmt.Errorf("failed to count branch staff: %w", err)
			}
			if staffCount >= MaxStaffPerBranch {
				return nil, ErrStaffCapacity
			}
		}
	}

	departmentName := dto.DepartmentName
	var departments []string
	if dto.Role == permission.RoleHeadDepartment {
		departments = dto.CleanDepartments()
		if len(departments) == 0 {
			return nil, ErrDepartmentsRequired
		}
		if len(departments) > MaxDepartments {
			return nil, ErrTooManyDepartments
		}
		departmentName = departments[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &User{
		ID:             uuid.NewString(),
		Username:       dto.Username,
		Email:          dto.Username,
		FullName:       dto.FullName,
		PasswordHash:   string(hash),
		Role:           dto.Role,
		BranchName:     branchName,
		BranchCode:     branchCode,
		DepartmentName: departmentName,
		Departments:    departments,
		IsLocked:       false,
		CreatedBy:      creator.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
		Permissions:    permission.Resolve(dto.Role),
	}

	if err := s.repo.Create(u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publish(events.NewUserCreatedEvent(u.ID, u.Username, string(u.Role), creator.ID))
	return u, nil
}

// Lock marks the target locked. Locking an already-locked user is a no-op.
func (s *Service) Lock(id string, actor Actor) (*User, error) {
	return s.setLocked(id, actor, true)
}

// Unlock clears the lock. Unlocking an unlocked user is a no-op.
func (s *Service) Unlock(id string, actor Actor) (*User, error) {
	return s.setLocked(id, actor, false)
}

func (s *Service) setLocked(id string, actor Actor, locked bool) (*User, error) {
	target, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !permission.CanToggleLock(actor.Role, target.Role) {
		return nil, ErrLockNotAllowed
	}

	if target.IsLocked == locked {
		return target, nil
	}

	if err := s.repo.SetLocked(id, locked); err != nil {
		return nil, fmt.Errorf("failed to update lock state: %w", err)
	}
	target.IsLocked = locked

	s.publish(events.NewUserLockChangedEvent(target.ID, target.Username, actor.ID, locked))
	return target, nil
}
