package user_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rupeedesk/cbs-admin/internal/permission"
	"github.com/rupeedesk/cbs-admin/internal/user"
)

// Mock repository for testing
type mockUserRepository struct {
	users       map[string]*user.User
	createError error
	getError    error
	createCalls int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*user.User)}
}

func (m *mockUserRepository) add(u *user.User) {
	m.users[u.ID] = u
}

func (m *mockUserRepository) GetByID(id string) (*user.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) UsernameExists(username string) (bool, error) {
	for _, u := range m.users {
		if user.NormalizeUsername(u.Username) == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) List() ([]*user.User, error) {
	out := make([]*user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) ListByRoles(roles []permission.Role) ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (m *mockUserRepository) ListBranchUsers(branchCode string, roles []permission.Role) ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		if u.BranchCode != branchCode {
			continue
		}
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (m *mockUserRepository) HasBranchManager(branchCode string) (bool, error) {
	for _, u := range m.users {
		if u.BranchCode == branchCode && u.Role == permission.RoleBranchManager {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) CountBranchStaff(branchCode string) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.BranchCode == branchCode && u.Role == permission.RoleStaff {
			count++
		}
	}
	return count, nil
}

func (m *mockUserRepository) Create(u *user.User) error {
	m.createCalls++
	if m.createError != nil {
		return m.createError
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) SetLocked(id string, locked bool) error {
	u, ok := m.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.IsLocked = locked
	return nil
}

// Mock branch directory for testing
type mockBranchDirectory struct {
	branches map[string]*user.BranchInfo
}

func newMockBranchDirectory() *mockBranchDirectory {
	return &mockBranchDirectory{branches: map[string]*user.BranchInfo{
		"SBININBB354": {Name: "Andheri West (Mumbai)", Code: "SBININBB354"},
		"SBININBB159": {Name: "Guwahati", Code: "SBININBB159"},
	}}
}

func (m *mockBranchDirectory) GetBranch(code string) (*user.BranchInfo, error) {
	b, ok := m.branches[code]
	if !ok {
		return nil, errors.New("branch not found")
	}
	return b, nil
}

var _ = Describe("UserService", func() {
	var (
		svc        *user.Service
		mockRepo   *mockUserRepository
		mockBranch *mockBranchDirectory
		superAdmin user.Actor
		admin      user.Actor
		head       user.Actor
		manager    user.Actor
		staff      user.Actor
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		mockBranch = newMockBranchDirectory()
		svc = user.NewService(mockRepo, mockBranch, nil, 4)

		superAdmin = user.Actor{ID: "user-superadmin", Role: permission.RoleSuperAdmin}
		admin = user.Actor{ID: "user-admin-01", Role: permission.RoleAdmin}
		head = user.Actor{ID: "user-head-01", Role: permission.RoleHeadDepartment}
		manager = user.Actor{ID: "user-manager-01", Role: permission.RoleBranchManager}
		staff = user.Actor{ID: "user-staff-01", Role: permission.RoleStaff}

		mockRepo.add(&user.User{ID: superAdmin.ID, Username: "superadmin@cbs.in", Role: permission.RoleSuperAdmin})
		mockRepo.add(&user.User{ID: admin.ID, Username: "ops.admin@cbs.in", Role: permission.RoleAdmin})
		mockRepo.add(&user.User{ID: head.ID, Username: "head.ops@cbs.in", Role: permission.RoleHeadDepartment})
		mockRepo.add(&user.User{ID: manager.ID, Username: "manager.south@cbs.in", Role: permission.RoleBranchManager, BranchCode: "SBININBB354"})
		mockRepo.add(&user.User{ID: staff.ID, Username: "staff.premium@cbs.in", Role: permission.RoleStaff, BranchCode: "SBININBB354"})
	})

	newAdminDTO := func(username string) user.CreateUserDTO {
		return user.CreateUserDTO{
			FullName: "New Admin",
			Username: username,
			Password: "secret123",
			Role:     permission.RoleAdmin,
		}
	}

	Describe("Create", func() {
		Context("creation rules", func() {
			It("lets the super admin create admins", func() {
				created, err := svc.Create(newAdminDTO("new.admin@cbs.in"), superAdmin)
				Expect(err).NotTo(HaveOccurred())
				Expect(created.Role).To(Equal(permission.RoleAdmin))
				Expect(created.CreatedBy).To(Equal(superAdmin.ID))
			})

			It("rejects the super admin creating staff directly", func() {
				dto := newAdminDTO("new.staff@cbs.in")
				dto.Role = permission.RoleStaff
				_, err := svc.Create(dto, superAdmin)
				Expect(err).To(MatchError(user.ErrCreationNotAllowed))
			})

			It("rejects admins creating admins", func() {
				_, err := svc.Create(newAdminDTO("second.admin@cbs.in"), admin)
				Expect(err).To(MatchError(user.ErrCreationNotAllowed))
			})

			It("lets a department head create branch managers and staff", func() {
				dto := user.CreateUserDTO{
					FullName:   "North Manager",
					Username:   "manager.north@cbs.in",
					Password:   "secret123",
					Role:       permission.RoleBranchManager,
					BranchCode: "SBININBB159",
				}
				created, err := svc.Create(dto, head)
				Expect(err).NotTo(HaveOccurred())
				Expect(created.BranchName).To(Equal("Guwahati"))
			})

			It("rejects branch managers creating anyone", func() {
				dto := newAdminDTO("x@cbs.in")
				dto.Role = permission.RoleStaff
				dto.BranchCode = "SBININBB354"
				_, err := svc.Create(dto, manager)
				Expect(err).To(MatchError(user.ErrCreationNotAllowed))
			})

			It("rejects staff creating anyone", func() {
				dto := newAdminDTO("y@cbs.in")
				dto.Role = permission.RoleStaff
				dto.BranchCode = "SBININBB354"
				_, err := svc.Create(dto, staff)
				Expect(err).To(MatchError(user.ErrCreationNotAllowed))
			})
		})

		Context("username uniqueness", func() {
			It("rejects duplicates case-insensitively", func() {
				_, err := svc.Create(newAdminDTO("OPS.ADMIN@cbs.in"), superAdmin)
				Expect(err).To(MatchError(user.ErrUsernameTaken))
				Expect(mockRepo.createCalls).To(BeZero())
			})
		})

		Context("branch assignments", func() {
			It("requires a branch for staff", func() {
				dto := user.CreateUserDTO{
					FullName: "No Branch",
					Username: "nobranch@cbs.in",
					Password: "secret123",
					Role:     permission.RoleStaff,
				}
				_, err := svc.Create(dto, admin)
				Expect(err).To(MatchError(user.ErrBranchRequired))
			})

			It("rejects unknown branch codes", func() {
				dto := user.CreateUserDTO{
					FullName:   "Bad Branch",
					Username:   "badbranch@cbs.in",
					Password:   "secret123",
					Role:       permission.RoleStaff,
					BranchCode: "SBININBB999",
				}
				_, err := svc.Create(dto, admin)
				Expect(err).To(MatchError(user.ErrInvalidBranch))
			})

			It("resolves the branch name from the directory", func() {
				dto := user.CreateUserDTO{
					FullName:   "Counter Staff",
					Username:   "counter@cbs.in",
					Password:   "secret123",
					Role:       permission.RoleStaff,
					BranchName: "ignored",
					BranchCode: "SBININBB354",
				}
				created, err := svc.Create(dto, admin)
				Expect(err).NotTo(HaveOccurred())
				Expect(created.BranchName).To(Equal("Andheri West (Mumbai)"))
			})

			It("allows only one branch manager per branch", func() {
				dto := user.CreateUserDTO{
					FullName:   "Second Manager",
					Username:   "manager2@cbs.in",
					Password:   "secret123",
					Role:       permission.RoleBranchManager,
					BranchCode: "SBININBB354",
				}
				_, err := svc.Create(dto, admin)
				Expect(err).To(MatchError(user.ErrManagerExists))
			})

			It("accepts the tenth staff member and rejects the eleventh", func() {
				// seeded staff counts as the first
				for i := 2; i <= user.MaxStaffPerBranch; i++ {
					dto := user.CreateUserDTO{
						FullName:   fmt.Sprintf("Staff %d", i),
						Username:   fmt.Sprintf("staff%d@cbs.in", i),
						Password:   "secret123",
						Role:       permission.RoleStaff,
						BranchCode: "SBININBB354",
					}
					_, err := svc.Create(dto, admin)
					Expect(err).NotTo(HaveOccurred())
				}

				dto := user.CreateUserDTO{
					FullName:   "Staff 11",
					Username:   "staff11@cbs.in",
					Password:   "secret123",
					Role:       permission.RoleStaff,
					BranchCode: "SBININBB354",
				}
				_, err := svc.Create(dto, admin)
				Expect(err).To(MatchError(user.ErrStaffCapacity))
			})
		})

		Context("department heads", func() {
			It("requires at least one department", func() {
				dto := user.CreateUserDTO{
					FullName: "Head Nobody",
					Username: "head2@cbs.in",
					Password: "secret123",
					Role:     permission.RoleHeadDepartment,
				}
				_, err := svc.Create(dto, admin)
				Expect(err).To(MatchError(user.ErrDepartmentsRequired))
			})

			It("caps departments at three", func() {
				dto := user.CreateUserDTO{
					FullName:    "Head Many",
					Username:    "head3@cbs.in",
					Password:    "secret123",
					Role:        permission.RoleHeadDepartment,
					Departments: []string{"A", "B", "C", "D"},
				}
				_, err := svc.Create(dto, admin)
				Expect(err).To(MatchError(user.ErrTooManyDepartments))
			})

			It("uses the first department as the primary", func() {
				dto := user.CreateUserDTO{
					FullName:    "Head Two",
					Username:    "head4@cbs.in",
					Password:    "secret123",
					Role:        permission.RoleHeadDepartment,
					Departments: []string{" Retail Banking ", "", "Digital Banking"},
				}
				created, err := svc.Create(dto, admin)
				Expect(err).NotTo(HaveOccurred())
				Expect(created.DepartmentName).To(Equal("Retail Banking"))
				Expect(created.Departments).To(Equal([]string{"Retail Banking", "Digital Banking"}))
			})
		})

		Context("atomicity", func() {
			It("never writes when validation fails", func() {
				dto := newAdminDTO("")
				_, err := svc.Create(dto, superAdmin)
				Expect(err).To(HaveOccurred())
				Expect(mockRepo.createCalls).To(BeZero())
			})
		})

		It("stores a bcrypt hash, never the raw password", func() {
			created, err := svc.Create(newAdminDTO("hash.check@cbs.in"), superAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.PasswordHash).NotTo(BeEmpty())
			Expect(created.PasswordHash).NotTo(Equal("secret123"))
		})

		It("resolves permissions from the role", func() {
			created, err := svc.Create(newAdminDTO("perm.check@cbs.in"), superAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Permissions).To(Equal(permission.Resolve(permission.RoleAdmin)))
		})
	})

	Describe("Lock and Unlock", func() {
		It("locks a staff member as admin", func() {
			locked, err := svc.Lock(staff.ID, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(locked.IsLocked).To(BeTrue())
		})

		It("is idempotent", func() {
			_, err := svc.Lock(staff.ID, admin)
			Expect(err).NotTo(HaveOccurred())
			again, err := svc.Lock(staff.ID, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.IsLocked).To(BeTrue())
		})

		It("never locks the super admin", func() {
			_, err := svc.Lock(superAdmin.ID, superAdmin)
			Expect(err).To(MatchError(user.ErrLockNotAllowed))
		})

		It("rejects admins locking other admins", func() {
			mockRepo.add(&user.User{ID: "user-admin-02", Username: "other.admin@cbs.in", Role: permission.RoleAdmin})
			_, err := svc.Lock("user-admin-02", admin)
			Expect(err).To(MatchError(user.ErrLockNotAllowed))
		})

		It("lets the super admin lock admins", func() {
			locked, err := svc.Lock(admin.ID, superAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(locked.IsLocked).To(BeTrue())
		})

		It("rejects department heads toggling locks", func() {
			_, err := svc.Lock(staff.ID, head)
			Expect(err).To(MatchError(user.ErrLockNotAllowed))
		})

		It("unlocks a locked user", func() {
			_, err := svc.Lock(staff.ID, admin)
			Expect(err).NotTo(HaveOccurred())
			unlocked, err := svc.Unlock(staff.ID, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(unlocked.IsLocked).To(BeFalse())
		})

		It("surfaces unknown targets", func() {
			_, err := svc.Lock("no-such-user", admin)
			Expect(err).To(MatchError(user.ErrNotFound))
		})
	})

	Describe("ListFor", func() {
		It("shows everyone to the super admin", func() {
			users, err := svc.ListFor(superAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(5))
		})

		It("shows everyone to admins", func() {
			users, err := svc.ListFor(admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(5))
		})

		It("shows the branch tier plus self to department heads", func() {
			users, err := svc.ListFor(head)
			Expect(err).NotTo(HaveOccurred())

			ids := make([]string, 0, len(users))
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			Expect(ids).To(ConsistOf(head.ID, manager.ID, staff.ID))
		})

		It("shows own-branch staff plus self to branch managers", func() {
			mockRepo.add(&user.User{ID: "user-staff-02", Username: "other@cbs.in", Role: permission.RoleStaff, BranchCode: "SBININBB159"})

			users, err := svc.ListFor(manager)
			Expect(err).NotTo(HaveOccurred())

			ids := make([]string, 0, len(users))
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			Expect(ids).To(ConsistOf(manager.ID, staff.ID))
		})

		It("shows staff only themselves", func() {
			users, err := svc.ListFor(staff)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].ID).To(Equal(staff.ID))
		})
	})
})
