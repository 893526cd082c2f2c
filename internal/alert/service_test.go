package alert_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rupeedesk/cbs-admin/internal/alert"
	"github.com/rupeedesk/cbs-admin/internal/permission"
)

// Mock repository for testing
type mockAlertRepository struct {
	alerts      []*alert.Alert
	seen        map[string]map[string]bool
	createError error
}

func newMockAlertRepository() *mockAlertRepository {
	return &mockAlertRepository{seen: make(map[string]map[string]bool)}
}

func (m *mockAlertRepository) Create(a *alert.Alert) error {
	if m.createError != nil {
		return m.createError
	}
	// newest first, like the store
	m.alerts = append([]*alert.Alert{a}, m.alerts...)
	return nil
}

func (m *mockAlertRepository) GetByID(id string) (*alert.Alert, error) {
	for _, a := range m.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, alert.ErrNotFound
}

func (m *mockAlertRepository) ListByRole(role permission.Role) ([]*alert.Alert, error) {
	var out []*alert.Alert
	for _, a := range m.alerts {
		for _, target := range a.TargetRoles {
			if target == role {
				copied := *a
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

func (m *mockAlertRepository) MarkSeen(userID, alertID string) error {
	if m.seen[userID] == nil {
		m.seen[userID] = make(map[string]bool)
	}
	m.seen[userID][alertID] = true
	return nil
}

func (m *mockAlertRepository) SeenIDs(userID string) (map[string]bool, error) {
	out := make(map[string]bool, len(m.seen[userID]))
	for id := range m.seen[userID] {
		out[id] = true
	}
	return out, nil
}

var _ = Describe("AlertService", func() {
	var (
		svc        *alert.Service
		mockRepo   *mockAlertRepository
		superAdmin alert.Creator
		admin      alert.Creator
		head       alert.Creator
		manager    alert.Creator
	)

	BeforeEach(func() {
		mockRepo = newMockAlertRepository()
		svc = alert.NewService(mockRepo)

		superAdmin = alert.Creator{ID: "user-superadmin", Name: "CBS Super Administrator", Role: permission.RoleSuperAdmin}
		admin = alert.Creator{ID: "user-admin-01", Name: "Amit Verma", Role: permission.RoleAdmin}
		head = alert.Creator{ID: "user-head-01", Name: "Prisha Kulkarni", Role: permission.RoleHeadDepartment}
		manager = alert.Creator{ID: "user-manager-01", Name: "Dev Sharma", Role: permission.RoleBranchManager}
	})

	dto := func(audience string) alert.CreateAlertDTO {
		return alert.CreateAlertDTO{
			Title:    "System maintenance",
			Message:  "Core services will be unavailable tonight.",
			Audience: audience,
		}
	}

	Describe("Create", func() {
		It("expands everyone to all five roles", func() {
			created, err := svc.Create(dto(alert.AudienceEveryone), superAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.TargetRoles).To(HaveLen(5))
			Expect(created.TargetRoles).To(ContainElements(
				permission.RoleSuperAdmin,
				permission.RoleStaff,
			))
		})

		It("targets a single named role", func() {
			created, err := svc.Create(dto("staff"), admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.TargetRoles).To(Equal([]permission.Role{permission.RoleStaff}))
		})

		It("requires an audience for super admins and admins", func() {
			_, err := svc.Create(dto(""), superAdmin)
			Expect(err).To(MatchError(alert.ErrNoAudience))

			_, err = svc.Create(dto(""), admin)
			Expect(err).To(MatchError(alert.ErrNoAudience))
		})

		It("rejects unknown audiences", func() {
			_, err := svc.Create(dto("interns"), admin)
			Expect(err).To(BeAssignableToTypeOf(alert.ValidationError{}))
		})

		It("forces the branch tier for department heads, ignoring the supplied audience", func() {
			created, err := svc.Create(dto(alert.AudienceEveryone), head)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.TargetRoles).To(Equal([]permission.Role{
				permission.RoleBranchManager,
				permission.RoleStaff,
			}))
		})

		It("rejects branch managers and staff", func() {
			_, err := svc.Create(dto("staff"), manager)
			Expect(err).To(MatchError(alert.ErrNotPermitted))
		})

		It("requires title and message", func() {
			_, err := svc.Create(alert.CreateAlertDTO{Message: "body"}, admin)
			Expect(err).To(BeAssignableToTypeOf(alert.ValidationError{}))

			_, err = svc.Create(alert.CreateAlertDTO{Title: "  "}, admin)
			Expect(err).To(BeAssignableToTypeOf(alert.ValidationError{}))
		})

		It("stamps the creator identity", func() {
			created, err := svc.Create(dto("staff"), admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.CreatorID).To(Equal(admin.ID))
			Expect(created.CreatorName).To(Equal("Amit Verma"))
			Expect(created.CreatorRole).To(Equal(permission.RoleAdmin))
		})
	})

	Describe("ListFor", func() {
		BeforeEach(func() {
			_, err := svc.Create(dto("staff"), admin)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Create(dto(alert.AudienceEveryone), superAdmin)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns only alerts targeting the viewer's role", func() {
			alerts, err := svc.ListFor("user-staff-01", permission.RoleStaff)
			Expect(err).NotTo(HaveOccurred())
			Expect(alerts).To(HaveLen(2))

			alerts, err = svc.ListFor("user-admin-01", permission.RoleAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(alerts).To(HaveLen(1))
		})

		It("annotates per-viewer seen state", func() {
			alerts, err := svc.ListFor("user-staff-01", permission.RoleStaff)
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.MarkSeen("user-staff-01", alerts[0].ID)).To(Succeed())

			refreshed, err := svc.ListFor("user-staff-01", permission.RoleStaff)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed[0].Seen).To(BeTrue())
			Expect(refreshed[1].Seen).To(BeFalse())

			// another viewer's list is untouched
			other, err := svc.ListFor("user-staff-02", permission.RoleStaff)
			Expect(err).NotTo(HaveOccurred())
			Expect(other[0].Seen).To(BeFalse())
		})
	})

	Describe("MarkSeen", func() {
		It("is idempotent", func() {
			created, err := svc.Create(dto("staff"), admin)
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.MarkSeen("user-staff-01", created.ID)).To(Succeed())
			Expect(svc.MarkSeen("user-staff-01", created.ID)).To(Succeed())
		})

		It("surfaces unknown alerts", func() {
			err := svc.MarkSeen("user-staff-01", "missing")
			Expect(err).To(MatchError(alert.ErrNotFound))
		})
	})
})
