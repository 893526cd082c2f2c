package rest_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rupeedesk/cbs-admin/internal/alert"
	"github.com/rupeedesk/cbs-admin/internal/approval"
	"github.com/rupeedesk/cbs-admin/internal/auth"
	"github.com/rupeedesk/cbs-admin/internal/permission"
	"github.com/rupeedesk/cbs-admin/internal/transport/rest"
)

type stubUserDirectory struct {
	users map[string]*auth.User
}

func (d *stubUserDirectory) FindByUsername(username string) (*auth.User, error) {
	for _, u := range d.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (d *stubUserDirectory) GetByID(id string) (*auth.User, error) {
	if u, ok := d.users[id]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}

type stubAlertService struct {
	createCalls int
}

func (s *stubAlertService) Create(dto alert.CreateAlertDTO, creator alert.Creator) (*alert.Alert, error) {
	s.createCalls++
	return &alert.Alert{
		ID:          "alert-1",
		Title:       dto.Title,
		Message:     dto.Message,
		CreatorID:   creator.ID,
		CreatorName: creator.Name,
		CreatorRole: creator.Role,
		TargetRoles: []permission.Role{permission.RoleBranchManager, permission.RoleStaff},
		CreatedAt:   time.Now(),
	}, nil
}

func (s *stubAlertService) ListFor(viewerID string, viewerRole permission.Role) ([]*alert.Alert, error) {
	return []*alert.Alert{}, nil
}

func (s *stubAlertService) MarkSeen(viewerID, alertID string) error {
	return nil
}

var _ = Describe("Router guards", func() {
	var (
		router       *chi.Mux
		tokenGen     *auth.JWTTokenGenerator
		alertService *stubAlertService
	)

	tokenFor := func(id string) string {
		token, err := tokenGen.GenerateAccessToken(id, id)
		Expect(err).NotTo(HaveOccurred())
		return token
	}

	do := func(method, path, userID string) *httptest.ResponseRecorder {
		var body io.Reader
		if method == http.MethodPost {
			body = strings.NewReader(`{"title":"Maintenance window","message":"Core systems down at 22:00"}`)
		}
		req := httptest.NewRequest(method, path, body)
		if userID != "" {
			req.Header.Set("Authorization", "Bearer "+tokenFor(userID))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		directory := &stubUserDirectory{users: map[string]*auth.User{
			"user-superadmin": {ID: "user-superadmin", Username: "superadmin", Role: permission.RoleSuperAdmin},
			"user-admin-01":   {ID: "user-admin-01", Username: "ops.admin", Role: permission.RoleAdmin},
			"user-head-01":    {ID: "user-head-01", Username: "head.ops", Role: permission.RoleHeadDepartment},
			"user-manager-01": {ID: "user-manager-01", Username: "manager.south", Role: permission.RoleBranchManager},
			"user-staff-01":   {ID: "user-staff-01", Username: "staff.premium", Role: permission.RoleStaff},
		}}
		tokenGen = auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcdef",
			15*time.Minute,
			168*time.Hour,
		)
		authHandler := auth.NewHandler(auth.NewService(directory, tokenGen))
		alertService = &stubAlertService{}

		router = chi.NewRouter()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		rest.RegisterAllRoutes(router, nil, authHandler, nil, nil, alert.NewHandler(alertService), approval.NewHandler(), nil, logger)
	})

	Describe("approval queue routes", func() {
		It("rejects requests without a token", func() {
			rec := do(http.MethodGet, "/api/v1/approvals/", "")
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("denies staff, who hold no approvals grant", func() {
			rec := do(http.MethodGet, "/api/v1/approvals/", "user-staff-01")
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("denies admins and the super admin, who hold no approvals grant", func() {
			for _, id := range []string{"user-admin-01", "user-superadmin"} {
				rec := do(http.MethodGet, "/api/v1/approvals/", id)
				Expect(rec.Code).To(Equal(http.StatusForbidden), id)
			}
		})

		It("admits branch managers to the queue", func() {
			rec := do(http.MethodGet, "/api/v1/approvals/", "user-manager-01")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("APR-4012"))
		})

		It("admits department heads to every read route", func() {
			for _, path := range []string{
				"/api/v1/approvals/",
				"/api/v1/approvals/pending",
				"/api/v1/approvals/history",
				"/api/v1/approvals/my-requests",
			} {
				rec := do(http.MethodGet, path, "user-head-01")
				Expect(rec.Code).To(Equal(http.StatusOK), path)
			}
		})
	})

	Describe("alert creation route", func() {
		It("denies branch managers and staff before the service is reached", func() {
			for _, id := range []string{"user-manager-01", "user-staff-01"} {
				rec := do(http.MethodPost, "/api/v1/alerts/", id)
				Expect(rec.Code).To(Equal(http.StatusForbidden), id)
			}
			Expect(alertService.createCalls).To(BeZero())
		})

		It("admits department heads", func() {
			rec := do(http.MethodPost, "/api/v1/alerts/", "user-head-01")
			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(alertService.createCalls).To(Equal(1))
		})

		It("leaves the alert list open to every role", func() {
			rec := do(http.MethodGet, "/api/v1/alerts/", "user-staff-01")
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})
})
