package auth_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rupeedesk/cbs-admin/internal/auth"
	"github.com/rupeedesk/cbs-admin/internal/permission"
)

// Mock user directory for testing
type mockUserDirectory struct {
	users map[string]*auth.User
}

func newMockUserDirectory() *mockUserDirectory {
	return &mockUserDirectory{users: make(map[string]*auth.User)}
}

func (m *mockUserDirectory) add(u *auth.User) {
	m.users[u.ID] = u
}

func (m *mockUserDirectory) FindByUsername(username string) (*auth.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, strings.TrimSpace(username)) {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockUserDirectory) GetByID(id string) (*auth.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

var _ = Describe("AuthService", func() {
	var (
		svc       *auth.Service
		directory *mockUserDirectory
		tokenGen  *auth.JWTTokenGenerator
	)

	const password = "superadmin"

	BeforeEach(func() {
		directory = newMockUserDirectory()
		tokenGen = auth.NewJWTTokenGenerator(
			"test-access-secret-0123456789abcdef",
			"test-refresh-secret-0123456789abcdef",
			15*time.Minute,
			7*24*time.Hour,
		)
		svc = auth.NewService(directory, tokenGen)

		hash, err := auth.HashPassword(password, 4)
		Expect(err).NotTo(HaveOccurred())

		directory.add(&auth.User{
			ID:           "user-superadmin",
			Username:     "superadmin@cbs.in",
			Role:         permission.RoleSuperAdmin,
			PasswordHash: hash,
			Permissions:  permission.Resolve(permission.RoleSuperAdmin),
		})
	})

	Describe("Authenticate", func() {
		It("returns the identity and a token pair for valid credentials", func() {
			result, err := svc.Authenticate(auth.LoginDTO{
				Username: "superadmin@cbs.in",
				Password: password,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.User.ID).To(Equal("user-superadmin"))
			Expect(result.User.Permissions).NotTo(BeEmpty())
			Expect(result.Tokens.AccessToken).NotTo(BeEmpty())
			Expect(result.Tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("matches usernames case-insensitively", func() {
			_, err := svc.Authenticate(auth.LoginDTO{
				Username: "SuperAdmin@CBS.in",
				Password: password,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a wrong password", func() {
			_, err := svc.Authenticate(auth.LoginDTO{
				Username: "superadmin@cbs.in",
				Password: "nope",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects unknown users with the same error as a bad password", func() {
			_, err := svc.Authenticate(auth.LoginDTO{
				Username: "ghost@cbs.in",
				Password: password,
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("rejects locked accounts even with the right password", func() {
			directory.users["user-superadmin"].IsLocked = true

			_, err := svc.Authenticate(auth.LoginDTO{
				Username: "superadmin@cbs.in",
				Password: password,
			})
			Expect(err).To(MatchError(auth.ErrUserLocked))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("round-trips claims through a signed token", func() {
			result, err := svc.Authenticate(auth.LoginDTO{
				Username: "superadmin@cbs.in",
				Password: password,
			})
			Expect(err).NotTo(HaveOccurred())

			claims, err := svc.ValidateAccessToken(result.Tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("user-superadmin"))
			Expect(claims.Username).To(Equal("superadmin@cbs.in"))
		})

		It("rejects garbage tokens", func() {
			_, err := svc.ValidateAccessToken("not-a-token")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	Describe("RefreshTokens", func() {
		It("issues a fresh pair for a live user", func() {
			result, err := svc.Authenticate(auth.LoginDTO{
				Username: "superadmin@cbs.in",
				Password: password,
			})
			Expect(err).NotTo(HaveOccurred())

			tokens, err := svc.RefreshTokens(result.Tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
		})

		It("refuses once the user is locked", func() {
			result, err := svc.Authenticate(auth.LoginDTO{
				Username: "superadmin@cbs.in",
				Password: password,
			})
			Expect(err).NotTo(HaveOccurred())

			directory.users["user-superadmin"].IsLocked = true

			_, err = svc.RefreshTokens(result.Tokens.RefreshToken)
			Expect(err).To(MatchError(auth.ErrUserLocked))
		})
	})

	Describe("CurrentUser", func() {
		It("returns the live record", func() {
			u, err := svc.CurrentUser("user-superadmin")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Username).To(Equal("superadmin@cbs.in"))
		})

		It("fails for a locked user so sessions die mid-flight", func() {
			directory.users["user-superadmin"].IsLocked = true

			_, err := svc.CurrentUser("user-superadmin")
			Expect(err).To(MatchError(auth.ErrUserLocked))
		})

		It("fails for a removed user", func() {
			delete(directory.users, "user-superadmin")

			_, err := svc.CurrentUser("user-superadmin")
			Expect(err).To(MatchError(auth.ErrUserNotFound))
		})
	})
})
