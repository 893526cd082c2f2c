package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/rupeedesk/cbs-admin/internal/alert"
	"github.com/rupeedesk/cbs-admin/internal/approval"
	"github.com/rupeedesk/cbs-admin/internal/auth"
	"github.com/rupeedesk/cbs-admin/internal/branch"
	"github.com/rupeedesk/cbs-admin/internal/permission"
	"github.com/rupeedesk/cbs-admin/internal/teller"
	"github.com/rupeedesk/cbs-admin/internal/transport/middleware"
	"github.com/rupeedesk/cbs-admin/internal/transport/swagger"
	"github.com/rupeedesk/cbs-admin/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, branchHandler *branch.Handler, alertHandler *alert.Handler, approvalHandler *approval.Handler, tellerHandler *teller.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// User directory routes
				if userHandler != nil {
					pr.Route("/users", func(ur chi.Router) {
						ur.Get("/me", userHandler.GetCurrentUser)
						ur.Get("/", userHandler.ListUsers)

						ur.Group(func(mr chi.Router) {
							mr.Use(middleware.RequirePermission("users", permission.ActionCreate))
							mr.Post("/", userHandler.CreateUser)
						})

						ur.Group(func(mr chi.Router) {
							mr.Use(middleware.RequireRoles(permission.RoleSuperAdmin, permission.RoleAdmin))
							mr.Patch("/{id}/lock", userHandler.LockUser)
							mr.Patch("/{id}/unlock", userHandler.UnlockUser)
						})
					})
				}

				// Branch directory routes
				if branchHandler != nil {
					pr.Route("/branches", func(br chi.Router) {
						br.Get("/", branchHandler.ListBranches)

						br.Group(func(mr chi.Router) {
							mr.Use(middleware.RequireRoles(permission.RoleSuperAdmin))
							mr.Post("/", branchHandler.CreateBranch)
							mr.Delete("/{code}", branchHandler.DeleteBranch)
						})
					})
				}

				// Alert broadcast routes
				if alertHandler != nil {
					pr.Route("/alerts", func(ar chi.Router) {
						ar.Get("/", alertHandler.ListAlerts)
						ar.Post("/{id}/seen", alertHandler.MarkSeen)

						ar.Group(func(mr chi.Router) {
							mr.Use(middleware.RequireRoles(permission.RoleSuperAdmin, permission.RoleAdmin, permission.RoleHeadDepartment))
							mr.Post("/", alertHandler.CreateAlert)
						})
					})
				}

				// Approval queue routes
				if approvalHandler != nil {
					pr.Route("/approvals", func(apr chi.Router) {
						apr.Use(middleware.RequirePermission("approvals", permission.ActionRead))
						apr.Get("/", approvalHandler.ListApprovals)
						apr.Get("/pending", approvalHandler.ListPending)
						apr.Get("/history", approvalHandler.ListHistory)
						apr.Get("/my-requests", approvalHandler.ListMyRequests)
						apr.Get("/{id}", approvalHandler.GetApproval)
						apr.Post("/{id}/approve", approvalHandler.Approve)
						apr.Post("/{id}/reject", approvalHandler.Reject)
					})
				}

				// Teller counter routes
				if tellerHandler != nil {
					pr.Route("/teller", func(tr chi.Router) {
						tr.Post("/open", tellerHandler.OpenCounter)
						tr.Post("/close", tellerHandler.CloseCounter)
						tr.Get("/cash-position", tellerHandler.CashPosition)
						tr.Post("/cash-receive", tellerHandler.CashReceive)
						tr.Post("/cash-transfer", tellerHandler.CashTransfer)
						tr.Get("/vault-balance", tellerHandler.VaultBalance)
						tr.Get("/eod-report", tellerHandler.EODReport)
						tr.Get("/denomination", tellerHandler.Denomination)
					})
				}
			})
		}
	})
}
