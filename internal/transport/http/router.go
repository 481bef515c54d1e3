package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/go-training-admin/internal/application/admin"
	"github.com/go-training-admin/internal/application/attendance"
	"github.com/go-training-admin/internal/application/catalog"
	"github.com/go-training-admin/internal/application/dashboard"
	"github.com/go-training-admin/internal/application/export"
	"github.com/go-training-admin/internal/application/group"
	"github.com/go-training-admin/internal/application/learner"
	"github.com/go-training-admin/internal/application/notification"
	"github.com/go-training-admin/internal/application/payment"
	"github.com/go-training-admin/internal/application/recovery"
	"github.com/go-training-admin/internal/application/schedule"
	"github.com/go-training-admin/internal/application/session"
	"github.com/go-training-admin/internal/config"
	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/infrastructure/google"
	jwtinfra "github.com/go-training-admin/internal/infrastructure/jwt"
	"github.com/go-training-admin/internal/infrastructure/smtp"
	"github.com/go-training-admin/internal/infrastructure/sns"
	"github.com/go-training-admin/internal/infrastructure/trainingapi"
	"github.com/go-training-admin/internal/transport/http/handler"
	appmiddleware "github.com/go-training-admin/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Upstream         *trainingapi.Client
	AdminRepo        AdminRepository
	SessionRepo      SessionRepository
	VerificationRepo VerificationRepository
	DispatchRepo     DispatchRepository
	ExportRepo       ExportRepository
	Objects          ObjectStore
	Cache            StatsCache
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender
	JWTProvider      *jwtinfra.Provider
	GoogleVerifier   *google.Verifier
}

// NewRouter builds and returns the application router. ctx bounds background work
// such as the rate limiter's cleanup loop.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider, deps.SessionRepo)

	// 5 requests/second, burst of 10, per client IP on the public credential endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	up := deps.Upstream

	sessionSvc := session.NewService(session.ServiceDeps{
		AdminRepo:       deps.AdminRepo,
		SessionRepo:     deps.SessionRepo,
		JWTProvider:     deps.JWTProvider,
		GoogleVerifier:  deps.GoogleVerifier,
		RefreshTokenDur: cfg.RefreshTokenTTL,
	})
	adminSvc := admin.NewService(admin.ServiceDeps{AdminRepo: deps.AdminRepo, SessionRepo: deps.SessionRepo})
	recoverySvc := recovery.NewService(recovery.ServiceDeps{
		AdminRepo:        deps.AdminRepo,
		VerificationRepo: deps.VerificationRepo,
		SessionRepo:      deps.SessionRepo,
		Mailer:           deps.Mailer,
	})
	dashboardDeps := dashboard.ServiceDeps{
		Learners:      up.Learners,
		Trainers:      up.Trainers,
		Programs:      up.Programs,
		Groups:        up.Groups,
		Sessions:      up.Sessions,
		Attendance:    up.Attendance,
		Payments:      up.Payments,
		Notifications: up.Notifications,
		Cache:         deps.Cache,
		CacheTTL:      cfg.DashboardCacheTTL,
	}
	dashboardSvc := dashboard.NewService(dashboardDeps)
	learnerSvc := learner.NewService(learner.ServiceDeps{
		Learners:      up.Learners,
		Groups:        up.Groups,
		Payments:      up.Payments,
		Attendance:    up.Attendance,
		Notifications: up.Notifications,
	})
	groupSvc := group.NewService(group.ServiceDeps{Groups: up.Groups, Learners: up.Learners, Sessions: up.Sessions})
	scheduleSvc := schedule.NewService(schedule.ServiceDeps{Sessions: up.Sessions})
	attendanceSvc := attendance.NewService(attendance.ServiceDeps{Attendance: up.Attendance, Sessions: up.Sessions})
	paymentSvc := payment.NewService(payment.ServiceDeps{Payments: up.Payments})
	notifSvc := notification.NewService(notification.ServiceDeps{
		Notifications:    up.Notifications,
		Learners:         up.Learners,
		Payments:         up.Payments,
		Attendance:       up.Attendance,
		Dispatches:       deps.DispatchRepo,
		SMS:              deps.SMSSender,
		Mailer:           deps.Mailer,
		PageSize:         cfg.NotificationPageSize,
		AbsenceThreshold: cfg.AbsenceThreshold,
	})
	exportSvc := export.NewService(export.ServiceDeps{
		Objects:    deps.Objects,
		Exports:    deps.ExportRepo,
		Learners:   up.Learners,
		Payments:   up.Payments,
		Attendance: up.Attendance,
		URLTTL:     cfg.ExportURLTTL,
	})

	healthH := handler.NewHealthHandler(up)
	sessionH := handler.NewSessionHandler(sessionSvc)
	pwH := handler.NewPasswordRecoveryHandler(recoverySvc)
	adminH := handler.NewAdminHandler(adminSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	learnerH := handler.NewLearnerHandler(learnerSvc)
	trainerH := handler.NewCatalogHandler[domain.Trainer](catalog.New[domain.Trainer](up.Trainers, catalog.MatchTrainer), "trainer")
	programH := handler.NewCatalogHandler[domain.Program](catalog.New[domain.Program](up.Programs, catalog.MatchProgram), "program")
	groupH := handler.NewGroupHandler(groupSvc)
	scheduleH := handler.NewScheduleHandler(scheduleSvc)
	attendanceH := handler.NewAttendanceHandler(attendanceSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)
	notifH := handler.NewNotificationHandler(notifSvc, cfg.AbsenceThreshold)
	exportH := handler.NewExportHandler(exportSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Post("/sessions/google", sessionH.LoginWithGoogle)
		r.Post("/sessions/refresh", sessionH.Refresh)
		r.With(sensitiveRL.Limit).Post("/password-recovery/{action}", pwH.Action)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.RequireRole(domain.RoleStaff, domain.RoleAdmin))

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)
			r.Put("/admins/me/password", adminH.ChangePassword)

			r.Get("/dashboard", dashboardH.Stats)
			r.Post("/dashboard/refresh", dashboardH.Refresh)

			r.Get("/learners", learnerH.List)
			r.Post("/learners", learnerH.Create)
			r.Get("/learners/{id}", learnerH.Get)
			r.Put("/learners/{id}", learnerH.Update)
			r.Get("/learners/{id}/profile", learnerH.Profile)

			r.Get("/trainers", trainerH.List)
			r.Post("/trainers", trainerH.Create)
			r.Get("/trainers/{id}", trainerH.Get)
			r.Put("/trainers/{id}", trainerH.Update)

			r.Get("/programs", programH.List)
			r.Post("/programs", programH.Create)
			r.Get("/programs/{id}", programH.Get)
			r.Put("/programs/{id}", programH.Update)

			r.Get("/groups", groupH.List)
			r.Post("/groups", groupH.Create)
			r.Get("/groups/{id}", groupH.Get)
			r.Put("/groups/{id}", groupH.Update)
			r.Get("/groups/{id}/members", groupH.Members)
			r.Get("/groups/{id}/schedule", groupH.Schedule)

			r.Get("/schedule", scheduleH.List)
			r.Post("/schedule", scheduleH.Create)
			r.Get("/schedule/week", scheduleH.Week)
			r.Get("/schedule/{id}", scheduleH.Get)
			r.Put("/schedule/{id}", scheduleH.Update)
			r.Put("/schedule/{id}/cancel", scheduleH.Cancel)

			r.Get("/attendance/rate", attendanceH.Rate)
			r.Get("/attendance/sessions/{sessionId}", attendanceH.Sheet)
			r.Get("/attendance/learners/{learnerId}", attendanceH.ByLearner)
			r.Post("/attendance", attendanceH.Record)
			r.Post("/attendance/bulk", attendanceH.RecordBulk)
			r.Put("/attendance/{id}", attendanceH.Update)

			r.Get("/payments", paymentH.List)
			r.Post("/payments", paymentH.Create)
			r.Get("/payments/summary", paymentH.Summary)
			r.Get("/payments/{id}", paymentH.Get)
			r.Put("/payments/{id}", paymentH.Update)

			r.Get("/notifications", notifH.List)
			r.Post("/notifications", notifH.Send)
			r.Post("/notifications/broadcast", notifH.Broadcast)
			r.Get("/notifications/unread-count", notifH.UnreadCount)
			r.Put("/notifications/read-all", notifH.MarkAllRead)
			r.Get("/notifications/{id}", notifH.Get)
			r.Put("/notifications/{id}/read", notifH.MarkRead)
			r.Get("/notifications/{id}/dispatches", notifH.Dispatches)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/admins", adminH.List)
				r.Post("/admins", adminH.Create)
				r.Get("/admins/{id}", adminH.Get)
				r.Put("/admins/{id}", adminH.Update)
				r.Delete("/admins/{id}", adminH.Delete)

				r.Delete("/learners/{id}", learnerH.Delete)
				r.Delete("/trainers/{id}", trainerH.Delete)
				r.Delete("/programs/{id}", programH.Delete)
				r.Delete("/groups/{id}", groupH.Delete)
				r.Delete("/schedule/{id}", scheduleH.Delete)
				r.Delete("/attendance/{id}", attendanceH.Delete)
				r.Delete("/payments/{id}", paymentH.Delete)
				r.Delete("/notifications/{id}", notifH.Delete)
				r.Post("/notifications/generate/{kind}", notifH.Generate)

				r.Get("/exports", exportH.List)
				r.Post("/exports", exportH.Create)
				r.Get("/exports/{id}", exportH.Get)
				r.Get("/exports/{id}/download", exportH.Download)
				r.Delete("/exports/{id}", exportH.Delete)
			})
		})
	})

	return r
}
