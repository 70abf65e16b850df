package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/labstock-backend/api/controllers"
	"github.com/angelmondragon/labstock-backend/api/middleware"
	"github.com/angelmondragon/labstock-backend/internal/auth"
	"github.com/angelmondragon/labstock-backend/internal/export"
	"github.com/angelmondragon/labstock-backend/internal/materials"
	"github.com/angelmondragon/labstock-backend/internal/stock"
	"github.com/angelmondragon/labstock-backend/internal/users"
	"github.com/angelmondragon/labstock-backend/pkg/auth/session"
	"github.com/angelmondragon/labstock-backend/pkg/config"
	"github.com/angelmondragon/labstock-backend/pkg/db"
	"github.com/angelmondragon/labstock-backend/pkg/enums"
	"github.com/angelmondragon/labstock-backend/pkg/logger"
	"github.com/angelmondragon/labstock-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/labstock-backend/pkg/redis"
)

// redisStore is the redis surface the HTTP layer needs.
type redisStore interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// Services bundles the domain services served over HTTP.
type Services struct {
	Auth      auth.Service
	Accounts  auth.AccountService
	Materials materials.Service
	Stock     stock.Service
	Users     users.Service
	Export    export.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient redisStore,
	gatherer prometheus.Gatherer,
	sessions session.AccessSessionChecker,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	limits := cfg.AuthRateLimit
	loginPolicy := middleware.NewAuthRateLimitPolicy("login", limits.LoginWindow, limits.LoginIPLimit, limits.LoginEmailLimit)
	otpPolicy := middleware.NewAuthRateLimitPolicy("otp", limits.OTPWindow, limits.OTPIPLimit, limits.OTPEmailLimit)
	signupPolicy := middleware.NewAuthRateLimitPolicy("signup", limits.SignupWindow, limits.SignupIPLimit, limits.SignupEmailLimit)
	resetPolicy := middleware.NewAuthRateLimitPolicy("reset", limits.ResetWindow, limits.ResetIPLimit, limits.ResetEmailLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.ReadinessCheck{Name: "db", Pinger: dbP},
			controllers.ReadinessCheck{Name: "redis", Pinger: redisClient},
		))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svc.Auth, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(svc.Auth, cfg.JWT, logg))

		r.With(middleware.AuthRateLimit(otpPolicy, redisClient, logg)).Post("/otp/send", controllers.AuthSendOTP(svc.Accounts, logg))
		r.Post("/otp/verify", controllers.AuthVerifyOTP(svc.Accounts, logg))
		r.With(
			middleware.AuthRateLimit(signupPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/signup", controllers.AuthSignup(svc.Accounts, logg))

		r.Route("/password", func(r chi.Router) {
			r.Post("/verify-email", controllers.AuthVerifyEmail(svc.Accounts, logg))
			r.With(middleware.AuthRateLimit(resetPolicy, redisClient, logg)).Post("/reset", controllers.AuthResetPassword(svc.Accounts, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/materials", func(r chi.Router) {
			r.Get("/", controllers.ListMaterials(svc.Materials, logg))
			r.Get("/search", controllers.SearchMaterials(svc.Materials, logg))
			r.Get("/{ref}", controllers.GetMaterial(svc.Materials, logg))
		})
		r.Route("/stock", func(r chi.Router) {
			r.Post("/checkout", controllers.StockCheckout(svc.Stock, logg))
			r.Post("/checkin", controllers.StockCheckin(svc.Stock, logg))
			r.Get("/outstanding", controllers.StockOutstanding(svc.Stock, logg))
		})
		r.Route("/profile/{username}", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(svc.Users, logg))
			r.Put("/", controllers.ProfileUpdate(svc.Users, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/transactions", controllers.AdminListTransactions(svc.Stock, logg))
		r.Get("/export", controllers.AdminExport(svc.Export, logg))
		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(svc.Users, logg))
			r.Post("/upload", controllers.AdminUploadUsers(svc.Users, logg))
			r.Put("/{username}", controllers.AdminUpdateUser(svc.Users, logg))
			r.Delete("/{username}", controllers.AdminDeleteUser(svc.Users, logg))
		})
		r.Route("/materials", func(r chi.Router) {
			r.Post("/upload", controllers.AdminUploadMaterials(svc.Materials, logg))
			r.Put("/{id}", controllers.AdminUpdateMaterial(svc.Materials, logg))
			r.Delete("/{id}", controllers.AdminDeleteMaterial(svc.Materials, logg))
		})
	})

	return r
}
