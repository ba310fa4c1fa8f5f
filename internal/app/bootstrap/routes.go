// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	advisorfeature "github.com/agrihub/agrihub/internal/app/features/advisor"
	auditlogfeature "github.com/agrihub/agrihub/internal/app/features/auditlog"
	authgooglefeature "github.com/agrihub/agrihub/internal/app/features/authgoogle"
	complaintsfeature "github.com/agrihub/agrihub/internal/app/features/complaints"
	contributionsfeature "github.com/agrihub/agrihub/internal/app/features/contributions"
	dashboardfeature "github.com/agrihub/agrihub/internal/app/features/dashboard"
	fieldsfeature "github.com/agrihub/agrihub/internal/app/features/fields"
	fundsfeature "github.com/agrihub/agrihub/internal/app/features/funds"
	harvestsfeature "github.com/agrihub/agrihub/internal/app/features/harvests"
	healthfeature "github.com/agrihub/agrihub/internal/app/features/health"
	loginfeature "github.com/agrihub/agrihub/internal/app/features/login"
	logoutfeature "github.com/agrihub/agrihub/internal/app/features/logout"
	pestalertsfeature "github.com/agrihub/agrihub/internal/app/features/pestalerts"
	profilefeature "github.com/agrihub/agrihub/internal/app/features/profile"
	programsfeature "github.com/agrihub/agrihub/internal/app/features/programs"
	usersfeature "github.com/agrihub/agrihub/internal/app/features/users"
	weatheralertsfeature "github.com/agrihub/agrihub/internal/app/features/weatheralerts"
	auditstore "github.com/agrihub/agrihub/internal/app/store/audit"
	chatstore "github.com/agrihub/agrihub/internal/app/store/chats"
	complaintstore "github.com/agrihub/agrihub/internal/app/store/complaints"
	contributionstore "github.com/agrihub/agrihub/internal/app/store/contributions"
	fieldstore "github.com/agrihub/agrihub/internal/app/store/fields"
	fundstore "github.com/agrihub/agrihub/internal/app/store/funds"
	harveststore "github.com/agrihub/agrihub/internal/app/store/harvests"
	"github.com/agrihub/agrihub/internal/app/store/oauthstate"
	pestalertstore "github.com/agrihub/agrihub/internal/app/store/pestalerts"
	programstore "github.com/agrihub/agrihub/internal/app/store/programs"
	userstore "github.com/agrihub/agrihub/internal/app/store/users"
	weatheralertstore "github.com/agrihub/agrihub/internal/app/store/weatheralerts"
	"github.com/agrihub/agrihub/internal/app/system/auditlog"
	"github.com/agrihub/agrihub/internal/app/system/auth"
	"github.com/agrihub/agrihub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Role names as stored on user records and sessions.
const (
	roleFarmer     = "farmer"
	roleAgronomist = "agronomist"
	roleLeader     = "leader"
	roleDonor      = "donor"
	roleFinance    = "finance"
	roleAdmin      = "admin"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connection, schema setup,
// and Startup have completed. It builds every store and feature handler,
// then mounts the feature routers with role gating applied at the mount
// point.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Stores.
	users := userstore.New(db)
	complaints := complaintstore.New(db)
	fields := fieldstore.New(db)
	harvests := harveststore.New(db)
	pestAlerts := pestalertstore.New(db)
	weatherAlerts := weatheralertstore.New(db)
	programs := programstore.New(db)
	contributions := contributionstore.New(db)
	funds := fundstore.New(db)
	chats := chatstore.New(db)

	// Audit logger, backed by Mongo and zap per config.
	auditEvents := auditstore.New(db)
	audit := auditlog.New(auditEvents, logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Admin:   appCfg.AuditLogAdmin,
		Finance: appCfg.AuditLogFinance,
	})

	// Local file storage for complaint photos and profile pictures.
	fileStore, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("file storage init failed", zap.Error(err))
		return nil, err
	}

	inferenceClient := advisorfeature.NewClient(appCfg.InferenceURL, &http.Client{Timeout: 65 * time.Second}, logger)

	// Feature handlers.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	loginLimiter := ratelimit.NewLoginLimiter(
		ratelimit.Limit{Attempts: appCfg.LoginAttemptsPerIP, Window: time.Minute},
		ratelimit.Limit{Attempts: appCfg.LoginAttemptsPerEmail, Window: 5 * time.Minute},
	)
	loginHandler := loginfeature.NewHandler(users, audit, loginLimiter, logger)
	logoutHandler := logoutfeature.NewHandler(audit, logger)
	googleHandler := authgooglefeature.NewHandler(
		users, oauthstate.New(db), audit,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret,
		appCfg.BaseURL, appCfg.FrontendURL, logger)
	complaintsHandler := complaintsfeature.NewHandler(complaints, fileStore, audit, logger)
	fieldsHandler := fieldsfeature.NewHandler(fields, logger)
	harvestsHandler := harvestsfeature.NewHandler(harvests, logger)
	pestAlertsHandler := pestalertsfeature.NewHandler(pestAlerts, audit, logger)
	weatherAlertsHandler := weatheralertsfeature.NewHandler(weatherAlerts, audit, logger)
	programsHandler := programsfeature.NewHandler(programs, contributions, audit, logger)
	contributionsHandler := contributionsfeature.NewHandler(contributions, audit, logger)
	fundsHandler := fundsfeature.NewHandler(funds, audit, logger)
	usersHandler := usersfeature.NewHandler(users, audit, logger)
	profileHandler := profilefeature.NewHandler(users, fileStore, audit, logger)
	dashboardHandler := dashboardfeature.NewHandler(users, harvests, pestAlerts, logger)
	auditLogHandler := auditlogfeature.NewHandler(auditEvents, logger)
	advisorHandler := advisorfeature.NewHandler(inferenceClient, chats, logger)

	r := chi.NewRouter()

	// Loads the SessionUser into context when a session cookie is
	// present; handlers read it via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check for load balancers and orchestrators.
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded files (complaint photos, profile pictures).
	r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))

	// Unauthenticated surfaces.
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))
	r.Mount("/authgoogle", authgooglefeature.Routes(googleHandler))
	r.Mount("/public/complaints", complaintsfeature.PublicRoutes(complaintsHandler))

	// Farmer surfaces.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(roleFarmer))
		r.Mount("/complaints", complaintsfeature.Routes(complaintsHandler))
		r.Mount("/fields", fieldsfeature.Routes(fieldsHandler))
		r.Mount("/harvests", harvestsfeature.Routes(harvestsHandler))
		r.Mount("/pest-alerts", pestalertsfeature.Routes(pestAlertsHandler))
	})

	// Agronomist triage.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(roleAgronomist, roleAdmin))
		r.Mount("/triage/pest-alerts", pestalertsfeature.TriageRoutes(pestAlertsHandler))
		r.Mount("/admin/complaints", complaintsfeature.AdminRoutes(complaintsHandler))
	})

	// Leader surfaces.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(roleLeader))
		r.Mount("/programs", programsfeature.Routes(programsHandler))
	})

	// Donor surfaces.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(roleDonor))
		r.Mount("/contributions", contributionsfeature.Routes(contributionsHandler))
	})

	// Finance surfaces.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(roleFinance, roleAdmin))
		r.Mount("/finance/contributions", contributionsfeature.FinanceRoutes(contributionsHandler))
		r.Mount("/finance/funds", fundsfeature.Routes(fundsHandler))
	})

	// Admin surfaces.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(roleAdmin))
		r.Mount("/admin/users", usersfeature.Routes(usersHandler))
		r.Mount("/admin/weather-alerts", weatheralertsfeature.AdminRoutes(weatherAlertsHandler))
		r.Mount("/admin/audit", auditlogfeature.Routes(auditLogHandler))
	})

	// Any signed-in user.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Mount("/profile", profilefeature.Routes(profileHandler))
		r.Mount("/weather-alerts", weatheralertsfeature.Routes(weatherAlertsHandler))
		r.Mount("/programs/catalog", programsfeature.CatalogRoutes(programsHandler))
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))
		r.Mount("/advisor", advisorfeature.Routes(advisorHandler))
	})

	return r, nil
}
