// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for AgriHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_key, etc.
//   - Environment variables: AGRIHUB_MONGO_URI, AGRIHUB_SESSION_KEY, etc.
//   - Command-line flags: --mongo_uri, --session_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "agrihub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Login brute-force protection
	{Name: "login_attempts_per_ip", Default: 10, Desc: "Login attempts allowed per IP per minute"},
	{Name: "login_attempts_per_email", Default: 5, Desc: "Login attempts allowed per email per five minutes"},

	// File storage for complaint photos and profile pictures
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Base URL of this API (OAuth callbacks)"},
	{Name: "frontend_url", Default: "http://localhost:3000", Desc: "Base URL of the browser app (OAuth redirects)"},

	// AI plant-disease inference service
	{Name: "inference_url", Default: "", Desc: "External inference endpoint for the plant disease advisor"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_finance", Default: "all", Desc: "Finance event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, AGRIHUB_* for app), and
// command-line flags, merging with precedence flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "AGRIHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionDomain: appValues.String("session_domain"),

		LoginAttemptsPerIP:    appValues.Int("login_attempts_per_ip"),
		LoginAttemptsPerEmail: appValues.Int("login_attempts_per_email"),

		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		BaseURL:     appValues.String("base_url"),
		FrontendURL: appValues.String("frontend_url"),

		InferenceURL: appValues.String("inference_url"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		AuditLogAuth:    appValues.String("audit_log_auth"),
		AuditLogAdmin:   appValues.String("audit_log_admin"),
		AuditLogFinance: appValues.String("audit_log_finance"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backend is touched.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if coreCfg.Env == "prod" && appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("session_key must be set in production")
	}
	if appCfg.InferenceURL == "" {
		logger.Warn("inference_url not set; the plant disease advisor will return fallback messages")
	}
	return nil
}
