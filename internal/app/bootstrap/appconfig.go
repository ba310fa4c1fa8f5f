// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS). AppConfig is everything specific to AgriHub: database
// connection strings, session settings, the inference endpoint, and
// audit logging knobs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionDomain string // cookie domain (blank means current host)

	// Login rate limiting (attempts per IP per minute, per email per
	// five minutes)
	LoginAttemptsPerIP    int
	LoginAttemptsPerEmail int

	// File storage configuration (complaint photos, profile pictures)
	StorageLocalPath string // e.g. "./uploads"
	StorageLocalURL  string // URL prefix for serving stored files

	// URLs
	BaseURL     string // where this API is reachable, for OAuth callbacks
	FrontendURL string // where the browser app lives, for OAuth redirects

	// AI plant-disease inference endpoint
	InferenceURL string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Audit logging settings: "all", "db", "log", or "off" per category
	AuditLogAuth    string
	AuditLogAdmin   string
	AuditLogFinance string
}
