// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to the activity-log service
// lives: the MongoDB connection, the timeline window sizes, and the
// audit logging mode.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize int    // Max connection pool size
	MongoMinPoolSize int    // Min connection pool size

	// Timeline window configuration. Zero values fall back to the
	// engine defaults (1000 global, 50 per user, 100 for user stats).
	GlobalWindow    int // Events scanned for the active-sessions report
	PerUserWindow   int // Per-user cap within the active-sessions report
	UserStatsWindow int // Events scanned for a single user's stats

	// Audit logging mode: "all" (db+log), "db", "log", or "off"
	AuditLogActivity string
}
