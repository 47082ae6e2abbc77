// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the activity-log service.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, mongo_database, etc.
//   - Environment variables: HVCPORTAL_MONGO_URI, HVCPORTAL_MONGO_DATABASE, etc.
//   - Command-line flags: --mongo_uri, --mongo_database, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "hvc_portal", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Timeline window sizes (0 means use the engine defaults)
	{Name: "global_window", Default: 0, Desc: "Events scanned for the active-sessions report (default: 1000)"},
	{Name: "per_user_window", Default: 0, Desc: "Per-user event cap within the active-sessions report (default: 50)"},
	{Name: "user_stats_window", Default: 0, Desc: "Events scanned for a single user's stats (default: 100)"},

	// Audit logging settings
	{Name: "audit_log_activity", Default: "all", Desc: "Activity event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, HVCPORTAL_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HVCPORTAL", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: appValues.Int("mongo_max_pool_size"),
		MongoMinPoolSize: appValues.Int("mongo_min_pool_size"),

		GlobalWindow:    appValues.Int("global_window"),
		PerUserWindow:   appValues.Int("per_user_window"),
		UserStatsWindow: appValues.Int("user_stats_window"),

		AuditLogActivity: appValues.String("audit_log_activity"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.MongoMaxPoolSize < 0 || appCfg.MongoMinPoolSize < 0 {
		return fmt.Errorf("mongo pool sizes must not be negative")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize && appCfg.MongoMaxPoolSize > 0 {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if appCfg.GlobalWindow < 0 || appCfg.PerUserWindow < 0 || appCfg.UserStatsWindow < 0 {
		return fmt.Errorf("timeline window sizes must not be negative")
	}

	switch appCfg.AuditLogActivity {
	case "all", "db", "log", "off":
	default:
		return fmt.Errorf("audit_log_activity must be 'all', 'db', 'log', or 'off' (got %q)", appCfg.AuditLogActivity)
	}

	return nil
}
