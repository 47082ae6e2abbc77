// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activitylogfeature "github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/features/activitylog"
	auditfeature "github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/features/auditlog"
	healthfeature "github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/features/health"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/store/activitylogs"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/store/audit"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/system/auditlog"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/system/metrics"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/timeline"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// The activity-log service wires the store, timeline engine, audit logger,
// and metrics together, then mounts the health, activity-log, and metrics
// endpoints.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	store := activitylogs.New(deps.MongoDatabase)

	engine := timeline.New(store, logger, timeline.Config{
		GlobalWindow:    int64(appCfg.GlobalWindow),
		PerUserWindow:   int64(appCfg.PerUserWindow),
		UserStatsWindow: int64(appCfg.UserStatsWindow),
	})

	auditStore := audit.New(deps.MongoDatabase)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Activity: appCfg.AuditLogActivity,
	})

	m := metrics.New()

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Activity log API
	activityHandler := activitylogfeature.NewHandler(engine, auditLog, m, logger)
	r.Mount("/api/activity-log", activitylogfeature.Routes(activityHandler))

	// Audit trail for operators
	auditHandler := auditfeature.NewHandler(auditStore, logger)
	r.Mount("/api/audit", auditfeature.Routes(auditHandler))

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r, nil
}
