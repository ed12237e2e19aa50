package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDBTracing installs the otelgorm plugin. Query variables are never
// attached to spans since they carry customer amounts.
func RegisterDBTracing(db *gorm.DB, dbSystem string, logger *zap.Logger) error {
	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName(dbSystem),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return fmt.Errorf("failed to register otelgorm: %w", err)
	}
	logger.Info("database tracing enabled", zap.String("db_system", dbSystem))
	return nil
}
