package observability

import (
	"log/slog"

	"github.com/couchcryptid/flood-elevation-service/internal/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT, installs it
// as the slog default and tags every record with the service name.
func NewLogger(cfg *config.Config) *slog.Logger {
	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", ServiceName)
	slog.SetDefault(logger)
	return logger
}
