package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/codr1/excerpt-config/internal/store"
)

const (
	ConfigAuditJobName = "config_audit"
	configAuditTimeout = 10 * time.Second
)

// AuditStatus summarizes one inspection of the backing file.
type AuditStatus string

const (
	AuditHealthy    AuditStatus = "healthy"
	AuditMissing    AuditStatus = "missing"
	AuditCorrupt    AuditStatus = "corrupt"
	AuditInvalid    AuditStatus = "invalid"
	AuditUnreadable AuditStatus = "unreadable"
)

type ConfigInspector interface {
	Inspect(ctx context.Context) error
	Path() string
}

// RegisterConfigAudit schedules a read-only check of the configuration file.
// The job only logs; it never repairs or seeds the file.
func (s *Service) RegisterConfigAudit(cronExpr string, inspector ConfigInspector) (gocron.Job, error) {
	return s.AddJob(ConfigAuditJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), configAuditTimeout)
		defer cancel()
		AuditConfig(ctx, inspector)
	})
}

// AuditConfig inspects the backing file once and logs the outcome.
func AuditConfig(ctx context.Context, inspector ConfigInspector) AuditStatus {
	logger := log.Ctx(ctx).With().Str("file", inspector.Path()).Logger()

	err := inspector.Inspect(ctx)
	status := auditStatusFor(err)

	switch status {
	case AuditHealthy:
		logger.Debug().Str("status", string(status)).Msg("Configuration audit passed")
	case AuditMissing:
		logger.Info().Str("status", string(status)).Msg("Configuration file not created yet")
	default:
		logger.Warn().Err(err).Str("status", string(status)).Msg("Configuration audit failed, clients are served defaults")
	}
	return status
}

func auditStatusFor(err error) AuditStatus {
	if err == nil {
		return AuditHealthy
	}
	var loadErr *store.LoadError
	if !errors.As(err, &loadErr) {
		return AuditUnreadable
	}
	switch loadErr.Kind {
	case store.LoadNotFound:
		return AuditMissing
	case store.LoadCorrupt:
		return AuditCorrupt
	case store.LoadInvalid:
		return AuditInvalid
	default:
		return AuditUnreadable
	}
}
