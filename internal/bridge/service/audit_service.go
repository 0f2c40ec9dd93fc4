package service

import (
	"context"
	"encoding/json"
	"time"

	"openalgo-sheets/internal/bridge/repository"
	"openalgo-sheets/internal/entity"
	"openalgo-sheets/pkg/logger"

	"gorm.io/datatypes"
)

// AuditService records upstream API exchanges and serves audit queries.
type AuditService interface {
	// Record persists one exchange. Persistence failures are logged and
	// swallowed; auditing must never fail a live call.
	Record(ctx context.Context, endpoint string, payload map[string]interface{}, statusCode int, response interface{}, callErr error, duration time.Duration)
	Latest(ctx context.Context, limit int) ([]entity.APICallLog, error)
	Last(ctx context.Context) (*entity.APICallLog, error)
	Count(ctx context.Context) (int64, error)
	Purge(ctx context.Context) error
}

// NewAuditService creates a new audit service.
func NewAuditService(repo repository.APICallLogRepository, log *logger.Logger, retentionDays int) AuditService {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	return &auditService{
		repo:          repo,
		logger:        log,
		retentionDays: retentionDays,
	}
}

type auditService struct {
	repo          repository.APICallLogRepository
	logger        *logger.Logger
	retentionDays int
}

func (s *auditService) Record(ctx context.Context, endpoint string, payload map[string]interface{}, statusCode int, response interface{}, callErr error, duration time.Duration) {
	entry := &entity.APICallLog{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		DurationMs: duration.Milliseconds(),
	}

	if payloadBytes, err := json.Marshal(payload); err == nil {
		entry.Payload = datatypes.JSON(payloadBytes)
	}
	if response != nil {
		if respBytes, err := json.Marshal(response); err == nil {
			entry.Response = datatypes.JSON(respBytes)
		}
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "Failed to record API call", logger.ErrorField(err), logger.StringField("endpoint", endpoint))
	}
}

func (s *auditService) Latest(ctx context.Context, limit int) ([]entity.APICallLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.repo.FindLatest(ctx, limit)
}

func (s *auditService) Last(ctx context.Context) (*entity.APICallLog, error) {
	return s.repo.FindLast(ctx)
}

func (s *auditService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Purge removes entries older than the retention window.
func (s *auditService) Purge(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to purge audit log", logger.ErrorField(err))
		return err
	}
	s.logger.Info("Audit log purged", logger.Field("deleted", deleted), logger.Field("cutoff", cutoff))
	return nil
}
