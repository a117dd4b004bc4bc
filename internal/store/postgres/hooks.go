package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/logistics-id/signalhub/internal/common"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// zapQueryHook logs every query bun issues, matching the teacher's
// ds/postgres.ZapQueryHook shape.
type zapQueryHook struct {
	logger *zap.Logger
}

func (h *zapQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	event.StartTime = time.Now()
	return ctx
}

func (h *zapQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	log := h.logger.With(
		zap.String("event", event.Operation()),
		zap.String("query", strings.ReplaceAll(event.Query, "\"", "")),
		zap.String("request_id", common.GetContextRequestID(ctx)),
		zap.Duration("duration", time.Since(event.StartTime)),
	)

	switch {
	case event.Err == nil:
		log.Info("pg query")
	case errors.Is(event.Err, sql.ErrNoRows):
		log.Warn("pg query", zap.Error(event.Err))
	default:
		log.Error("pg query", zap.Error(event.Err))
	}
}
