package service

import (
	"Glycora/internal/pkg/mongo"
	"context"
	log "log/slog"
	"time"
)

// AuditService 审计日志服务接口定义
type AuditService interface {
	// Record 异步落库一条审计记录，失败只记日志不阻塞请求
	Record(ctx context.Context, entry *mongo.AuditLog)
	List(ctx context.Context, userID uint64, from, to time.Time, limit int) ([]*mongo.AuditLog, error)
}

type auditServiceImpl struct {
	auditRepo mongo.AuditLogRepo
}

func NewAuditService(auditRepo mongo.AuditLogRepo) AuditService {
	return &auditServiceImpl{auditRepo: auditRepo}
}

func (s *auditServiceImpl) Record(ctx context.Context, entry *mongo.AuditLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.auditRepo.Save(ctx, entry); err != nil {
		log.WarnContext(ctx, "Failed to save audit log", "path", entry.Path, "err", err)
	}
}

func (s *auditServiceImpl) List(ctx context.Context, userID uint64, from, to time.Time, limit int) ([]*mongo.AuditLog, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -7)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.auditRepo.List(ctx, userID, from, to, limit)
}
