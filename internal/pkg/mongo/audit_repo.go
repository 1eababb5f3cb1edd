package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditLogRepo interface {
	Save(ctx context.Context, entry *AuditLog) error
	List(ctx context.Context, userID uint64, from, to time.Time, limit int) ([]*AuditLog, error)
}

type auditLogRepoImpl struct {
	col *mongo.Collection
}

func NewAuditLogRepo(db *mongo.Database) AuditLogRepo {
	return &auditLogRepoImpl{
		col: db.Collection("audit_log"),
	}
}

// Save 写入一条审计记录
func (s *auditLogRepoImpl) Save(ctx context.Context, entry *AuditLog) error {
	_, err := s.col.InsertOne(ctx, entry)
	return errors.Wrap(err, "insert audit log")
}

// List 按用户与时间窗口倒序查询
// userID 为 0 时不按用户过滤
func (s *auditLogRepoImpl) List(ctx context.Context, userID uint64, from, to time.Time, limit int) ([]*AuditLog, error) {
	filter := bson.M{
		"created_at": bson.M{"$gte": from, "$lte": to},
	}
	if userID > 0 {
		filter["user_id"] = userID
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "find audit logs")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var logs []*AuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, errors.Wrap(err, "decode audit logs")
	}

	return logs, nil
}
