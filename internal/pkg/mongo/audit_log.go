package mongo

import "time"

// AuditLog 审计日志条目，记录每一次 API 调用
type AuditLog struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	TraceID   string    `bson:"trace_id" json:"traceId"`
	UserID    uint64    `bson:"user_id,omitempty" json:"userId"` // 未登录请求为 0
	Method    string    `bson:"method" json:"method"`
	Path      string    `bson:"path" json:"path"`
	Query     string    `bson:"query,omitempty" json:"query"`
	Status    int       `bson:"status" json:"status"`
	LatencyMs int64     `bson:"latency_ms" json:"latencyMs"`
	ClientIP  string    `bson:"client_ip" json:"clientIp"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
