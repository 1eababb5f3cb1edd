package handler

import (
	"Glycora/internal/pkg/response"
	"Glycora/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List 管理员查询审计日志
func (s *AuditHandler) List(c *gin.Context) {
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		to = t
	}

	res, err := s.auditService.List(c.Request.Context(), userID, from, to, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
