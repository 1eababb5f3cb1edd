package handler

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/pkg/response"
	"Glycora/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type GlucoseHandler struct {
	glucoseService service.GlucoseService
}

func NewGlucoseHandler(glucoseService service.GlucoseService) *GlucoseHandler {
	return &GlucoseHandler{glucoseService: glucoseService}
}

// Create 手动录入一条血糖
func (s *GlucoseHandler) Create(c *gin.Context) {
	var req dto.CreateGlucoseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	userID := c.GetUint64("user_id")
	res, err := s.glucoseService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// List 查询血糖记录，医生可带 patient_id 查看患者数据
func (s *GlucoseHandler) List(c *gin.Context) {
	userID := c.GetUint64("user_id")

	patientID := userID
	if raw := c.Query("patient_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		patientID = id
	}

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
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "500"))

	res, err := s.glucoseService.ListByPatient(c.Request.Context(), userID, patientID, from, to, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Delete 删除本人的一条血糖记录
func (s *GlucoseHandler) Delete(c *gin.Context) {
	userID := c.GetUint64("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.glucoseService.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
