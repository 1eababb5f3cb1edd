package handler

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/pkg/response"
	"Glycora/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	appointmentService service.AppointmentService
}

func NewAppointmentHandler(appointmentService service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

func (s *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	userID := c.GetUint64("user_id")
	res, err := s.appointmentService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *AppointmentHandler) List(c *gin.Context) {
	userID := c.GetUint64("user_id")
	res, err := s.appointmentService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateStatus 预约状态流转：完成或取消
func (s *AppointmentHandler) UpdateStatus(c *gin.Context) {
	userID := c.GetUint64("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.UpdateAppointmentStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.appointmentService.UpdateStatus(c.Request.Context(), userID, id, req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
