package handler

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/pkg/response"
	"Glycora/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MedicationHandler struct {
	medicationService service.MedicationService
}

func NewMedicationHandler(medicationService service.MedicationService) *MedicationHandler {
	return &MedicationHandler{medicationService: medicationService}
}

// Prescribe 医生开具用药
func (s *MedicationHandler) Prescribe(c *gin.Context) {
	var req dto.CreateMedicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	prescriberID := c.GetUint64("user_id")
	res, err := s.medicationService.Prescribe(c.Request.Context(), prescriberID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// List 查询用药记录，医生可带 patient_id 查看患者数据
func (s *MedicationHandler) List(c *gin.Context) {
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

	res, err := s.medicationService.ListByPatient(c.Request.Context(), userID, patientID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Discontinue 停药
func (s *MedicationHandler) Discontinue(c *gin.Context) {
	prescriberID := c.GetUint64("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.medicationService.Discontinue(c.Request.Context(), prescriberID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
