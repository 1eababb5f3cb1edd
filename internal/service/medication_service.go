package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/model"
	"Glycora/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// MedicationService 用药记录服务接口定义
// 开具、停用均为医生操作，患者只读。
type MedicationService interface {
	Prescribe(ctx context.Context, prescriberID uint64, req *dto.CreateMedicationReq) (*dto.MedicationDTO, error)
	ListByPatient(ctx context.Context, requesterID, patientID uint64) ([]*dto.MedicationDTO, error)
	// Discontinue 停药：设置结束时间，不删除记录
	Discontinue(ctx context.Context, prescriberID, id uint64) error
}

type medicationServiceImpl struct {
	medicationRepo repository.MedicationRepo
	userRepo       repository.UserRepo
	im             IMService
}

func NewMedicationService(medicationRepo repository.MedicationRepo, userRepo repository.UserRepo, im IMService) MedicationService {
	return &medicationServiceImpl{
		medicationRepo: medicationRepo,
		userRepo:       userRepo,
		im:             im,
	}
}

func (s *medicationServiceImpl) Prescribe(ctx context.Context, prescriberID uint64, req *dto.CreateMedicationReq) (*dto.MedicationDTO, error) {
	prescriber, err := s.userRepo.GetByID(ctx, prescriberID)
	if err != nil || prescriber.Role != model.RoleClinician {
		return nil, UnauthorizedError
	}
	patient, err := s.userRepo.GetByID(ctx, req.PatientID)
	if err != nil || patient.Role != model.RolePatient {
		return nil, ErrTargetUserInvalid
	}

	startedAt := time.Now()
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}

	med := &model.Medication{
		PatientID:    req.PatientID,
		PrescriberID: prescriberID,
		Name:         req.Name,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		Instructions: req.Instructions,
		StartedAt:    startedAt,
		EndedAt:      req.EndedAt,
	}
	if err := s.medicationRepo.Create(ctx, med); err != nil {
		return nil, err
	}

	// 开药后给患者留一条系统消息
	content := fmt.Sprintf("%s 医生为您开具了 %s", prescriber.DisplayName, med.Name)
	if med.Dosage != "" {
		content += fmt.Sprintf("（%s", med.Dosage)
		if med.Frequency != "" {
			content += "，" + med.Frequency
		}
		content += "）"
	}
	if err := s.im.SendSystemMessage(ctx, patient.ID, "新的用药医嘱", content); err != nil {
		log.WarnContext(ctx, "Failed to notify patient of prescription", "patientID", patient.ID, "err", err)
	}

	return toMedicationDTO(med), nil
}

func (s *medicationServiceImpl) ListByPatient(ctx context.Context, requesterID, patientID uint64) ([]*dto.MedicationDTO, error) {
	if requesterID != patientID {
		requester, err := s.userRepo.GetByID(ctx, requesterID)
		if err != nil || requester.Role == model.RolePatient {
			return nil, UnauthorizedError
		}
	}

	meds, err := s.medicationRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MedicationDTO, 0, len(meds))
	for _, m := range meds {
		res = append(res, toMedicationDTO(m))
	}
	return res, nil
}

func (s *medicationServiceImpl) Discontinue(ctx context.Context, prescriberID, id uint64) error {
	med, err := s.medicationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMedicationNotFound
		}
		return err
	}
	if med.PrescriberID != prescriberID {
		return UnauthorizedError
	}
	if med.EndedAt != nil {
		return nil
	}

	now := time.Now()
	med.EndedAt = &now
	return s.medicationRepo.Update(ctx, med)
}

func toMedicationDTO(m *model.Medication) *dto.MedicationDTO {
	res := &dto.MedicationDTO{}
	if err := copier.Copy(res, m); err != nil {
		log.Warn("Failed to copy medication fields", "err", err)
	}
	return res
}
