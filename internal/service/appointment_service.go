package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/model"
	"Glycora/internal/pkg/consts"
	"Glycora/internal/pkg/util"
	"Glycora/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// AppointmentService 预约服务接口定义
type AppointmentService interface {
	Create(ctx context.Context, creatorID uint64, req *dto.CreateAppointmentReq) (*dto.AppointmentDTO, error)
	ListByUser(ctx context.Context, userID uint64) ([]*dto.AppointmentDTO, error)
	UpdateStatus(ctx context.Context, userID, id uint64, status string) error
	// SendDueReminders 扫描窗口期内的待赴预约并发送短信提醒，由定时任务调用
	SendDueReminders(ctx context.Context, window time.Duration) error
}

type appointmentServiceImpl struct {
	appointmentRepo repository.AppointmentRepo
	userRepo        repository.UserRepo
	events          EventPublisher
	sms             util.SmsSender
}

func NewAppointmentService(appointmentRepo repository.AppointmentRepo, userRepo repository.UserRepo, events EventPublisher, sms util.SmsSender) AppointmentService {
	return &appointmentServiceImpl{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		events:          events,
		sms:             sms,
	}
}

// Create 患者或医生都可发起，缺省一方为发起者本人
func (s *appointmentServiceImpl) Create(ctx context.Context, creatorID uint64, req *dto.CreateAppointmentReq) (*dto.AppointmentDTO, error) {
	if req.ScheduledAt.Before(time.Now()) {
		return nil, ErrAppointmentPast
	}

	creator, err := s.userRepo.GetByID(ctx, creatorID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	patientID, clinicianID := req.PatientID, req.ClinicianID
	switch creator.Role {
	case model.RolePatient:
		patientID = creatorID
	case model.RoleClinician:
		clinicianID = creatorID
	default:
		return nil, UnauthorizedError
	}
	if patientID == 0 || clinicianID == 0 {
		return nil, ErrParamInvalid
	}

	patient, err := s.userRepo.GetByID(ctx, patientID)
	if err != nil || patient.Role != model.RolePatient {
		return nil, ErrTargetUserInvalid
	}
	clinician, err := s.userRepo.GetByID(ctx, clinicianID)
	if err != nil || clinician.Role != model.RoleClinician {
		return nil, ErrTargetUserInvalid
	}

	appt := &model.Appointment{
		PatientID:   patientID,
		ClinicianID: clinicianID,
		Title:       req.Title,
		Location:    req.Location,
		Note:        req.Note,
		Status:      model.AppointmentStatusScheduled,
		ScheduledAt: req.ScheduledAt,
	}
	if err := s.appointmentRepo.Create(ctx, appt); err != nil {
		return nil, err
	}

	// 通知另一方
	counterpartID := clinicianID
	if creatorID == clinicianID {
		counterpartID = patientID
	}
	if err := s.events.PublishToUser(ctx, counterpartID, &dto.IMEventDTO{
		Type:    consts.EventTypeAppointment,
		Payload: toAppointmentDTO(appt),
	}); err != nil {
		log.WarnContext(ctx, "Failed to publish appointment event", "userID", counterpartID, "err", err)
	}

	return toAppointmentDTO(appt), nil
}

func (s *appointmentServiceImpl) ListByUser(ctx context.Context, userID uint64) ([]*dto.AppointmentDTO, error) {
	appts, err := s.appointmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.AppointmentDTO, 0, len(appts))
	for _, a := range appts {
		res = append(res, toAppointmentDTO(a))
	}
	return res, nil
}

func (s *appointmentServiceImpl) UpdateStatus(ctx context.Context, userID, id uint64, status string) error {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}
	if appt.PatientID != userID && appt.ClinicianID != userID {
		return UnauthorizedError
	}
	return s.appointmentRepo.UpdateStatus(ctx, id, status)
}

// SendDueReminders 单条失败不阻断整批，提醒标记保证不重复发送
func (s *appointmentServiceImpl) SendDueReminders(ctx context.Context, window time.Duration) error {
	appts, err := s.appointmentRepo.ListDueForReminder(ctx, time.Now().Add(window))
	if err != nil {
		return err
	}

	for _, appt := range appts {
		patient, err := s.userRepo.GetByID(ctx, appt.PatientID)
		if err != nil {
			log.WarnContext(ctx, "Reminder target missing", "appointmentID", appt.ID, "err", err)
			continue
		}

		if patient.Phone != nil {
			content := fmt.Sprintf("您有一个预约「%s」将于 %s 开始，地点：%s",
				appt.Title, appt.ScheduledAt.Format("01月02日 15:04"), appt.Location)
			if err := s.sms.Send(ctx, *patient.Phone, content); err != nil {
				log.ErrorContext(ctx, "Failed to send reminder SMS", "appointmentID", appt.ID, "err", err)
				continue
			}
		}

		if err := s.appointmentRepo.MarkReminderSent(ctx, appt.ID); err != nil {
			log.ErrorContext(ctx, "Failed to mark reminder sent", "appointmentID", appt.ID, "err", err)
			continue
		}

		if err := s.events.PublishToUser(ctx, appt.PatientID, &dto.IMEventDTO{
			Type:    consts.EventTypeAppointment,
			Payload: toAppointmentDTO(appt),
		}); err != nil {
			log.WarnContext(ctx, "Failed to publish reminder event", "appointmentID", appt.ID, "err", err)
		}
	}
	return nil
}

func toAppointmentDTO(a *model.Appointment) *dto.AppointmentDTO {
	res := &dto.AppointmentDTO{}
	if err := copier.Copy(res, a); err != nil {
		log.Warn("Failed to copy appointment fields", "err", err)
	}
	return res
}
