package service

import (
	"Glycora/internal/api/dto"
	"Glycora/internal/model"
	"Glycora/internal/pkg/consts"
	"Glycora/internal/pkg/redis"
	"Glycora/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// 同一患者越界告警的最小间隔，避免 CGM 连续上报刷屏
const glucoseAlertThrottle = 30 * time.Minute

// GlucoseService 血糖记录服务接口定义
type GlucoseService interface {
	Create(ctx context.Context, patientID uint64, req *dto.CreateGlucoseReq) (*dto.GlucoseReadingDTO, error)
	ListByPatient(ctx context.Context, requesterID, patientID uint64, from, to time.Time, limit int) ([]*dto.GlucoseReadingDTO, error)
	Delete(ctx context.Context, requesterID, id uint64) error
	// IngestDeviceReadings 批量落库 CGM 上报并逐条做越界检查
	IngestDeviceReadings(ctx context.Context, events []*dto.CGMReadingEvent) error
}

type glucoseServiceImpl struct {
	glucoseRepo repository.GlucoseRepo
	userRepo    repository.UserRepo
	events      EventPublisher
	im          IMService
}

func NewGlucoseService(glucoseRepo repository.GlucoseRepo, userRepo repository.UserRepo, events EventPublisher, im IMService) GlucoseService {
	return &glucoseServiceImpl{
		glucoseRepo: glucoseRepo,
		userRepo:    userRepo,
		events:      events,
		im:          im,
	}
}

func (s *glucoseServiceImpl) Create(ctx context.Context, patientID uint64, req *dto.CreateGlucoseReq) (*dto.GlucoseReadingDTO, error) {
	measuredAt := time.Now()
	if req.MeasuredAt != nil {
		measuredAt = *req.MeasuredAt
	}

	reading := &model.GlucoseReading{
		PatientID:  patientID,
		Value:      req.Value,
		Source:     model.GlucoseSourceManual,
		Note:       req.Note,
		MeasuredAt: measuredAt,
	}
	if err := s.glucoseRepo.Create(ctx, reading); err != nil {
		return nil, err
	}

	s.checkRange(ctx, reading)
	return toGlucoseDTO(reading), nil
}

// ListByPatient 患者本人或其主治医生可查
func (s *glucoseServiceImpl) ListByPatient(ctx context.Context, requesterID, patientID uint64, from, to time.Time, limit int) ([]*dto.GlucoseReadingDTO, error) {
	if requesterID != patientID {
		requester, err := s.userRepo.GetByID(ctx, requesterID)
		if err != nil || requester.Role == model.RolePatient {
			return nil, UnauthorizedError
		}
	}

	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if limit <= 0 || limit > 1000 {
		limit = 500
	}

	readings, err := s.glucoseRepo.ListByPatient(ctx, patientID, from, to, limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GlucoseReadingDTO, 0, len(readings))
	for _, r := range readings {
		res = append(res, toGlucoseDTO(r))
	}
	return res, nil
}

func (s *glucoseServiceImpl) Delete(ctx context.Context, requesterID, id uint64) error {
	reading, err := s.glucoseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGlucoseNotFound
		}
		return err
	}
	if reading.PatientID != requesterID {
		return UnauthorizedError
	}
	return s.glucoseRepo.Delete(ctx, id)
}

func (s *glucoseServiceImpl) IngestDeviceReadings(ctx context.Context, events []*dto.CGMReadingEvent) error {
	if len(events) == 0 {
		return nil
	}

	readings := make([]*model.GlucoseReading, 0, len(events))
	for _, e := range events {
		if e.PatientID == 0 || e.Value <= 0 {
			log.WarnContext(ctx, "Dropping malformed CGM event", "patientID", e.PatientID, "value", e.Value)
			continue
		}
		readings = append(readings, &model.GlucoseReading{
			PatientID:  e.PatientID,
			Value:      e.Value,
			Source:     model.GlucoseSourceCGM,
			DeviceID:   e.DeviceID,
			MeasuredAt: time.Unix(e.MeasuredAt, 0),
		})
	}

	if err := s.glucoseRepo.BatchCreate(ctx, readings); err != nil {
		return err
	}

	for _, r := range readings {
		s.checkRange(ctx, r)
	}
	return nil
}

// checkRange 对照患者档案的目标范围，越界则推送告警并留一条系统消息
// 告警失败不影响血糖记录本身，只记日志。
func (s *glucoseServiceImpl) checkRange(ctx context.Context, reading *model.GlucoseReading) {
	profile, err := s.userRepo.GetProfile(ctx, reading.PatientID)
	if err != nil {
		return
	}

	var direction string
	switch {
	case reading.Value < profile.TargetRangeLow:
		direction = "低于"
	case reading.Value > profile.TargetRangeHigh:
		direction = "高于"
	default:
		return
	}

	throttleKey := consts.GlucoseAlertKey + strconv.FormatUint(reading.PatientID, 10)
	if last, err := redis.GetValue(ctx, throttleKey); err == nil && last != "" {
		return
	}
	if err := redis.SetWithExpiration(ctx, throttleKey, "1", glucoseAlertThrottle); err != nil {
		log.WarnContext(ctx, "Failed to set glucose alert throttle", "patientID", reading.PatientID, "err", err)
	}

	content := fmt.Sprintf("血糖 %.1f mg/dL %s目标范围 (%.0f-%.0f)，请关注。",
		reading.Value, direction, profile.TargetRangeLow, profile.TargetRangeHigh)

	if err := s.events.PublishToUser(ctx, reading.PatientID, &dto.IMEventDTO{
		Type: consts.EventTypeGlucose,
		Payload: map[string]interface{}{
			"value":       reading.Value,
			"measured_at": reading.MeasuredAt,
			"content":     content,
		},
	}); err != nil {
		log.WarnContext(ctx, "Failed to publish glucose alert", "patientID", reading.PatientID, "err", err)
	}

	if err := s.im.SendSystemMessage(ctx, reading.PatientID, "血糖告警", content); err != nil {
		log.WarnContext(ctx, "Failed to send glucose alert message", "patientID", reading.PatientID, "err", err)
	}
	// 有主治医生时同步抄送
	if profile.AssignedDoctorID != nil {
		if err := s.im.SendSystemMessage(ctx, *profile.AssignedDoctorID, "患者血糖告警", content); err != nil {
			log.WarnContext(ctx, "Failed to notify clinician", "clinicianID", *profile.AssignedDoctorID, "err", err)
		}
	}
}

func toGlucoseDTO(r *model.GlucoseReading) *dto.GlucoseReadingDTO {
	res := &dto.GlucoseReadingDTO{}
	if err := copier.Copy(res, r); err != nil {
		log.Warn("Failed to copy glucose fields", "err", err)
	}
	return res
}
