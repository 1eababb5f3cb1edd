package repository

import (
	"Glycora/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type AppointmentRepo interface {
	Create(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id uint64) (*model.Appointment, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	// ListDueForReminder 返回窗口期内尚未提醒的待赴预约
	ListDueForReminder(ctx context.Context, until time.Time) ([]*model.Appointment, error)
	MarkReminderSent(ctx context.Context, id uint64) error
}

type appointmentRepoImpl struct {
	db *gorm.DB
}

func NewAppointmentRepo(db *gorm.DB) AppointmentRepo {
	return &appointmentRepoImpl{db: db}
}

func (s *appointmentRepoImpl) Create(ctx context.Context, appt *model.Appointment) error {
	return s.db.WithContext(ctx).Create(appt).Error
}

func (s *appointmentRepoImpl) GetByID(ctx context.Context, id uint64) (*model.Appointment, error) {
	var appt model.Appointment
	err := s.db.WithContext(ctx).First(&appt, id).Error
	return &appt, err
}

func (s *appointmentRepoImpl) ListByUser(ctx context.Context, userID uint64) ([]*model.Appointment, error) {
	var appts []*model.Appointment
	err := s.db.WithContext(ctx).
		Where("patient_id = ? OR clinician_id = ?", userID, userID).
		Order("scheduled_at ASC").
		Find(&appts).Error
	return appts, err
}

func (s *appointmentRepoImpl) UpdateStatus(ctx context.Context, id uint64, status string) error {
	return s.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *appointmentRepoImpl) ListDueForReminder(ctx context.Context, until time.Time) ([]*model.Appointment, error) {
	var appts []*model.Appointment
	err := s.db.WithContext(ctx).
		Where("status = ? AND reminder_sent = 0 AND scheduled_at BETWEEN ? AND ?",
			model.AppointmentStatusScheduled, time.Now(), until).
		Find(&appts).Error
	return appts, err
}

func (s *appointmentRepoImpl) MarkReminderSent(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("reminder_sent", 1).Error
}
