package repository

import (
	"Glycora/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type GlucoseRepo interface {
	Create(ctx context.Context, reading *model.GlucoseReading) error
	BatchCreate(ctx context.Context, readings []*model.GlucoseReading) error
	GetByID(ctx context.Context, id uint64) (*model.GlucoseReading, error)
	ListByPatient(ctx context.Context, patientID uint64, from, to time.Time, limit int) ([]*model.GlucoseReading, error)
	Delete(ctx context.Context, id uint64) error
}

type glucoseRepoImpl struct {
	db *gorm.DB
}

func NewGlucoseRepo(db *gorm.DB) GlucoseRepo {
	return &glucoseRepoImpl{db: db}
}

func (s *glucoseRepoImpl) Create(ctx context.Context, reading *model.GlucoseReading) error {
	return s.db.WithContext(ctx).Create(reading).Error
}

// BatchCreate 批量写入，供 Kafka 消费者按批落库
func (s *glucoseRepoImpl) BatchCreate(ctx context.Context, readings []*model.GlucoseReading) error {
	if len(readings) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&readings).Error
}

func (s *glucoseRepoImpl) GetByID(ctx context.Context, id uint64) (*model.GlucoseReading, error) {
	var reading model.GlucoseReading
	err := s.db.WithContext(ctx).First(&reading, id).Error
	return &reading, err
}

func (s *glucoseRepoImpl) ListByPatient(ctx context.Context, patientID uint64, from, to time.Time, limit int) ([]*model.GlucoseReading, error) {
	var readings []*model.GlucoseReading
	err := s.db.WithContext(ctx).
		Where("patient_id = ? AND measured_at BETWEEN ? AND ?", patientID, from, to).
		Order("measured_at DESC").
		Limit(limit).
		Find(&readings).Error
	return readings, err
}

func (s *glucoseRepoImpl) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.GlucoseReading{}, id).Error
}
