package repository

import (
	"Glycora/internal/model"
	"context"

	"gorm.io/gorm"
)

type MedicationRepo interface {
	Create(ctx context.Context, med *model.Medication) error
	GetByID(ctx context.Context, id uint64) (*model.Medication, error)
	ListByPatient(ctx context.Context, patientID uint64) ([]*model.Medication, error)
	Update(ctx context.Context, med *model.Medication) error
	Delete(ctx context.Context, id uint64) error
}

type medicationRepoImpl struct {
	db *gorm.DB
}

func NewMedicationRepo(db *gorm.DB) MedicationRepo {
	return &medicationRepoImpl{db: db}
}

func (s *medicationRepoImpl) Create(ctx context.Context, med *model.Medication) error {
	return s.db.WithContext(ctx).Create(med).Error
}

func (s *medicationRepoImpl) GetByID(ctx context.Context, id uint64) (*model.Medication, error) {
	var med model.Medication
	err := s.db.WithContext(ctx).First(&med, id).Error
	return &med, err
}

func (s *medicationRepoImpl) ListByPatient(ctx context.Context, patientID uint64) ([]*model.Medication, error) {
	var meds []*model.Medication
	err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("started_at DESC").
		Find(&meds).Error
	return meds, err
}

func (s *medicationRepoImpl) Update(ctx context.Context, med *model.Medication) error {
	return s.db.WithContext(ctx).Save(med).Error
}

func (s *medicationRepoImpl) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Medication{}, id).Error
}
