package model

import "time"

// Medication 用药记录，由医生开具
type Medication struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID    uint64     `gorm:"index" json:"patientId"`
	PrescriberID uint64     `gorm:"index" json:"prescriberId"`
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	Dosage       string     `gorm:"type:varchar(50)" json:"dosage"`    // 如 "500mg"
	Frequency    string     `gorm:"type:varchar(50)" json:"frequency"` // 如 "每日两次"
	Instructions string     `gorm:"type:varchar(255)" json:"instructions"`
	StartedAt    time.Time  `json:"startedAt"`
	EndedAt      *time.Time `json:"endedAt"` // NULL 表示仍在服用
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (Medication) TableName() string { return "medications" }
