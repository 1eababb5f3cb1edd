package model

import "time"

const (
	GlucoseSourceManual = "manual"
	GlucoseSourceCGM    = "cgm"
)

// GlucoseReading 血糖记录，手动录入或由 CGM 设备经 Kafka 上报
type GlucoseReading struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID  uint64    `gorm:"index:idx_patient_time" json:"patientId"`
	Value      float64   `gorm:"not null" json:"value"` // mg/dL
	Source     string    `gorm:"type:varchar(20);default:'manual'" json:"source"`
	DeviceID   string    `gorm:"type:varchar(64)" json:"deviceId"`
	Note       string    `gorm:"type:varchar(255)" json:"note"`
	MeasuredAt time.Time `gorm:"index:idx_patient_time" json:"measuredAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (GlucoseReading) TableName() string { return "glucose_readings" }
