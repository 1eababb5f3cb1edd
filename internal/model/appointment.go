package model

import "time"

const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment 患者与医生之间的预约
type Appointment struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID    uint64    `gorm:"index" json:"patientId"`
	ClinicianID  uint64    `gorm:"index" json:"clinicianId"`
	Title        string    `gorm:"type:varchar(100)" json:"title"`
	Location     string    `gorm:"type:varchar(100)" json:"location"`
	Note         string    `gorm:"type:varchar(255)" json:"note"`
	Status       string    `gorm:"type:varchar(20);default:'scheduled';index" json:"status"`
	ScheduledAt  time.Time `gorm:"index" json:"scheduledAt"`
	ReminderSent bool      `gorm:"type:tinyint(1);default:0" json:"-"` // 短信提醒是否已发出
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Appointment) TableName() string { return "appointments" }
