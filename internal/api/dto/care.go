package dto

import "time"

// CreateGlucoseReq 手动录入血糖
type CreateGlucoseReq struct {
	Value      float64    `json:"value" binding:"required,gt=0,lt=1000"` // mg/dL
	Note       string     `json:"note" binding:"max=255"`
	MeasuredAt *time.Time `json:"measured_at"`
}

// GlucoseReadingDTO 血糖记录响应
type GlucoseReadingDTO struct {
	ID         uint64    `json:"id"`
	PatientID  uint64    `json:"patientId"`
	Value      float64   `json:"value"`
	Source     string    `json:"source"`
	DeviceID   string    `json:"deviceId,omitempty"`
	Note       string    `json:"note,omitempty"`
	MeasuredAt time.Time `json:"measuredAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CGMReadingEvent CGM 设备经 Kafka 上报的血糖事件
type CGMReadingEvent struct {
	PatientID  uint64  `json:"patient_id"`
	DeviceID   string  `json:"device_id"`
	Value      float64 `json:"value"`
	MeasuredAt int64   `json:"measured_at"` // Unix 秒
}

// CreateMedicationReq 开具用药
type CreateMedicationReq struct {
	PatientID    uint64     `json:"patient_id" binding:"required"`
	Name         string     `json:"name" binding:"required,max=100"`
	Dosage       string     `json:"dosage" binding:"max=50"`
	Frequency    string     `json:"frequency" binding:"max=50"`
	Instructions string     `json:"instructions" binding:"max=255"`
	StartedAt    *time.Time `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at"`
}

// MedicationDTO 用药记录响应
type MedicationDTO struct {
	ID           uint64     `json:"id"`
	PatientID    uint64     `json:"patientId"`
	PrescriberID uint64     `json:"prescriberId"`
	Name         string     `json:"name"`
	Dosage       string     `json:"dosage"`
	Frequency    string     `json:"frequency"`
	Instructions string     `json:"instructions"`
	StartedAt    time.Time  `json:"startedAt"`
	EndedAt      *time.Time `json:"endedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// CreateAppointmentReq 创建预约
type CreateAppointmentReq struct {
	PatientID   uint64    `json:"patient_id"`
	ClinicianID uint64    `json:"clinician_id"`
	Title       string    `json:"title" binding:"required,max=100"`
	Location    string    `json:"location" binding:"max=100"`
	Note        string    `json:"note" binding:"max=255"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// UpdateAppointmentStatusReq 预约状态变更
type UpdateAppointmentStatusReq struct {
	Status string `json:"status" binding:"required,oneof=scheduled completed cancelled"`
}

// AppointmentDTO 预约响应
type AppointmentDTO struct {
	ID          uint64    `json:"id"`
	PatientID   uint64    `json:"patientId"`
	ClinicianID uint64    `json:"clinicianId"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Note        string    `json:"note"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduledAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
