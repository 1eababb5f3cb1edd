package model

import (
	"time"
)

const (
	RolePatient   = "PATIENT"
	RoleClinician = "CLINICIAN"
	RoleAdmin     = "ADMIN"
)

// User 平台用户：患者、医生或管理员
type User struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"type:varchar(50);uniqueIndex:idx_username" json:"username"`
	Password    string    `gorm:"type:varchar(255)" json:"-"`
	Role        string    `gorm:"type:varchar(20);not null;index" json:"role"` // PATIENT / CLINICIAN / ADMIN
	DisplayName string    `gorm:"type:varchar(100)" json:"displayName"`
	Phone       *string   `gorm:"type:varchar(30);uniqueIndex:idx_phone" json:"phone,omitempty"`
	AvatarURL   string    `gorm:"type:varchar(255)" json:"avatarUrl"`
	IsBan       bool      `gorm:"type:tinyint(1);default:0" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Profile *PatientProfile `gorm:"foreignKey:UserID;references:ID" json:"profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// PatientProfile 患者档案（医生与管理员无档案记录）
type PatientProfile struct {
	ID                uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint64     `gorm:"uniqueIndex" json:"userId"`
	DateOfBirth       *time.Time `json:"dateOfBirth"`
	DiabetesType      string     `gorm:"type:varchar(20)" json:"diabetesType"` // TYPE1 / TYPE2 / GESTATIONAL
	DiagnosedAt       *time.Time `json:"diagnosedAt"`
	TargetRangeLow    float64    `gorm:"default:70" json:"targetRangeLow"`   // mg/dL
	TargetRangeHigh   float64    `gorm:"default:180" json:"targetRangeHigh"` // mg/dL
	AssignedDoctorID  *uint64    `gorm:"index" json:"assignedDoctorId"`
	EmergencyContact  string     `gorm:"type:varchar(100)" json:"emergencyContact"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}
