package dto

import "time"

// RegisterReq 注册请求体
type RegisterReq struct {
	Username    string `json:"username" binding:"required,min=4,max=20"`
	Password    string `json:"password" binding:"required,min=6,max=64"`
	Role        string `json:"role" binding:"required,oneof=PATIENT CLINICIAN"`
	DisplayName string `json:"display_name" binding:"required,max=100"`
	Phone       string `json:"phone"`
}

// LoginReq 登录请求体
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRes 登录响应
type LoginRes struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

// UserDTO 用户公开信息
type UserDTO struct {
	ID          uint64    `json:"id"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProfileUpdateReq 患者档案更新请求
type ProfileUpdateReq struct {
	DateOfBirth      *time.Time `json:"date_of_birth"`
	DiabetesType     string     `json:"diabetes_type" binding:"omitempty,oneof=TYPE1 TYPE2 GESTATIONAL"`
	DiagnosedAt      *time.Time `json:"diagnosed_at"`
	TargetRangeLow   *float64   `json:"target_range_low" binding:"omitempty,gt=0"`
	TargetRangeHigh  *float64   `json:"target_range_high" binding:"omitempty,gt=0"`
	AssignedDoctorID *uint64    `json:"assigned_doctor_id"`
	EmergencyContact string     `json:"emergency_contact" binding:"max=100"`
}
