package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrUserBan             = errors.New("用户已被封禁")
	ErrUserExist           = errors.New("用户已存在")
	ErrPasswordIncorrect   = errors.New("密码错误")
	ErrTargetUserInvalid   = errors.New("目标用户无效")
	ErrMessageNotFound     = errors.New("消息不存在")
	ErrMessageEmpty        = errors.New("消息内容与附件不能同时为空")
	ErrSelfMessage         = errors.New("不能给自己发送消息")
	ErrFileNotSupported    = errors.New("不支持的文件类型")
	ErrFileTooLarge        = errors.New("附件大小超过 10MB 上限")
	ErrAttachmentUpload    = errors.New("附件上传失败，消息未发送")
	ErrGlucoseNotFound     = errors.New("血糖记录不存在")
	ErrMedicationNotFound  = errors.New("用药记录不存在")
	ErrAppointmentNotFound = errors.New("预约不存在")
	ErrAppointmentPast     = errors.New("预约时间不能早于当前时间")
	UnauthorizedError      = errors.New("权限不足")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrUserNotFound:        NotFound,
	ErrUserBan:             Unauthorized,
	ErrUserExist:           BadRequest,
	ErrPasswordIncorrect:   Unauthorized,
	ErrTargetUserInvalid:   BadRequest,
	ErrMessageNotFound:     NotFound,
	ErrMessageEmpty:        BadRequest,
	ErrSelfMessage:         BadRequest,
	ErrFileNotSupported:    BadRequest,
	ErrFileTooLarge:        BadRequest,
	ErrAttachmentUpload:    BadRequest,
	ErrGlucoseNotFound:     NotFound,
	ErrMedicationNotFound:  NotFound,
	ErrAppointmentNotFound: NotFound,
	ErrAppointmentPast:     BadRequest,
	UnauthorizedError:      Unauthorized,
	UnExpectedError:        InternalServerError,
}
