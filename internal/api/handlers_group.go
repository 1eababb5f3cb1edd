package api

import "Glycora/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler        *handler.UserHandler
	IMHandler          *handler.IMHandler
	WSHandler          *handler.WsHandler
	AttachmentHandler  *handler.AttachmentHandler
	GlucoseHandler     *handler.GlucoseHandler
	MedicationHandler  *handler.MedicationHandler
	AppointmentHandler *handler.AppointmentHandler
	AuditHandler       *handler.AuditHandler
}
