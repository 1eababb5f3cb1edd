package api

import (
	"Glycora/internal/api/middleware"
	"Glycora/internal/model"
	"Glycora/internal/pkg/logger"
	"Glycora/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, auditSvc service.AuditService) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware(auditSvc))
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.GET("/contacts", group.UserHandler.GetContacts)
				authGroup.GET("/profile", group.UserHandler.GetProfile)
				authGroup.PUT("/profile", group.UserHandler.UpdateProfile)
			}
		}

		imGroup := apiGroup.Group("/im")
		{
			imGroup.GET("/ws", group.WSHandler.Connect)

			authGroup := imGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/conversations", group.IMHandler.GetConversationList)
				authGroup.POST("/conversations/:peer_id/select", group.IMHandler.SelectConversation)
				authGroup.GET("/system", group.IMHandler.GetSystemMessages)
				authGroup.POST("/messages", group.IMHandler.SendMessage)
				authGroup.POST("/messages/attachment", group.AttachmentHandler.SendWithAttachment)
				authGroup.GET("/messages/:message_id/replies", group.IMHandler.GetReplies)
				authGroup.GET("/messages/:message_id/replies/count", group.IMHandler.GetThreadCount)
				authGroup.GET("/messages/:message_id/reactions", group.IMHandler.GetMessageReactions)
				authGroup.POST("/reactions/toggle", group.IMHandler.ToggleReaction)
				authGroup.POST("/pins/toggle", group.IMHandler.TogglePin)
				authGroup.GET("/pins", group.IMHandler.GetPinnedMessages)
				authGroup.POST("/typing", group.IMHandler.Typing)
				authGroup.POST("/attachments", group.AttachmentHandler.Upload)
			}
		}

		glucoseGroup := apiGroup.Group("/glucose")
		glucoseGroup.Use(middleware.AuthMiddleware())
		{
			glucoseGroup.POST("", middleware.CheckRoles(model.RolePatient), group.GlucoseHandler.Create)
			glucoseGroup.GET("", group.GlucoseHandler.List)
			glucoseGroup.DELETE("/:id", middleware.CheckRoles(model.RolePatient), group.GlucoseHandler.Delete)
		}

		medicationGroup := apiGroup.Group("/medications")
		medicationGroup.Use(middleware.AuthMiddleware())
		{
			medicationGroup.POST("", middleware.CheckRoles(model.RoleClinician), group.MedicationHandler.Prescribe)
			medicationGroup.GET("", group.MedicationHandler.List)
			medicationGroup.PUT("/:id/discontinue", middleware.CheckRoles(model.RoleClinician), group.MedicationHandler.Discontinue)
		}

		appointmentGroup := apiGroup.Group("/appointments")
		appointmentGroup.Use(middleware.AuthMiddleware())
		{
			appointmentGroup.POST("", group.AppointmentHandler.Create)
			appointmentGroup.GET("", group.AppointmentHandler.List)
			appointmentGroup.PUT("/:id/status", group.AppointmentHandler.UpdateStatus)
		}

		// 需要登录 & 拥有 admin 角色
		auditGroup := apiGroup.Group("/audit")
		auditGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(model.RoleAdmin))
		{
			auditGroup.GET("/logs", group.AuditHandler.List)
		}
	}

	return r
}
