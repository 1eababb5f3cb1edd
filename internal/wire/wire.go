package wire

import (
	"Glycora/internal/api"
	"Glycora/internal/api/config"
	"Glycora/internal/api/handler"
	"Glycora/internal/job"
	"Glycora/internal/pkg/cron"
	"Glycora/internal/pkg/kafka"
	pkgmongo "Glycora/internal/pkg/mongo"
	"Glycora/internal/pkg/util"
	"Glycora/internal/repository"
	"Glycora/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	messageRepo := repository.NewMessageRepo(db)
	reactionRepo := repository.NewReactionRepo(db)
	pinRepo := repository.NewPinRepo(db)
	glucoseRepo := repository.NewGlucoseRepo(db)
	medicationRepo := repository.NewMedicationRepo(db)
	appointmentRepo := repository.NewAppointmentRepo(db)
	auditRepo := pkgmongo.NewAuditLogRepo(mongoDB)

	events := service.NewEventPublisher()
	presenceBus := service.NewPresenceBus()
	typing := service.NewTypingTracker(presenceBus)
	uploader := service.NewUploader()
	sms := util.NewSmsSender()

	userService := service.NewUserService(userRepo)
	imService := service.NewIMService(messageRepo, userRepo, events, typing)
	reactionService := service.NewReactionService(reactionRepo, pinRepo, messageRepo, events)
	attachmentService := service.NewAttachmentService(uploader, imService)
	glucoseService := service.NewGlucoseService(glucoseRepo, userRepo, events, imService)
	medicationService := service.NewMedicationService(medicationRepo, userRepo, imService)
	appointmentService := service.NewAppointmentService(appointmentRepo, userRepo, events, sms)
	auditService := service.NewAuditService(auditRepo)

	handlers := &api.HandlersGroup{
		UserHandler:        handler.NewUserHandler(userService),
		IMHandler:          handler.NewIMHandler(imService, reactionService, typing),
		WSHandler:          handler.NewWsHandler(imService, typing),
		AttachmentHandler:  handler.NewAttachmentHandler(attachmentService),
		GlucoseHandler:     handler.NewGlucoseHandler(glucoseService),
		MedicationHandler:  handler.NewMedicationHandler(medicationService),
		AppointmentHandler: handler.NewAppointmentHandler(appointmentService),
		AuditHandler:       handler.NewAuditHandler(auditService),
	}

	router := api.SetupRouter(handlers, auditService)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, glucoseService)
	if err != nil {
		return nil, err
	}

	reminderJob := job.NewAppointmentReminderJob(appointmentService)
	cronMgr := cron.NewCronManager(reminderJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
