package job

import (
	"Glycora/internal/api/config"
	"Glycora/internal/pkg/logger"
	"Glycora/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// AppointmentReminderJob 扫描窗口期内的待赴预约并下发短信提醒
type AppointmentReminderJob struct {
	appointmentService service.AppointmentService
}

func NewAppointmentReminderJob(appointmentService service.AppointmentService) *AppointmentReminderJob {
	return &AppointmentReminderJob{
		appointmentService: appointmentService,
	}
}

func (s *AppointmentReminderJob) Run() {
	traceID := "job-appt-reminder-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	window := time.Duration(config.Cfg.AppointmentReminder.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Hour
	}

	if err := s.appointmentService.SendDueReminders(ctx, window); err != nil {
		log.ErrorContext(ctx, "appointment reminder job error", "err", err)
		return
	}
}
