package cron

import (
	"Glycora/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine      *cron.Cron
	reminderJob *job.AppointmentReminderJob
}

func NewCronManager(reminderJob *job.AppointmentReminderJob) *Manager {
	return &Manager{
		engine:      cron.New(cron.WithSeconds()),
		reminderJob: reminderJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	// 每分钟扫描一次临近预约
	if _, err := s.engine.AddJob("0 * * * * *", s.reminderJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
