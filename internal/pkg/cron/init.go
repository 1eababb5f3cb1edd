package cron

import (
	"fmt"
	log "log/slog"
)

func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("failed to register cron jobs: %w", err)
	}
	mgr.Start()
	log.Info("Cron jobs started")
	return nil
}
