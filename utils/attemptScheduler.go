package utils

import (
	"atomq/config"
	"atomq/database"
	"atomq/quiz"
	"log"

	"github.com/robfig/cron/v3"
)

// InitializeAttemptSweeper starts the scheduler that auto-submits IN_PROGRESS
// attempts whose quiz time limit has elapsed. Cadence comes from
// ATTEMPT_SWEEP_CRON (default every minute).
func InitializeAttemptSweeper() {
	log.Println("[ATTEMPT-SWEEPER] Initializing attempt sweeper...")

	c := cron.New()

	_, err := c.AddFunc(config.AppConfig.SweepCron, func() {
		SweepOverdueAttempts()
	})
	if err != nil {
		log.Printf("[ATTEMPT-SWEEPER] Invalid sweep schedule %q: %v", config.AppConfig.SweepCron, err)
		return
	}

	c.Start()
	log.Printf("[ATTEMPT-SWEEPER] Attempt sweeper started - schedule %q", config.AppConfig.SweepCron)
}

// SweepOverdueAttempts auto-submits every overdue attempt once
func SweepOverdueAttempts() {
	service := quiz.NewService(quiz.NewGormStore(database.Database.Db))

	closed, err := service.ExpireOverdue()
	if err != nil {
		log.Printf("[ATTEMPT-SWEEPER] Error sweeping overdue attempts: %v", err)
		return
	}
	if closed > 0 {
		log.Printf("[ATTEMPT-SWEEPER] Auto-submitted %d overdue attempt(s)", closed)
	}
}
