package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"library-api/internal/config"
	"library-api/internal/shared"
	"library-api/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddress string, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterLoanJobs() error {
	return s.registerOverdueReminderJob()
}

// ================================================
// JOB: Send Overdue Reminders
// ================================================
// One tick queries the overdue loans and mails each customer. Ticks are
// independent and not idempotent: a loan still overdue next tick is
// reminded again.
func (s *Scheduler) registerOverdueReminderJob() error {
	task := asynq.NewTask(shared.TypeSendOverdueReminders, nil)

	_, err := s.scheduler.Register(
		s.jobConfig.ReminderCron,
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SendOverdueReminders job", err)
		return err
	}

	logger.Info("✓ Registered SendOverdueReminders", map[string]interface{}{
		"cron": s.jobConfig.ReminderCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
