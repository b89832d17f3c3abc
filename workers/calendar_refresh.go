package workers

import (
	"context"

	"remindly/config"
	"remindly/services/calendar"
	"remindly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeCalendarRefresh = "calendar:refresh"

// InitCalendarRefreshWorker starts an in-process asynq server plus scheduler
// that periodically regenerates the availability calendar so the booking
// horizon rolls forward. Disabled when no cron spec is configured.
func InitCalendarRefreshWorker(store *calendar.Store) {
	logger := utils.GetLogger()

	cronSpec := config.AppConfig.CalendarRefreshCron
	if cronSpec == "" {
		logger.Info("Calendar refresh worker disabled (no cron spec configured)")
		return
	}

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 1,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCalendarRefresh, handleCalendarRefresh(store))

	scheduler := asynq.NewScheduler(redisOpts, nil)
	if _, err := scheduler.Register(cronSpec, asynq.NewTask(TypeCalendarRefresh, nil)); err != nil {
		logger.Error("Failed to register calendar refresh schedule", zap.Error(err))
		return
	}

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Error("Calendar refresh worker stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("Calendar refresh scheduler stopped", zap.Error(err))
		}
	}()

	logger.Info("Calendar refresh worker started", zap.String("cron", cronSpec))
}

func handleCalendarRefresh(store *calendar.Store) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()
		store.Generate(
			config.AppConfig.CalendarHorizonDays,
			calendar.DefaultStartHour,
			calendar.DefaultEndHour,
			calendar.DefaultSlotMinutes,
			config.AppConfig.CalendarOccupancy,
		)
		logger.Info("Availability calendar regenerated")
		return nil
	}
}
