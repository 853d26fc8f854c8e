package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"moim/config"
	"moim/models"
	"moim/services/appointment"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// resyncRedisOpt builds the connection options for the resync queue.
func resyncRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisResyncQueueDB,
	}
}

// NewResyncClient returns an asynq client bound to the resync queue.
func NewResyncClient() *asynq.Client {
	return asynq.NewClient(resyncRedisOpt())
}

// InitResyncWorker runs the availability resync worker in background.
func InitResyncWorker(apptSvc appointment.AppointmentService) {
	srv := asynq.NewServer(
		resyncRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(models.TypeAvailabilityResync, handleResyncTask(apptSvc))

	go monitorRedisConnection()

	go func() {
		log.Println("[ResyncWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ResyncWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ResyncWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleResyncTask(apptSvc appointment.AppointmentService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ResyncPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ResyncHandler] invalid payload: %v", err)
			return err
		}

		if err := apptSvc.RefreshAvailability(ctx, p.AppointmentID, p.UserID); err != nil {
			log.Printf("[ResyncHandler] resync failed for user %s in appointment %s: %v", p.UserID, p.AppointmentID, err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisResyncQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ResyncWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
