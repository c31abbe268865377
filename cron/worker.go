package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tablevoice/config"
	reservationRepo "tablevoice/database/repository/reservation"
	"tablevoice/models"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeReservationReminder = "reservation:reminder"

// ReminderPayload is the task body for a scheduled reservation reminder.
type ReminderPayload struct {
	Code string `json:"code"`
}

// ReminderQueue enqueues reminder tasks for committed reservations.
type ReminderQueue struct {
	client *asynq.Client
	lead   time.Duration
}

// NewReminderQueue builds the asynq client used to schedule reminders.
func NewReminderQueue() *ReminderQueue {
	return &ReminderQueue{
		client: asynq.NewClient(redisOpts()),
		lead:   time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute,
	}
}

// ScheduleReservationReminder enqueues a reminder to fire ahead of the
// reservation time. Reservations too close to now get no reminder.
func (q *ReminderQueue) ScheduleReservationReminder(ctx context.Context, res models.Reservation) error {
	startsAt, err := res.StartsAt(time.Local)
	if err != nil {
		return err
	}
	fireAt := startsAt.Add(-q.lead)
	if !fireAt.After(time.Now()) {
		return nil
	}
	payload, err := json.Marshal(ReminderPayload{Code: res.Code})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeReservationReminder, payload)
	_, err = q.client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt))
	return err
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(repo reservationRepo.Repository) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReservationReminder, handleReminderTask(repo))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(repo reservationRepo.Repository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		res, err := repo.GetByCode(ctx, p.Code)
		if err == reservationRepo.ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		if res.Status != models.ReservationActive {
			// Cancelled since the reminder was scheduled; nothing to do.
			return nil
		}

		// Reminder dispatch (SMS/voice callback) is owned by the transport
		// side; the worker records that the reminder came due.
		log.Printf("[ReminderHandler] reservation %s due: %s at %s for %d guests (%s)",
			res.Code, res.Date, res.Time, res.PartySize, res.CustomerName)
		return nil
	}
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
