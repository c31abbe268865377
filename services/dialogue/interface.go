package dialogue

import (
	"context"
	"time"

	"tablevoice/config"
	"tablevoice/models"
)

// Service runs one dialogue turn: load the call's session, advance the state
// machine on the new input, persist, and say what to prompt next. Every turn
// yields a well-formed result; engine failures become apology terminals, not
// HTTP errors.
type Service interface {
	HandleTurn(ctx context.Context, in models.TurnInput) (models.TurnResult, error)
}

// ReminderScheduler enqueues a reminder for a committed reservation.
// Implementations live outside the engine; a nil scheduler is skipped.
type ReminderScheduler interface {
	ScheduleReservationReminder(ctx context.Context, res models.Reservation) error
}

// Options are the engine's tunables, normally sourced from AppConfig.
type Options struct {
	OpenHour       int
	CloseHour      int
	MaxAttempts    int
	SessionTTL     time.Duration
	MaxPartySize   int
	FallbackPrompt string
	FallbackAction string // "hangup" or "transfer"
	TransferNumber string
}

// OptionsFromConfig builds engine options from the loaded configuration.
func OptionsFromConfig() Options {
	cfg := config.AppConfig
	return Options{
		OpenHour:       cfg.ServiceOpenHour,
		CloseHour:      cfg.ServiceCloseHour,
		MaxAttempts:    cfg.MaxSlotAttempts,
		SessionTTL:     time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		MaxPartySize:   cfg.MaxPartySize,
		FallbackPrompt: cfg.FallbackPrompt,
		FallbackAction: cfg.FallbackAction,
		TransferNumber: cfg.TransferNumber,
	}
}
