package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationRepo "tablevoice/database/repository/reservation"
	"tablevoice/models"
	"tablevoice/services/extraction"

	"go.uber.org/zap"
)

// DefaultDialogueService is the turn-based dialogue engine. All per-call
// state lives in the CallSession loaded from the store; the service itself
// holds no mutable call state and may serve any number of calls in parallel.
type DefaultDialogueService struct {
	Store     SessionStore
	Repo      reservationRepo.Repository
	Reminders ReminderScheduler
	Opts      Options
	Logger    *zap.Logger

	// Now is the clock used to resolve relative dates; tests override it.
	Now func() time.Time
}

func (s *DefaultDialogueService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultDialogueService) resolver() extraction.TimeResolver {
	return extraction.TimeResolver{OpenHour: s.Opts.OpenHour, CloseHour: s.Opts.CloseHour}
}

// HandleTurn processes one webhook turn for a call. The returned TurnResult
// is always usable by the transport; a non-nil error only signals that the
// outcome was an infrastructure apology worth logging upstream too.
func (s *DefaultDialogueService) HandleTurn(ctx context.Context, in models.TurnInput) (models.TurnResult, error) {
	release, err := s.Store.Acquire(ctx, in.CallID)
	if err != nil {
		s.Logger.Error("failed to acquire turn lock", zap.String("callId", in.CallID), zap.Error(err))
		return apologyResult(), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer release()

	sess, err := s.Store.Get(ctx, in.CallID)
	if err != nil {
		s.Logger.Error("failed to load session", zap.String("callId", in.CallID), zap.Error(err))
		return apologyResult(), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if sess == nil {
		// Evicted or brand new: either way the call starts over.
		sess = models.NewCallSession(in.CallID)
	}
	if in.From != "" && sess.CallerNumber == "" {
		sess.CallerNumber = in.From
	}

	if sess.State.Terminal() {
		return models.TurnResult{PromptText: promptGoodbye, Terminal: true}, nil
	}

	result := s.advance(ctx, sess, in)
	sess.UpdatedAt = s.now().UTC()

	// Terminal sessions are kept (until the TTL evicts them) so a duplicate
	// delivery of the final turn observes the committed state instead of
	// replaying it.
	if err := s.Store.Put(ctx, in.CallID, sess, s.Opts.SessionTTL); err != nil {
		s.Logger.Error("failed to persist session", zap.String("callId", in.CallID), zap.Error(err))
		if result.Terminal {
			// The outcome already happened; a stale session only matters
			// for duplicate deliveries.
			return result, nil
		}
		return apologyResult(), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return result, nil
}

// advance routes one input through the state machine, mutating the session.
func (s *DefaultDialogueService) advance(ctx context.Context, sess *models.CallSession, in models.TurnInput) models.TurnResult {
	switch sess.State {
	case models.StateGreeting:
		sess.State = models.StateAwaitIntent
		return listen(promptGreeting)

	case models.StateAwaitIntent:
		return s.onIntent(sess, in)

	case models.StateAwaitName:
		return s.onName(sess, in)

	case models.StateAwaitDate:
		return s.onDate(sess, in)

	case models.StateAwaitTime:
		return s.onTime(sess, in)

	case models.StateAwaitTimeClarify:
		return s.onTimeClarification(sess, in)

	case models.StateAwaitPartySize:
		return s.onPartySize(ctx, sess, in)

	case models.StateAwaitReservationCode:
		return s.onReservationCode(ctx, sess, in)

	default:
		s.Logger.Warn("session in unexpected state", zap.String("callId", sess.CallID), zap.String("state", string(sess.State)))
		sess.State = models.StateAwaitIntent
		return listen(promptGreeting)
	}
}

func (s *DefaultDialogueService) onIntent(sess *models.CallSession, in models.TurnInput) models.TurnResult {
	if extraction.IsHelpRequest(in.RawInput) {
		return listen(promptGreeting)
	}
	intent, ok := extraction.ExtractIntent(in.RawInput, in.InputKind)
	if !ok {
		return s.failSlot(sess, models.SlotIntent, "")
	}
	sess.Intent = intent
	sess.ClearAttempts(models.SlotIntent)
	switch intent {
	case models.IntentMake:
		sess.State = models.StateAwaitName
		return listen(promptAskName())
	default: // CHECK or CANCEL
		sess.State = models.StateAwaitReservationCode
		return listen(promptAskCode(intent))
	}
}

func (s *DefaultDialogueService) onName(sess *models.CallSession, in models.TurnInput) models.TurnResult {
	name, ok := extraction.ExtractName(in.RawInput)
	if !ok {
		return s.failSlot(sess, models.SlotName, "")
	}
	sess.Slots.Name = name
	sess.ClearAttempts(models.SlotName)
	sess.State = models.StateAwaitDate
	return listen(promptAskDate(name))
}

func (s *DefaultDialogueService) onDate(sess *models.CallSession, in models.TurnInput) models.TurnResult {
	date, ok := extraction.ExtractDate(in.RawInput, s.now())
	if !ok {
		return s.failSlot(sess, models.SlotDate, "")
	}
	sess.Slots.Date = date
	sess.ClearAttempts(models.SlotDate)
	sess.State = models.StateAwaitTime
	return listen(promptAskTime(date))
}

func (s *DefaultDialogueService) onTime(sess *models.CallSession, in models.TurnInput) models.TurnResult {
	tokens, ok := extraction.ExtractTimeTokens(in.RawInput)
	if !ok {
		return s.failSlot(sess, models.SlotTime, "")
	}
	res := s.resolver().Resolve(tokens.Hour, tokens.Minute, tokens.Cue)
	switch res.Status {
	case extraction.TimeResolved:
		return s.fillTime(sess, res)
	case extraction.TimeAmbiguous:
		if sess.ClarificationUsed {
			// One clarification per time-collection attempt; a second
			// ambiguous answer is a hard failure so the loop terminates.
			return s.failSlot(sess, models.SlotTime, "")
		}
		sess.ClarificationUsed = true
		sess.Pending = &models.PendingTime{Hour: res.Candidate, Minute: res.Minute}
		sess.State = models.StateAwaitTimeClarify
		return listen(promptClarifyTime(res.Candidate))
	default:
		return s.failSlot(sess, models.SlotTime, promptTimeOutsideWindow())
	}
}

func (s *DefaultDialogueService) onTimeClarification(sess *models.CallSession, in models.TurnInput) models.TurnResult {
	pending := sess.Pending
	sess.Pending = nil
	sess.State = models.StateAwaitTime
	if pending == nil {
		return listen(repromptFor(models.SlotTime, 1))
	}
	cue, ok := extraction.ExtractClarificationCue(in.RawInput)
	if !ok {
		return s.failSlot(sess, models.SlotTime, "")
	}
	res := s.resolver().Resolve(pending.Hour, pending.Minute, cue)
	if res.Status != extraction.TimeResolved {
		return s.failSlot(sess, models.SlotTime, promptTimeOutsideWindow())
	}
	return s.fillTime(sess, res)
}

func (s *DefaultDialogueService) fillTime(sess *models.CallSession, res extraction.TimeResolution) models.TurnResult {
	sess.Slots.Time = res.Canonical()
	sess.ClearAttempts(models.SlotTime)
	sess.ClarificationUsed = false
	sess.Pending = nil
	sess.State = models.StateAwaitPartySize
	return listen(promptAskPartySize(sess.Slots.Time))
}

func (s *DefaultDialogueService) onPartySize(ctx context.Context, sess *models.CallSession, in models.TurnInput) models.TurnResult {
	n, ok := extraction.ExtractPartySize(in.RawInput, s.Opts.MaxPartySize)
	if !ok {
		return s.failSlot(sess, models.SlotPartySize, "")
	}
	sess.Slots.PartySize = n
	sess.ClearAttempts(models.SlotPartySize)
	sess.State = models.StateConfirm
	return s.commit(ctx, sess)
}

// commit synthesizes the reservation once all four slots are valid.
// Repository failure routes to the error terminal without corrupting slots.
func (s *DefaultDialogueService) commit(ctx context.Context, sess *models.CallSession) models.TurnResult {
	res, err := s.Repo.Create(ctx, models.Reservation{
		CustomerName: sess.Slots.Name,
		Contact:      sess.CallerNumber,
		Date:         sess.Slots.Date,
		Time:         sess.Slots.Time,
		PartySize:    sess.Slots.PartySize,
	})
	if err != nil {
		s.Logger.Error("failed to create reservation", zap.String("callId", sess.CallID), zap.Error(err))
		sess.State = models.StateFailed
		return apologyResult()
	}
	if s.Reminders != nil {
		if err := s.Reminders.ScheduleReservationReminder(ctx, *res); err != nil {
			// Reminders are best effort; the reservation stands.
			s.Logger.Warn("failed to schedule reminder", zap.String("code", res.Code), zap.Error(err))
		}
	}
	s.Logger.Info("reservation committed",
		zap.String("callId", sess.CallID),
		zap.String("code", res.Code),
		zap.String("date", res.Date),
		zap.String("time", res.Time),
		zap.Int("partySize", res.PartySize),
	)
	sess.State = models.StateComplete
	return models.TurnResult{PromptText: promptConfirmed(*res), Terminal: true}
}

func (s *DefaultDialogueService) onReservationCode(ctx context.Context, sess *models.CallSession, in models.TurnInput) models.TurnResult {
	code, ok := extraction.ExtractReservationCode(in.RawInput)
	if !ok {
		return s.failSlot(sess, models.SlotCode, "")
	}

	if sess.Intent == models.IntentCancel {
		err := s.Repo.Cancel(ctx, code)
		switch {
		case err == nil:
			sess.State = models.StateComplete
			return models.TurnResult{PromptText: promptCancelled(code), Terminal: true}
		case errors.Is(err, reservationRepo.ErrNotFound):
			// Not found is a normal outcome, but it still burns an attempt
			// so an endless guessing loop cannot form.
			return s.failSlot(sess, models.SlotCode, promptCodeNotFound(code))
		default:
			s.Logger.Error("failed to cancel reservation", zap.String("code", code), zap.Error(err))
			sess.State = models.StateFailed
			return apologyResult()
		}
	}

	res, err := s.Repo.GetByCode(ctx, code)
	switch {
	case err == nil:
		sess.State = models.StateComplete
		return models.TurnResult{PromptText: promptCheckFound(*res), Terminal: true}
	case errors.Is(err, reservationRepo.ErrNotFound):
		return s.failSlot(sess, models.SlotCode, promptCodeNotFound(code))
	default:
		s.Logger.Error("failed to look up reservation", zap.String("code", code), zap.Error(err))
		sess.State = models.StateFailed
		return apologyResult()
	}
}

// failSlot counts a failed attempt at the active slot. Within the ceiling it
// re-prompts with increasing specificity (or the given override); at the
// ceiling it routes to the configurable fallback terminal.
func (s *DefaultDialogueService) failSlot(sess *models.CallSession, slot models.Slot, override string) models.TurnResult {
	attempt := sess.BumpAttempts(slot)
	if attempt >= s.Opts.MaxAttempts {
		sess.State = models.StateFallback
		s.Logger.Info("attempt ceiling reached",
			zap.String("callId", sess.CallID),
			zap.String("slot", string(slot)),
			zap.Int("attempts", attempt),
		)
		return models.TurnResult{PromptText: s.fallbackPrompt(), Terminal: true}
	}
	prompt := override
	if prompt == "" {
		prompt = repromptFor(slot, attempt)
	}
	return listen(prompt)
}

func (s *DefaultDialogueService) fallbackPrompt() string {
	if s.Opts.FallbackAction == "transfer" && s.Opts.TransferNumber != "" {
		return fmt.Sprintf("Let me connect you with our staff at %s. One moment please.", s.Opts.TransferNumber)
	}
	return s.Opts.FallbackPrompt
}

func listen(prompt string) models.TurnResult {
	return models.TurnResult{PromptText: prompt, ExpectInput: true}
}

func apologyResult() models.TurnResult {
	return models.TurnResult{PromptText: promptApology, Terminal: true}
}
