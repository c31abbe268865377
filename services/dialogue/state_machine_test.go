package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	reservationRepo "tablevoice/database/repository/reservation"
	"tablevoice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// memStore keeps sessions in a map, JSON round-tripped the way the Redis
// store serializes them.
type memStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
	getErr   error
	acquired int
	released int
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, callID string) (*models.CallSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.sessions[callID]
	if !ok {
		return nil, nil
	}
	var sess models.CallSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (m *memStore) Put(_ context.Context, callID string, sess *models.CallSession, _ time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[callID] = b
	return nil
}

func (m *memStore) Delete(_ context.Context, callID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, callID)
	return nil
}

func (m *memStore) Acquire(_ context.Context, _ string) (func(), error) {
	m.mu.Lock()
	m.acquired++
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.released++
		m.mu.Unlock()
	}, nil
}

func (m *memStore) session(t *testing.T, callID string) *models.CallSession {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.sessions[callID]
	if !ok {
		return nil
	}
	var sess models.CallSession
	assert.NoError(t, json.Unmarshal(data, &sess))
	return &sess
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, res models.Reservation) (*models.Reservation, error) {
	args := m.Called(ctx, res)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockRepository) GetByCode(ctx context.Context, code string) (*models.Reservation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockRepository) Cancel(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func (m *mockRepository) List(ctx context.Context, limit int64) ([]models.Reservation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}

type recordingScheduler struct {
	scheduled []models.Reservation
}

func (r *recordingScheduler) ScheduleReservationReminder(_ context.Context, res models.Reservation) error {
	r.scheduled = append(r.scheduled, res)
	return nil
}

// Tuesday, March 10th 2026 at noon.
var engineNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestEngine(repo reservationRepo.Repository, store SessionStore) *DefaultDialogueService {
	return &DefaultDialogueService{
		Store: store,
		Repo:  repo,
		Opts: Options{
			OpenHour:       9,
			CloseHour:      22,
			MaxAttempts:    3,
			SessionTTL:     10 * time.Minute,
			MaxPartySize:   20,
			FallbackPrompt: "Please call us back and our staff will help you. Goodbye.",
			FallbackAction: "hangup",
		},
		Logger: zap.NewNop(),
		Now:    func() time.Time { return engineNow },
	}
}

func speak(t *testing.T, svc *DefaultDialogueService, callID, raw string) models.TurnResult {
	t.Helper()
	result, err := svc.HandleTurn(context.Background(), models.TurnInput{
		CallID:    callID,
		RawInput:  raw,
		InputKind: models.InputSpeech,
	})
	assert.NoError(t, err)
	return result
}

func TestMakeReservationHappyPath(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	reminders := &recordingScheduler{}
	svc := newTestEngine(repo, store)
	svc.Reminders = reminders

	created := &models.Reservation{
		Code:         "AB23CD",
		CustomerName: "Misha",
		Contact:      "+15550100",
		Date:         "2026-03-11",
		Time:         "13:00",
		PartySize:    2,
		Status:       models.ReservationActive,
	}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r models.Reservation) bool {
		return r.CustomerName == "Misha" &&
			r.Contact == "+15550100" &&
			r.Date == "2026-03-11" &&
			r.Time == "13:00" &&
			r.PartySize == 2
	})).Return(created, nil).Once()

	// Call connects; the first turn carries the caller number.
	result, err := svc.HandleTurn(context.Background(), models.TurnInput{
		CallID:    "call-1",
		InputKind: models.InputSpeech,
		From:      "+15550100",
	})
	assert.NoError(t, err)
	assert.True(t, result.ExpectInput)
	assert.Contains(t, result.PromptText, "reservation")

	result = speak(t, svc, "call-1", "I'd like to book a table")
	assert.Contains(t, result.PromptText, "name")

	result = speak(t, svc, "call-1", "Misha")
	assert.Contains(t, result.PromptText, "Misha")
	assert.Contains(t, result.PromptText, "date")

	result = speak(t, svc, "call-1", "tomorrow")
	assert.Contains(t, result.PromptText, "2026-03-11")

	result = speak(t, svc, "call-1", "1pm")
	assert.Contains(t, result.PromptText, "13:00")
	assert.Contains(t, result.PromptText, "How many")

	result = speak(t, svc, "call-1", "2")
	assert.True(t, result.Terminal)
	assert.False(t, result.ExpectInput)
	assert.Contains(t, result.PromptText, "A B 2 3 C D")

	sess := store.session(t, "call-1")
	assert.Equal(t, models.StateComplete, sess.State)

	assert.Len(t, reminders.scheduled, 1)
	assert.Equal(t, "AB23CD", reminders.scheduled[0].Code)
	repo.AssertExpectations(t)

	// Every turn took and released the lock.
	assert.Equal(t, 6, store.acquired)
	assert.Equal(t, 6, store.released)
}

func TestAmbiguousTimeGetsOneClarification(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	speak(t, svc, "call-2", "")
	speak(t, svc, "call-2", "make a reservation")
	speak(t, svc, "call-2", "Misha")
	speak(t, svc, "call-2", "tomorrow")

	// A bare hour is ambiguous and triggers exactly one clarification.
	result := speak(t, svc, "call-2", "1")
	assert.True(t, result.ExpectInput)
	assert.Contains(t, result.PromptText, "morning or the evening")
	assert.Equal(t, models.StateAwaitTimeClarify, store.session(t, "call-2").State)

	// 1 AM is unambiguous but outside service hours: re-prompt, not a
	// second clarification.
	result = speak(t, svc, "call-2", "in the morning")
	assert.False(t, result.Terminal)
	assert.Contains(t, result.PromptText, "9 AM to 10 PM")
	sess := store.session(t, "call-2")
	assert.Equal(t, models.StateAwaitTime, sess.State)
	assert.Nil(t, sess.Pending)
	assert.Equal(t, 1, sess.AttemptCount(models.SlotTime))

	// The clarification budget is spent, so a second bare hour fails the
	// attempt instead of looping back into clarification.
	result = speak(t, svc, "call-2", "1")
	assert.False(t, result.Terminal)
	assert.Equal(t, models.StateAwaitTime, store.session(t, "call-2").State)
	assert.Equal(t, 2, store.session(t, "call-2").AttemptCount(models.SlotTime))

	// A usable answer still recovers the call.
	result = speak(t, svc, "call-2", "7 pm")
	assert.Contains(t, result.PromptText, "19:00")
	sess = store.session(t, "call-2")
	assert.Equal(t, models.StateAwaitPartySize, sess.State)
	assert.Equal(t, 0, sess.AttemptCount(models.SlotTime))
	assert.False(t, sess.ClarificationUsed)
}

func TestUnparseableClarificationCountsAsFailedAttempt(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	speak(t, svc, "call-3", "")
	speak(t, svc, "call-3", "book a table")
	speak(t, svc, "call-3", "Misha")
	speak(t, svc, "call-3", "friday")
	speak(t, svc, "call-3", "7")

	result := speak(t, svc, "call-3", "banana")
	assert.False(t, result.Terminal)
	sess := store.session(t, "call-3")
	assert.Equal(t, models.StateAwaitTime, sess.State)
	assert.Equal(t, 1, sess.AttemptCount(models.SlotTime))
}

func TestCheckUnknownCodeReprompts(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	repo.On("GetByCode", mock.Anything, "AB23CD").Return(nil, reservationRepo.ErrNotFound).Once()

	speak(t, svc, "call-4", "")
	result := speak(t, svc, "call-4", "check my reservation")
	assert.Contains(t, result.PromptText, "code")

	result = speak(t, svc, "call-4", "A B 2 3 C D")
	assert.False(t, result.Terminal)
	assert.True(t, result.ExpectInput)
	assert.Contains(t, result.PromptText, "couldn't find")

	sess := store.session(t, "call-4")
	assert.Equal(t, models.StateAwaitReservationCode, sess.State)
	assert.Equal(t, 1, sess.AttemptCount(models.SlotCode))

	repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestCheckFoundReadsBackReservation(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	repo.On("GetByCode", mock.Anything, "AB23CD").Return(&models.Reservation{
		Code:         "AB23CD",
		CustomerName: "Misha",
		Date:         "2026-03-11",
		Time:         "19:00",
		PartySize:    4,
		Status:       models.ReservationActive,
	}, nil).Once()

	speak(t, svc, "call-5", "")
	speak(t, svc, "call-5", "check my reservation")
	result := speak(t, svc, "call-5", "AB23CD")
	assert.True(t, result.Terminal)
	assert.Contains(t, result.PromptText, "2026-03-11")
	assert.Contains(t, result.PromptText, "confirmed")
	assert.Equal(t, models.StateComplete, store.session(t, "call-5").State)
	repo.AssertExpectations(t)
}

func TestCancelFlow(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	repo.On("Cancel", mock.Anything, "AB23CD").Return(nil).Once()

	speak(t, svc, "call-6", "")
	result := speak(t, svc, "call-6", "cancel my reservation")
	assert.Contains(t, result.PromptText, "cancel")

	result = speak(t, svc, "call-6", "AB23CD")
	assert.True(t, result.Terminal)
	assert.Contains(t, result.PromptText, "cancelled")
	repo.AssertExpectations(t)
}

func TestAttemptCeilingRoutesToFallback(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	speak(t, svc, "call-7", "")
	speak(t, svc, "call-7", "make a reservation")

	// Two garbage answers re-prompt with increasing specificity.
	result := speak(t, svc, "call-7", "12345")
	assert.True(t, result.ExpectInput)
	result = speak(t, svc, "call-7", "###")
	assert.True(t, result.ExpectInput)
	assert.Contains(t, result.PromptText, "first and last name")

	// The third failure hits the ceiling.
	result = speak(t, svc, "call-7", "!!!")
	assert.True(t, result.Terminal)
	assert.Equal(t, svc.Opts.FallbackPrompt, result.PromptText)

	sess := store.session(t, "call-7")
	assert.Equal(t, models.StateFallback, sess.State)
	assert.Equal(t, 3, sess.AttemptCount(models.SlotName))

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFallbackTransferPrompt(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)
	svc.Opts.FallbackAction = "transfer"
	svc.Opts.TransferNumber = "+15550199"

	speak(t, svc, "call-8", "")
	speak(t, svc, "call-8", "gibberish")
	speak(t, svc, "call-8", "gibberish")
	result := speak(t, svc, "call-8", "gibberish")
	assert.True(t, result.Terminal)
	assert.Contains(t, result.PromptText, "+15550199")
}

func TestHelpRequestDoesNotBurnAnAttempt(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	speak(t, svc, "call-9", "")
	result := speak(t, svc, "call-9", "help")
	assert.True(t, result.ExpectInput)

	sess := store.session(t, "call-9")
	assert.Equal(t, models.StateAwaitIntent, sess.State)
	assert.Equal(t, 0, sess.AttemptCount(models.SlotIntent))
}

func TestDuplicateFinalTurnDoesNotReplayCommit(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	repo.On("Create", mock.Anything, mock.Anything).Return(&models.Reservation{
		Code:         "AB23CD",
		CustomerName: "Misha",
		Date:         "2026-03-11",
		Time:         "19:00",
		PartySize:    2,
		Status:       models.ReservationActive,
	}, nil).Once()

	speak(t, svc, "call-10", "")
	speak(t, svc, "call-10", "book a table")
	speak(t, svc, "call-10", "Misha")
	speak(t, svc, "call-10", "tomorrow")
	speak(t, svc, "call-10", "7 pm")
	result := speak(t, svc, "call-10", "two")
	assert.True(t, result.Terminal)

	// The transport redelivers the final turn: goodbye, no second Create.
	result = speak(t, svc, "call-10", "two")
	assert.True(t, result.Terminal)
	assert.Equal(t, promptGoodbye, result.PromptText)

	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestRepositoryFailureBecomesApologyTerminal(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("mongo down")).Once()

	speak(t, svc, "call-11", "")
	speak(t, svc, "call-11", "book a table")
	speak(t, svc, "call-11", "Misha")
	speak(t, svc, "call-11", "tomorrow")
	speak(t, svc, "call-11", "7 pm")
	result := speak(t, svc, "call-11", "4")

	assert.True(t, result.Terminal)
	assert.Equal(t, promptApology, result.PromptText)
	assert.Equal(t, models.StateFailed, store.session(t, "call-11").State)
}

func TestStoreFailureYieldsApologyAndError(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("redis down")
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	result, err := svc.HandleTurn(context.Background(), models.TurnInput{
		CallID:    "call-12",
		RawInput:  "hello",
		InputKind: models.InputSpeech,
	})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.True(t, result.Terminal)
	assert.Equal(t, promptApology, result.PromptText)
}

func TestEvictedSessionStartsOver(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	speak(t, svc, "call-13", "")
	speak(t, svc, "call-13", "book a table")
	assert.Equal(t, models.StateAwaitName, store.session(t, "call-13").State)

	// TTL eviction mid-call: the next turn greets again instead of failing.
	assert.NoError(t, store.Delete(context.Background(), "call-13"))
	result := speak(t, svc, "call-13", "Misha")
	assert.True(t, result.ExpectInput)
	assert.True(t, strings.HasPrefix(result.PromptText, "Welcome"))
	assert.Equal(t, models.StateAwaitIntent, store.session(t, "call-13").State)
}

func TestDtmfIntentSelection(t *testing.T) {
	store := newMemStore()
	repo := new(mockRepository)
	svc := newTestEngine(repo, store)

	speak(t, svc, "call-14", "")
	result, err := svc.HandleTurn(context.Background(), models.TurnInput{
		CallID:    "call-14",
		RawInput:  "1",
		InputKind: models.InputDTMF,
	})
	assert.NoError(t, err)
	assert.Contains(t, result.PromptText, "name")
	assert.Equal(t, models.StateAwaitName, store.session(t, "call-14").State)
}
