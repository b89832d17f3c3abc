package conversation

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"remindly/models"
	"remindly/services/calendar"
	"remindly/workers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReplyService struct {
	mu    sync.Mutex
	reply string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeReplyService) GenerateReply(_ context.Context, _ []models.Turn, _ int32, _ float32) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeReplyService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSMSService struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSMSService) SendSMS(_ context.Context, _, body string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.sent = append(f.sent, body)
	f.mu.Unlock()
	return nil
}

func (f *fakeSMSService) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestEngine(replies *fakeReplyService, sms *fakeSMSService) *DefaultConversationEngine {
	store := calendar.NewStore()
	// Fully open calendar so the digest always has material.
	store.Generate(30, calendar.DefaultStartHour, calendar.DefaultEndHour, calendar.DefaultSlotMinutes, 0.0)
	return NewDefaultConversationEngine(store, replies, sms)
}

func TestFirstContactSendsReminder(t *testing.T) {
	replies := &fakeReplyService{reply: "unused"}
	sms := &fakeSMSService{}
	engine := newTestEngine(replies, sms)

	require.NoError(t, engine.HandleInbound(context.Background(), "+15551234567", "hi"))

	sess, ok := engine.Sessions.Get("+15551234567")
	require.True(t, ok)
	require.Len(t, sess.Turns, 2)
	assert.Equal(t, models.RoleSystem, sess.Turns[0].Role)
	assert.Equal(t, models.RoleAssistant, sess.Turns[1].Role)

	// The triggering message is consumed, not recorded, and the first turn
	// is templated rather than model-generated.
	assert.Equal(t, 0, replies.callCount())

	require.Equal(t, 1, sms.sentCount())
	reminder := sms.sent[0]
	assert.Contains(t, reminder, "consultation scheduled for")
	assert.Regexp(t, regexp.MustCompile(`at (9:00 AM|10:30 AM|2:00 PM|3:30 PM)`), reminder)

	require.Len(t, engine.Calendar.Appointments(), 1)
}

func TestFirstContactBooksWeekdayAfterToday(t *testing.T) {
	engine := newTestEngine(&fakeReplyService{}, &fakeSMSService{})
	require.NoError(t, engine.HandleInbound(context.Background(), "+15551234567", "hello"))

	appt := engine.Calendar.Appointments()["+15551234567"]
	day, err := time.Parse(calendar.DateLayout, appt.Date)
	require.NoError(t, err)
	assert.Greater(t, appt.Date, time.Now().Format(calendar.DateLayout))
	assert.NotEqual(t, time.Saturday, day.Weekday())
	assert.NotEqual(t, time.Sunday, day.Weekday())
}

func TestNegotiatingTurn(t *testing.T) {
	replies := &fakeReplyService{reply: "Sure, what day works better for you?"}
	sms := &fakeSMSService{}
	engine := newTestEngine(replies, sms)
	ctx := context.Background()

	require.NoError(t, engine.HandleInbound(ctx, "+15551234567", "hi"))
	require.NoError(t, engine.HandleInbound(ctx, "+15551234567", "I need to reschedule"))

	sess, _ := engine.Sessions.Get("+15551234567")
	require.Len(t, sess.Turns, 4)
	assert.Equal(t, models.RoleUser, sess.Turns[2].Role)
	assert.Equal(t, "I need to reschedule", sess.Turns[2].Content)
	assert.Equal(t, models.RoleAssistant, sess.Turns[3].Role)

	assert.Equal(t, 1, replies.callCount())
	assert.Equal(t, 2, sms.sentCount())

	system := sess.Turns[0].Content
	assert.Equal(t, 1, strings.Count(system, "CURRENT AVAILABLE APPOINTMENTS:"))
	assert.Contains(t, system, "Only show specific slots when they're actively looking to reschedule")
}

func TestDigestNeverAccumulates(t *testing.T) {
	replies := &fakeReplyService{reply: "Of course!"}
	engine := newTestEngine(replies, &fakeSMSService{})
	ctx := context.Background()

	require.NoError(t, engine.HandleInbound(ctx, "+15551234567", "hi"))
	for i := 0; i < 4; i++ {
		require.NoError(t, engine.HandleInbound(ctx, "+15551234567", "what about next week?"))
	}

	sess, _ := engine.Sessions.Get("+15551234567")
	system := sess.Turns[0].Content
	assert.Equal(t, 1, strings.Count(system, "CURRENT AVAILABLE APPOINTMENTS:"))
	// Persona instructions are preserved ahead of the digest.
	assert.True(t, strings.HasPrefix(system, "You are a friendly and professional medical office receptionist."))
}

func TestDigestListsAtMostFiveDays(t *testing.T) {
	engine := newTestEngine(&fakeReplyService{reply: "ok"}, &fakeSMSService{})
	lines := engine.buildDigest(time.Now())
	require.NotEmpty(t, lines)
	assert.LessOrEqual(t, len(lines), 5)
	for _, line := range lines {
		assert.Regexp(t, regexp.MustCompile(`^- \w+, \w+ \d{1,2}: `), line)
	}
}

func TestReplyFailureLeavesUserTurnCommitted(t *testing.T) {
	replies := &fakeReplyService{err: errors.New("model unavailable")}
	sms := &fakeSMSService{}
	engine := newTestEngine(replies, sms)
	ctx := context.Background()

	require.NoError(t, engine.HandleInbound(ctx, "+15551234567", "hi"))
	require.Error(t, engine.HandleInbound(ctx, "+15551234567", "can I move it?"))

	sess, _ := engine.Sessions.Get("+15551234567")
	require.Len(t, sess.Turns, 3, "prior transcript plus the newly appended user turn")
	assert.Equal(t, models.RoleUser, sess.Turns[2].Role)

	// No reply means no delivery beyond the original reminder.
	assert.Equal(t, 1, sms.sentCount())
}

func TestNextMessageRecoversAfterFailure(t *testing.T) {
	replies := &fakeReplyService{err: errors.New("model unavailable")}
	sms := &fakeSMSService{}
	engine := newTestEngine(replies, sms)
	ctx := context.Background()

	require.NoError(t, engine.HandleInbound(ctx, "+15551234567", "hi"))
	require.Error(t, engine.HandleInbound(ctx, "+15551234567", "hello?"))

	replies.err = nil
	replies.reply = "Sorry about that! How can I help?"
	require.NoError(t, engine.HandleInbound(ctx, "+15551234567", "are you there?"))

	sess, _ := engine.Sessions.Get("+15551234567")
	require.Len(t, sess.Turns, 5)
	assert.Equal(t, "hello?", sess.Turns[2].Content)
	assert.Equal(t, "are you there?", sess.Turns[3].Content)
	assert.Equal(t, models.RoleAssistant, sess.Turns[4].Role)
}

func TestConcurrentMessagesForOneSenderSerialize(t *testing.T) {
	replies := &fakeReplyService{reply: "Noted!", delay: 20 * time.Millisecond}
	engine := newTestEngine(replies, &fakeSMSService{})
	dispatcher := workers.NewSenderDispatcher()
	ctx := context.Background()

	require.NoError(t, engine.HandleInbound(ctx, "+15551234567", "hi"))

	messages := []string{"first", "second", "third"}
	var wg sync.WaitGroup
	for _, msg := range messages {
		msg := msg
		wg.Add(1)
		dispatcher.Dispatch("+15551234567", func() {
			defer wg.Done()
			_ = engine.HandleInbound(ctx, "+15551234567", msg)
		})
	}
	wg.Wait()

	sess, _ := engine.Sessions.Get("+15551234567")
	var userTurns []string
	for _, turn := range sess.Turns {
		if turn.Role == models.RoleUser {
			userTurns = append(userTurns, turn.Content)
		}
	}
	assert.Equal(t, messages, userTurns, "user turns must appear in delivery order with none dropped")
	require.Len(t, sess.Turns, 2+2*len(messages))
}
