// File: services/conversation/engine.go
package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"remindly/models"
	"remindly/services/calendar"
	"remindly/services/intelligence"
	"remindly/services/notification"
	"remindly/utils"

	"go.uber.org/zap"
)

const (
	// Availability digest: scan forward from tomorrow, skipping weekends,
	// until five days with open slots are found or fourteen calendar days
	// have been checked.
	digestDaysWanted    = 5
	digestScanLimitDays = 14
	digestSlotsPerDay   = 3

	// digestMarker splits the system turn so repeated digests replace the
	// previous one instead of accumulating.
	digestMarker = "\n\nCURRENT AVAILABLE"

	replyMaxTokens   = 150
	replyTemperature = 0.7
)

const systemPromptTemplate = `You are a friendly and professional medical office receptionist. The customer has a consultation appointment scheduled for %s at %s.

Your responsibilities:
- Help them confirm their existing appointment or reschedule to a new time
- Be warm, helpful, and professional like a human receptionist would be
- When they want to reschedule, ask what day works better for them
- Offer specific available time slots from the calendar when they mention a day
- Confirm new appointment details clearly
- Keep responses concise but friendly
- Business hours are 9 AM to 5 PM, Monday through Friday
- All appointments are 30-minute consultations

Remember: You're helping with appointment scheduling, not providing medical advice.`

// DefaultConversationEngine drives the per-sender appointment dialogue. It
// reads the calendar store, delegates reply generation and delivery to the
// external collaborators, and owns the session transcripts.
type DefaultConversationEngine struct {
	Calendar *calendar.Store
	Replies  intelligence.ReplyService
	SMS      notification.SMSService
	Sessions *SessionStore
}

func NewDefaultConversationEngine(
	cal *calendar.Store,
	replies intelligence.ReplyService,
	sms notification.SMSService,
) *DefaultConversationEngine {
	return &DefaultConversationEngine{
		Calendar: cal,
		Replies:  replies,
		SMS:      sms,
		Sessions: NewSessionStore(),
	}
}

func (e *DefaultConversationEngine) HandleInbound(ctx context.Context, sender, message string) error {
	if _, ok := e.Sessions.Get(sender); !ok {
		// First contact: the inbound text is consumed as the creation
		// trigger and is not recorded in the transcript.
		return e.startSession(ctx, sender)
	}
	return e.continueSession(ctx, sender, message)
}

// startSession runs the Unknown -> Reminded transition: book the mock
// appointment, seed the transcript with the system turn and the templated
// reminder, and deliver the reminder. The reply generator is not involved.
func (e *DefaultConversationEngine) startSession(ctx context.Context, sender string) error {
	logger := utils.GetLogger()

	appt := e.Calendar.BookFirstAvailable(sender)
	dateFriendly, err := calendar.FormatDate(appt.Date)
	if err != nil {
		logger.Error("Invariant violation: internally generated date key is malformed",
			zap.String("date", appt.Date), zap.Error(err))
		return err
	}
	timeFriendly, err := calendar.FormatTime(appt.Time)
	if err != nil {
		logger.Error("Invariant violation: internally generated time key is malformed",
			zap.String("time", appt.Time), zap.Error(err))
		return err
	}

	reminder := fmt.Sprintf(
		"Hi! This is a reminder that you have a consultation scheduled for %s at %s. Can you confirm you'll be able to make it, or would you like to reschedule?",
		dateFriendly, timeFriendly)

	e.Sessions.Put(&Session{
		Sender: sender,
		Turns: []models.Turn{
			{Role: models.RoleSystem, Content: fmt.Sprintf(systemPromptTemplate, dateFriendly, timeFriendly)},
			{Role: models.RoleAssistant, Content: reminder},
		},
	})

	if err := e.SMS.SendSMS(ctx, sender, reminder); err != nil {
		// The session and appointment are already committed; the sender
		// just misses this one reminder text.
		logger.Error("Reminder delivery failed", zap.String("sender", sender), zap.Error(err))
		return err
	}

	logger.Info("Reminder sent",
		zap.String("sender", sender),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time))
	return nil
}

// continueSession runs one Negotiating turn: record the user message, splice
// a fresh availability digest into the system turn, generate a reply, record
// and deliver it.
func (e *DefaultConversationEngine) continueSession(ctx context.Context, sender, message string) error {
	logger := utils.GetLogger()

	sess, ok := e.Sessions.Get(sender)
	if !ok {
		return fmt.Errorf("session vanished for sender %s", sender)
	}

	sess.Turns = append(sess.Turns, models.Turn{Role: models.RoleUser, Content: message})

	if lines := e.buildDigest(time.Now()); len(lines) > 0 {
		e.refreshSystemTurn(sess, lines)
	}

	reply, err := e.Replies.GenerateReply(ctx, sess.Turns, replyMaxTokens, replyTemperature)
	if err != nil {
		// The user turn stays committed; the next inbound message is
		// processed against it normally.
		logger.Error("Reply generation failed", zap.String("sender", sender), zap.Error(err))
		return err
	}

	sess.Turns = append(sess.Turns, models.Turn{Role: models.RoleAssistant, Content: reply})

	// Known-weak heuristic kept from the source behavior: surface
	// confirmation/reschedule wording as an observability signal only. The
	// appointment record is never updated from free text.
	lower := strings.ToLower(reply)
	if strings.Contains(lower, "rescheduled") || strings.Contains(lower, "confirmed") {
		logger.Info("Appointment update signal in reply",
			zap.String("sender", sender), zap.String("reply", reply))
	}

	if err := e.SMS.SendSMS(ctx, sender, reply); err != nil {
		logger.Error("Reply delivery failed", zap.String("sender", sender), zap.Error(err))
		return err
	}
	return nil
}

// buildDigest collects friendly-formatted availability lines for the next
// business days, one line per day with open slots.
func (e *DefaultConversationEngine) buildDigest(now time.Time) []string {
	logger := utils.GetLogger()

	var lines []string
	day := now.AddDate(0, 0, 1)
	for scanned := 0; scanned < digestScanLimitDays && len(lines) < digestDaysWanted; scanned++ {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			dateKey := day.Format(calendar.DateLayout)
			if slots := e.Calendar.AvailableSlots(dateKey, digestSlotsPerDay); len(slots) > 0 {
				line, err := formatDigestLine(dateKey, slots)
				if err != nil {
					logger.Error("Invariant violation: calendar produced a malformed key", zap.Error(err))
				} else {
					lines = append(lines, line)
				}
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return lines
}

func formatDigestLine(dateKey string, slots []string) (string, error) {
	dateFriendly, err := calendar.FormatDate(dateKey)
	if err != nil {
		return "", err
	}
	friendly := make([]string, 0, len(slots))
	for _, slot := range slots {
		f, err := calendar.FormatTime(slot)
		if err != nil {
			return "", err
		}
		friendly = append(friendly, f)
	}
	return fmt.Sprintf("- %s: %s", dateFriendly, strings.Join(friendly, ", ")), nil
}

// refreshSystemTurn rewrites turn 0 in place: everything before the digest
// marker is kept, then the fresh digest block is appended, so the transcript
// never carries more than one digest.
func (e *DefaultConversationEngine) refreshSystemTurn(sess *Session, lines []string) {
	base := strings.SplitN(sess.Turns[0].Content, digestMarker, 2)[0]

	var block strings.Builder
	block.WriteString(digestMarker)
	block.WriteString(" APPOINTMENTS:\n")
	block.WriteString(strings.Join(lines, "\n"))
	block.WriteString("\n\nUse this information when the customer needs to reschedule or asks about availability. Only show specific slots when they're actively looking to reschedule.")

	sess.Turns[0].Content = base + block.String()
}
