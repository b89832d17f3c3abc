package notification

import "context"

// SMSService delivers an outbound text to a phone number. Failures are
// logged by callers, not retried.
type SMSService interface {
	SendSMS(ctx context.Context, to, body string) error
}
