package models

// Event Grid event types delivered to the SMS webhook.
const (
	EventTypeSMSReceived            = "Microsoft.Communication.SMSReceived"
	EventTypeSubscriptionValidation = "Microsoft.EventGrid.SubscriptionValidationEvent"
)

// EventData carries the payload of an inbound webhook event. Validation
// events populate ValidationCode; message events populate Message and From.
type EventData struct {
	ValidationCode string `json:"validationCode,omitempty"`
	Message        string `json:"message,omitempty"`
	From           string `json:"from,omitempty"`
}

// InboundEvent is a single event as delivered by the messaging provider.
// The webhook body may contain one event or an ordered batch of them.
type InboundEvent struct {
	ID        string    `json:"id,omitempty"`
	EventType string    `json:"eventType"`
	Data      EventData `json:"data"`
}

// IsMessage reports whether the event is a message event carrying both a
// non-empty text and a non-empty sender.
func (e InboundEvent) IsMessage() bool {
	return e.EventType == EventTypeSMSReceived && e.Data.Message != "" && e.Data.From != ""
}
