package conversation

import "context"

// Engine processes inbound messages for the appointment dialogue. A sender's
// first message creates their session and triggers the templated reminder;
// every later message runs one negotiation turn through the reply generator.
//
// Callers must serialize invocations per sender (see workers.SenderDispatcher);
// invocations for different senders may run concurrently.
type Engine interface {
	HandleInbound(ctx context.Context, sender, message string) error
}
