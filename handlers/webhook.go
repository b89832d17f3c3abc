// File: handlers/webhook.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"remindly/models"
	"remindly/services/conversation"
	"remindly/utils"
	"remindly/workers"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookHandler routes inbound provider events: validation control events
// are answered synchronously, message events are queued per sender for
// background processing.
type WebhookHandler struct {
	Engine     conversation.Engine
	Dispatcher *workers.SenderDispatcher
	Deduper    utils.EventDeduper
}

func NewWebhookHandler(engine conversation.Engine, dispatcher *workers.SenderDispatcher, deduper utils.EventDeduper) *WebhookHandler {
	return &WebhookHandler{Engine: engine, Dispatcher: dispatcher, Deduper: deduper}
}

// HandleSMSWebhook accepts either a single event object or an ordered batch.
// The HTTP response never carries a failing transport status; malformed
// bodies are reported in the payload.
func (h *WebhookHandler) HandleSMSWebhook(c *gin.Context) {
	logger := utils.GetLogger()

	body, err := c.GetRawData()
	if err != nil {
		logger.Error("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": err.Error()})
		return
	}

	events, err := parseEvents(body)
	if err != nil {
		logger.Error("Malformed webhook body", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": err.Error()})
		return
	}

	// Subscription validation bypasses all conversation logic and must be
	// answered before any message event in the batch is processed.
	for _, event := range events {
		if event.EventType == models.EventTypeSubscriptionValidation && event.Data.ValidationCode != "" {
			c.JSON(http.StatusOK, gin.H{"validationResponse": event.Data.ValidationCode})
			return
		}
	}

	for _, event := range events {
		h.enqueueMessageEvent(event)
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// enqueueMessageEvent hands one message event to the conversation engine as
// a unit of asynchronous work, deduplicated by event ID and serialized per
// sender. Non-message events are ignored.
func (h *WebhookHandler) enqueueMessageEvent(event models.InboundEvent) {
	logger := utils.GetLogger()

	if !event.IsMessage() {
		return
	}

	eventID := event.ID
	if eventID == "" {
		// Provider omitted the event ID; assign one so the dedup store
		// still has a key (it will never collide, so the event passes).
		eventID = uuid.NewString()
	}
	first, err := h.Deduper.FirstSeen(context.Background(), eventID)
	if err != nil {
		// Dedup store trouble must not drop messages; process anyway.
		logger.Warn("Event dedup check failed", zap.String("eventID", eventID), zap.Error(err))
	} else if !first {
		logger.Info("Skipping redelivered event", zap.String("eventID", eventID))
		return
	}

	sender := event.Data.From
	message := event.Data.Message
	h.Dispatcher.Dispatch(sender, func() {
		if err := h.Engine.HandleInbound(context.Background(), sender, message); err != nil {
			logger.Error("Error processing SMS", zap.String("sender", sender), zap.Error(err))
		}
	})
}

// parseEvents decodes a webhook body that is either one event object or an
// ordered sequence of event objects.
func parseEvents(body []byte) ([]models.InboundEvent, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty webhook body")
	}

	if trimmed[0] == '[' {
		var events []models.InboundEvent
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, fmt.Errorf("decode event batch: %w", err)
		}
		return events, nil
	}

	var event models.InboundEvent
	if err := json.Unmarshal(trimmed, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return []models.InboundEvent{event}, nil
}
