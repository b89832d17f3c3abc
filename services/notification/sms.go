package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"remindly/utils"

	"go.uber.org/zap"
)

// smsHTTPClient is the package-level client for gateway calls.
var smsHTTPClient = &http.Client{Timeout: 10 * time.Second}

// outboundSMS is the gateway wire format.
type outboundSMS struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// GatewaySMSService sends texts through an HTTP SMS gateway.
type GatewaySMSService struct {
	gatewayURL string
	from       string
}

func NewGatewaySMSService(gatewayURL, from string) *GatewaySMSService {
	return &GatewaySMSService{gatewayURL: gatewayURL, from: from}
}

func (s *GatewaySMSService) SendSMS(ctx context.Context, to, body string) error {
	logger := utils.GetLogger()

	payload, err := json.Marshal(outboundSMS{From: s.from, To: to, Message: body})
	if err != nil {
		return fmt.Errorf("marshal outbound SMS: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("build SMS gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := smsHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("call SMS gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}

	logger.Info("SMS sent", zap.String("to", to))
	return nil
}

// LogOnlySMSService is wired when no gateway is configured; it records the
// outbound text instead of delivering it.
type LogOnlySMSService struct{}

func NewLogOnlySMSService() *LogOnlySMSService {
	return &LogOnlySMSService{}
}

func (s *LogOnlySMSService) SendSMS(_ context.Context, to, body string) error {
	utils.GetLogger().Info("SMS delivery skipped (no gateway configured)",
		zap.String("to", to), zap.String("message", body))
	return nil
}
