package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SMSClient talks to an HTTP SMS gateway.
type SMSClient struct {
	endpoint string
	token    string
	httpCli  *http.Client
}

func NewSMSClient(endpoint, token string) *SMSClient {
	return &SMSClient{
		endpoint: endpoint,
		token:    token,
		httpCli: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type smsRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

func (s *SMSClient) Send(ctx context.Context, to, text string) error {
	jsonData, err := json.Marshal(smsRequest{To: to, Text: text})
	if err != nil {
		return fmt.Errorf("failed to marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint+"/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
