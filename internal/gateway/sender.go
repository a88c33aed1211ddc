package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultSendBase = "https://fcm.googleapis.com"

// Message is one per-device payload for the gateway's send API.
type Message struct {
	Token string
	Title string
	Body  string
	Link  string
	Data  map[string]string
}

// Sender submits one message to the push gateway. The response indicates
// per-call success/failure; a failure never affects other sends.
type Sender interface {
	Send(ctx context.Context, bearer string, msg *Message) error
}

// HTTPSender is the real Sender over the gateway's HTTP v1 send endpoint.
type HTTPSender struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSender builds a sender for the given project. baseURL overrides the
// production gateway host, for tests.
func NewHTTPSender(projectID, baseURL string, timeout time.Duration) *HTTPSender {
	if baseURL == "" {
		baseURL = defaultSendBase
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSender{
		endpoint: fmt.Sprintf("%s/v1/projects/%s/messages:send", baseURL, projectID),
		client:   &http.Client{Timeout: timeout},
	}
}

// sendRequest mirrors the gateway's v1 message envelope.
type sendRequest struct {
	Message sendMessage `json:"message"`
}

type sendMessage struct {
	Token        string            `json:"token"`
	Notification sendNotification  `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Webpush      *webpushConfig    `json:"webpush,omitempty"`
}

type sendNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type webpushConfig struct {
	FCMOptions *webpushFCMOptions `json:"fcm_options,omitempty"`
}

type webpushFCMOptions struct {
	Link string `json:"link,omitempty"`
}

// Send posts one per-device message, authenticated with the bearer token.
func (s *HTTPSender) Send(ctx context.Context, bearer string, msg *Message) error {
	payload := sendRequest{
		Message: sendMessage{
			Token: msg.Token,
			Notification: sendNotification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		},
	}
	if msg.Link != "" {
		payload.Message.Webpush = &webpushConfig{
			FCMOptions: &webpushFCMOptions{Link: msg.Link},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send to gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
