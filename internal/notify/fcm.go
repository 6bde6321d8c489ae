package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const DefaultFCMEndpoint = "https://fcm.googleapis.com/fcm/send"

// errInvalidToken marks a device token the gateway no longer accepts.
var errInvalidToken = errors.New("device token is no longer registered")

func IsInvalidToken(err error) bool {
	return errors.Is(err, errInvalidToken)
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

type fcmRequest struct {
	To           string          `json:"to"`
	Notification fcmNotification `json:"notification"`
	Priority     string          `json:"priority"`
}

type fcmResult struct {
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type fcmResponse struct {
	Success int         `json:"success"`
	Failure int         `json:"failure"`
	Results []fcmResult `json:"results"`
}

type FCMSender struct {
	endpoint string
	key      string
	client   *http.Client
}

func NewFCMSender(endpoint, key string) *FCMSender {
	if endpoint == "" {
		endpoint = DefaultFCMEndpoint
	}

	return &FCMSender{
		endpoint: endpoint,
		key:      key,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send delivers one notification to one device. A dead token is reported
// through errInvalidToken so the caller can prune it.
func (s *FCMSender) Send(ctx context.Context, token, title, body string) error {
	payload := fcmRequest{
		To: token,
		Notification: fcmNotification{
			Title: title,
			Body:  body,
			Sound: "default",
		},
		Priority: "high",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.key)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	var result fcmResponse

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode push response: %w", err)
	}

	for _, r := range result.Results {
		switch r.Error {
		case "":
			continue
		case "NotRegistered", "InvalidRegistration", "MismatchSenderId":
			return errInvalidToken
		default:
			return fmt.Errorf("push gateway error: %s", r.Error)
		}
	}

	return nil
}
