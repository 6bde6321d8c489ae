package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFCMSenderSend(t *testing.T) {
	var received fcmRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "key=test-key" {
			t.Errorf("unexpected Authorization header: %s", got)
		}

		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		json.NewEncoder(w).Encode(fcmResponse{
			Success: 1,
			Results: []fcmResult{{MessageID: "m1"}},
		})
	}))
	defer server.Close()

	sender := NewFCMSender(server.URL, "test-key")

	if err := sender.Send(context.Background(), "device-1", "Hello", "World"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if received.To != "device-1" {
		t.Errorf("expected token device-1, got %s", received.To)
	}

	if received.Notification.Title != "Hello" || received.Notification.Body != "World" {
		t.Errorf("unexpected notification payload: %+v", received.Notification)
	}
}

func TestFCMSenderDeadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fcmResponse{
			Failure: 1,
			Results: []fcmResult{{Error: "NotRegistered"}},
		})
	}))
	defer server.Close()

	sender := NewFCMSender(server.URL, "test-key")
	err := sender.Send(context.Background(), "stale-token", "Hello", "World")

	if err == nil {
		t.Fatal("expected an error for a dead token")
	}

	if !IsInvalidToken(err) {
		t.Errorf("expected IsInvalidToken to report true, got %v", err)
	}
}

func TestFCMSenderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sender := NewFCMSender(server.URL, "bad-key")
	err := sender.Send(context.Background(), "device-1", "Hello", "World")

	if err == nil {
		t.Fatal("expected an error for a 401 response")
	}

	if IsInvalidToken(err) {
		t.Error("a gateway error must not be treated as a dead token")
	}
}

// ClubAnnouncement without a configured client is a silent no-op.
func TestClubAnnouncementWithoutClient(t *testing.T) {
	client = nil
	ClubAnnouncement(1, "Hello", "World")
}
