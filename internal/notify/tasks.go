// Package notify dispatches push notifications to club members through a
// Redis-backed task queue. Enqueueing is best effort: when Redis is not
// configured the API keeps working and dispatch is silently skipped.
package notify

import (
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

const TaskClubBroadcast = "push:club_broadcast"

type ClubBroadcastPayload struct {
	ClubID uint   `json:"club_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

var client *asynq.Client

// Setup initializes the task queue client. Pass an empty redisURL to run
// without push dispatch.
func Setup(redisURL string) error {
	if redisURL == "" {
		return nil
	}

	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}

	client = asynq.NewClient(opt)
	return nil
}

func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// ClubAnnouncement queues a push broadcast to every member of the club.
// Failures are logged, never surfaced to the caller.
func ClubAnnouncement(clubID uint, title, body string) {
	if client == nil {
		return
	}

	payload, err := json.Marshal(ClubBroadcastPayload{
		ClubID: clubID,
		Title:  title,
		Body:   body,
	})

	if err != nil {
		log.Printf("Failed to marshal broadcast payload: %v", err)
		return
	}

	task := asynq.NewTask(
		TaskClubBroadcast,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
		asynq.Retention(24*time.Hour),
	)

	if _, err := client.Enqueue(task); err != nil {
		log.Printf("Failed to enqueue club broadcast for club %d: %v", clubID, err)
	}
}
