package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/clubhub-dev/clubhub/internal/config"
	"github.com/clubhub-dev/clubhub/internal/models"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// StartWorker starts the push dispatch worker in non-blocking mode and
// returns a stop function. Returns a no-op stop when Redis is not configured.
func StartWorker(cfg *config.Config, db *gorm.DB) (stop func(), err error) {
	if cfg.RedisURL == "" {
		return func() {}, nil
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := slog.Default()
	sender := NewFCMSender(cfg.FCMEndpoint, cfg.FCMKey)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
			Logger:          &asynqLoggerAdapter{logger: logger},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)

				logger.Error(
					"Task execution failed",
					"task_type", task.Type(),
					"error", err.Error(),
					"retry_count", retried,
					"max_retry", maxRetry,
				)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskClubBroadcast, handleClubBroadcast(logger, db, sender))

	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start push worker: %w", err)
	}

	logger.Info("Push worker started", "concurrency", 5)
	return func() { srv.Shutdown() }, nil
}

// handleClubBroadcast resolves the club's reachable device tokens and sends
// the push. Tokens the push gateway reports as dead are pruned.
func handleClubBroadcast(logger *slog.Logger, db *gorm.DB, sender *FCMSender) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload ClubBroadcastPayload

		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		var tokens []models.DeviceToken

		// Members opted out of push or announcements are excluded. Users
		// without a settings row get the defaults, which allow both.
		err := db.WithContext(ctx).
			Joins("JOIN memberships ON memberships.user_id = device_tokens.user_id AND memberships.deleted_at IS NULL").
			Joins("LEFT JOIN notification_settings ON notification_settings.user_id = device_tokens.user_id AND notification_settings.deleted_at IS NULL").
			Where("memberships.club_id = ?", payload.ClubID).
			Where("notification_settings.id IS NULL OR (notification_settings.push_notifications AND notification_settings.club_announcements)").
			Find(&tokens).Error

		if err != nil {
			return fmt.Errorf("failed to resolve device tokens: %w", err)
		}

		if len(tokens) == 0 {
			logger.Info("No reachable devices for broadcast", "club_id", payload.ClubID)
			return nil
		}

		var sent, pruned int

		for _, token := range tokens {
			err := sender.Send(ctx, token.Token, payload.Title, payload.Body)

			if err == nil {
				sent++
				continue
			}

			if IsInvalidToken(err) {
				if err := db.WithContext(ctx).Unscoped().Delete(&token).Error; err != nil {
					logger.Error("Failed to prune dead device token", "token_id", token.ID, "error", err.Error())
				} else {
					pruned++
				}
				continue
			}

			logger.Error("Push send failed", "token_id", token.ID, "error", err.Error())
		}

		logger.Info(
			"Club broadcast processed",
			"club_id", payload.ClubID,
			"sent", sent,
			"pruned", pruned,
			"total", len(tokens),
		)

		return nil
	}
}
