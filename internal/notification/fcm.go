// Package notification delivers rendered pushes to user devices.
package notification

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"dailyMotivatorAPI/internal/logger"
	"dailyMotivatorAPI/internal/types/notification"
)

type FCMService struct {
	client *messaging.Client
}

// NewFCMService prefers base64 encoded service account JSON and falls back to a key file on disk.
func NewFCMService(ctx context.Context, encodedCreds, localFilePath string) (*FCMService, error) {
	var opt option.ClientOption

	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		logger.Info().Msg("FCM: initializing from FCM_SERVICE_ACCOUNT_JSON")
	} else {
		if _, err := os.Stat(localFilePath); os.IsNotExist(err) {
			return nil, fmt.Errorf("local firebase file not found: %s, and FCM_SERVICE_ACCOUNT_JSON is not set", localFilePath)
		}
		opt = option.WithCredentialsFile(localFilePath)
		logger.Info().Str("file", localFilePath).Msg("FCM: initializing from local file")
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

func (s *FCMService) SendPush(ctx context.Context, tokens []notification.DeviceToken, push *notification.Push) error {
	if len(tokens) == 0 {
		return nil
	}

	data := stringData(push)
	successCount := 0
	failureCount := 0

	// One message per token; the batch endpoint is not available for every project.
	for _, t := range tokens {
		_, err := s.client.Send(ctx, buildMessage(t, push, data))
		if err != nil {
			logger.Warn().Err(err).Str("user_id", push.UserID).Str("platform", t.Platform).Msg("FCM: send failed")
			failureCount++
			continue
		}
		successCount++
	}

	logger.Debug().Int("sent", successCount).Int("failed", failureCount).Msg("FCM: push delivered")

	if successCount == 0 && failureCount > 0 {
		return fmt.Errorf("all %d push notifications failed", failureCount)
	}
	return nil
}

func stringData(push *notification.Push) map[string]string {
	out := make(map[string]string, len(push.Data)+1)
	for k, v := range push.Data {
		out[k] = fmt.Sprintf("%v", v)
	}
	out["type"] = string(push.Type)
	return out
}

func buildMessage(t notification.DeviceToken, push *notification.Push, data map[string]string) *messaging.Message {
	msg := &messaging.Message{
		Token: t.Token,
		Notification: &messaging.Notification{
			Title: push.Title,
			Body:  push.Body,
		},
		Data: data,
	}

	switch t.Platform {
	case "ios":
		msg.APNS = &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		}
	case "web":
		msg.Webpush = &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{Title: push.Title, Body: push.Body},
		}
	default:
		msg.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		}
	}
	return msg
}

// LogProvider stands in for FCM when no credentials are configured.
type LogProvider struct{}

func (LogProvider) SendPush(ctx context.Context, tokens []notification.DeviceToken, push *notification.Push) error {
	logger.Info().
		Str("user_id", push.UserID).
		Str("type", string(push.Type)).
		Int("devices", len(tokens)).
		Str("title", push.Title).
		Msg("push (log only)")
	return nil
}
