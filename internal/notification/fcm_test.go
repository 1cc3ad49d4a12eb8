package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyMotivatorAPI/internal/types/notification"
)

func samplePush() *notification.Push {
	return &notification.Push{
		UserID: "user-1",
		Type:   notification.NotificationBadgeEarned,
		Title:  "Badge earned",
		Body:   "You earned 30-Day Fitness Master",
		Data:   map[string]any{"badge_id": "b1", "days": 30},
	}
}

func TestStringData(t *testing.T) {
	data := stringData(samplePush())

	assert.Equal(t, "b1", data["badge_id"])
	assert.Equal(t, "30", data["days"])
	assert.Equal(t, "badge_earned", data["type"])
}

func TestBuildMessagePerPlatform(t *testing.T) {
	push := samplePush()
	data := stringData(push)

	android := buildMessage(notification.DeviceToken{Token: "a", Platform: "android"}, push, data)
	require.NotNil(t, android.Android)
	assert.Equal(t, "high", android.Android.Priority)
	assert.Nil(t, android.APNS)

	ios := buildMessage(notification.DeviceToken{Token: "i", Platform: "ios"}, push, data)
	require.NotNil(t, ios.APNS)
	assert.Nil(t, ios.Android)

	web := buildMessage(notification.DeviceToken{Token: "w", Platform: "web"}, push, data)
	require.NotNil(t, web.Webpush)
	assert.Equal(t, "w", web.Token)
	assert.Equal(t, push.Title, web.Notification.Title)
}

func TestNewFCMServiceRejectsBadCredentials(t *testing.T) {
	_, err := NewFCMService(context.Background(), "%%%not-base64", "")
	assert.Error(t, err)

	_, err = NewFCMService(context.Background(), "", "/nonexistent/serviceAccountKey.json")
	assert.Error(t, err)
}

func TestLogProvider(t *testing.T) {
	err := LogProvider{}.SendPush(context.Background(), nil, samplePush())
	assert.NoError(t, err)
}
