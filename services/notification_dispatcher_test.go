package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyMotivatorAPI/internal/apperr"
	"dailyMotivatorAPI/internal/storage/memory"
	"dailyMotivatorAPI/internal/types/notification"
)

func TestDispatcherDeliversToRegisteredDevices(t *testing.T) {
	store := memory.New()
	provider := &recordingProvider{}
	d := NewNotificationDispatcher(store, provider, 3)
	defer d.Stop()

	svc := NewNotificationService(store, d)
	ctx := context.Background()
	_, err := svc.RegisterDevice(ctx, "user-1", &notification.RegisterDeviceRequest{Token: "a", Platform: "android"})
	require.NoError(t, err)
	_, err = svc.RegisterDevice(ctx, "user-1", &notification.RegisterDeviceRequest{Token: "b", Platform: "ios"})
	require.NoError(t, err)

	assert.True(t, d.Enqueue(&notification.Push{UserID: "user-1", Type: notification.NotificationBadgeEarned, Title: "t"}))
	// No devices: accepted but never reaches the provider.
	assert.True(t, d.Enqueue(&notification.Push{UserID: "user-2", Type: notification.NotificationBadgeEarned, Title: "t"}))

	require.Eventually(t, func() bool { return len(provider.sent()) == 1 }, time.Second, 10*time.Millisecond)

	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.Equal(t, "user-1", provider.pushes[0].UserID)
	assert.Len(t, provider.tokens[0], 2)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	// No workers are started, so nothing drains the queue.
	d := &NotificationDispatcher{
		devices:  memory.New(),
		jobQueue: make(chan *notification.Push, 1),
		stopChan: make(chan struct{}),
	}

	assert.True(t, d.Enqueue(&notification.Push{UserID: "u"}))
	assert.False(t, d.Enqueue(&notification.Push{UserID: "u"}))

	d.Stop()
	d.Stop()
	<-d.jobQueue
	assert.False(t, d.Enqueue(&notification.Push{UserID: "u"}), "stopped dispatcher rejects work")
}

func TestDispatcherWithoutProvider(t *testing.T) {
	d := NewNotificationDispatcher(memory.New(), nil, 1)
	assert.True(t, d.Enqueue(&notification.Push{UserID: "u"}))
	d.SetPushProvider(&recordingProvider{})
	d.Stop()
}

func TestRegisterDevice(t *testing.T) {
	store := memory.New()
	svc := NewNotificationService(store, nil)
	ctx := context.Background()

	_, err := svc.RegisterDevice(ctx, "user-1", &notification.RegisterDeviceRequest{Token: "  ", Platform: "web"})
	assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))

	device, err := svc.RegisterDevice(ctx, "user-1", &notification.RegisterDeviceRequest{Token: "tok", Platform: "web"})
	require.NoError(t, err)
	assert.Equal(t, "web", device.Platform)

	devices, err := store.ListDevices(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, devices, 1)

	// Nil dispatcher is a no-op.
	svc.NotifyBadgeEarned("user-1", nil, nil)
}
