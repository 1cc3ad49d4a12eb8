package services

import (
	"context"
	"sync"
	"time"

	"dailyMotivatorAPI/internal/logger"
	"dailyMotivatorAPI/internal/metrics"
	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/notification"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, push *notification.Push) error
}

const (
	defaultDispatchWorkers = 5
	dispatchQueueSize      = 100
	dispatchJobTimeout     = 10 * time.Second
)

// NotificationDispatcher fans pushes out to a fixed pool of workers. Enqueue never blocks the
// request path: when the queue is full the push is dropped.
type NotificationDispatcher struct {
	devices      storage.DeviceStore
	mu           sync.RWMutex
	pushProvider PushNotificationProvider
	workers      int
	jobQueue     chan *notification.Push
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

func NewNotificationDispatcher(devices storage.DeviceStore, provider PushNotificationProvider, workers int) *NotificationDispatcher {
	if workers <= 0 {
		workers = defaultDispatchWorkers
	}
	d := &NotificationDispatcher{
		devices:      devices,
		pushProvider: provider,
		workers:      workers,
		jobQueue:     make(chan *notification.Push, dispatchQueueSize),
		stopChan:     make(chan struct{}),
	}

	d.startWorkers()
	return d
}

// SetPushProvider swaps the delivery backend, e.g. once FCM credentials are loaded.
func (d *NotificationDispatcher) SetPushProvider(provider PushNotificationProvider) {
	d.mu.Lock()
	d.pushProvider = provider
	d.mu.Unlock()
}

func (d *NotificationDispatcher) provider() PushNotificationProvider {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pushProvider
}

func (d *NotificationDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case push := <-d.jobQueue:
			d.processJob(push)
		case <-d.stopChan:
			return
		}
	}
}

func (d *NotificationDispatcher) processJob(push *notification.Push) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchJobTimeout)
	defer cancel()

	provider := d.provider()
	if provider == nil {
		return
	}

	tokens, err := d.devices.ListDevices(ctx, push.UserID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", push.UserID).Msg("Failed to load device tokens")
		return
	}
	if len(tokens) == 0 {
		logger.Debug().Str("user_id", push.UserID).Msg("Skipping push: no registered devices")
		return
	}

	if err := provider.SendPush(ctx, tokens, push); err != nil {
		logger.Warn().Err(err).Str("user_id", push.UserID).Str("type", string(push.Type)).Msg("Push failed")
	}
}

// Enqueue reports whether the push was accepted.
func (d *NotificationDispatcher) Enqueue(push *notification.Push) bool {
	select {
	case <-d.stopChan:
		return false
	default:
	}

	select {
	case d.jobQueue <- push:
		return true
	default:
		metrics.NotificationsDropped.Inc()
		logger.Warn().Str("user_id", push.UserID).Str("type", string(push.Type)).Msg("Notification queue full, dropping push")
		return false
	}
}

// Stop signals the workers and waits for them. Pushes still queued are discarded.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		logger.Info().Msg("Stopping notification dispatcher...")
		close(d.stopChan)
		d.wg.Wait()
		logger.Info().Msg("Notification dispatcher stopped")
	})
}
