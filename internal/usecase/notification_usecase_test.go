package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstream/internal/domain/entity"
	"adstream/pkg/errors"
	"adstream/pkg/event"
)

func notificationFixtures() (*memNotificationRepo, *memDeviceRepo, *memUserRepo, *fakeGateway, *fakePushService, *fakeMailService, *NotificationUseCase) {
	notifications := newMemNotificationRepo()
	devices := newMemDeviceRepo()
	users := newMemUserRepo(&entity.User{ID: "user-1", Email: "user@example.com"})
	gateway := newFakeGateway()
	push := &fakePushService{}
	mail := &fakeMailService{}
	uc := NewNotificationUseCase(notifications, devices, users, gateway, push, mail)
	return notifications, devices, users, gateway, push, mail, uc
}

func allChannels() entity.NotificationChannels {
	return entity.NotificationChannels{Email: true, InApp: true, Push: true}
}

func TestNotifyAlwaysSendsSocketEvent(t *testing.T) {
	_, _, _, gateway, _, _, uc := notificationFixtures()

	n, err := uc.Notify(context.Background(), CreateNotificationInput{
		UserID:   "user-1",
		Title:    "Order shipped",
		Channels: entity.NotificationChannels{}, // every channel off
	})
	require.NoError(t, err)

	sent := gateway.sentTo("user-1")
	require.Len(t, sent, 1)
	assert.Equal(t, event.NotificationNew, sent[0].Event)
	assert.False(t, n.Read)
}

func TestNotifyDeliversPushAndEmailByDefault(t *testing.T) {
	_, devices, _, _, push, mail, uc := notificationFixtures()

	require.NoError(t, devices.Save(context.Background(), &entity.Device{ID: "dev-1", UserID: "user-1", Token: "tok-1"}))

	_, err := uc.Notify(context.Background(), CreateNotificationInput{
		UserID:   "user-1",
		Title:    "Order shipped",
		Channels: allChannels(),
	})
	require.NoError(t, err)

	// Push and email run on their own goroutines.
	assert.Eventually(t, func() bool { return push.sendCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return mail.sentCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestNotifyRespectsSavedPreferences(t *testing.T) {
	notifications, devices, _, _, push, mail, uc := notificationFixtures()

	require.NoError(t, devices.Save(context.Background(), &entity.Device{ID: "dev-1", UserID: "user-1", Token: "tok-1"}))
	require.NoError(t, notifications.SavePreference(context.Background(), &entity.NotificationPreference{
		UserID: "user-1",
		Email:  true,
		InApp:  true,
		Push:   false,
	}))

	_, err := uc.Notify(context.Background(), CreateNotificationInput{
		UserID:   "user-1",
		Title:    "Order shipped",
		Channels: allChannels(),
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return mail.sentCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, push.sendCount())
}

func TestNotifyPrunesStaleTokens(t *testing.T) {
	_, devices, _, _, push, _, uc := notificationFixtures()

	push.stale = []string{"tok-stale"}
	require.NoError(t, devices.Save(context.Background(), &entity.Device{ID: "dev-stale", UserID: "user-1", Token: "tok-stale"}))
	require.NoError(t, devices.Save(context.Background(), &entity.Device{ID: "dev-live", UserID: "user-1", Token: "tok-live"}))

	_, err := uc.Notify(context.Background(), CreateNotificationInput{
		UserID:   "user-1",
		Title:    "Order shipped",
		Channels: entity.NotificationChannels{Push: true},
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		remaining, _ := devices.ListByUser(context.Background(), "user-1")
		return len(remaining) == 1 && remaining[0].ID == "dev-live"
	}, time.Second, 5*time.Millisecond)
}

func TestNotifyRequiresRecipientAndTitle(t *testing.T) {
	_, _, _, _, _, _, uc := notificationFixtures()

	_, err := uc.Notify(context.Background(), CreateNotificationInput{Title: "x"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.Notify(context.Background(), CreateNotificationInput{UserID: "user-1"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestListNotificationsReportsUnreadCount(t *testing.T) {
	notifications, _, _, _, _, _, uc := notificationFixtures()

	for i, read := range []bool{false, false, true} {
		require.NoError(t, notifications.Create(context.Background(), &entity.Notification{
			ID:     string(rune('a' + i)),
			UserID: "user-1",
			Title:  "n",
			Read:   read,
		}))
	}

	items, total, unread, err := uc.ListNotifications(context.Background(), "user-1", ListNotificationsInput{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.EqualValues(t, 3, total)
	assert.EqualValues(t, 2, unread)
}

func TestToggleReadFlipsAndEnforcesOwnership(t *testing.T) {
	notifications, _, _, _, _, _, uc := notificationFixtures()

	require.NoError(t, notifications.Create(context.Background(), &entity.Notification{
		ID:     "n-1",
		UserID: "user-1",
		Title:  "n",
	}))

	toggled, err := uc.ToggleRead(context.Background(), "user-1", "n-1")
	require.NoError(t, err)
	assert.True(t, toggled.Read)

	toggled, err = uc.ToggleRead(context.Background(), "user-1", "n-1")
	require.NoError(t, err)
	assert.False(t, toggled.Read)

	_, err = uc.ToggleRead(context.Background(), "someone-else", "n-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestGetPreferenceDefaultsToAllEnabled(t *testing.T) {
	_, _, _, _, _, _, uc := notificationFixtures()

	pref, err := uc.GetPreference(context.Background(), "user-1", "store-1")
	require.NoError(t, err)
	assert.True(t, pref.Email)
	assert.True(t, pref.InApp)
	assert.True(t, pref.Push)
}

func TestRegisterDeviceUpsertsByDeviceID(t *testing.T) {
	_, devices, _, _, _, _, uc := notificationFixtures()

	_, err := uc.RegisterDevice(context.Background(), "user-1", RegisterDeviceInput{DeviceID: "dev-1", Token: "tok-old", Platform: "web"})
	require.NoError(t, err)
	_, err = uc.RegisterDevice(context.Background(), "user-1", RegisterDeviceInput{DeviceID: "dev-1", Token: "tok-new", Platform: "web"})
	require.NoError(t, err)

	registered, err := devices.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, registered, 1)
	assert.Equal(t, "tok-new", registered[0].Token)

	require.NoError(t, uc.UnregisterDevice(context.Background(), "user-1", "dev-1"))
	registered, _ = devices.ListByUser(context.Background(), "user-1")
	assert.Empty(t, registered)
}
