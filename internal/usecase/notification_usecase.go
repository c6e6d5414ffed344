package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/internal/domain/service"
	"adstream/pkg/errors"
	"adstream/pkg/event"
	"adstream/pkg/logger"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	deviceRepo       repository.DeviceRepository
	userRepo         repository.UserRepository
	gateway          RealtimeGateway
	pushService      service.PushService
	mailService      service.MailService
}

func NewNotificationUseCase(
	notificationRepo repository.NotificationRepository,
	deviceRepo repository.DeviceRepository,
	userRepo repository.UserRepository,
	gateway RealtimeGateway,
	pushService service.PushService,
	mailService service.MailService,
) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		deviceRepo:       deviceRepo,
		userRepo:         userRepo,
		gateway:          gateway,
		pushService:      pushService,
		mailService:      mailService,
	}
}

type CreateNotificationInput struct {
	UserID    string
	StoreID   string
	Title     string
	Message   string
	Slug      string
	Image     string
	ListingID string
	Channels  entity.NotificationChannels
}

// Notify persists a notification and fans it out. The socket event always
// fires so open tabs stay current; push and email fire only when both the
// notification's channels and the user's preferences allow them.
func (uc *NotificationUseCase) Notify(ctx context.Context, input CreateNotificationInput) (*entity.Notification, error) {
	if input.UserID == "" {
		return nil, errors.BadRequest("Notification recipient is required", nil)
	}
	if input.Title == "" {
		return nil, errors.BadRequest("Notification title is required", nil)
	}

	notification := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		StoreID:   input.StoreID,
		Title:     input.Title,
		Message:   input.Message,
		Read:      false,
		Channels:  input.Channels,
		Slug:      input.Slug,
		Image:     input.Image,
		ListingID: input.ListingID,
		CreatedAt: time.Now(),
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	uc.sendSocketEvent(notification)

	pref := uc.preferenceOrDefault(ctx, input.UserID, input.StoreID)

	if input.Channels.Push && pref.Push {
		go uc.deliverPush(context.WithoutCancel(ctx), notification)
	}

	if input.Channels.Email && pref.Email {
		go uc.deliverEmail(context.WithoutCancel(ctx), notification)
	}

	return notification, nil
}

func (uc *NotificationUseCase) sendSocketEvent(n *entity.Notification) {
	env, err := event.NewEnvelope(event.NotificationNew, event.NotificationData{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Slug:      n.Slug,
		Image:     n.Image,
		ListingID: n.ListingID,
		StoreID:   n.StoreID,
		Channels: event.NotificationChannels{
			Email: n.Channels.Email,
			InApp: n.Channels.InApp,
			Push:  n.Channels.Push,
		},
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("Failed to build notification event: %v", err)
		return
	}

	uc.gateway.SendToUser(n.UserID, env)
}

// deliverPush sends to every registered device and prunes tokens FCM
// reports as unregistered.
func (uc *NotificationUseCase) deliverPush(ctx context.Context, n *entity.Notification) {
	devices, err := uc.deviceRepo.ListByUser(ctx, n.UserID)
	if err != nil {
		logger.Error("Failed to load devices for %s: %v", n.UserID, err)
		return
	}
	if len(devices) == 0 {
		return
	}

	tokens := make([]string, 0, len(devices))
	tokenToDevice := make(map[string]string, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.Token)
		tokenToDevice[d.Token] = d.ID
	}

	stale := uc.pushService.SendPush(ctx, tokens, n)
	for _, token := range stale {
		if deviceID, ok := tokenToDevice[token]; ok {
			if err := uc.deviceRepo.Delete(ctx, n.UserID, deviceID); err != nil {
				logger.Error("Failed to prune stale device %s: %v", deviceID, err)
			}
		}
	}
}

func (uc *NotificationUseCase) deliverEmail(ctx context.Context, n *entity.Notification) {
	user, err := uc.userRepo.GetByID(ctx, n.UserID)
	if err != nil {
		logger.Error("Failed to load user %s for email: %v", n.UserID, err)
		return
	}

	if err := uc.mailService.SendNotificationEmail(ctx, user.Email, n.Title, n.Message); err != nil {
		logger.Error("Failed to email notification %s: %v", n.ID, err)
	}
}

type ListNotificationsInput struct {
	UnreadOnly bool
	StoreID    string
	Page       int
	Limit      int
}

// ListNotifications returns a page of the user's inbox plus the total
// unread count across the whole inbox.
func (uc *NotificationUseCase) ListNotifications(ctx context.Context, userID string, input ListNotificationsInput) ([]*entity.Notification, int64, int64, error) {
	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (input.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	filter := repository.NotificationFilter{
		UnreadOnly: input.UnreadOnly,
		StoreID:    input.StoreID,
	}

	notifications, total, err := uc.notificationRepo.ListByUser(ctx, userID, filter, limit, offset)
	if err != nil {
		return nil, 0, 0, err
	}

	_, unread, err := uc.notificationRepo.ListByUser(ctx, userID, repository.NotificationFilter{UnreadOnly: true, StoreID: input.StoreID}, 1, 0)
	if err != nil {
		return nil, 0, 0, err
	}

	return notifications, total, unread, nil
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	return uc.notificationRepo.MarkAllRead(ctx, userID)
}

// ToggleRead flips one notification's read flag. The new state is only
// what the store returns; callers must not assume the flip succeeded
// without the response.
func (uc *NotificationUseCase) ToggleRead(ctx context.Context, userID, notificationID string) (*entity.Notification, error) {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	if notification.UserID != userID {
		return nil, errors.Forbidden("This notification belongs to another user", nil)
	}

	notification.Read = !notification.Read

	if err := uc.notificationRepo.Update(ctx, notification); err != nil {
		return nil, err
	}

	return notification, nil
}

func (uc *NotificationUseCase) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return errors.Forbidden("This notification belongs to another user", nil)
	}

	return uc.notificationRepo.Delete(ctx, notificationID)
}

func (uc *NotificationUseCase) DeleteAllNotifications(ctx context.Context, userID string) error {
	return uc.notificationRepo.DeleteAllByUser(ctx, userID)
}

// GetPreference returns the saved channel preference, or the all-enabled
// default when the user never saved one.
func (uc *NotificationUseCase) GetPreference(ctx context.Context, userID, storeID string) (*entity.NotificationPreference, error) {
	pref, err := uc.notificationRepo.GetPreference(ctx, userID, storeID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return entity.DefaultPreference(userID, storeID), nil
		}
		return nil, err
	}
	return pref, nil
}

type SavePreferenceInput struct {
	StoreID string
	Email   bool
	InApp   bool
	Push    bool
}

func (uc *NotificationUseCase) SavePreference(ctx context.Context, userID string, input SavePreferenceInput) (*entity.NotificationPreference, error) {
	pref := &entity.NotificationPreference{
		UserID:    userID,
		StoreID:   input.StoreID,
		Email:     input.Email,
		InApp:     input.InApp,
		Push:      input.Push,
		UpdatedAt: time.Now(),
	}

	if err := uc.notificationRepo.SavePreference(ctx, pref); err != nil {
		return nil, err
	}

	return pref, nil
}

func (uc *NotificationUseCase) preferenceOrDefault(ctx context.Context, userID, storeID string) *entity.NotificationPreference {
	pref, err := uc.GetPreference(ctx, userID, storeID)
	if err != nil {
		logger.Error("Failed to load preference for %s: %v", userID, err)
		return entity.DefaultPreference(userID, storeID)
	}
	return pref
}

type RegisterDeviceInput struct {
	DeviceID string
	Token    string
	Platform string
}

// RegisterDevice upserts a push token under the client-generated device
// id, so re-registering from the same browser never duplicates.
func (uc *NotificationUseCase) RegisterDevice(ctx context.Context, userID string, input RegisterDeviceInput) (*entity.Device, error) {
	if input.DeviceID == "" {
		return nil, errors.BadRequest("Device id is required", nil)
	}
	if input.Token == "" {
		return nil, errors.BadRequest("Push token is required", nil)
	}

	now := time.Now()
	device := &entity.Device{
		ID:        input.DeviceID,
		UserID:    userID,
		Token:     input.Token,
		Platform:  input.Platform,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.deviceRepo.Save(ctx, device); err != nil {
		return nil, err
	}

	return device, nil
}

func (uc *NotificationUseCase) UnregisterDevice(ctx context.Context, userID, deviceID string) error {
	if deviceID == "" {
		return errors.BadRequest("Device id is required", nil)
	}
	return uc.deviceRepo.Delete(ctx, userID, deviceID)
}
