package handler

import (
	"github.com/labstack/echo/v4"

	"adstream/internal/usecase"
	"adstream/pkg/response"
	"adstream/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

// ListNotifications returns a page of the inbox. ?unread=true narrows to
// unread items; ?store_id= scopes to one store's notifications.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	params := utils.GetPaginationParams(c)
	userID := c.Get("uid").(string)

	notifications, total, unread, err := h.notificationUseCase.ListNotifications(c.Request().Context(), userID, usecase.ListNotificationsInput{
		UnreadOnly: c.QueryParam("unread") == "true",
		StoreID:    c.QueryParam("store_id"),
		Page:       params.Page,
		Limit:      params.PageSize,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"items":       notifications,
		"total":       total,
		"unreadCount": unread,
		"page":        params.Page,
		"pageSize":    params.PageSize,
	})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.notificationUseCase.MarkAllRead(c.Request().Context(), userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "All notifications marked as read"})
}

// ToggleRead flips one notification's read flag and returns the stored
// state, which is the only state clients may trust.
func (h *NotificationHandler) ToggleRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	notification, err := h.notificationUseCase.ToggleRead(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, notification)
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.notificationUseCase.DeleteNotification(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Notification deleted"})
}

func (h *NotificationHandler) DeleteAllNotifications(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.notificationUseCase.DeleteAllNotifications(c.Request().Context(), userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "All notifications deleted"})
}

func (h *NotificationHandler) GetPreferences(c echo.Context) error {
	userID := c.Get("uid").(string)

	pref, err := h.notificationUseCase.GetPreference(c.Request().Context(), userID, c.QueryParam("store_id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, pref)
}

type savePreferencesRequest struct {
	StoreID string `json:"store_id"`
	Email   bool   `json:"email"`
	InApp   bool   `json:"inApp"`
	Push    bool   `json:"push"`
}

func (h *NotificationHandler) SavePreferences(c echo.Context) error {
	var req savePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	pref, err := h.notificationUseCase.SavePreference(c.Request().Context(), userID, usecase.SavePreferenceInput{
		StoreID: req.StoreID,
		Email:   req.Email,
		InApp:   req.InApp,
		Push:    req.Push,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, pref)
}

type registerDeviceRequest struct {
	DeviceID string `json:"device_id" validate:"required"`
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform"`
}

func (h *NotificationHandler) RegisterDevice(c echo.Context) error {
	var req registerDeviceRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	device, err := h.notificationUseCase.RegisterDevice(c.Request().Context(), userID, usecase.RegisterDeviceInput{
		DeviceID: req.DeviceID,
		Token:    req.Token,
		Platform: req.Platform,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, device)
}

type unregisterDeviceRequest struct {
	DeviceID string `json:"device_id" validate:"required"`
}

func (h *NotificationHandler) UnregisterDevice(c echo.Context) error {
	var req unregisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.notificationUseCase.UnregisterDevice(c.Request().Context(), userID, req.DeviceID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Device unregistered"})
}
