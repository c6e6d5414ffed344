package bridge

import (
	"encoding/json"

	"adstream/pkg/event"
)

// Toast is the transient visual payload handed to the display.
type Toast struct {
	Title   string
	Message string
	Image   string
	Link    string
}

// ToastDisplay renders toasts. The real UI implements it; tests record.
type ToastDisplay interface {
	Show(t Toast)
}

// ToastPresenter routes live notifications: every one lands in the
// inbox, but only those flagged inApp produce a toast. Push-only
// payloads stay silent here to avoid double alerts with the system
// notification.
type ToastPresenter struct {
	display ToastDisplay
	inbox   *Inbox
}

func NewToastPresenter(display ToastDisplay, inbox *Inbox) *ToastPresenter {
	return &ToastPresenter{
		display: display,
		inbox:   inbox,
	}
}

// HandleNotification consumes notification:new events.
func (p *ToastPresenter) HandleNotification(env *event.Envelope) {
	var data event.NotificationData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return
	}

	p.inbox.ReceiveLive(Notification{
		ID:        data.ID,
		StoreID:   data.StoreID,
		Title:     data.Title,
		Message:   data.Message,
		Channels:  data.Channels,
		Slug:      data.Slug,
		Image:     data.Image,
		ListingID: data.ListingID,
		CreatedAt: data.CreatedAt,
	})

	if !data.Channels.InApp {
		return
	}

	p.display.Show(Toast{
		Title:   data.Title,
		Message: data.Message,
		Image:   data.Image,
		Link:    deepLink(data.Slug, data.ListingID),
	})
}

// deepLink prefers the slug route and falls back to the listing id.
func deepLink(slug, listingID string) string {
	if slug != "" {
		return "/listings/" + slug
	}
	if listingID != "" {
		return "/listings/id/" + listingID
	}
	return "/notifications"
}
