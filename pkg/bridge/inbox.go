package bridge

import (
	"context"
	"sync"
	"time"
)

const fetchCoalesceWindow = 30 * time.Second

// Inbox holds the notification list. Fetches are coalesced: a call is
// skipped while one is in flight or within 30 seconds of the last
// success. Read-state mutations apply only what the server returns,
// never optimistically.
type Inbox struct {
	rest *Client

	mu          sync.Mutex
	items       []Notification
	total       int64
	unreadCount int64
	lastError   string

	inFlight  bool
	lastFetch time.Time
	window    time.Duration
	now       func() time.Time
}

func NewInbox(rest *Client) *Inbox {
	return &Inbox{
		rest:   rest,
		window: fetchCoalesceWindow,
		now:    time.Now,
	}
}

// Fetch loads a page unless coalescing suppresses it. A suppressed fetch
// returns false with state untouched.
func (i *Inbox) Fetch(ctx context.Context, page int, filters InboxFilters) bool {
	i.mu.Lock()
	if i.inFlight || (!i.lastFetch.IsZero() && i.now().Sub(i.lastFetch) < i.window) {
		i.mu.Unlock()
		return false
	}
	i.inFlight = true
	i.mu.Unlock()

	result, err := i.rest.ListNotifications(ctx, page, filters)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.inFlight = false

	if err != nil {
		i.lastError = "Could not load notifications: " + err.Error()
		return true
	}

	i.items = result.Items
	i.total = result.Total
	i.unreadCount = result.UnreadCount
	i.lastError = ""
	i.lastFetch = i.now()
	return true
}

// MarkAllRead round-trips and applies the result locally only once the
// server confirms.
func (i *Inbox) MarkAllRead(ctx context.Context) {
	if err := i.rest.MarkAllNotificationsRead(ctx); err != nil {
		i.setError("Could not mark notifications as read: " + err.Error())
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for idx := range i.items {
		i.items[idx].Read = true
	}
	i.unreadCount = 0
	i.lastError = ""
}

// Toggle flips one notification's read flag. The local record becomes
// whatever the server stored.
func (i *Inbox) Toggle(ctx context.Context, id string) {
	updated, err := i.rest.ToggleNotification(ctx, id)
	if err != nil {
		i.setError("Could not update notification: " + err.Error())
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for idx := range i.items {
		if i.items[idx].ID == updated.ID {
			if i.items[idx].Read != updated.Read {
				if updated.Read {
					i.unreadCount--
				} else {
					i.unreadCount++
				}
			}
			i.items[idx] = *updated
			break
		}
	}
	i.lastError = ""
}

func (i *Inbox) Delete(ctx context.Context, id string) {
	if err := i.rest.DeleteNotification(ctx, id); err != nil {
		i.setError("Could not delete notification: " + err.Error())
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for idx := range i.items {
		if i.items[idx].ID == id {
			if !i.items[idx].Read {
				i.unreadCount--
			}
			i.items = append(i.items[:idx], i.items[idx+1:]...)
			i.total--
			break
		}
	}
	i.lastError = ""
}

func (i *Inbox) DeleteAll(ctx context.Context) {
	if err := i.rest.DeleteAllNotifications(ctx); err != nil {
		i.setError("Could not delete notifications: " + err.Error())
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = nil
	i.total = 0
	i.unreadCount = 0
	i.lastError = ""
}

// ReceiveLive prepends a server-pushed notification. No re-fetch; the
// push payload is trusted as-is.
func (i *Inbox) ReceiveLive(n Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.items = append([]Notification{n}, i.items...)
	i.total++
	if !n.Read {
		i.unreadCount++
	}
}

// Items returns a copy of the current list.
func (i *Inbox) Items() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]Notification, len(i.items))
	copy(out, i.items)
	return out
}

// Counts returns the total and unread counters.
func (i *Inbox) Counts() (total, unread int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.total, i.unreadCount
}

func (i *Inbox) LastError() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastError
}

func (i *Inbox) setError(msg string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.lastError = msg
}
