package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"adstream/internal/domain/entity"
	"adstream/internal/domain/repository"
	"adstream/internal/domain/service"
	ws "adstream/internal/infrastructure/websocket"
	"adstream/pkg/errors"
	"adstream/pkg/event"
)

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

type memCategoryRepo struct {
	categories map[string]*entity.Category
}

func newMemCategoryRepo(categories ...*entity.Category) *memCategoryRepo {
	r := &memCategoryRepo{categories: make(map[string]*entity.Category)}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *memCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *memCategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	if c, ok := r.categories[id]; ok {
		return c, nil
	}
	return nil, errors.NotFound("Category", nil)
}

func (r *memCategoryRepo) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, errors.NotFound("Category", nil)
}

func (r *memCategoryRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Category, int64, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		if status, ok := filter["status"].(string); ok && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *memCategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *memCategoryRepo) Delete(ctx context.Context, id string) error {
	delete(r.categories, id)
	return nil
}

type memPlanRepo struct {
	plans map[string]*entity.PricePlan
}

func newMemPlanRepo(plans ...*entity.PricePlan) *memPlanRepo {
	r := &memPlanRepo{plans: make(map[string]*entity.PricePlan)}
	for _, p := range plans {
		r.plans[p.ID] = p
	}
	return r
}

func (r *memPlanRepo) Create(ctx context.Context, plan *entity.PricePlan) error {
	r.plans[plan.ID] = plan
	return nil
}

func (r *memPlanRepo) GetByID(ctx context.Context, id string) (*entity.PricePlan, error) {
	if p, ok := r.plans[id]; ok {
		return p, nil
	}
	return nil, errors.NotFound("Plan", nil)
}

func (r *memPlanRepo) GetBySlug(ctx context.Context, slug string) (*entity.PricePlan, error) {
	for _, p := range r.plans {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, errors.NotFound("Plan", nil)
}

func (r *memPlanRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.PricePlan, int64, error) {
	var out []*entity.PricePlan
	for _, p := range r.plans {
		if status, ok := filter["status"].(string); ok && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *memPlanRepo) Update(ctx context.Context, plan *entity.PricePlan) error {
	r.plans[plan.ID] = plan
	return nil
}

func (r *memPlanRepo) Delete(ctx context.Context, id string) error {
	delete(r.plans, id)
	return nil
}

type memListingRepo struct {
	listings map[string]*entity.Listing
}

func newMemListingRepo(listings ...*entity.Listing) *memListingRepo {
	r := &memListingRepo{listings: make(map[string]*entity.Listing)}
	for _, l := range listings {
		r.listings[l.ID] = l
	}
	return r
}

func (r *memListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = "listing-" + time.Now().Format("150405.000000000")
	}
	r.listings[listing.ID] = listing
	return nil
}

func (r *memListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	if l, ok := r.listings[id]; ok {
		return l, nil
	}
	return nil, errors.NotFound("Listing", nil)
}

func (r *memListingRepo) GetBySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	for _, l := range r.listings {
		if l.Slug == slug {
			return l, nil
		}
	}
	return nil, errors.NotFound("Listing", nil)
}

func (r *memListingRepo) List(ctx context.Context, filter map[string]interface{}, search string, limit, offset int) ([]*entity.Listing, int64, error) {
	var out []*entity.Listing
	for _, l := range r.listings {
		if status, ok := filter["status"].(string); ok && l.Status != status {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *memListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	r.listings[listing.ID] = listing
	return nil
}

func (r *memListingRepo) Delete(ctx context.Context, id string) error {
	delete(r.listings, id)
	return nil
}

func (r *memListingRepo) IncrementViews(ctx context.Context, id string) error {
	if l, ok := r.listings[id]; ok {
		l.Views++
	}
	return nil
}

type memChatRepo struct {
	chats    map[string]*entity.Chat
	messages map[string][]*entity.Message
}

func newMemChatRepo(chats ...*entity.Chat) *memChatRepo {
	r := &memChatRepo{
		chats:    make(map[string]*entity.Chat),
		messages: make(map[string][]*entity.Message),
	}
	for _, c := range chats {
		r.chats[c.ID] = c
	}
	return r
}

func (r *memChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.chats[chat.ID] = chat
	return nil
}

func (r *memChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	if c, ok := r.chats[id]; ok {
		return c, nil
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *memChatRepo) FindByParticipants(ctx context.Context, userID1, userID2, listingID string) (*entity.Chat, error) {
	for _, c := range r.chats {
		if c.ListingID != listingID {
			continue
		}
		match := 0
		for _, p := range c.Participants {
			if p == userID1 || p == userID2 {
				match++
			}
		}
		if match == 2 {
			return c, nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *memChatRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	var out []*entity.Chat
	for _, c := range r.chats {
		for _, p := range c.Participants {
			if p == userID {
				out = append(out, c)
				break
			}
		}
	}
	return out, int64(len(out)), nil
}

func (r *memChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	r.chats[chat.ID] = chat
	return nil
}

func (r *memChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.messages[message.ChatID] = append(r.messages[message.ChatID], message)
	return nil
}

func (r *memChatRepo) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	msgs := r.messages[chatID]
	return msgs, int64(len(msgs)), nil
}

func (r *memChatRepo) MarkMessagesRead(ctx context.Context, chatID, userID string) error {
	for _, m := range r.messages[chatID] {
		m.ReadBy = append(m.ReadBy, userID)
	}
	return nil
}

type memNotificationRepo struct {
	notifications map[string]*entity.Notification
	preferences   map[string]*entity.NotificationPreference
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{
		notifications: make(map[string]*entity.Notification),
		preferences:   make(map[string]*entity.NotificationPreference),
	}
}

func prefKey(userID, storeID string) string {
	if storeID == "" {
		return userID
	}
	return userID + ":" + storeID
}

func (r *memNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	r.notifications[n.ID] = n
	return nil
}

func (r *memNotificationRepo) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	if n, ok := r.notifications[id]; ok {
		return n, nil
	}
	return nil, errors.NotFound("Notification", nil)
}

func (r *memNotificationRepo) ListByUser(ctx context.Context, userID string, filter repository.NotificationFilter, limit, offset int) ([]*entity.Notification, int64, error) {
	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		if filter.StoreID != "" && n.StoreID != filter.StoreID {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (r *memNotificationRepo) Update(ctx context.Context, n *entity.Notification) error {
	r.notifications[n.ID] = n
	return nil
}

func (r *memNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *memNotificationRepo) Delete(ctx context.Context, id string) error {
	delete(r.notifications, id)
	return nil
}

func (r *memNotificationRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	for id, n := range r.notifications {
		if n.UserID == userID {
			delete(r.notifications, id)
		}
	}
	return nil
}

func (r *memNotificationRepo) GetPreference(ctx context.Context, userID, storeID string) (*entity.NotificationPreference, error) {
	if p, ok := r.preferences[prefKey(userID, storeID)]; ok {
		return p, nil
	}
	return nil, errors.NotFound("Preference", nil)
}

func (r *memNotificationRepo) SavePreference(ctx context.Context, pref *entity.NotificationPreference) error {
	r.preferences[prefKey(pref.UserID, pref.StoreID)] = pref
	return nil
}

// memDeviceRepo is mutex-guarded because push delivery prunes devices on
// its own goroutine.
type memDeviceRepo struct {
	mu      sync.Mutex
	devices map[string]*entity.Device
}

func newMemDeviceRepo() *memDeviceRepo {
	return &memDeviceRepo{devices: make(map[string]*entity.Device)}
}

func (r *memDeviceRepo) Save(ctx context.Context, device *entity.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[device.UserID+":"+device.ID] = device
	return nil
}

func (r *memDeviceRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Device
	for _, d := range r.devices {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDeviceRepo) Delete(ctx context.Context, userID, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, userID+":"+deviceID)
	return nil
}

// fakeGateway records realtime deliveries.
type fakeGateway struct {
	mu         sync.Mutex
	sent       map[string][]*event.Envelope
	broadcasts []broadcastCall
	inRoom     map[string]map[string]bool
}

type broadcastCall struct {
	ChatID string
	Except string
	Env    *event.Envelope
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		sent:   make(map[string][]*event.Envelope),
		inRoom: make(map[string]map[string]bool),
	}
}

func (g *fakeGateway) join(chatID, userID string) {
	if g.inRoom[chatID] == nil {
		g.inRoom[chatID] = make(map[string]bool)
	}
	g.inRoom[chatID][userID] = true
}

func (g *fakeGateway) SendToUser(userID string, env *event.Envelope) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent[userID] = append(g.sent[userID], env)
}

func (g *fakeGateway) BroadcastToChatRoom(chatID string, env *event.Envelope) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.broadcasts = append(g.broadcasts, broadcastCall{ChatID: chatID, Env: env})
}

func (g *fakeGateway) BroadcastToChatRoomExcept(chatID, exceptUserID string, env *event.Envelope) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.broadcasts = append(g.broadcasts, broadcastCall{ChatID: chatID, Except: exceptUserID, Env: env})
}

func (g *fakeGateway) IsUserInChatRoom(chatID, userID string) bool {
	return g.inRoom[chatID][userID]
}

func (g *fakeGateway) SendError(client *ws.Client, message string) {}

func (g *fakeGateway) sentTo(userID string) []*event.Envelope {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sent[userID]
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(userID, action string) (bool, time.Duration) {
	return true, 0
}

type denyLimiter struct{}

func (denyLimiter) Allow(userID, action string) (bool, time.Duration) {
	return false, time.Minute
}

// fakePaymentGateway returns canned intent responses.
type fakePaymentGateway struct {
	intents      int
	statusChecks int
	status       string
}

func (g *fakePaymentGateway) CreateIntent(ctx context.Context, req service.PaymentIntentRequest) (*service.PaymentIntentResponse, error) {
	g.intents++
	return &service.PaymentIntentResponse{IntentID: "pi_test", ClientSecret: "secret_test", Status: service.PaymentStatusPending}, nil
}

func (g *fakePaymentGateway) GetIntentStatus(ctx context.Context, intentID string) (*service.PaymentIntentResponse, error) {
	g.statusChecks++
	return &service.PaymentIntentResponse{IntentID: intentID, Status: g.status}, nil
}

type fakePushService struct {
	mu    sync.Mutex
	sends [][]string
	stale []string
}

func (s *fakePushService) SendPush(ctx context.Context, tokens []string, n *entity.Notification) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, tokens)
	return s.stale
}

func (s *fakePushService) sendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sends)
}

type fakeMailService struct {
	mu   sync.Mutex
	sent []string
}

func (s *fakeMailService) SendNotificationEmail(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	return nil
}

func (s *fakeMailService) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeUploader struct {
	uploads int
}

func (u *fakeUploader) UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	u.uploads++
	return "https://storage.example.com/" + folder + "/file", nil
}
