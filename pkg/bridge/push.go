package bridge

import (
	"context"

	"github.com/google/uuid"
)

// Push permission statuses.
const (
	PermissionGranted = "granted"
	PermissionDenied  = "denied"
	PermissionDefault = "default"
)

// PermissionPrompter asks the user for push permission.
type PermissionPrompter interface {
	Request(ctx context.Context) (string, error)
}

// TokenSource obtains the push token once permission is granted.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// KeyValueStore persists small values across sessions, keyed by string.
type KeyValueStore interface {
	Get(key string) string
	Set(key, value string)
}

const deviceIDKey = "push_device_id"

// PushRegistrar runs the push enrollment flow: prompt, token, register.
// The device id is generated once and persisted so re-registration from
// the same browser upserts instead of duplicating.
type PushRegistrar struct {
	rest     *Client
	prompter PermissionPrompter
	tokens   TokenSource
	store    KeyValueStore

	status string
}

func NewPushRegistrar(rest *Client, prompter PermissionPrompter, tokens TokenSource, store KeyValueStore) *PushRegistrar {
	return &PushRegistrar{
		rest:     rest,
		prompter: prompter,
		tokens:   tokens,
		store:    store,
		status:   PermissionDefault,
	}
}

// Enable prompts for permission and registers the device. A denial sets
// the status and makes no registration call.
func (r *PushRegistrar) Enable(ctx context.Context) error {
	status, err := r.prompter.Request(ctx)
	if err != nil {
		r.status = PermissionDenied
		return err
	}
	r.status = status

	if status != PermissionGranted {
		return nil
	}

	token, err := r.tokens.Token(ctx)
	if err != nil {
		return err
	}

	return r.rest.RegisterDevice(ctx, r.deviceID(), token)
}

// Disable unregisters this browser's device. Called on logout.
func (r *PushRegistrar) Disable(ctx context.Context) error {
	deviceID := r.store.Get(deviceIDKey)
	if deviceID == "" {
		return nil
	}
	return r.rest.UnregisterDevice(ctx, deviceID)
}

// Status returns the last prompt outcome.
func (r *PushRegistrar) Status() string {
	return r.status
}

func (r *PushRegistrar) deviceID() string {
	if id := r.store.Get(deviceIDKey); id != "" {
		return id
	}
	id := uuid.New().String()
	r.store.Set(deviceIDKey, id)
	return id
}
