package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrompter struct {
	result string
}

func (p stubPrompter) Request(ctx context.Context) (string, error) {
	return p.result, nil
}

type stubTokens struct {
	token string
}

func (s stubTokens) Token(ctx context.Context) (string, error) {
	return s.token, nil
}

type memoryStore map[string]string

func (m memoryStore) Get(key string) string { return m[key] }
func (m memoryStore) Set(key, value string) { m[key] = value }

func TestPushDeniedMakesNoRegistrationCall(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		writeSuccess(w, nil)
	}))
	defer server.Close()

	registrar := NewPushRegistrar(
		NewClient(server.URL, "test-token"),
		stubPrompter{result: PermissionDenied},
		stubTokens{token: "fcm-token"},
		memoryStore{},
	)

	require.NoError(t, registrar.Enable(context.Background()))
	assert.Equal(t, PermissionDenied, registrar.Status())
	assert.False(t, called)
}

func TestPushGrantedRegistersWithPersistedDeviceID(t *testing.T) {
	var bodies []registerDeviceBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body registerDeviceBody
		json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)
		writeSuccess(w, nil)
	}))
	defer server.Close()

	store := memoryStore{}
	registrar := NewPushRegistrar(
		NewClient(server.URL, "test-token"),
		stubPrompter{result: PermissionGranted},
		stubTokens{token: "fcm-token"},
		store,
	)

	require.NoError(t, registrar.Enable(context.Background()))
	require.NoError(t, registrar.Enable(context.Background()))

	require.Len(t, bodies, 2)
	assert.Equal(t, "fcm-token", bodies[0].Token)
	assert.NotEmpty(t, bodies[0].DeviceID)
	// Same browser, same device id on re-registration.
	assert.Equal(t, bodies[0].DeviceID, bodies[1].DeviceID)
	assert.Equal(t, bodies[0].DeviceID, store[deviceIDKey])
}

func TestPushDisableUnregisters(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeSuccess(w, nil)
	}))
	defer server.Close()

	store := memoryStore{deviceIDKey: "device-1"}
	registrar := NewPushRegistrar(NewClient(server.URL, "test-token"), stubPrompter{}, stubTokens{}, store)

	require.NoError(t, registrar.Disable(context.Background()))
	assert.Equal(t, "/v1/notifications/fcm/unregister", path)
}
