package bridge

import (
	"encoding/json"
	"sync"

	"adstream/pkg/event"
)

// fakeTransport records emits and lets tests feed events back in.
type fakeTransport struct {
	mu       sync.Mutex
	emits    []emitted
	handlers map[event.Name]map[int]Handler
	nextID   int
}

type emitted struct {
	Name event.Name
	Data interface{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		handlers: make(map[event.Name]map[int]Handler),
	}
}

func (f *fakeTransport) Emit(name event.Name, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, emitted{Name: name, Data: data})
}

func (f *fakeTransport) On(name event.Name, h Handler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.handlers[name] == nil {
		f.handlers[name] = make(map[int]Handler)
	}
	id := f.nextID
	f.nextID++
	f.handlers[name][id] = h

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers[name], id)
	}
}

func (f *fakeTransport) dispatch(env *event.Envelope) {
	f.mu.Lock()
	hs := make([]Handler, 0, len(f.handlers[env.Event]))
	for _, h := range f.handlers[env.Event] {
		hs = append(hs, h)
	}
	f.mu.Unlock()

	for _, h := range hs {
		h(env)
	}
}

func (f *fakeTransport) emitted(name event.Name) []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []emitted
	for _, e := range f.emits {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func mustEnvelope(name event.Name, data interface{}) *event.Envelope {
	b, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return &event.Envelope{Event: name, Data: b}
}
