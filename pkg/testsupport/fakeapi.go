package testsupport

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/goliatone/go-tinycache/client"
)

// FakeAPI is an in-memory client.API for tests. It serves canned resources,
// counts calls per resource, and returns client.ErrNotFound for anything it
// does not hold.
type FakeAPI struct {
	mu        sync.Mutex
	resources map[string]json.RawMessage
	getCalls  map[string]int
	setCalls  map[string]int
	err       error
}

// NewFakeAPI creates an empty FakeAPI.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		resources: make(map[string]json.RawMessage),
		getCalls:  make(map[string]int),
		setCalls:  make(map[string]int),
	}
}

// Seed installs a resource value.
func (f *FakeAPI) Seed(resource string, value json.RawMessage) {
	f.mu.Lock()
	f.resources[resource] = value
	f.mu.Unlock()
}

// Fail makes every subsequent call return err. Passing nil restores normal
// behavior.
func (f *FakeAPI) Fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// Get implements client.API.
func (f *FakeAPI) Get(_ context.Context, resource string, _ map[string]string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls[resource]++
	if f.err != nil {
		return nil, f.err
	}
	value, ok := f.resources[resource]
	if !ok {
		return nil, client.ErrNotFound
	}
	return value, nil
}

// Set implements client.API.
func (f *FakeAPI) Set(_ context.Context, resource string, _ map[string]string, value json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls[resource]++
	if f.err != nil {
		return f.err
	}
	f.resources[resource] = value
	return nil
}

// GetCalls returns how many times resource was fetched.
func (f *FakeAPI) GetCalls(resource string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls[resource]
}

// SetCalls returns how many times resource was written.
func (f *FakeAPI) SetCalls(resource string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls[resource]
}

var _ client.API = (*FakeAPI)(nil)
