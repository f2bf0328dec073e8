package kvstore

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

type sampleProfile struct {
	Name   string            `json:"name"`
	Tags   []string          `json:"tags"`
	Scores map[string]int    `json:"scores"`
	Nested map[string][]bool `json:"nested"`
}

type failingDevice struct {
	err error
}

func (d failingDevice) Get(string) (string, bool, error) { return "", false, d.err }
func (d failingDevice) Set(string, string) error          { return d.err }
func (d failingDevice) Delete(string) error               { return d.err }

func newTestStore(t *testing.T, device Device) *Store {
	t.Helper()
	store, err := NewStore(StoreConfig{Device: device, Logger: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("failed to construct store: %v", err)
	}
	return store
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store := newTestStore(t, NewMemoryDevice(0))

	value := sampleProfile{
		Name:   "river",
		Tags:   []string{"calm", "night"},
		Scores: map[string]int{"mood": 4},
		Nested: map[string][]bool{"flags": {true, false}},
	}
	if !store.Save("profile", value) {
		t.Fatalf("expected save to succeed")
	}

	loaded := Load(store, "profile", sampleProfile{})
	if diff := cmp.Diff(value, loaded); diff != "" {
		t.Fatalf("loaded value mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingKeyReturnsDefault(t *testing.T) {
	store := newTestStore(t, NewMemoryDevice(0))

	fallback := []string{"default"}
	loaded := Load(store, "never-written", fallback)
	if diff := cmp.Diff(fallback, loaded); diff != "" {
		t.Fatalf("expected default (-want +got):\n%s", diff)
	}
}

func TestLoadInvalidJSONReturnsDefault(t *testing.T) {
	device := NewMemoryDevice(0)
	store := newTestStore(t, device)
	if err := device.Set(store.namespacedKey("streak"), "{not-json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if got := Load(store, "streak", 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
}

func TestLoadOldShapedValueReturnsDefault(t *testing.T) {
	device := NewMemoryDevice(0)
	store := newTestStore(t, device)
	if err := device.Set(store.namespacedKey("streak"), `"three"`); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if got := Load(store, "streak", 0); got != 0 {
		t.Fatalf("expected default for mismatched shape, got %d", got)
	}
}

func TestSaveReportsSerializationFailure(t *testing.T) {
	store := newTestStore(t, NewMemoryDevice(0))

	if store.Save("bad", math.Inf(1)) {
		t.Fatalf("expected save of unserializable value to fail")
	}
}

func TestSaveReportsQuotaExceeded(t *testing.T) {
	store := newTestStore(t, NewMemoryDevice(32))

	if store.Save("large", "this value is far too long for the configured quota") {
		t.Fatalf("expected quota failure")
	}
	if got := Load(store, "large", "fallback"); got != "fallback" {
		t.Fatalf("expected nothing to be saved, got %q", got)
	}
}

func TestUnavailableDeviceNeverRaises(t *testing.T) {
	store := newTestStore(t, failingDevice{err: errors.New("storage disabled")})

	if store.Save("theme", "forest") {
		t.Fatalf("expected save to report failure")
	}
	if got := Load(store, "theme", "calm-ocean"); got != "calm-ocean" {
		t.Fatalf("expected default theme, got %q", got)
	}
	if store.Remove("theme") {
		t.Fatalf("expected remove to report failure")
	}
	if store.ClearAll([]string{"theme", "streak"}) {
		t.Fatalf("expected clear to report failure")
	}
}

func TestClearAllRemovesOnlyListedKeys(t *testing.T) {
	device := NewMemoryDevice(0)
	store := newTestStore(t, device)
	if err := device.Set("other-app:token", `"keep"`); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	store.Save("theme", "forest")
	store.Save("streak", 4)
	store.Save("pet", "Buddy")

	if !store.ClearAll([]string{"theme", "streak"}) {
		t.Fatalf("expected clear to succeed")
	}

	if got := Load(store, "theme", ""); got != "" {
		t.Fatalf("expected theme to be cleared, got %q", got)
	}
	if got := Load(store, "pet", ""); got != "Buddy" {
		t.Fatalf("expected unlisted key to survive, got %q", got)
	}
	if _, ok, _ := device.Get("other-app:token"); !ok {
		t.Fatalf("expected foreign key to survive")
	}
}

func TestNewStoreRequiresDevice(t *testing.T) {
	if _, err := NewStore(StoreConfig{}); !errors.Is(err, errMissingDevice) {
		t.Fatalf("expected missing device error, got %v", err)
	}
}

func TestNamespaceDefaults(t *testing.T) {
	store := newTestStore(t, NewMemoryDevice(0))
	if store.Namespace() != DefaultNamespace {
		t.Fatalf("unexpected namespace %q", store.Namespace())
	}
}
