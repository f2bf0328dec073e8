package kvstore

import (
	"errors"
	"sync"
)

var (
	// ErrQuotaExceeded indicates that a write would grow the device past its configured quota.
	ErrQuotaExceeded = errors.New("kvstore: quota exceeded")
	// ErrDeviceUnavailable indicates that the device refuses reads and writes.
	ErrDeviceUnavailable = errors.New("kvstore: device unavailable")
)

// Device is a synchronous string key/value medium such as browser local storage.
type Device interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryDevice keeps entries in process memory. A positive quota caps the total
// number of bytes held by keys and values.
type MemoryDevice struct {
	mu         sync.Mutex
	entries    map[string]string
	quotaBytes int
	usedBytes  int
	disabled   bool
}

// NewMemoryDevice constructs an empty device. quotaBytes <= 0 disables the quota.
func NewMemoryDevice(quotaBytes int) *MemoryDevice {
	return &MemoryDevice{
		entries:    make(map[string]string),
		quotaBytes: quotaBytes,
	}
}

// SetDisabled toggles the unavailable mode used to emulate storage turned off by the user.
func (d *MemoryDevice) SetDisabled(disabled bool) {
	d.mu.Lock()
	d.disabled = disabled
	d.mu.Unlock()
}

func (d *MemoryDevice) Get(key string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disabled {
		return "", false, ErrDeviceUnavailable
	}
	value, ok := d.entries[key]
	return value, ok, nil
}

func (d *MemoryDevice) Set(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disabled {
		return ErrDeviceUnavailable
	}
	used := d.usedBytes
	if previous, ok := d.entries[key]; ok {
		used -= len(key) + len(previous)
	}
	used += len(key) + len(value)
	if d.quotaBytes > 0 && used > d.quotaBytes {
		return ErrQuotaExceeded
	}
	d.entries[key] = value
	d.usedBytes = used
	return nil
}

func (d *MemoryDevice) Delete(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disabled {
		return ErrDeviceUnavailable
	}
	if previous, ok := d.entries[key]; ok {
		d.usedBytes -= len(key) + len(previous)
		delete(d.entries, key)
	}
	return nil
}

// Len reports the number of stored entries.
func (d *MemoryDevice) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
