// Package kvstore persists JSON values under namespaced keys of a synchronous
// string device. Failures never reach the caller: writes report false and
// reads resolve to the supplied default, with a logged diagnostic either way.
package kvstore

import (
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultNamespace prefixes every key written by the application.
	DefaultNamespace = "yrnalone"

	opSave   = "kvstore.save"
	opLoad   = "kvstore.load"
	opRemove = "kvstore.remove"
	opClear  = "kvstore.clear_all"
)

var errMissingDevice = errors.New("kvstore: device is required")

// StoreConfig describes the dependencies of a Store.
type StoreConfig struct {
	Device    Device
	Namespace string
	Logger    *zap.Logger
}

// Store serializes values to JSON and keeps them on a Device.
type Store struct {
	device    Device
	namespace string
	logger    *zap.Logger
}

// NewStore validates the configuration and returns a Store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Device == nil {
		return nil, errMissingDevice
	}
	namespace := strings.TrimSpace(cfg.Namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		device:    cfg.Device,
		namespace: namespace,
		logger:    logger,
	}, nil
}

// Namespace returns the key prefix applied by the store.
func (s *Store) Namespace() string {
	return s.namespace
}

// Save stores value under key and reports whether the write succeeded.
func (s *Store) Save(key string, value any) bool {
	encoded, err := json.Marshal(value)
	if err != nil {
		s.logFailure(opSave, "serialize_failed", key, err)
		return false
	}
	if err := s.device.Set(s.namespacedKey(key), string(encoded)); err != nil {
		s.logFailure(opSave, "write_failed", key, err)
		return false
	}
	return true
}

// Remove deletes key and reports whether the device accepted the deletion.
func (s *Store) Remove(key string) bool {
	if err := s.device.Delete(s.namespacedKey(key)); err != nil {
		s.logFailure(opRemove, "delete_failed", key, err)
		return false
	}
	return true
}

// ClearAll removes exactly the listed keys. It keeps going after a failure and
// reports false if any key could not be removed.
func (s *Store) ClearAll(keys []string) bool {
	cleared := true
	for _, key := range keys {
		if err := s.device.Delete(s.namespacedKey(key)); err != nil {
			s.logFailure(opClear, "delete_failed", key, err)
			cleared = false
		}
	}
	return cleared
}

// Load returns the value stored under key, or fallback when the key is absent,
// holds invalid JSON, or the device read fails.
func Load[T any](s *Store, key string, fallback T) T {
	raw, ok, err := s.device.Get(s.namespacedKey(key))
	if err != nil {
		s.logFailure(opLoad, "read_failed", key, err)
		return fallback
	}
	if !ok {
		return fallback
	}
	var decoded T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.logFailure(opLoad, "deserialize_failed", key, err)
		return fallback
	}
	return decoded
}

func (s *Store) namespacedKey(key string) string {
	return s.namespace + ":" + key
}

func (s *Store) logFailure(operation, reason, key string, err error) {
	s.logger.Warn("local storage failure",
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.String("key", key),
		zap.Error(err))
}
