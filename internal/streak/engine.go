package streak

import (
	"errors"
	"fmt"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/accessors"
	"go.uber.org/zap"
)

const (
	BadgeFirstCheckIn = "first_checkin"
	BadgeStreak3      = "streak_3"
	BadgeStreak7      = "streak_7"
	BadgeStreak30     = "streak_30"
)

var milestoneBadges = []struct {
	days  int
	badge string
}{
	{days: 3, badge: BadgeStreak3},
	{days: 7, badge: BadgeStreak7},
	{days: 30, badge: BadgeStreak30},
}

var errMissingStore = errors.New("streak: store is required")

// Store is the persisted state the engine reads and writes.
type Store interface {
	Streak() int
	SetStreak(int) error
	LastCheckIn() string
	SetLastCheckIn(string) error
	UnlockBadge(id string) (bool, error)
	User() accessors.User
	SetUser(accessors.User) error
}

// EngineConfig describes the dependencies of an Engine.
type EngineConfig struct {
	Store    Store
	Location *time.Location
	Logger   *zap.Logger
}

// Engine applies check-ins to the persisted streak.
type Engine struct {
	store    Store
	location *time.Location
	logger   *zap.Logger
}

// Result reports the outcome of a check-in.
type Result struct {
	State     State
	// Unchanged is set when today was already checked in.
	Unchanged bool
	NewBadges []string
}

// NewEngine validates the configuration and returns an Engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: cfg.Store, location: location, logger: logger}, nil
}

// Current returns the persisted streak state.
func (e *Engine) Current() State {
	return State{LastCheckIn: e.store.LastCheckIn(), Count: e.store.Streak()}
}

// CheckIn records a check-in at now and persists the advanced streak.
// Persistence failures are logged and the computed state is still returned.
func (e *Engine) CheckIn(now time.Time) (Result, error) {
	previous := e.Current()
	today := DayString(now, e.location)
	next := Advance(previous, today)
	result := Result{
		State:     next,
		Unchanged: previous.LastCheckIn == today,
	}
	if result.Unchanged {
		return result, nil
	}

	if err := e.store.SetStreak(next.Count); err != nil {
		if !errors.Is(err, accessors.ErrNotSaved) {
			return Result{}, fmt.Errorf("streak: persist count: %w", err)
		}
		e.logger.Warn("streak count not persisted", zap.Int("count", next.Count))
	}
	if err := e.store.SetLastCheckIn(today); err != nil {
		e.logger.Warn("last check-in not persisted", zap.String("day", today), zap.Error(err))
	}

	user := e.store.User()
	if user.ID != "" {
		user.Streak = next.Count
		if err := e.store.SetUser(user); err != nil {
			e.logger.Warn("user streak not persisted", zap.Error(err))
		}
	}

	result.NewBadges = e.unlockBadges(next.Count)
	return result, nil
}

func (e *Engine) unlockBadges(count int) []string {
	candidates := []string{BadgeFirstCheckIn}
	for _, milestone := range milestoneBadges {
		if count >= milestone.days {
			candidates = append(candidates, milestone.badge)
		}
	}
	var unlocked []string
	for _, badge := range candidates {
		fresh, err := e.store.UnlockBadge(badge)
		if err != nil {
			e.logger.Warn("badge not persisted", zap.String("badge", badge), zap.Error(err))
			continue
		}
		if fresh {
			unlocked = append(unlocked, badge)
		}
	}
	return unlocked
}
