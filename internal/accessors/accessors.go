// Package accessors exposes one typed get/set pair per persisted domain on
// top of the key/value store.
package accessors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/kvstore"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Persisted keys. The store adds its namespace prefix.
const (
	KeyUser         = "user"
	KeyTheme        = "theme"
	KeyStreak       = "streak"
	KeyMoodHistory  = "mood_history"
	KeyBadges       = "badges"
	KeyPet          = "pet"
	KeySettings     = "settings"
	KeyLastCheckIn  = "last_checkin"
	KeyPosts        = "posts"
	KeyJournal      = "journal"
	KeyGroups       = "groups"
	KeyGratitude    = "gratitude"
	KeyBlockedUsers = "blocked_users"
)

// Keys lists every key owned by the application.
var Keys = []string{
	KeyUser, KeyTheme, KeyStreak, KeyMoodHistory, KeyBadges, KeyPet, KeySettings,
	KeyLastCheckIn, KeyPosts, KeyJournal, KeyGroups, KeyGratitude, KeyBlockedUsers,
}

const (
	DefaultTheme        = "calm-ocean"
	defaultPetName      = "Buddy"
	defaultPetHappiness = 50
	maxPetHappiness     = 100
	petFeedBoost        = 10
)

var themes = map[string]struct{}{
	"calm-ocean": {},
	"sunset":     {},
	"forest":     {},
	"lavender":   {},
	"midnight":   {},
}

var (
	// ErrNotSaved indicates that the store did not accept a write. The failure
	// has already been logged; callers may continue as if nothing was saved.
	ErrNotSaved = errors.New("accessors: value not saved")
	// ErrInvalidProfile indicates that a user profile failed validation.
	ErrInvalidProfile = errors.New("accessors: invalid profile")
	// ErrInvalidSettings indicates that settings failed validation.
	ErrInvalidSettings = errors.New("accessors: invalid settings")
	// ErrInvalidTheme indicates an unknown theme name.
	ErrInvalidTheme = errors.New("accessors: invalid theme")
	// ErrInvalidStreak indicates a negative streak count.
	ErrInvalidStreak = errors.New("accessors: invalid streak")
	// ErrInvalidMood indicates an empty mood label.
	ErrInvalidMood = errors.New("accessors: invalid mood")
	// ErrInvalidBadge indicates an empty badge identifier.
	ErrInvalidBadge = errors.New("accessors: invalid badge id")

	errMissingStore = errors.New("accessors: store is required")
)

// DefaultSettings returns the configuration used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		Notifications:    true,
		Language:         "en",
		AnonymousPosting: false,
		DailyReminder:    "20:00",
	}
}

// DefaultPet returns the companion handed to new users.
func DefaultPet() Pet {
	return Pet{Name: defaultPetName, Happiness: defaultPetHappiness, Level: 1}
}

// Config describes the dependencies of Accessors.
type Config struct {
	Store      *kvstore.Store
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Accessors reads and writes the persisted domains.
type Accessors struct {
	store      *kvstore.Store
	clock      func() time.Time
	idProvider IDProvider
	validate   *validator.Validate
	logger     *zap.Logger
}

// New constructs Accessors over the provided store.
func New(cfg Config) (*Accessors, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	idProvider := cfg.IDProvider
	if idProvider == nil {
		idProvider = NewUUIDProvider()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accessors{
		store:      cfg.Store,
		clock:      clock,
		idProvider: idProvider,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}, nil
}

// User returns the stored profile, or the zero User before EnsureUser ran.
func (a *Accessors) User() User {
	return kvstore.Load(a.store, KeyUser, User{})
}

// SetUser validates and stores the profile. Once a user id exists it is kept
// regardless of the id carried by user.
func (a *Accessors) SetUser(user User) error {
	if err := a.validate.Struct(user); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	stored := a.User()
	if stored.ID != "" {
		user.ID = stored.ID
		user.CreatedAt = stored.CreatedAt
	}
	if user.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProfile)
	}
	return a.save(KeyUser, user)
}

// EnsureUser returns the stored user, creating one with a fresh id on first use.
func (a *Accessors) EnsureUser(displayName string) (User, error) {
	stored := a.User()
	if stored.ID != "" {
		return stored, nil
	}
	id, err := a.idProvider.NewID()
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:          id,
		DisplayName: strings.TrimSpace(displayName),
		Theme:       a.Theme(),
		Streak:      a.Streak(),
		Privacy:     PrivacySettings{AllowInvites: true},
		CreatedAt:   a.clock().UTC(),
	}
	if err := a.validate.Struct(user); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if err := a.save(KeyUser, user); err != nil {
		a.logger.Warn("user profile kept in memory only", zap.String("user_id", id))
	}
	return user, nil
}

// Theme returns the active theme name.
func (a *Accessors) Theme() string {
	theme := kvstore.Load(a.store, KeyTheme, DefaultTheme)
	if _, ok := themes[theme]; !ok {
		return DefaultTheme
	}
	return theme
}

// SetTheme stores a known theme name.
func (a *Accessors) SetTheme(theme string) error {
	normalized := strings.ToLower(strings.TrimSpace(theme))
	if _, ok := themes[normalized]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return a.save(KeyTheme, normalized)
}

// Streak returns the persisted day streak.
func (a *Accessors) Streak() int {
	streak := kvstore.Load(a.store, KeyStreak, 0)
	if streak < 0 {
		return 0
	}
	return streak
}

// SetStreak stores a non-negative day streak.
func (a *Accessors) SetStreak(streak int) error {
	if streak < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidStreak, streak)
	}
	return a.save(KeyStreak, streak)
}

// LastCheckIn returns the calendar day of the last check-in, or "".
func (a *Accessors) LastCheckIn() string {
	return kvstore.Load(a.store, KeyLastCheckIn, "")
}

// SetLastCheckIn stores the calendar day of the last check-in.
func (a *Accessors) SetLastCheckIn(day string) error {
	return a.save(KeyLastCheckIn, day)
}

// MoodHistory returns every recorded mood in insertion order.
func (a *Accessors) MoodHistory() []MoodEntry {
	return kvstore.Load(a.store, KeyMoodHistory, []MoodEntry{})
}

// AddMood appends a mood sample and rewrites the whole history.
func (a *Accessors) AddMood(mood string) (MoodEntry, error) {
	label := strings.TrimSpace(mood)
	if label == "" {
		return MoodEntry{}, ErrInvalidMood
	}
	now := a.clock()
	entry := MoodEntry{
		Mood:      label,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Epoch:     now.UnixMilli(),
	}
	history := append(a.MoodHistory(), entry)
	return entry, a.save(KeyMoodHistory, history)
}

// Badges returns every unlocked badge.
func (a *Accessors) Badges() []Badge {
	return kvstore.Load(a.store, KeyBadges, []Badge{})
}

// UnlockBadge records id once. It reports whether the badge was newly unlocked.
func (a *Accessors) UnlockBadge(id string) (bool, error) {
	badgeID := strings.TrimSpace(id)
	if badgeID == "" {
		return false, ErrInvalidBadge
	}
	badges := a.Badges()
	for _, badge := range badges {
		if badge.ID == badgeID {
			return false, nil
		}
	}
	badges = append(badges, Badge{ID: badgeID, UnlockedAt: a.clock().UTC()})
	if err := a.save(KeyBadges, badges); err != nil {
		return false, err
	}
	return true, nil
}

// Pet returns the virtual companion.
func (a *Accessors) Pet() Pet {
	return kvstore.Load(a.store, KeyPet, DefaultPet())
}

// SetPet stores the virtual companion.
func (a *Accessors) SetPet(pet Pet) error {
	return a.save(KeyPet, pet)
}

// FeedPet raises the companion's happiness, capped at 100.
func (a *Accessors) FeedPet() (Pet, error) {
	pet := a.Pet()
	pet.Happiness += petFeedBoost
	if pet.Happiness > maxPetHappiness {
		pet.Happiness = maxPetHappiness
	}
	pet.LastFedAt = a.clock().UTC()
	return pet, a.SetPet(pet)
}

// Settings returns the stored preferences, falling back to DefaultSettings
// when the stored value no longer validates.
func (a *Accessors) Settings() Settings {
	settings := kvstore.Load(a.store, KeySettings, DefaultSettings())
	if err := a.validate.Struct(settings); err != nil {
		return DefaultSettings()
	}
	return settings
}

// SetSettings validates and stores preferences.
func (a *Accessors) SetSettings(settings Settings) error {
	if err := a.validate.Struct(settings); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return a.save(KeySettings, settings)
}

// Posts returns the stored feed, newest first. It is nil when no feed was
// ever stored.
func (a *Accessors) Posts() []Post {
	return kvstore.Load[[]Post](a.store, KeyPosts, nil)
}

// SetPosts stores the feed.
func (a *Accessors) SetPosts(posts []Post) error {
	return a.save(KeyPosts, posts)
}

// Journal returns the stored journal entries.
func (a *Accessors) Journal() []JournalEntry {
	return kvstore.Load(a.store, KeyJournal, []JournalEntry{})
}

// SetJournal stores the journal entries.
func (a *Accessors) SetJournal(entries []JournalEntry) error {
	return a.save(KeyJournal, entries)
}

// Groups returns the stored groups, or nil when none were ever stored.
func (a *Accessors) Groups() []Group {
	return kvstore.Load[[]Group](a.store, KeyGroups, nil)
}

// SetGroups stores the groups.
func (a *Accessors) SetGroups(groups []Group) error {
	return a.save(KeyGroups, groups)
}

// Gratitude returns gratitude posts in insertion order.
func (a *Accessors) Gratitude() []GratitudePost {
	return kvstore.Load(a.store, KeyGratitude, []GratitudePost{})
}

// SetGratitude stores gratitude posts.
func (a *Accessors) SetGratitude(posts []GratitudePost) error {
	return a.save(KeyGratitude, posts)
}

// BlockedUsers returns the block list.
func (a *Accessors) BlockedUsers() []BlockRecord {
	return kvstore.Load(a.store, KeyBlockedUsers, []BlockRecord{})
}

// SetBlockedUsers stores the block list.
func (a *Accessors) SetBlockedUsers(records []BlockRecord) error {
	return a.save(KeyBlockedUsers, records)
}

// ClearAll removes every application key and nothing else.
func (a *Accessors) ClearAll() error {
	if !a.store.ClearAll(Keys) {
		return ErrNotSaved
	}
	return nil
}

func (a *Accessors) save(key string, value any) error {
	if !a.store.Save(key, value) {
		return fmt.Errorf("%w: %s", ErrNotSaved, key)
	}
	return nil
}
