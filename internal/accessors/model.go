package accessors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReactionKind names one of the four reaction counters of a Post.
type ReactionKind string

const (
	ReactionSupport  ReactionKind = "support"
	ReactionHug      ReactionKind = "hug"
	ReactionRelate   ReactionKind = "relate"
	ReactionStrength ReactionKind = "strength"
)

// AnonymousAuthor is displayed in place of the author of anonymous posts.
const AnonymousAuthor = "Anonymous"

// ErrInvalidReaction indicates an unknown reaction kind.
var ErrInvalidReaction = errors.New("accessors: invalid reaction kind")

// ParseReactionKind validates raw input and returns a ReactionKind.
func ParseReactionKind(rawInput string) (ReactionKind, error) {
	switch kind := ReactionKind(strings.ToLower(strings.TrimSpace(rawInput))); kind {
	case ReactionSupport, ReactionHug, ReactionRelate, ReactionStrength:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidReaction, rawInput)
	}
}

// PrivacySettings controls what the local user shares.
type PrivacySettings struct {
	ShowMoodHistory bool `json:"showMoodHistory"`
	ShowStreak      bool `json:"showStreak"`
	AllowInvites    bool `json:"allowInvites"`
}

// MatchingPreferences steer buddy matching.
type MatchingPreferences struct {
	Enabled         bool     `json:"enabled"`
	PreferredGroups []string `json:"preferredGroups,omitempty"`
}

// User is the person using this device.
type User struct {
	ID             string              `json:"id"`
	DisplayName    string              `json:"displayName" validate:"required,min=1,max=64"`
	Streak         int                 `json:"streak" validate:"gte=0"`
	Theme          string              `json:"theme"`
	Privacy        PrivacySettings     `json:"privacy"`
	Matching       MatchingPreferences `json:"matching"`
	ProfilePicture string              `json:"profilePicture,omitempty" validate:"omitempty,datauri"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// MoodEntry is one recorded mood sample.
type MoodEntry struct {
	Mood      string `json:"mood"`
	Timestamp string `json:"timestamp"`
	Epoch     int64  `json:"epoch"`
}

// Badge records an unlocked achievement.
type Badge struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// Pet is the virtual companion.
type Pet struct {
	Name      string    `json:"name"`
	Happiness int       `json:"happiness"`
	Level     int       `json:"level"`
	LastFedAt time.Time `json:"lastFedAt,omitempty"`
}

// Settings holds app-wide preferences.
type Settings struct {
	Notifications    bool   `json:"notifications"`
	Language         string `json:"language" validate:"required,oneof=en es fr de pt zh ja it ko ar hi ht"`
	AnonymousPosting bool   `json:"anonymousPosting"`
	DailyReminder    string `json:"dailyReminder" validate:"omitempty,datetime=15:04"`
}

// VoiceNote is an audio attachment of a post or message.
type VoiceNote struct {
	MIMEType        string `json:"mimeType"`
	DurationSeconds int    `json:"durationSeconds"`
	DataBase64      string `json:"dataBase64"`
}

// Reactions holds the four named reaction counters of a Post.
type Reactions struct {
	Support  int `json:"support"`
	Hug      int `json:"hug"`
	Relate   int `json:"relate"`
	Strength int `json:"strength"`
}

// Increment adds one to the counter named by kind.
func (r *Reactions) Increment(kind ReactionKind) {
	switch kind {
	case ReactionSupport:
		r.Support++
	case ReactionHug:
		r.Hug++
	case ReactionRelate:
		r.Relate++
	case ReactionStrength:
		r.Strength++
	}
}

// Comment is a reply to a Post.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is a community feed item.
type Post struct {
	ID        string     `json:"id"`
	Content   string     `json:"content,omitempty"`
	Voice     *VoiceNote `json:"voice,omitempty"`
	Author    string     `json:"author"`
	AuthorID  string     `json:"authorId,omitempty"`
	Mood      string     `json:"mood,omitempty"`
	Reactions Reactions  `json:"reactions"`
	Comments  []Comment  `json:"comments"`
	CreatedAt time.Time  `json:"createdAt"`
}

// JournalEntry is a private note.
type JournalEntry struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Mood      string     `json:"mood,omitempty"`
	Theme     string     `json:"theme,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
}

// Message is a chat entry inside a Group.
type Message struct {
	ID        string     `json:"id"`
	Text      string     `json:"text,omitempty"`
	Voice     *VoiceNote `json:"voice,omitempty"`
	Author    string     `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Group is a topical chat room.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MemberCount int       `json:"memberCount"`
	Joined      bool      `json:"joined"`
	Members     []string  `json:"members"`
	Messages    []Message `json:"messages"`
}

// HasMember reports whether name is in the member list.
func (g Group) HasMember(name string) bool {
	for _, member := range g.Members {
		if member == name {
			return true
		}
	}
	return false
}

// GratitudePost is an anonymous gratitude note.
type GratitudePost struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlockRecord remembers a blocked display name.
type BlockRecord struct {
	Name      string    `json:"name"`
	BlockedAt time.Time `json:"blockedAt"`
}
