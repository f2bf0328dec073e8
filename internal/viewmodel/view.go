package viewmodel

import (
	"errors"
	"fmt"
	"strings"
)

// View is the closed set of screens the application can show.
type View uint8

const (
	ViewHome View = iota
	ViewFeed
	ViewJournal
	ViewGroups
	ViewGroupChat
	ViewGratitude
	ViewBuddy
	ViewProfile
	ViewCrisis
	ViewSettings
	viewCount
)

var viewNames = [viewCount]string{
	ViewHome:      "home",
	ViewFeed:      "feed",
	ViewJournal:   "journal",
	ViewGroups:    "groups",
	ViewGroupChat: "group-chat",
	ViewGratitude: "gratitude",
	ViewBuddy:     "buddy",
	ViewProfile:   "profile",
	ViewCrisis:    "crisis",
	ViewSettings:  "settings",
}

// ErrUnknownView indicates a view tag outside the closed set.
var ErrUnknownView = errors.New("viewmodel: unknown view")

func (v View) String() string {
	if v >= viewCount {
		return fmt.Sprintf("view(%d)", uint8(v))
	}
	return viewNames[v]
}

// Valid reports whether v belongs to the closed set.
func (v View) Valid() bool {
	return v < viewCount
}

// ParseView maps a view tag to its View.
func ParseView(rawInput string) (View, error) {
	tag := strings.ToLower(strings.TrimSpace(rawInput))
	for index, name := range viewNames {
		if name == tag {
			return View(index), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownView, rawInput)
}

// MarshalText renders the view tag.
func (v View) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownView, uint8(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText parses a view tag.
func (v *View) UnmarshalText(text []byte) error {
	parsed, err := ParseView(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
