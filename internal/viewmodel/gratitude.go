package viewmodel

import (
	"strings"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/accessors"
)

// AddGratitude appends an anonymous note to the gratitude wall.
func (m *Model) AddGratitude(content string) (accessors.GratitudePost, error) {
	body := strings.TrimSpace(content)
	if body == "" {
		return accessors.GratitudePost{}, ErrEmptySubmission
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.newID()
	if err != nil {
		return accessors.GratitudePost{}, err
	}
	post := accessors.GratitudePost{ID: id, Content: body, CreatedAt: m.clock().UTC()}
	m.gratitude = append(m.gratitude, post)
	m.persist("gratitude", m.store.SetGratitude(m.gratitude))
	return post, nil
}

// GratitudeWall returns the notes, newest first.
func (m *Model) GratitudeWall() []accessors.GratitudePost {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gratitudeWallLocked()
}

func (m *Model) gratitudeWallLocked() []accessors.GratitudePost {
	wall := make([]accessors.GratitudePost, 0, len(m.gratitude))
	for index := len(m.gratitude) - 1; index >= 0; index-- {
		wall = append(wall, m.gratitude[index])
	}
	return wall
}
