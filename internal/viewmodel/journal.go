package viewmodel

import (
	"strings"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/accessors"
)

type editorMode uint8

const (
	editorIdle editorMode = iota
	editorNew
	editorExisting
)

func (m editorMode) String() string {
	switch m {
	case editorNew:
		return "editing-new"
	case editorExisting:
		return "editing-existing"
	default:
		return "idle"
	}
}

type journalEditor struct {
	mode    editorMode
	entryID string
	content string
	mood    string
	savedAt time.Time
}

// JournalEditorState describes the journal editor for rendering.
type JournalEditorState struct {
	Mode    string `json:"mode"`
	EntryID string `json:"entryId,omitempty"`
	Content string `json:"content"`
	Mood    string `json:"mood,omitempty"`
}

func (e journalEditor) state() JournalEditorState {
	return JournalEditorState{
		Mode:    e.mode.String(),
		EntryID: e.entryID,
		Content: e.content,
		Mood:    e.mood,
	}
}

// BeginNewEntry opens the editor on a blank entry.
func (m *Model) BeginNewEntry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editor = journalEditor{mode: editorNew, savedAt: m.editor.savedAt}
}

// BeginEditEntry opens the editor on an existing entry.
func (m *Model) BeginEditEntry(entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := m.journalIndex(entryID)
	if index < 0 {
		return ErrEntryNotFound
	}
	entry := m.journal[index]
	m.editor = journalEditor{
		mode:    editorExisting,
		entryID: entry.ID,
		content: entry.Content,
		mood:    entry.Mood,
		savedAt: m.editor.savedAt,
	}
	return nil
}

// SetJournalContent replaces the editor text.
func (m *Model) SetJournalContent(content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editor.mode == editorIdle {
		return ErrEditorClosed
	}
	m.editor.content = content
	return nil
}

// SetJournalMood tags the entry being edited.
func (m *Model) SetJournalMood(mood string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editor.mode == editorIdle {
		return ErrEditorClosed
	}
	m.editor.mood = strings.TrimSpace(mood)
	return nil
}

// CancelJournal closes the editor without saving.
func (m *Model) CancelJournal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editor = journalEditor{savedAt: m.editor.savedAt}
}

// JournalEditor describes the journal editor.
func (m *Model) JournalEditor() JournalEditorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editor.state()
}

// SaveJournal stores the editor content. A new entry gets a fresh id; an
// existing entry keeps its id and creation time and is stamped as edited.
// The editor closes and a confirmation shows for the configured duration.
func (m *Model) SaveJournal() (accessors.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editor.mode == editorIdle {
		return accessors.JournalEntry{}, ErrEditorClosed
	}
	content := strings.TrimSpace(m.editor.content)
	if content == "" {
		return accessors.JournalEntry{}, ErrEmptySubmission
	}
	now := m.clock().UTC()

	var saved accessors.JournalEntry
	switch m.editor.mode {
	case editorNew:
		id, err := m.newID()
		if err != nil {
			return accessors.JournalEntry{}, err
		}
		saved = accessors.JournalEntry{
			ID:        id,
			Content:   content,
			Mood:      m.editor.mood,
			Theme:     m.store.Theme(),
			CreatedAt: now,
		}
		m.journal = append([]accessors.JournalEntry{saved}, m.journal...)
	case editorExisting:
		index := m.journalIndex(m.editor.entryID)
		if index < 0 {
			return accessors.JournalEntry{}, ErrEntryNotFound
		}
		entry := m.journal[index]
		editedAt := editStamp(entry, now)
		entry.Content = content
		entry.Mood = m.editor.mood
		entry.EditedAt = &editedAt
		m.journal[index] = entry
		saved = entry
	}

	m.persist("journal", m.store.SetJournal(m.journal))
	m.editor = journalEditor{savedAt: now}
	return saved, nil
}

// JournalConfirmationVisible reports whether the save confirmation is showing.
func (m *Model) JournalConfirmationVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.confirmationVisibleLocked()
}

// JournalEntries returns the entries, newest first.
func (m *Model) JournalEntries() []accessors.JournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneJournal(m.journal)
}

// DeleteJournalEntry removes an entry. An editor open on it is closed.
func (m *Model) DeleteJournalEntry(entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := m.journalIndex(entryID)
	if index < 0 {
		return ErrEntryNotFound
	}
	m.journal = append(m.journal[:index:index], m.journal[index+1:]...)
	if m.editor.mode == editorExisting && m.editor.entryID == entryID {
		m.editor = journalEditor{savedAt: m.editor.savedAt}
	}
	m.persist("journal", m.store.SetJournal(m.journal))
	return nil
}

func (m *Model) confirmationVisibleLocked() bool {
	if m.editor.savedAt.IsZero() {
		return false
	}
	return m.clock().UTC().Sub(m.editor.savedAt) < m.confirmationTTL
}

func (m *Model) journalIndex(entryID string) int {
	for index, entry := range m.journal {
		if entry.ID == entryID {
			return index
		}
	}
	return -1
}

// editStamp returns a timestamp strictly after the creation time and never
// before a previous edit.
func editStamp(entry accessors.JournalEntry, now time.Time) time.Time {
	floor := entry.CreatedAt
	if entry.EditedAt != nil && entry.EditedAt.After(floor) {
		floor = *entry.EditedAt
	}
	if now.After(floor) {
		return now
	}
	return floor.Add(time.Millisecond)
}

func cloneJournal(entries []accessors.JournalEntry) []accessors.JournalEntry {
	return append([]accessors.JournalEntry{}, entries...)
}
