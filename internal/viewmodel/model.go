// Package viewmodel holds the in-memory application state and the actions
// that mutate it. Feature slices are independent; every change to posts,
// journal entries, groups, gratitude and blocks is written through the
// persistence layer.
package viewmodel

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/accessors"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/recording"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/textutil"
	"go.uber.org/zap"
)

const (
	defaultDisplayName     = "Friend"
	defaultConfirmationTTL = 2 * time.Second
)

var (
	// ErrEmptySubmission indicates a submit with neither text nor a recording.
	ErrEmptySubmission = errors.New("viewmodel: nothing to submit")
	// ErrPostNotFound indicates an unknown post id.
	ErrPostNotFound = errors.New("viewmodel: post not found")
	// ErrEntryNotFound indicates an unknown journal entry id.
	ErrEntryNotFound = errors.New("viewmodel: journal entry not found")
	// ErrGroupNotFound indicates an unknown group id.
	ErrGroupNotFound = errors.New("viewmodel: group not found")
	// ErrNotMember indicates a group action that requires membership.
	ErrNotMember = errors.New("viewmodel: not a group member")
	// ErrEditorClosed indicates a journal edit without an open editor.
	ErrEditorClosed = errors.New("viewmodel: journal editor is not open")
	// ErrInviteClosed indicates an invite action without an open invite flow.
	ErrInviteClosed = errors.New("viewmodel: invite flow is not open")
	// ErrNoSelection indicates a multi-step submit with a missing selection.
	ErrNoSelection = errors.New("viewmodel: no selection")
	// ErrInvalidName indicates an empty display name.
	ErrInvalidName = errors.New("viewmodel: invalid name")
	// ErrCannotBlockSelf indicates an attempt to block the current user.
	ErrCannotBlockSelf = errors.New("viewmodel: cannot block yourself")
	// ErrMatchingDisabled indicates buddy matching is turned off in the profile.
	ErrMatchingDisabled = errors.New("viewmodel: buddy matching disabled")
	// ErrNoBuddy indicates that no candidate is available.
	ErrNoBuddy = errors.New("viewmodel: no buddy available")

	errMissingStore = errors.New("viewmodel: persistence is required")
)

// Persistence is the storage the model writes through.
type Persistence interface {
	EnsureUser(displayName string) (accessors.User, error)
	User() accessors.User
	Theme() string
	Posts() []accessors.Post
	SetPosts([]accessors.Post) error
	Journal() []accessors.JournalEntry
	SetJournal([]accessors.JournalEntry) error
	Groups() []accessors.Group
	SetGroups([]accessors.Group) error
	Gratitude() []accessors.GratitudePost
	SetGratitude([]accessors.GratitudePost) error
	BlockedUsers() []accessors.BlockRecord
	SetBlockedUsers([]accessors.BlockRecord) error
}

// Config describes the dependencies of a Model.
type Config struct {
	Store           Persistence
	Clock           func() time.Time
	IDProvider      accessors.IDProvider
	DisplayName     string
	ConfirmationTTL time.Duration
	Logger          *zap.Logger
}

type composer struct {
	text  string
	voice *recording.Blob
}

func (c composer) ready() bool {
	return strings.TrimSpace(c.text) != "" || (c.voice != nil && len(c.voice.Data) > 0)
}

// ComposerState describes a composer for rendering.
type ComposerState struct {
	Text      string `json:"text"`
	HasVoice  bool   `json:"hasVoice"`
	CanSubmit bool   `json:"canSubmit"`
}

func (c composer) state() ComposerState {
	return ComposerState{Text: c.text, HasVoice: c.voice != nil, CanSubmit: c.ready()}
}

// Model is the application state machine.
type Model struct {
	store           Persistence
	clock           func() time.Time
	ids             accessors.IDProvider
	confirmationTTL time.Duration
	logger          *zap.Logger

	mu             sync.Mutex
	user           accessors.User
	view           View
	activeGroupID  string
	posts          []accessors.Post
	postComposer   composer
	journal        []accessors.JournalEntry
	editor         journalEditor
	groups         []accessors.Group
	groupComposers map[string]*composer
	invite         InviteState
	gratitude      []accessors.GratitudePost
	blocked        []accessors.BlockRecord
}

// New loads persisted state, seeding the starter feed and groups on first run.
func New(cfg Config) (*Model, error) {
	if cfg.Store == nil {
		return nil, errMissingStore
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	ids := cfg.IDProvider
	if ids == nil {
		ids = accessors.NewUUIDProvider()
	}
	ttl := cfg.ConfirmationTTL
	if ttl <= 0 {
		ttl = defaultConfirmationTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	displayName := strings.TrimSpace(cfg.DisplayName)
	if displayName == "" {
		displayName = defaultDisplayName
	}

	user, err := cfg.Store.EnsureUser(displayName)
	if err != nil {
		return nil, err
	}

	model := &Model{
		store:           cfg.Store,
		clock:           clock,
		ids:             ids,
		confirmationTTL: ttl,
		logger:          logger,
		user:            user,
		view:            ViewHome,
		journal:         cfg.Store.Journal(),
		gratitude:       cfg.Store.Gratitude(),
		blocked:         cfg.Store.BlockedUsers(),
		groupComposers:  make(map[string]*composer),
		invite:          InviteState{Stage: InviteClosed},
	}

	posts := cfg.Store.Posts()
	if posts == nil {
		if posts, err = seedPosts(ids, clock()); err != nil {
			return nil, err
		}
		model.persist("posts", cfg.Store.SetPosts(posts))
	}
	model.posts = posts

	groups := cfg.Store.Groups()
	if groups == nil {
		groups = seedGroups()
		model.persist("groups", cfg.Store.SetGroups(groups))
	}
	model.groups = groups
	return model, nil
}

// User returns the current user.
func (m *Model) User() accessors.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// RefreshUser reloads the profile after it was changed through the accessors.
// A new display name replaces the old one wherever the user's own content
// carries it.
func (m *Model) RefreshUser() {
	user := m.store.User()
	if user.ID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	previous := m.user
	m.user = user
	if previous.DisplayName != "" && previous.DisplayName != user.DisplayName {
		m.renameLocked(previous.DisplayName, user.DisplayName)
	}
}

// renameLocked moves the user's memberships, messages, comments and named
// posts from one display name to another. Messages and comments are only ever
// written by the local user, so their author names are rewritten as well.
func (m *Model) renameLocked(from, to string) {
	groupsChanged := false
	for index := range m.groups {
		group := &m.groups[index]
		if !group.Joined {
			continue
		}
		if group.HasMember(from) {
			group.Members = renameMember(group.Members, from, to)
			group.MemberCount = len(group.Members)
			groupsChanged = true
		}
		for position := range group.Messages {
			if group.Messages[position].Author == from {
				group.Messages[position].Author = to
				groupsChanged = true
			}
		}
	}
	if groupsChanged {
		m.persist("groups", m.store.SetGroups(m.groups))
	}

	postsChanged := false
	for index := range m.posts {
		post := &m.posts[index]
		if post.AuthorID == m.user.ID && post.Author == from {
			post.Author = to
			postsChanged = true
		}
		for position := range post.Comments {
			if post.Comments[position].Author == from {
				post.Comments[position].Author = to
				postsChanged = true
			}
		}
	}
	if postsChanged {
		m.persist("posts", m.store.SetPosts(m.posts))
	}
}

// renameMember replaces from with to, keeping a single entry for to.
func renameMember(members []string, from, to string) []string {
	renamed := make([]string, 0, len(members))
	present := false
	for _, member := range members {
		if member == from {
			member = to
		}
		if member == to {
			if present {
				continue
			}
			present = true
		}
		renamed = append(renamed, member)
	}
	return renamed
}

// CurrentView returns the view being shown.
func (m *Model) CurrentView() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Navigate switches to view.
func (m *Model) Navigate(view View) error {
	if !view.Valid() {
		return ErrUnknownView
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = view
	if view != ViewGroupChat {
		m.activeGroupID = ""
	}
	return nil
}

// OpenGroupChat shows the chat of a joined group.
func (m *Model) OpenGroupChat(groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := m.groupIndex(groupID)
	if index < 0 {
		return ErrGroupNotFound
	}
	if !m.groups[index].Joined {
		return ErrNotMember
	}
	m.view = ViewGroupChat
	m.activeGroupID = groupID
	return nil
}

// Snapshot is a consistent copy of the renderable state.
type Snapshot struct {
	View                View                      `json:"view"`
	ActiveGroupID       string                    `json:"activeGroupId,omitempty"`
	User                accessors.User            `json:"user"`
	Feed                []accessors.Post          `json:"feed"`
	PostComposer        ComposerState             `json:"postComposer"`
	Journal             []accessors.JournalEntry  `json:"journal"`
	JournalEditor       JournalEditorState        `json:"journalEditor"`
	JournalConfirmation bool                      `json:"journalConfirmation"`
	Groups              []accessors.Group         `json:"groups"`
	Invite              InviteState               `json:"invite"`
	Gratitude           []accessors.GratitudePost `json:"gratitude"`
	BlockedUsers        []accessors.BlockRecord   `json:"blockedUsers"`
}

// Snapshot returns the whole renderable state.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		View:                m.view,
		ActiveGroupID:       m.activeGroupID,
		User:                m.user,
		Feed:                m.feedLocked(),
		PostComposer:        m.postComposer.state(),
		Journal:             cloneJournal(m.journal),
		JournalEditor:       m.editor.state(),
		JournalConfirmation: m.confirmationVisibleLocked(),
		Groups:              cloneGroups(m.groups),
		Invite:              m.invite,
		Gratitude:           m.gratitudeWallLocked(),
		BlockedUsers:        append([]accessors.BlockRecord{}, m.blocked...),
	}
}

func (m *Model) newID() (string, error) {
	return m.ids.NewID()
}

func (m *Model) persist(slice string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, accessors.ErrNotSaved) {
		m.logger.Debug("state kept in memory only", zap.String("slice", slice))
		return
	}
	m.logger.Warn("state not persisted", zap.String("slice", slice), zap.Error(err))
}

func voiceNote(blob *recording.Blob) *accessors.VoiceNote {
	if blob == nil || len(blob.Data) == 0 {
		return nil
	}
	return &accessors.VoiceNote{
		MIMEType:        blob.MIMEType,
		DurationSeconds: int(blob.Duration / time.Second),
		DataBase64:      textutil.EncodeBase64(blob.Data),
	}
}
