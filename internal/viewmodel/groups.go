package viewmodel

import (
	"strings"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/accessors"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/recording"
)

// Groups returns every group.
func (m *Model) Groups() []accessors.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneGroups(m.groups)
}

// Group returns one group by id.
func (m *Model) Group(groupID string) (accessors.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := m.groupIndex(groupID)
	if index < 0 {
		return accessors.Group{}, ErrGroupNotFound
	}
	return cloneGroup(m.groups[index]), nil
}

// JoinGroup adds the current user to a group. Joining twice changes nothing.
func (m *Model) JoinGroup(groupID string) (accessors.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := m.groupIndex(groupID)
	if index < 0 {
		return accessors.Group{}, ErrGroupNotFound
	}
	group := &m.groups[index]
	if group.Joined {
		return cloneGroup(*group), nil
	}
	if !group.HasMember(m.user.DisplayName) {
		group.Members = append(group.Members, m.user.DisplayName)
	}
	group.Joined = true
	group.MemberCount = len(group.Members)
	m.persist("groups", m.store.SetGroups(m.groups))
	return cloneGroup(*group), nil
}

// SetGroupText replaces the text of a group's chat composer.
func (m *Model) SetGroupText(groupID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.groupIndex(groupID) < 0 {
		return ErrGroupNotFound
	}
	m.groupComposer(groupID).text = text
	return nil
}

// AttachGroupVoice attaches a finished recording to a group's chat composer.
func (m *Model) AttachGroupVoice(groupID string, blob recording.Blob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.groupIndex(groupID) < 0 {
		return ErrGroupNotFound
	}
	m.groupComposer(groupID).voice = &blob
	return nil
}

// GroupComposer describes a group's chat composer.
func (m *Model) GroupComposer(groupID string) ComposerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.groupComposers[groupID]; ok {
		return c.state()
	}
	return ComposerState{}
}

// SendGroupMessage appends the composer content to the group chat and clears
// the composer.
func (m *Model) SendGroupMessage(groupID string) (accessors.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := m.groupIndex(groupID)
	if index < 0 {
		return accessors.Message{}, ErrGroupNotFound
	}
	if !m.groups[index].Joined {
		return accessors.Message{}, ErrNotMember
	}
	draft := m.groupComposer(groupID)
	if !draft.ready() {
		return accessors.Message{}, ErrEmptySubmission
	}
	id, err := m.newID()
	if err != nil {
		return accessors.Message{}, err
	}
	message := accessors.Message{
		ID:        id,
		Text:      strings.TrimSpace(draft.text),
		Voice:     voiceNote(draft.voice),
		Author:    m.user.DisplayName,
		CreatedAt: m.clock().UTC(),
	}
	m.groups[index].Messages = append(m.groups[index].Messages, message)
	*draft = composer{}
	m.persist("groups", m.store.SetGroups(m.groups))
	return message, nil
}

// InviteStage enumerates the invite flow.
type InviteStage string

const (
	InviteClosed   InviteStage = "closed"
	InviteOpen     InviteStage = "open"
	InviteSelected InviteStage = "selected"
)

// InviteState describes the invite flow.
type InviteState struct {
	Stage   InviteStage `json:"stage"`
	GroupID string      `json:"groupId,omitempty"`
	Invitee string      `json:"invitee,omitempty"`
}

// Invite notice message keys.
const (
	NoticeAlreadyMember = "groups.already_member"
	NoticeInviteSent    = "groups.invite_sent"
)

// InviteResult reports the outcome of a sent invite. NoticeKey names the
// message to show and NoticeVars fills its placeholders.
type InviteResult struct {
	Added      bool              `json:"added"`
	NoticeKey  string            `json:"noticeKey"`
	NoticeVars map[string]string `json:"noticeVars"`
}

// OpenInvite starts inviting someone to a group.
func (m *Model) OpenInvite(groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.groupIndex(groupID) < 0 {
		return ErrGroupNotFound
	}
	m.invite = InviteState{Stage: InviteOpen, GroupID: groupID}
	return nil
}

// SelectInvitee picks the person to invite.
func (m *Model) SelectInvitee(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.invite.Stage == InviteClosed {
		return ErrInviteClosed
	}
	invitee := strings.TrimSpace(name)
	if invitee == "" {
		return ErrNoSelection
	}
	m.invite.Invitee = invitee
	m.invite.Stage = InviteSelected
	return nil
}

// SendInvite adds the selected person to the group unless they already
// belong to it, then closes the flow.
func (m *Model) SendInvite() (InviteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.invite.Stage {
	case InviteSelected:
	case InviteOpen:
		return InviteResult{}, ErrNoSelection
	default:
		return InviteResult{}, ErrInviteClosed
	}
	invite := m.invite
	m.invite = InviteState{Stage: InviteClosed}

	index := m.groupIndex(invite.GroupID)
	if index < 0 {
		return InviteResult{}, ErrGroupNotFound
	}
	group := &m.groups[index]
	if group.HasMember(invite.Invitee) {
		return InviteResult{
			Added:      false,
			NoticeKey:  NoticeAlreadyMember,
			NoticeVars: map[string]string{"name": invite.Invitee, "group": group.Name},
		}, nil
	}
	group.Members = append(group.Members, invite.Invitee)
	group.MemberCount = len(group.Members)
	m.persist("groups", m.store.SetGroups(m.groups))
	return InviteResult{
		Added:      true,
		NoticeKey:  NoticeInviteSent,
		NoticeVars: map[string]string{"name": invite.Invitee},
	}, nil
}

// CloseInvite abandons the invite flow.
func (m *Model) CloseInvite() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invite = InviteState{Stage: InviteClosed}
}

// Invite describes the invite flow.
func (m *Model) Invite() InviteState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invite
}

// FindBuddy proposes a member of one of the user's groups as a buddy.
// Preferred groups are searched first; the user and blocked names are skipped.
func (m *Model) FindBuddy() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.user.Matching.Enabled {
		return "", ErrMatchingDisabled
	}
	ordered := make([]accessors.Group, 0, len(m.groups))
	seen := make(map[string]bool, len(m.groups))
	for _, preferred := range m.user.Matching.PreferredGroups {
		if index := m.groupIndex(preferred); index >= 0 && m.groups[index].Joined && !seen[preferred] {
			ordered = append(ordered, m.groups[index])
			seen[preferred] = true
		}
	}
	for _, group := range m.groups {
		if group.Joined && !seen[group.ID] {
			ordered = append(ordered, group)
		}
	}
	for _, group := range ordered {
		for _, member := range group.Members {
			if member == m.user.DisplayName || m.isBlockedLocked(member) {
				continue
			}
			return member, nil
		}
	}
	return "", ErrNoBuddy
}

func (m *Model) groupComposer(groupID string) *composer {
	draft, ok := m.groupComposers[groupID]
	if !ok {
		draft = &composer{}
		m.groupComposers[groupID] = draft
	}
	return draft
}

func (m *Model) groupIndex(groupID string) int {
	for index, group := range m.groups {
		if group.ID == groupID {
			return index
		}
	}
	return -1
}

func cloneGroup(group accessors.Group) accessors.Group {
	group.Members = append([]string{}, group.Members...)
	group.Messages = append([]accessors.Message{}, group.Messages...)
	return group
}

func cloneGroups(groups []accessors.Group) []accessors.Group {
	cloned := make([]accessors.Group, 0, len(groups))
	for _, group := range groups {
		cloned = append(cloned, cloneGroup(group))
	}
	return cloned
}

func seedGroups() []accessors.Group {
	groups := []accessors.Group{
		{ID: "anxiety", Name: "Anxiety Support", Description: "Share worries and coping strategies in a calm space.", Members: []string{"Sarah M.", "Jordan P.", "Alex K."}},
		{ID: "depression", Name: "Depression Support", Description: "Gentle company on the heavy days.", Members: []string{"Maya R.", "Chris T."}},
		{ID: "grief", Name: "Grief & Loss", Description: "Remember, grieve and heal together.", Members: []string{"Sam W."}},
		{ID: "lgbtq", Name: "LGBTQ+ Safe Space", Description: "Affirming support for LGBTQ+ members.", Members: []string{"Riley J.", "Taylor B.", "Jordan P."}},
		{ID: "students", Name: "Student Stress", Description: "Exams, deadlines and everything in between.", Members: []string{"Alex K.", "Priya S."}},
	}
	for index := range groups {
		groups[index].MemberCount = len(groups[index].Members)
		groups[index].Messages = []accessors.Message{}
	}
	return groups
}
