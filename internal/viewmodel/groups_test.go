package viewmodel

import (
	"testing"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinGroupIsIdempotent(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	before, err := model.Group("students")
	require.NoError(t, err)

	joined, err := model.JoinGroup("students")
	require.NoError(t, err)
	assert.True(t, joined.Joined)
	assert.Equal(t, before.MemberCount+1, joined.MemberCount)
	assert.True(t, joined.HasMember("River"))

	again, err := model.JoinGroup("students")
	require.NoError(t, err)
	assert.Equal(t, joined.MemberCount, again.MemberCount)

	_, err = model.JoinGroup("missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestSendGroupMessage(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	require.NoError(t, model.SetGroupText("anxiety", "hello"))
	_, err := model.SendGroupMessage("anxiety")
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = model.JoinGroup("anxiety")
	require.NoError(t, err)
	require.NoError(t, model.SetGroupText("anxiety", " "))
	assert.False(t, model.GroupComposer("anxiety").CanSubmit)
	_, err = model.SendGroupMessage("anxiety")
	assert.ErrorIs(t, err, ErrEmptySubmission)

	require.NoError(t, model.SetGroupText("anxiety", " hello everyone "))
	message, err := model.SendGroupMessage("anxiety")
	require.NoError(t, err)
	assert.Equal(t, "hello everyone", message.Text)
	assert.Equal(t, "River", message.Author)
	assert.Equal(t, ComposerState{}, model.GroupComposer("anxiety"))

	require.NoError(t, model.AttachGroupVoice("anxiety", voiceBlob()))
	voice, err := model.SendGroupMessage("anxiety")
	require.NoError(t, err)
	require.NotNil(t, voice.Voice)

	group, err := model.Group("anxiety")
	require.NoError(t, err)
	require.Len(t, group.Messages, 2)
	assert.Equal(t, message.ID, group.Messages[0].ID)

	assert.ErrorIs(t, model.SetGroupText("missing", "x"), ErrGroupNotFound)
}

func TestGroupComposersAreIndependent(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	require.NoError(t, model.SetGroupText("anxiety", "one"))
	require.NoError(t, model.SetGroupText("grief", "two"))
	assert.Equal(t, "one", model.GroupComposer("anxiety").Text)
	assert.Equal(t, "two", model.GroupComposer("grief").Text)
	assert.Equal(t, ComposerState{}, model.GroupComposer("students"))
}

func TestInviteFlow(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	assert.ErrorIs(t, model.SelectInvitee("Casey"), ErrInviteClosed)
	_, err := model.SendInvite()
	assert.ErrorIs(t, err, ErrInviteClosed)
	assert.ErrorIs(t, model.OpenInvite("missing"), ErrGroupNotFound)

	require.NoError(t, model.OpenInvite("anxiety"))
	assert.Equal(t, InviteState{Stage: InviteOpen, GroupID: "anxiety"}, model.Invite())
	_, err = model.SendInvite()
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.ErrorIs(t, model.SelectInvitee(" "), ErrNoSelection)

	require.NoError(t, model.SelectInvitee("Sarah M."))
	result, err := model.SendInvite()
	require.NoError(t, err)
	assert.False(t, result.Added)
	assert.Equal(t, NoticeAlreadyMember, result.NoticeKey)
	assert.Equal(t, map[string]string{"name": "Sarah M.", "group": "Anxiety Support"}, result.NoticeVars)
	assert.Equal(t, InviteClosed, model.Invite().Stage)

	before, err := model.Group("anxiety")
	require.NoError(t, err)
	require.NoError(t, model.OpenInvite("anxiety"))
	require.NoError(t, model.SelectInvitee("Casey"))
	result, err = model.SendInvite()
	require.NoError(t, err)
	assert.True(t, result.Added)
	assert.Equal(t, NoticeInviteSent, result.NoticeKey)
	assert.Equal(t, "Casey", result.NoticeVars["name"])

	after, err := model.Group("anxiety")
	require.NoError(t, err)
	assert.Equal(t, before.MemberCount+1, after.MemberCount)
	assert.True(t, after.HasMember("Casey"))
	assert.False(t, after.Joined)
}

func TestCloseInvite(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	require.NoError(t, model.OpenInvite("grief"))
	require.NoError(t, model.SelectInvitee("Casey"))
	model.CloseInvite()
	assert.Equal(t, InviteState{Stage: InviteClosed}, model.Invite())
}

func TestFindBuddy(t *testing.T) {
	f := newFixture(t, kvstore.NewMemoryDevice(0))
	model := f.model(t)

	_, err := model.FindBuddy()
	assert.ErrorIs(t, err, ErrMatchingDisabled)

	user := model.User()
	user.Matching.Enabled = true
	user.Matching.PreferredGroups = []string{"lgbtq"}
	require.NoError(t, f.accessors.SetUser(user))
	model.RefreshUser()

	_, err = model.FindBuddy()
	assert.ErrorIs(t, err, ErrNoBuddy)

	_, err = model.JoinGroup("anxiety")
	require.NoError(t, err)
	buddy, err := model.FindBuddy()
	require.NoError(t, err)
	assert.Equal(t, "Sarah M.", buddy)

	_, err = model.JoinGroup("lgbtq")
	require.NoError(t, err)
	buddy, err = model.FindBuddy()
	require.NoError(t, err)
	assert.Equal(t, "Riley J.", buddy)

	_, err = model.BlockUser("Riley J.")
	require.NoError(t, err)
	buddy, err = model.FindBuddy()
	require.NoError(t, err)
	assert.Equal(t, "Taylor B.", buddy)
}

func TestGratitudeWallNewestFirst(t *testing.T) {
	f := newFixture(t, kvstore.NewMemoryDevice(0))
	model := f.model(t)

	_, err := model.AddGratitude("  ")
	assert.ErrorIs(t, err, ErrEmptySubmission)

	first, err := model.AddGratitude("Sunshine")
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := model.AddGratitude("Warm tea")
	require.NoError(t, err)

	wall := model.GratitudeWall()
	require.Len(t, wall, 2)
	assert.Equal(t, second.ID, wall[0].ID)
	assert.Equal(t, first.ID, wall[1].ID)
	assert.Equal(t, wall, model.Snapshot().Gratitude)
}

func TestRenameCarriesMembershipAndAuthorship(t *testing.T) {
	f := newFixture(t, kvstore.NewMemoryDevice(0))
	model := f.model(t)

	_, err := model.JoinGroup("grief")
	require.NoError(t, err)
	require.NoError(t, model.SetGroupText("grief", "thinking of you all"))
	_, err = model.SendGroupMessage("grief")
	require.NoError(t, err)
	model.SetPostText("first post")
	own, err := model.SubmitPost("", false)
	require.NoError(t, err)
	_, err = model.AddComment(own.ID, "replying to myself")
	require.NoError(t, err)

	user := model.User()
	user.DisplayName = "Nova"
	user.Matching.Enabled = true
	require.NoError(t, f.accessors.SetUser(user))
	model.RefreshUser()

	group, err := model.Group("grief")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sam W.", "Nova"}, group.Members)
	assert.Equal(t, 2, group.MemberCount)
	assert.Equal(t, "Nova", group.Messages[0].Author)

	post, err := model.Post(own.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nova", post.Author)
	assert.Equal(t, "Nova", post.Comments[0].Author)

	_, err = model.BlockUser("Sam W.")
	require.NoError(t, err)
	_, err = model.FindBuddy()
	assert.ErrorIs(t, err, ErrNoBuddy)

	removed, err := model.BlockUser("River")
	require.NoError(t, err)
	assert.Zero(t, removed)
	_, err = model.Post(own.ID)
	require.NoError(t, err)

	reloaded := f.model(t)
	group, err = reloaded.Group("grief")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sam W.", "Nova"}, group.Members)
}

func TestRenameKeepsOneEntryPerName(t *testing.T) {
	assert.Equal(t, []string{"Sam W.", "Nova"}, renameMember([]string{"Sam W.", "Nova", "River"}, "River", "Nova"))
	assert.Equal(t, []string{"Nova", "Sam W."}, renameMember([]string{"River", "Sam W."}, "River", "Nova"))
}
