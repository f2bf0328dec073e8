package viewmodel

import (
	"testing"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/accessors"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitPostRequiresContent(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	assert.False(t, model.CanSubmitPost())
	_, err := model.SubmitPost("calm", false)
	assert.ErrorIs(t, err, ErrEmptySubmission)

	model.SetPostText("   ")
	assert.False(t, model.CanSubmitPost())
	_, err = model.SubmitPost("calm", false)
	assert.ErrorIs(t, err, ErrEmptySubmission)
	assert.Len(t, model.Feed(), 3)
}

func TestSubmitPostPrependsAndClearsComposer(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	model.SetPostText("  First real post  ")
	require.True(t, model.CanSubmitPost())
	post, err := model.SubmitPost("hopeful", false)
	require.NoError(t, err)

	assert.Equal(t, "First real post", post.Content)
	assert.Equal(t, "River", post.Author)
	assert.Equal(t, model.User().ID, post.AuthorID)
	assert.Equal(t, post.ID, model.Feed()[0].ID)
	assert.Equal(t, ComposerState{}, model.PostComposer())
}

func TestAnonymousPostHidesAuthor(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	model.SetPostText("Hard day")
	post, err := model.SubmitPost("", true)
	require.NoError(t, err)
	assert.Equal(t, accessors.AnonymousAuthor, post.Author)
	assert.Empty(t, post.AuthorID)
}

func TestVoiceOnlyPost(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	model.AttachPostVoice(voiceBlob())
	state := model.PostComposer()
	assert.True(t, state.HasVoice)
	assert.True(t, state.CanSubmit)

	post, err := model.SubmitPost("", false)
	require.NoError(t, err)
	require.NotNil(t, post.Voice)
	assert.Equal(t, "audio/webm", post.Voice.MIMEType)
	assert.Equal(t, 3, post.Voice.DurationSeconds)
	assert.Equal(t, "AQIDBA==", post.Voice.DataBase64)
	assert.Empty(t, post.Content)
}

func TestClearPostVoiceDisablesSubmit(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	model.AttachPostVoice(voiceBlob())
	model.ClearPostVoice()
	assert.False(t, model.CanSubmitPost())
}

func TestReactCountsEveryTap(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)
	postID := model.Feed()[0].ID

	_, err := model.React(postID, accessors.ReactionSupport)
	require.NoError(t, err)
	reactions, err := model.React(postID, accessors.ReactionSupport)
	require.NoError(t, err)
	assert.Equal(t, 2, reactions.Support)

	_, err = model.React(postID, accessors.ReactionKind("wave"))
	assert.ErrorIs(t, err, accessors.ErrInvalidReaction)
	_, err = model.React("missing", accessors.ReactionHug)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestAddComment(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)
	postID := model.Feed()[1].ID

	_, err := model.AddComment(postID, " ")
	assert.ErrorIs(t, err, ErrEmptySubmission)

	comment, err := model.AddComment(postID, "Try box breathing")
	require.NoError(t, err)
	assert.Equal(t, "River", comment.Author)

	post, err := model.Post(postID)
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, comment.ID, post.Comments[0].ID)
}

func TestBlockUser(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	_, err := model.BlockUser("")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = model.BlockUser("River")
	assert.ErrorIs(t, err, ErrCannotBlockSelf)

	removed, err := model.BlockUser("Alex K.")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	for _, post := range model.Feed() {
		assert.NotEqual(t, "Alex K.", post.Author)
	}

	removed, err = model.BlockUser("Alex K.")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Len(t, model.BlockedUsers(), 1)
}

func TestBlockUserRejectsAnonymous(t *testing.T) {
	model := newFixture(t, kvstore.NewMemoryDevice(0)).model(t)

	model.SetPostText("Hard day")
	post, err := model.SubmitPost("", true)
	require.NoError(t, err)

	_, err = model.BlockUser(accessors.AnonymousAuthor)
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Empty(t, model.BlockedUsers())
	assert.Equal(t, post.ID, model.Feed()[0].ID)
}

func TestBlockUserKeepsOwnPosts(t *testing.T) {
	f := newFixture(t, kvstore.NewMemoryDevice(0))
	user := f.model(t).User()
	require.NoError(t, f.accessors.SetPosts([]accessors.Post{
		{ID: "mine", Content: "written before a rename", Author: "Old Me", AuthorID: user.ID, Comments: []accessors.Comment{}},
		{ID: "theirs", Content: "same name, someone else", Author: "Old Me", Comments: []accessors.Comment{}},
	}))
	model := f.model(t)

	removed, err := model.BlockUser("Old Me")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	feed := model.Feed()
	require.Len(t, feed, 1)
	assert.Equal(t, "mine", feed[0].ID)
}
