package viewmodel

import (
	"strings"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/accessors"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/recording"
)

// SetPostText replaces the text of the post composer.
func (m *Model) SetPostText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postComposer.text = text
}

// AttachPostVoice attaches a finished recording to the post composer.
func (m *Model) AttachPostVoice(blob recording.Blob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postComposer.voice = &blob
}

// ClearPostVoice discards the attached recording.
func (m *Model) ClearPostVoice() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postComposer.voice = nil
}

// PostComposer describes the post composer.
func (m *Model) PostComposer() ComposerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.postComposer.state()
}

// CanSubmitPost reports whether the composer holds text or a recording.
func (m *Model) CanSubmitPost() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.postComposer.ready()
}

// SubmitPost turns the composer into a new post at the top of the feed and
// clears the composer.
func (m *Model) SubmitPost(mood string, anonymous bool) (accessors.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.postComposer.ready() {
		return accessors.Post{}, ErrEmptySubmission
	}
	id, err := m.newID()
	if err != nil {
		return accessors.Post{}, err
	}
	post := accessors.Post{
		ID:        id,
		Content:   strings.TrimSpace(m.postComposer.text),
		Voice:     voiceNote(m.postComposer.voice),
		Author:    m.user.DisplayName,
		AuthorID:  m.user.ID,
		Mood:      strings.TrimSpace(mood),
		Comments:  []accessors.Comment{},
		CreatedAt: m.clock().UTC(),
	}
	if anonymous {
		post.Author = accessors.AnonymousAuthor
		post.AuthorID = ""
	}

	m.posts = append([]accessors.Post{post}, m.posts...)
	m.postComposer = composer{}
	m.persist("posts", m.store.SetPosts(m.posts))
	return clonePost(post), nil
}

// Feed returns the posts, newest first, without blocked authors.
func (m *Model) Feed() []accessors.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feedLocked()
}

// Post returns one post by id.
func (m *Model) Post(postID string) (accessors.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := m.postIndex(postID)
	if index < 0 {
		return accessors.Post{}, ErrPostNotFound
	}
	return clonePost(m.posts[index]), nil
}

// React adds one to a reaction counter of a post. Repeated reactions keep
// counting.
func (m *Model) React(postID string, kind accessors.ReactionKind) (accessors.Reactions, error) {
	if _, err := accessors.ParseReactionKind(string(kind)); err != nil {
		return accessors.Reactions{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	index := m.postIndex(postID)
	if index < 0 {
		return accessors.Reactions{}, ErrPostNotFound
	}
	m.posts[index].Reactions.Increment(kind)
	m.persist("posts", m.store.SetPosts(m.posts))
	return m.posts[index].Reactions, nil
}

// AddComment appends a comment to a post.
func (m *Model) AddComment(postID, text string) (accessors.Comment, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return accessors.Comment{}, ErrEmptySubmission
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	index := m.postIndex(postID)
	if index < 0 {
		return accessors.Comment{}, ErrPostNotFound
	}
	id, err := m.newID()
	if err != nil {
		return accessors.Comment{}, err
	}
	comment := accessors.Comment{
		ID:        id,
		Text:      body,
		Author:    m.user.DisplayName,
		CreatedAt: m.clock().UTC(),
	}
	m.posts[index].Comments = append(m.posts[index].Comments, comment)
	m.persist("posts", m.store.SetPosts(m.posts))
	return comment, nil
}

// BlockUser removes every post authored by name and remembers the block.
// Matching is by display name, so people sharing a name are blocked together
// and a blocked person posting under another name is not caught. The user's
// own posts are never removed, and anonymous authors cannot be blocked.
func (m *Model) BlockUser(name string) (int, error) {
	target := strings.TrimSpace(name)
	if target == "" || target == accessors.AnonymousAuthor {
		return 0, ErrInvalidName
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if target == m.user.DisplayName {
		return 0, ErrCannotBlockSelf
	}

	kept := make([]accessors.Post, 0, len(m.posts))
	for _, post := range m.posts {
		if post.Author != target || m.ownPost(post) {
			kept = append(kept, post)
		}
	}
	removed := len(m.posts) - len(kept)
	m.posts = kept
	m.persist("posts", m.store.SetPosts(m.posts))

	if !m.isBlockedLocked(target) {
		m.blocked = append(m.blocked, accessors.BlockRecord{Name: target, BlockedAt: m.clock().UTC()})
		m.persist("blocked_users", m.store.SetBlockedUsers(m.blocked))
	}
	return removed, nil
}

// BlockedUsers returns the block list.
func (m *Model) BlockedUsers() []accessors.BlockRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]accessors.BlockRecord{}, m.blocked...)
}

func (m *Model) feedLocked() []accessors.Post {
	feed := make([]accessors.Post, 0, len(m.posts))
	for _, post := range m.posts {
		if post.Author != accessors.AnonymousAuthor && !m.ownPost(post) && m.isBlockedLocked(post.Author) {
			continue
		}
		feed = append(feed, clonePost(post))
	}
	return feed
}

func (m *Model) ownPost(post accessors.Post) bool {
	return post.AuthorID != "" && post.AuthorID == m.user.ID
}

func (m *Model) isBlockedLocked(name string) bool {
	for _, record := range m.blocked {
		if record.Name == name {
			return true
		}
	}
	return false
}

func (m *Model) postIndex(postID string) int {
	for index, post := range m.posts {
		if post.ID == postID {
			return index
		}
	}
	return -1
}

func clonePost(post accessors.Post) accessors.Post {
	post.Comments = append([]accessors.Comment{}, post.Comments...)
	return post
}

var starterPosts = []struct {
	author  string
	mood    string
	content string
	age     time.Duration
}{
	{author: "Sarah M.", mood: "hopeful", content: "Had my first good night of sleep in weeks. Small wins count!", age: 2 * time.Hour},
	{author: "Alex K.", mood: "anxious", content: "Big presentation tomorrow and my mind won't stop racing. Any grounding tips?", age: 5 * time.Hour},
	{author: "Jordan P.", mood: "grateful", content: "Thank you to everyone in the anxiety group for listening yesterday.", age: 26 * time.Hour},
}

func seedPosts(ids accessors.IDProvider, now time.Time) ([]accessors.Post, error) {
	posts := make([]accessors.Post, 0, len(starterPosts))
	for _, starter := range starterPosts {
		id, err := ids.NewID()
		if err != nil {
			return nil, err
		}
		posts = append(posts, accessors.Post{
			ID:        id,
			Content:   starter.content,
			Author:    starter.author,
			Mood:      starter.mood,
			Comments:  []accessors.Comment{},
			CreatedAt: now.Add(-starter.age).UTC(),
		})
	}
	return posts, nil
}
