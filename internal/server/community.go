package server

import (
	"net/http"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/accessors"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/textutil"
	"github.com/gin-gonic/gin"
)

func (h *httpHandler) handleListPosts(c *gin.Context) {
	c.JSON(http.StatusOK, h.model.Feed())
}

type postRequest struct {
	Content   string `json:"content"`
	Mood      string `json:"mood"`
	Anonymous *bool  `json:"anonymous"`
}

func (h *httpHandler) handleSubmitPost(c *gin.Context) {
	var request postRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "posts.submit")
		return
	}
	anonymous := h.accessors.Settings().AnonymousPosting
	if request.Anonymous != nil {
		anonymous = *request.Anonymous
	}
	h.model.SetPostText(request.Content)
	post, err := h.model.SubmitPost(request.Mood, anonymous)
	if err != nil {
		h.fail(c, "posts.submit", err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *httpHandler) handlePlayPostVoice(c *gin.Context) {
	post, err := h.model.Post(c.Param("id"))
	if err != nil {
		h.fail(c, "posts.voice", err)
		return
	}
	if post.Voice == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "posts.voice.not_found"})
		return
	}
	data, err := textutil.DecodeBase64(post.Voice.DataBase64)
	if err != nil {
		h.fail(c, "posts.voice", err)
		return
	}
	c.Data(http.StatusOK, post.Voice.MIMEType, data)
}

type reactionRequest struct {
	Kind string `json:"kind" binding:"required"`
}

func (h *httpHandler) handleReact(c *gin.Context) {
	var request reactionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "posts.react")
		return
	}
	kind, err := accessors.ParseReactionKind(request.Kind)
	if err != nil {
		h.fail(c, "posts.react", err)
		return
	}
	reactions, err := h.model.React(c.Param("id"), kind)
	if err != nil {
		h.fail(c, "posts.react", err)
		return
	}
	c.JSON(http.StatusOK, reactions)
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *httpHandler) handleComment(c *gin.Context) {
	var request textRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "posts.comment")
		return
	}
	comment, err := h.model.AddComment(c.Param("id"), request.Text)
	if err != nil {
		h.fail(c, "posts.comment", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *httpHandler) handleBlock(c *gin.Context) {
	var request nameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "blocks.add")
		return
	}
	removed, err := h.model.BlockUser(request.Name)
	if err != nil {
		h.fail(c, "blocks.add", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed, "blocked": h.model.BlockedUsers()})
}

func (h *httpHandler) handleListJournal(c *gin.Context) {
	c.JSON(http.StatusOK, h.model.JournalEntries())
}

type journalRequest struct {
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

func (h *httpHandler) handleCreateJournal(c *gin.Context) {
	var request journalRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "journal.create")
		return
	}
	h.model.BeginNewEntry()
	h.saveJournal(c, "journal.create", http.StatusCreated, request)
}

func (h *httpHandler) handleUpdateJournal(c *gin.Context) {
	var request journalRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "journal.update")
		return
	}
	if err := h.model.BeginEditEntry(c.Param("id")); err != nil {
		h.fail(c, "journal.update", err)
		return
	}
	h.saveJournal(c, "journal.update", http.StatusOK, request)
}

func (h *httpHandler) saveJournal(c *gin.Context, operation string, status int, request journalRequest) {
	err := h.model.SetJournalContent(request.Content)
	if err == nil {
		err = h.model.SetJournalMood(request.Mood)
	}
	if err != nil {
		h.model.CancelJournal()
		h.fail(c, operation, err)
		return
	}
	entry, err := h.model.SaveJournal()
	if err != nil {
		h.model.CancelJournal()
		h.fail(c, operation, err)
		return
	}
	c.JSON(status, entry)
}

func (h *httpHandler) handleDeleteJournal(c *gin.Context) {
	if err := h.model.DeleteJournalEntry(c.Param("id")); err != nil {
		h.fail(c, "journal.delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListGroups(c *gin.Context) {
	c.JSON(http.StatusOK, h.model.Groups())
}

func (h *httpHandler) handleJoinGroup(c *gin.Context) {
	group, err := h.model.JoinGroup(c.Param("id"))
	if err != nil {
		h.fail(c, "groups.join", err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *httpHandler) handleGroupMessage(c *gin.Context) {
	var request textRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "groups.message")
		return
	}
	groupID := c.Param("id")
	if err := h.model.SetGroupText(groupID, request.Text); err != nil {
		h.fail(c, "groups.message", err)
		return
	}
	message, err := h.model.SendGroupMessage(groupID)
	if err != nil {
		h.fail(c, "groups.message", err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

type inviteResponse struct {
	Added  bool   `json:"added"`
	Notice string `json:"notice"`
}

func (h *httpHandler) handleInvite(c *gin.Context) {
	var request nameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "groups.invite")
		return
	}
	if err := h.model.OpenInvite(c.Param("id")); err != nil {
		h.fail(c, "groups.invite", err)
		return
	}
	if err := h.model.SelectInvitee(request.Name); err != nil {
		h.model.CloseInvite()
		h.fail(c, "groups.invite", err)
		return
	}
	result, err := h.model.SendInvite()
	if err != nil {
		h.fail(c, "groups.invite", err)
		return
	}
	c.JSON(http.StatusOK, inviteResponse{
		Added:  result.Added,
		Notice: h.translations.Render(h.language(c), result.NoticeKey, result.NoticeVars),
	})
}

func (h *httpHandler) handleFindBuddy(c *gin.Context) {
	buddy, err := h.model.FindBuddy()
	if err != nil {
		h.fail(c, "buddy.find", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buddy": buddy})
}

func (h *httpHandler) handleGratitudeWall(c *gin.Context) {
	c.JSON(http.StatusOK, h.model.GratitudeWall())
}

type gratitudeRequest struct {
	Content string `json:"content"`
}

func (h *httpHandler) handleAddGratitude(c *gin.Context) {
	var request gratitudeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "gratitude.add")
		return
	}
	post, err := h.model.AddGratitude(request.Content)
	if err != nil {
		h.fail(c, "gratitude.add", err)
		return
	}
	c.JSON(http.StatusCreated, post)
}
