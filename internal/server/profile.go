package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/accessors"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/textutil"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/viewmodel"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type streakPayload struct {
	Count       int    `json:"count"`
	LastCheckIn string `json:"lastCheckIn,omitempty"`
}

type stateResponse struct {
	viewmodel.Snapshot
	Handle string        `json:"handle"`
	Theme  string        `json:"theme"`
	Streak streakPayload `json:"streak"`
}

func (h *httpHandler) handleState(c *gin.Context) {
	snapshot := h.model.Snapshot()
	current := h.streak.Current()
	c.JSON(http.StatusOK, stateResponse{
		Snapshot: snapshot,
		Handle:   textutil.AnonymousHandle(snapshot.User.ID),
		Theme:    h.accessors.Theme(),
		Streak:   streakPayload{Count: current.Count, LastCheckIn: current.LastCheckIn},
	})
}

type navigateRequest struct {
	View    string `json:"view" binding:"required"`
	GroupID string `json:"groupId"`
}

func (h *httpHandler) handleNavigate(c *gin.Context) {
	var request navigateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "view.navigate")
		return
	}
	view, err := viewmodel.ParseView(request.View)
	if err != nil {
		h.fail(c, "view.navigate", err)
		return
	}
	if view == viewmodel.ViewGroupChat {
		err = h.model.OpenGroupChat(request.GroupID)
	} else {
		err = h.model.Navigate(view)
	}
	if err != nil {
		h.fail(c, "view.navigate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": view})
}

func (h *httpHandler) handleGetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.model.User())
}

type profileRequest struct {
	DisplayName *string                        `json:"displayName"`
	Privacy     *accessors.PrivacySettings     `json:"privacy"`
	Matching    *accessors.MatchingPreferences `json:"matching"`
}

func (h *httpHandler) handleUpdateProfile(c *gin.Context) {
	var request profileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "profile.update")
		return
	}
	user := h.model.User()
	if request.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*request.DisplayName)
	}
	if request.Privacy != nil {
		user.Privacy = *request.Privacy
	}
	if request.Matching != nil {
		user.Matching = *request.Matching
	}
	h.saveProfile(c, "profile.update", user)
}

func (h *httpHandler) handleProfilePicture(c *gin.Context) {
	mimeType := c.ContentType()
	if !strings.HasPrefix(mimeType, "image/") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "profile.picture.unsupported"})
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes))
	if err != nil {
		h.fail(c, "profile.picture", err)
		return
	}
	if len(data) == 0 {
		h.fail(c, "profile.picture", viewmodel.ErrEmptySubmission)
		return
	}
	user := h.model.User()
	user.ProfilePicture = textutil.DataURI(mimeType, data)
	h.saveProfile(c, "profile.picture", user)
}

func (h *httpHandler) saveProfile(c *gin.Context, operation string, user accessors.User) {
	if err := h.accessors.SetUser(user); err != nil {
		h.fail(c, operation, err)
		return
	}
	h.model.RefreshUser()
	c.JSON(http.StatusOK, h.model.User())
}

type moodRequest struct {
	Mood string `json:"mood" binding:"required"`
}

func (h *httpHandler) handleMood(c *gin.Context) {
	var request moodRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "mood.add")
		return
	}
	entry, err := h.accessors.AddMood(request.Mood)
	if err != nil {
		h.fail(c, "mood.add", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

type checkInRequest struct {
	Mood string `json:"mood"`
}

type checkInResponse struct {
	Streak      streakPayload        `json:"streak"`
	Unchanged   bool                 `json:"unchanged"`
	NewBadges   []string             `json:"newBadges"`
	Mood        *accessors.MoodEntry `json:"mood,omitempty"`
	Affirmation string               `json:"affirmation"`
}

func (h *httpHandler) handleCheckIn(c *gin.Context) {
	var request checkInRequest
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		invalidRequest(c, "checkin")
		return
	}

	result, err := h.streak.CheckIn(h.clock())
	if err != nil {
		h.fail(c, "checkin", err)
		return
	}
	h.model.RefreshUser()

	response := checkInResponse{
		Streak:      streakPayload{Count: result.State.Count, LastCheckIn: result.State.LastCheckIn},
		Unchanged:   result.Unchanged,
		NewBadges:   append([]string{}, result.NewBadges...),
		Affirmation: h.affirmations.Pick(),
	}
	if strings.TrimSpace(request.Mood) != "" {
		entry, err := h.accessors.AddMood(request.Mood)
		if err != nil {
			h.logger.Warn("check-in mood not recorded", zap.Error(err))
		} else {
			response.Mood = &entry
		}
	}
	c.JSON(http.StatusOK, response)
}

func (h *httpHandler) handlePrompt(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"prompt": h.prompts.Pick()})
}

func (h *httpHandler) handleBadges(c *gin.Context) {
	c.JSON(http.StatusOK, h.accessors.Badges())
}

func (h *httpHandler) handleGetPet(c *gin.Context) {
	c.JSON(http.StatusOK, h.accessors.Pet())
}

func (h *httpHandler) handleFeedPet(c *gin.Context) {
	pet, err := h.accessors.FeedPet()
	if err != nil {
		h.fail(c, "pet.feed", err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

func (h *httpHandler) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.accessors.Settings())
}

func (h *httpHandler) handleUpdateSettings(c *gin.Context) {
	var request accessors.Settings
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "settings.update")
		return
	}
	if err := h.accessors.SetSettings(request); err != nil {
		h.fail(c, "settings.update", err)
		return
	}
	c.JSON(http.StatusOK, h.accessors.Settings())
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func (h *httpHandler) handleGetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.accessors.Theme()})
}

func (h *httpHandler) handleUpdateTheme(c *gin.Context) {
	var request themeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "theme.update")
		return
	}
	if err := h.accessors.SetTheme(request.Theme); err != nil {
		h.fail(c, "theme.update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": h.accessors.Theme()})
}
