package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/accessors"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/billing"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/locale"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/recording"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/streak"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/textutil"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/viewmodel"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const maxUploadBytes = 8 << 20

var (
	errMissingModel        = errors.New("view model dependency required")
	errMissingAccessors    = errors.New("accessors dependency required")
	errMissingStreakEngine = errors.New("streak engine dependency required")
	errMissingTranslations = errors.New("translation cache dependency required")
	errMissingCrisisTable  = errors.New("crisis table dependency required")
)

// Dependencies are the collaborators of the HTTP surface.
type Dependencies struct {
	Model        *viewmodel.Model
	Accessors    *accessors.Accessors
	Streak       *streak.Engine
	Translations *locale.TranslationCache
	Crisis       *locale.CrisisTable
	Affirmations *textutil.Picker
	Prompts      *textutil.Picker
	Recorder     *recording.Recorder
	Clock        func() time.Time
	Logger       *zap.Logger
}

func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Model == nil {
		return nil, errMissingModel
	}
	if deps.Accessors == nil {
		return nil, errMissingAccessors
	}
	if deps.Streak == nil {
		return nil, errMissingStreakEngine
	}
	if deps.Translations == nil {
		return nil, errMissingTranslations
	}
	if deps.Crisis == nil {
		return nil, errMissingCrisisTable
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	affirmations := deps.Affirmations
	if affirmations == nil {
		affirmations, _ = textutil.NewPicker(textutil.Affirmations, nil)
	}
	prompts := deps.Prompts
	if prompts == nil {
		prompts, _ = textutil.NewPicker(textutil.CheckInPrompts, nil)
	}
	recorder := deps.Recorder
	if recorder == nil {
		recorder = recording.NewRecorder(nil)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	handler := &httpHandler{
		model:        deps.Model,
		accessors:    deps.Accessors,
		streak:       deps.Streak,
		translations: deps.Translations,
		crisis:       deps.Crisis,
		affirmations: affirmations,
		prompts:      prompts,
		recorder:     recorder,
		clock:        clock,
		logger:       logger,
	}

	router.GET("/state", handler.handleState)
	router.POST("/view", handler.handleNavigate)

	router.GET("/profile", handler.handleGetProfile)
	router.PUT("/profile", handler.handleUpdateProfile)
	router.PUT("/profile/picture", handler.handleProfilePicture)
	router.POST("/mood", handler.handleMood)
	router.POST("/checkin", handler.handleCheckIn)
	router.GET("/prompt", handler.handlePrompt)
	router.GET("/badges", handler.handleBadges)
	router.GET("/pet", handler.handleGetPet)
	router.POST("/pet/feed", handler.handleFeedPet)
	router.GET("/settings", handler.handleGetSettings)
	router.PUT("/settings", handler.handleUpdateSettings)
	router.GET("/theme", handler.handleGetTheme)
	router.PUT("/theme", handler.handleUpdateTheme)

	router.GET("/posts", handler.handleListPosts)
	router.POST("/posts", handler.handleSubmitPost)
	router.POST("/posts/voice", handler.handlePostVoice)
	router.GET("/posts/:id/voice", handler.handlePlayPostVoice)
	router.POST("/posts/:id/reactions", handler.handleReact)
	router.POST("/posts/:id/comments", handler.handleComment)
	router.POST("/blocks", handler.handleBlock)

	router.GET("/journal", handler.handleListJournal)
	router.POST("/journal", handler.handleCreateJournal)
	router.PUT("/journal/:id", handler.handleUpdateJournal)
	router.DELETE("/journal/:id", handler.handleDeleteJournal)

	router.GET("/groups", handler.handleListGroups)
	router.POST("/groups/:id/join", handler.handleJoinGroup)
	router.POST("/groups/:id/messages", handler.handleGroupMessage)
	router.POST("/groups/:id/voice", handler.handleGroupVoice)
	router.POST("/groups/:id/invite", handler.handleInvite)
	router.GET("/buddy", handler.handleFindBuddy)

	router.GET("/gratitude", handler.handleGratitudeWall)
	router.POST("/gratitude", handler.handleAddGratitude)

	router.GET("/locale/:lang/:key", handler.handleTranslate)
	router.GET("/crisis/:lang", handler.handleCrisis)
	router.POST("/billing/banner", handler.handleBanner)

	return router, nil
}

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Accept-Language"},
		MaxAge:       12 * time.Hour,
	})
}

type httpHandler struct {
	model        *viewmodel.Model
	accessors    *accessors.Accessors
	streak       *streak.Engine
	translations *locale.TranslationCache
	crisis       *locale.CrisisTable
	affirmations *textutil.Picker
	prompts      *textutil.Picker
	recorder     *recording.Recorder
	clock        func() time.Time
	logger       *zap.Logger
}

type failure struct {
	status int
	reason string
}

var failures = []struct {
	err error
	failure
}{
	{viewmodel.ErrEmptySubmission, failure{http.StatusBadRequest, "empty"}},
	{viewmodel.ErrPostNotFound, failure{http.StatusNotFound, "not_found"}},
	{viewmodel.ErrEntryNotFound, failure{http.StatusNotFound, "not_found"}},
	{viewmodel.ErrGroupNotFound, failure{http.StatusNotFound, "not_found"}},
	{viewmodel.ErrNotMember, failure{http.StatusForbidden, "not_member"}},
	{viewmodel.ErrEditorClosed, failure{http.StatusConflict, "closed"}},
	{viewmodel.ErrInviteClosed, failure{http.StatusConflict, "closed"}},
	{viewmodel.ErrNoSelection, failure{http.StatusBadRequest, "no_selection"}},
	{viewmodel.ErrInvalidName, failure{http.StatusBadRequest, "invalid_name"}},
	{viewmodel.ErrCannotBlockSelf, failure{http.StatusBadRequest, "self"}},
	{viewmodel.ErrMatchingDisabled, failure{http.StatusConflict, "matching_disabled"}},
	{viewmodel.ErrNoBuddy, failure{http.StatusNotFound, "no_buddy"}},
	{viewmodel.ErrUnknownView, failure{http.StatusBadRequest, "invalid_view"}},
	{accessors.ErrInvalidReaction, failure{http.StatusBadRequest, "invalid_reaction"}},
	{accessors.ErrInvalidProfile, failure{http.StatusBadRequest, "invalid"}},
	{accessors.ErrInvalidSettings, failure{http.StatusBadRequest, "invalid"}},
	{accessors.ErrInvalidTheme, failure{http.StatusBadRequest, "invalid"}},
	{accessors.ErrInvalidMood, failure{http.StatusBadRequest, "invalid"}},
	{accessors.ErrNotSaved, failure{http.StatusServiceUnavailable, "not_saved"}},
	{recording.ErrEmptyCapture, failure{http.StatusBadRequest, "empty"}},
	{recording.ErrUnsupported, failure{http.StatusUnsupportedMediaType, "unsupported"}},
	{recording.ErrDeviceBusy, failure{http.StatusConflict, "busy"}},
	{recording.ErrSessionActive, failure{http.StatusConflict, "busy"}},
	{textutil.ErrInvalidBase64, failure{http.StatusInternalServerError, "corrupt"}},
	{billing.ErrUnknownStatus, failure{http.StatusBadRequest, "invalid_status"}},
}

// fail writes {"error": "<operation>.<reason>"} for err.
func (h *httpHandler) fail(c *gin.Context, operation string, err error) {
	for _, candidate := range failures {
		if errors.Is(err, candidate.err) {
			c.JSON(candidate.status, gin.H{"error": operation + "." + candidate.reason})
			return
		}
	}
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": operation + ".too_large"})
		return
	}
	h.logger.Error("request failed", zap.String("operation", operation), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": operation + ".failed"})
}

func invalidRequest(c *gin.Context, operation string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": operation + ".invalid_request"})
}

func (h *httpHandler) language(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return locale.Normalize(lang)
	}
	if header := c.GetHeader("Accept-Language"); header != "" {
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			return locale.Normalize(tags[0].String())
		}
	}
	return locale.Normalize(h.accessors.Settings().Language)
}
