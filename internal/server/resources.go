package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/billing"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/locale"
	"github.com/gin-gonic/gin"
)

func (h *httpHandler) handleTranslate(c *gin.Context) {
	lang := locale.Normalize(c.Param("lang"))
	key := c.Param("key")
	c.JSON(http.StatusOK, gin.H{
		"language": lang,
		"key":      key,
		"text":     h.translations.Translate(lang, key),
	})
}

type crisisResponse struct {
	locale.CrisisResource
	Title string `json:"title"`
}

func (h *httpHandler) handleCrisis(c *gin.Context) {
	lang := locale.Normalize(c.Param("lang"))
	c.JSON(http.StatusOK, crisisResponse{
		CrisisResource: h.crisis.Lookup(lang),
		Title:          h.translations.Translate(lang, "crisis.title"),
	})
}

type bannerRequest struct {
	Status            string     `json:"status" binding:"required"`
	TrialEnd          *time.Time `json:"trialEnd"`
	CurrentPeriodEnd  *time.Time `json:"currentPeriodEnd"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd"`
}

type bannerResponse struct {
	billing.Banner
	Message string `json:"message,omitempty"`
}

func (h *httpHandler) handleBanner(c *gin.Context) {
	var request bannerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "billing.banner")
		return
	}
	status, err := billing.ParseStatus(request.Status)
	if err != nil {
		h.fail(c, "billing.banner", err)
		return
	}
	subscription := billing.Subscription{Status: status, CancelAtPeriodEnd: request.CancelAtPeriodEnd}
	if request.TrialEnd != nil {
		subscription.TrialEnd = *request.TrialEnd
	}
	if request.CurrentPeriodEnd != nil {
		subscription.CurrentPeriodEnd = *request.CurrentPeriodEnd
	}

	banner := billing.SelectBanner(subscription, h.clock())
	response := bannerResponse{Banner: banner}
	if banner.Visible() {
		response.Message = h.translations.Render(h.language(c), banner.MessageKey(), map[string]string{
			"days": strconv.Itoa(banner.DaysLeft),
		})
	}
	c.JSON(http.StatusOK, response)
}
