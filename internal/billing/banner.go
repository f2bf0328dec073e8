// Package billing decides which payment-status banner a subscription warrants.
package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	day = 24 * time.Hour

	// NoticeWindowDays is the widest countdown that still shows a notice.
	NoticeWindowDays = 3
)

// Status is the subscription lifecycle reported by the payment provider.
type Status string

const (
	StatusTrialing Status = "trialing"
	StatusActive   Status = "active"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
	StatusUnpaid   Status = "unpaid"
)

// ErrUnknownStatus indicates a status outside the known lifecycle.
var ErrUnknownStatus = errors.New("billing: unknown subscription status")

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case StatusTrialing, StatusActive, StatusPastDue, StatusCanceled, StatusUnpaid:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
}

// Subscription is the billing state of an organization. Zero times are unset.
type Subscription struct {
	Status            Status    `json:"status"`
	TrialEnd          time.Time `json:"trialEnd"`
	CurrentPeriodEnd  time.Time `json:"currentPeriodEnd"`
	CancelAtPeriodEnd bool      `json:"cancelAtPeriodEnd"`
}

// BannerKind names a banner.
type BannerKind string

const (
	NoBanner             BannerKind = "none"
	PastDueBanner        BannerKind = "past_due"
	TrialEndingBanner    BannerKind = "trial_ending"
	CancellationBanner   BannerKind = "cancellation"
	PaymentDueSoonBanner BannerKind = "payment_due"
)

// Banner is the selected banner. DaysLeft is set for countdown banners.
type Banner struct {
	Kind     BannerKind `json:"kind"`
	DaysLeft int        `json:"daysLeft,omitempty"`
}

// Visible reports whether anything should be shown.
func (b Banner) Visible() bool {
	return b.Kind != "" && b.Kind != NoBanner
}

// MessageKey is the translation key of the banner text.
func (b Banner) MessageKey() string {
	if !b.Visible() {
		return ""
	}
	return "banner." + string(b.Kind)
}

// SelectBanner picks the banner for sub at now. Past-due wins over everything
// else; countdown banners only show within one to three days of the target.
func SelectBanner(sub Subscription, now time.Time) Banner {
	switch sub.Status {
	case StatusPastDue:
		return Banner{Kind: PastDueBanner}
	case StatusTrialing:
		if left, ok := countdown(sub.TrialEnd, now); ok {
			return Banner{Kind: TrialEndingBanner, DaysLeft: left}
		}
	case StatusActive:
		if left, ok := countdown(sub.CurrentPeriodEnd, now); ok {
			if sub.CancelAtPeriodEnd {
				return Banner{Kind: CancellationBanner, DaysLeft: left}
			}
			return Banner{Kind: PaymentDueSoonBanner, DaysLeft: left}
		}
	}
	return Banner{Kind: NoBanner}
}

// DaysLeft is the number of started days between now and target, rounded up.
func DaysLeft(target, now time.Time) int {
	remaining := target.Sub(now)
	days := int(remaining / day)
	if remaining%day > 0 {
		days++
	}
	return days
}

func countdown(target, now time.Time) (int, bool) {
	if target.IsZero() {
		return 0, false
	}
	left := DaysLeft(target, now)
	return left, left >= 1 && left <= NoticeWindowDays
}
