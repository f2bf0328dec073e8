package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func TestSelectBanner(t *testing.T) {
	cases := []struct {
		name string
		sub  Subscription
		want Banner
	}{
		{
			name: "trial ending in two days",
			sub:  Subscription{Status: StatusTrialing, TrialEnd: now.Add(2 * day)},
			want: Banner{Kind: TrialEndingBanner, DaysLeft: 2},
		},
		{
			name: "trial ending in five days",
			sub:  Subscription{Status: StatusTrialing, TrialEnd: now.Add(5 * day)},
			want: Banner{Kind: NoBanner},
		},
		{
			name: "partial day rounds up",
			sub:  Subscription{Status: StatusTrialing, TrialEnd: now.Add(2*day + time.Hour)},
			want: Banner{Kind: TrialEndingBanner, DaysLeft: 3},
		},
		{
			name: "trial already over",
			sub:  Subscription{Status: StatusTrialing, TrialEnd: now.Add(-time.Hour)},
			want: Banner{Kind: NoBanner},
		},
		{
			name: "past due ignores everything else",
			sub:  Subscription{Status: StatusPastDue, CurrentPeriodEnd: now.Add(30 * day), CancelAtPeriodEnd: true},
			want: Banner{Kind: PastDueBanner},
		},
		{
			name: "cancellation at period end",
			sub:  Subscription{Status: StatusActive, CurrentPeriodEnd: now.Add(time.Hour), CancelAtPeriodEnd: true},
			want: Banner{Kind: CancellationBanner, DaysLeft: 1},
		},
		{
			name: "payment due soon",
			sub:  Subscription{Status: StatusActive, CurrentPeriodEnd: now.Add(3 * day)},
			want: Banner{Kind: PaymentDueSoonBanner, DaysLeft: 3},
		},
		{
			name: "active far from renewal",
			sub:  Subscription{Status: StatusActive, CurrentPeriodEnd: now.Add(10 * day)},
			want: Banner{Kind: NoBanner},
		},
		{
			name: "active without period end",
			sub:  Subscription{Status: StatusActive},
			want: Banner{Kind: NoBanner},
		},
		{
			name: "canceled",
			sub:  Subscription{Status: StatusCanceled, CurrentPeriodEnd: now.Add(day)},
			want: Banner{Kind: NoBanner},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SelectBanner(tc.sub, now))
		})
	}
}

func TestDaysLeft(t *testing.T) {
	assert.Equal(t, 0, DaysLeft(now, now))
	assert.Equal(t, 1, DaysLeft(now.Add(time.Second), now))
	assert.Equal(t, 1, DaysLeft(now.Add(day), now))
	assert.Equal(t, -1, DaysLeft(now.Add(-day-time.Hour), now))
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" Past_Due ")
	require.NoError(t, err)
	assert.Equal(t, StatusPastDue, status)

	_, err = ParseStatus("paused")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestBannerMessageKey(t *testing.T) {
	assert.Equal(t, "banner.trial_ending", Banner{Kind: TrialEndingBanner, DaysLeft: 2}.MessageKey())
	assert.Empty(t, Banner{Kind: NoBanner}.MessageKey())
	assert.False(t, Banner{}.Visible())
}
