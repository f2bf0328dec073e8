// Package streak computes day streaks from calendar-day check-ins.
package streak

import "time"

// DayLayout formats a calendar day.
const DayLayout = "2006-01-02"

// State is the persisted streak fact pair.
type State struct {
	LastCheckIn string
	Count       int
}

// DayString returns the calendar day of t in loc. A nil loc means time.Local.
func DayString(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DayLayout)
}

// Advance applies one check-in on today. Checking in twice on the same day
// keeps the streak, checking in on the following day extends it, and any
// other gap starts over at one.
func Advance(state State, today string) State {
	if state.LastCheckIn == today {
		return state
	}
	next := State{LastCheckIn: today, Count: 1}
	if yesterday, ok := previousDay(today); ok && state.LastCheckIn == yesterday {
		next.Count = state.Count + 1
	}
	return next
}

func previousDay(day string) (string, bool) {
	parsed, err := time.Parse(DayLayout, day)
	if err != nil {
		return "", false
	}
	return parsed.AddDate(0, 0, -1).Format(DayLayout), true
}
