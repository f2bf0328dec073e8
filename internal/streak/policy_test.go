package streak

import (
	"testing"
	"time"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		today    string
		expected State
	}{
		{
			name:     "same-day",
			state:    State{LastCheckIn: "2026-05-10", Count: 4},
			today:    "2026-05-10",
			expected: State{LastCheckIn: "2026-05-10", Count: 4},
		},
		{
			name:     "next-day",
			state:    State{LastCheckIn: "2026-05-10", Count: 4},
			today:    "2026-05-11",
			expected: State{LastCheckIn: "2026-05-11", Count: 5},
		},
		{
			name:     "three-day-gap",
			state:    State{LastCheckIn: "2026-05-10", Count: 4},
			today:    "2026-05-13",
			expected: State{LastCheckIn: "2026-05-13", Count: 1},
		},
		{
			name:     "first-check-in",
			state:    State{},
			today:    "2026-05-10",
			expected: State{LastCheckIn: "2026-05-10", Count: 1},
		},
		{
			name:     "month-boundary",
			state:    State{LastCheckIn: "2026-02-28", Count: 9},
			today:    "2026-03-01",
			expected: State{LastCheckIn: "2026-03-01", Count: 10},
		},
		{
			name:     "garbled-last-day",
			state:    State{LastCheckIn: "yesterday", Count: 9},
			today:    "2026-03-01",
			expected: State{LastCheckIn: "2026-03-01", Count: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Advance(tt.state, tt.today); got != tt.expected {
				t.Fatalf("unexpected state, want %+v got %+v", tt.expected, got)
			}
		})
	}
}

func TestDayStringUsesCalendarDaysInLocation(t *testing.T) {
	location := time.FixedZone("UTC-5", -5*60*60)
	beforeMidnight := time.Date(2026, 5, 10, 23, 59, 0, 0, location)
	afterMidnight := beforeMidnight.Add(2 * time.Minute)

	first := DayString(beforeMidnight, location)
	second := DayString(afterMidnight, location)
	if first != "2026-05-10" || second != "2026-05-11" {
		t.Fatalf("unexpected days %s %s", first, second)
	}

	state := Advance(Advance(State{}, first), second)
	if state.Count != 2 {
		t.Fatalf("expected two-day streak across midnight, got %d", state.Count)
	}
}
