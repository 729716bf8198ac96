package overview

import (
	"testing"
	"time"
)

func TestProgressPercent(t *testing.T) {
	cases := []struct {
		target, achieved int
		want             float64
	}{
		{100, 25, 25},
		{0, 5, 100},
		{0, 0, 0},
		{3, 1, 33.33},
		{10, 15, 150},
		{-1, 0, 0},
	}
	for _, tc := range cases {
		if got := ProgressPercent(tc.target, tc.achieved); got != tc.want {
			t.Fatalf("ProgressPercent(%d, %d) = %v, want %v", tc.target, tc.achieved, got, tc.want)
		}
	}
	if got := BarPercent(10, 15); got != 100 {
		t.Fatalf("bar should cap at 100, got %v", got)
	}
}

func TestStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	closed := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	ended := EngagementEnd(&closed, 3)
	running := EngagementEnd(&closed, 12)

	cases := []struct {
		name             string
		target, achieved int
		end              *time.Time
		want             AchievementStatus
	}{
		{"target met", 20, 20, ended, StatusAchieved},
		{"target exceeded", 20, 31, nil, StatusAchieved},
		{"no target but activity", 0, 4, nil, StatusAchieved},
		{"nothing yet", 0, 0, nil, StatusInProgress},
		{"running engagement", 20, 5, running, StatusInProgress},
		{"ended engagement", 20, 5, ended, StatusOverdue},
		{"unknown end", 20, 5, nil, StatusInProgress},
	}
	for _, tc := range cases {
		if got := Status(tc.target, tc.achieved, tc.end, now); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestEngagementEnd(t *testing.T) {
	closed := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if end := EngagementEnd(&closed, 0); end != nil {
		t.Fatalf("zero months has no end, got %v", end)
	}
	if end := EngagementEnd(nil, 3); end != nil {
		t.Fatalf("missing close date has no end, got %v", end)
	}
	end := EngagementEnd(&closed, 6)
	if end == nil || !end.Equal(time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", end)
	}
}
