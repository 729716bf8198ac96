package overview

import (
	"math"
	"time"
)

type AchievementStatus string

const (
	StatusAchieved   AchievementStatus = "ACHIEVED"
	StatusInProgress AchievementStatus = "IN_PROGRESS"
	StatusOverdue    AchievementStatus = "OVERDUE"
)

func ParseStatus(s string) (AchievementStatus, bool) {
	switch AchievementStatus(s) {
	case StatusAchieved, StatusInProgress, StatusOverdue:
		return AchievementStatus(s), true
	}
	return "", false
}

// ProgressPercent is achieved/target as a percentage rounded to two
// decimals. Without a target, any achievement counts as complete.
func ProgressPercent(target, achieved int) float64 {
	if target <= 0 {
		if achieved > 0 {
			return 100
		}
		return 0
	}
	pct := float64(achieved) / float64(target) * 100
	return math.Round(pct*100) / 100
}

// BarPercent caps ProgressPercent for progress bars.
func BarPercent(target, achieved int) float64 {
	return math.Min(ProgressPercent(target, achieved), 100)
}

// EngagementEnd is the end of the paid engagement: the deal close date plus
// the number of paid months. Nil when either is unknown.
func EngagementEnd(dealClosed *time.Time, paymentMonths int) *time.Time {
	if dealClosed == nil || paymentMonths <= 0 {
		return nil
	}
	end := dealClosed.UTC().AddDate(0, paymentMonths, 0)
	return &end
}

// Status classifies a client's target achievement. A met target is
// ACHIEVED; an unmet target whose engagement has ended is OVERDUE; anything
// else is IN_PROGRESS.
func Status(target, achieved int, engagementEnd *time.Time, now time.Time) AchievementStatus {
	if achieved > 0 && achieved >= target {
		return StatusAchieved
	}
	if engagementEnd != nil && now.After(*engagementEnd) {
		return StatusOverdue
	}
	return StatusInProgress
}
