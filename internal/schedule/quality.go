package schedule

import (
	"sort"

	"github.com/samber/lo"

	"lessonscheduling/internal/model"
)

// Solution quality is the common yardstick for strategy comparison and for
// the extractor's self-reported score, so a strategy's quality is
// reproducible from its result alone.

// gapPenaltyScore sums normalized penalties for gaps longer than 30 minutes
// between consecutive lessons at the same day and location, capped at 0.3.
func gapPenaltyScore(lessons []ScheduleEntry) float64 {
	penalty := 0.0
	for _, group := range groupLessons(lessons, func(l ScheduleEntry) dayLocation {
		return dayLocation{day: l.Day, location: l.Location}
	}) {
		for i := 0; i < len(group)-1; i++ {
			currentEnd, _ := model.ParseClock(group[i].EndTime)
			nextStart, _ := model.ParseClock(group[i+1].StartTime)
			if gap := nextStart - currentEnd; gap > 30 {
				penalty += float64(gap-30) / 120.0
			}
		}
	}
	return min(penalty, 0.3)
}

// switchPenaltyScore charges 5% per day-consecutive lesson pair at different
// locations.
func switchPenaltyScore(lessons []ScheduleEntry) float64 {
	switches := 0
	for _, group := range groupLessons(lessons, func(l ScheduleEntry) model.Day { return l.Day }) {
		for i := 0; i < len(group)-1; i++ {
			if group[i].Location != group[i+1].Location {
				switches++
			}
		}
	}
	return float64(switches) * 0.05
}

// qualityScore combines scheduled fraction, a bonus per high-difficulty
// student placed and the gap/switch penalties into a score clamped at zero.
func qualityScore(lessons []ScheduleEntry, totalStudents int, scores map[string]float64) float64 {
	if len(lessons) == 0 || totalStudents == 0 {
		return 0
	}

	base := float64(len(lessons)) / float64(totalStudents)
	bonus := 0.1 * float64(highPriorityCount(lessons, scores))
	score := base + bonus - gapPenaltyScore(lessons) - switchPenaltyScore(lessons)
	return max(score, 0)
}

func highPriorityCount(lessons []ScheduleEntry, scores map[string]float64) int {
	return lo.CountBy(lessons, func(l ScheduleEntry) bool { return scores[l.Student] > highPriorityThreshold })
}

// groupLessons groups entries by key and sorts each group by start time.
func groupLessons[K comparable](lessons []ScheduleEntry, key func(ScheduleEntry) K) map[K][]ScheduleEntry {
	groups := lo.GroupBy(lessons, key)
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool { return group[i].StartTime < group[j].StartTime })
	}
	return groups
}
