package schedule

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"lessonscheduling/internal/model"
	"lessonscheduling/internal/solve"
)

// extractSolution materializes chosen variables into schedule entries and
// computes the statistics record. Entries are sorted by day then start time
// for deterministic output.
func extractSolution(input model.Input, build *problemBuild, solution solve.Solution, solveTime time.Duration, strategy Strategy, scores map[string]float64) *ScheduleResult {
	lessons := []ScheduleEntry{}
	scheduled := map[string]bool{}

	for _, v := range build.variables {
		if solution.Value(v.handle) != 1 {
			continue
		}
		lessons = append(lessons, ScheduleEntry{
			Student:   v.student,
			Day:       v.slot.Day,
			StartTime: model.FormatClock(v.slot.Start),
			EndTime:   model.FormatClock(v.end),
			Location:  v.slot.Location,
			Duration:  v.end - v.slot.Start,
		})
		scheduled[v.student] = true
	}

	sort.SliceStable(lessons, func(i, j int) bool {
		if lessons[i].Day != lessons[j].Day {
			return lessons[i].Day < lessons[j].Day
		}
		return lessons[i].StartTime < lessons[j].StartTime
	})

	unscheduled := lo.FilterMap(input.Students, func(s model.Student, _ int) (string, bool) {
		return s.Name, !scheduled[s.Name]
	})

	efficiency := 0.0
	if len(input.Students) > 0 {
		efficiency = float64(len(lessons)) / float64(len(input.Students)) * 100
	}

	usage := lo.CountValuesBy(lessons, func(l ScheduleEntry) string { return l.Location })

	return &ScheduleResult{
		ScheduledLessons:    lessons,
		UnscheduledStudents: unscheduled,
		Conflicts:           []ConflictReason{},
		Statistics: Statistics{
			Status:                solution.Status.String(),
			Strategy:              strategy.Name,
			SolveTimeSeconds:      solveTime.Seconds(),
			TotalStudents:         len(input.Students),
			ScheduledStudents:     len(lessons),
			EfficiencyPercent:     efficiency,
			LocationUsage:         usage,
			VariablesCreated:      len(build.variables),
			ConstraintsCreated:    len(build.problem.Constraints),
			GapPenaltyScore:       gapPenaltyScore(lessons),
			SwitchPenaltyScore:    switchPenaltyScore(lessons),
			QualityScore:          qualityScore(lessons, len(input.Students), scores),
			HighPriorityScheduled: highPriorityCount(lessons, scores),
			MeanGapMinutes:        meanGapMinutes(lessons),
		},
	}
}

// meanGapMinutes averages the idle time between consecutive lessons at the
// same day and location.
func meanGapMinutes(lessons []ScheduleEntry) float64 {
	gaps := []float64{}
	for _, group := range groupLessons(lessons, func(l ScheduleEntry) dayLocation {
		return dayLocation{day: l.Day, location: l.Location}
	}) {
		for i := 0; i < len(group)-1; i++ {
			currentEnd, _ := model.ParseClock(group[i].EndTime)
			nextStart, _ := model.ParseClock(group[i+1].StartTime)
			if gap := nextStart - currentEnd; gap > 0 {
				gaps = append(gaps, float64(gap))
			}
		}
	}
	if len(gaps) == 0 {
		return 0
	}
	return stat.Mean(gaps, nil)
}

// infeasibleResult is the terminal fallback: nobody scheduled, full conflict
// diagnosis to follow.
func infeasibleResult(input model.Input, status string, solveTime time.Duration, message string) *ScheduleResult {
	return &ScheduleResult{
		ScheduledLessons:    []ScheduleEntry{},
		UnscheduledStudents: lo.Map(input.Students, func(s model.Student, _ int) string { return s.Name }),
		Conflicts:           []ConflictReason{},
		Statistics: Statistics{
			Status:           status,
			SolveTimeSeconds: solveTime.Seconds(),
			TotalStudents:    len(input.Students),
			LocationUsage:    map[string]int{},
			EngineMessage:    message,
		},
	}
}
