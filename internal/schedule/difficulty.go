package schedule

import (
	"sort"

	"github.com/samber/lo"

	"lessonscheduling/internal/model"
)

// Students above highPriorityThreshold count as hard to place; above
// hardConstraintThreshold they are the near-impossible tail some strategies
// process first.
const (
	highPriorityThreshold   = 2.0
	hardConstraintThreshold = 3.0
)

// ConstraintScores rates how difficult each student is to place. Longer
// lessons, fewer accessible locations and scarcer availability all raise the
// score; the objective amplifies bonuses for high scorers so ties break in
// their favor.
func ConstraintScores(students []model.Student) map[string]float64 {
	scores := make(map[string]float64, len(students))
	for _, student := range students {
		durationScore := float64(student.LessonDuration) / 60.0
		locationScore := 5.0 / float64(max(len(student.AccessibleLocations), 1))
		availabilityScore := 1000.0 / float64(max(student.TotalAvailabilityMinutes(), student.LessonDuration))
		scores[student.Name] = durationScore + locationScore + availabilityScore
	}
	return scores
}

// LocationReservations marks, per location, the top third most constrained
// students among those who can use it. Reserved students earn an objective
// bonus when actually placed there; no hard capacity is withheld.
func LocationReservations(students []model.Student, scores map[string]float64) map[string][]string {
	byLocation := map[string][]string{}
	for _, student := range students {
		for _, location := range student.AccessibleLocations {
			byLocation[location] = append(byLocation[location], student.Name)
		}
	}

	reservations := make(map[string][]string, len(byLocation))
	for location, names := range byLocation {
		sort.SliceStable(names, func(i, j int) bool { return scores[names[i]] > scores[names[j]] })
		reserveCount := max(1, len(names)/3)
		reservations[location] = names[:reserveCount]
	}
	return reservations
}

// BreakFairness grants compensating objective weight to students whose
// lesson duration exceeds (or nearly exceeds) the maximum teaching block:
// break spacing structurally disadvantages them. Returns nil when no break
// policy is configured.
func BreakFairness(input model.Input, weights Weights) map[string]int64 {
	policy := input.Teacher.Break
	if policy == nil {
		return nil
	}

	adjustments := make(map[string]int64, len(input.Students))
	for _, student := range input.Students {
		switch {
		case student.LessonDuration > policy.MaxTeachingBlockMinutes:
			adjustments[student.Name] = weights.FairnessOverBlock
		case float64(student.LessonDuration) > float64(policy.MaxTeachingBlockMinutes)*0.8:
			adjustments[student.Name] = weights.FairnessNearBlock
		default:
			adjustments[student.Name] = 0
		}
	}
	return adjustments
}

// orderStudents returns students in the processing order a strategy asks
// for. Variable creation order fixes variable identity, which keeps solver
// tie-breaking deterministic.
func orderStudents(students []model.Student, order StudentOrder, scores map[string]float64) []model.Student {
	switch order {
	case OrderDifficulty:
		ordered := make([]model.Student, len(students))
		copy(ordered, students)
		sort.SliceStable(ordered, func(i, j int) bool { return scores[ordered[i].Name] > scores[ordered[j].Name] })
		return ordered
	case OrderHardFirst:
		hard := lo.Filter(students, func(s model.Student, _ int) bool { return scores[s.Name] > hardConstraintThreshold })
		rest := lo.Filter(students, func(s model.Student, _ int) bool { return scores[s.Name] <= hardConstraintThreshold })
		return append(hard, rest...)
	default:
		return students
	}
}
