package schedule

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"lessonscheduling/internal/model"
	"lessonscheduling/internal/solve"
)

// variable is one (student, slot) decision with its lesson interval and the
// best priority among the student windows covering it.
type variable struct {
	handle   solve.Var
	student  string
	slot     Slot
	end      int
	priority int
}

type dayLocation struct {
	day      model.Day
	location string
}

// problemBuild is the assembled problem for one solve attempt plus the
// variable table needed to read a solution back. It is strategy-local and
// discarded after extraction.
type problemBuild struct {
	problem     *solve.Problem
	variables   []variable
	byStudent   map[string][]solve.Var
	granularity int
}

// buildProblem runs the eligibility filter, creates decision variables in
// the strategy's processing order and posts every hard constraint. The
// objective is composed separately.
func buildProblem(input model.Input, strategy Strategy, scores map[string]float64, fairness map[string]int64) *problemBuild {
	granularity := defaultGranularity
	if strategy.Granularity == GranularityAdaptive {
		granularity = AdaptiveGranularity(input.Students)
	}

	build := &problemBuild{
		problem:     solve.NewProblem(),
		byStudent:   map[string][]solve.Var{},
		granularity: granularity,
	}

	slots := GenerateSlots(input.Teacher, granularity)
	for _, student := range orderStudents(input.Students, strategy.Order, scores) {
		build.createStudentVariables(student, slots, input.Teacher)
	}

	build.addOneLessonPerStudent(input.Students)
	build.addNoDoubleBooking()
	build.addAvailabilityRefit(input)
	if input.Teacher.Break != nil {
		build.addBreakSpacing(*input.Teacher.Break, fairness, strategy.Weights)
	}
	if strategy.FairnessFloor {
		build.addFairnessFloor(input.Students, scores)
	}

	return build
}

// createStudentVariables applies the eligibility filter: a variable exists
// only when the student can access the slot's location and both a student
// window and a teacher window fully contain the lesson interval. Rejected
// slots create nothing, which is cheaper than creating then forcing to zero.
func (build *problemBuild) createStudentVariables(student model.Student, slots []Slot, teacher model.TeacherSchedule) {
	for _, slot := range slots {
		if !student.CanAccess(slot.Location) {
			continue
		}

		teacherCovers := lo.SomeBy(teacher.Availability, func(w model.TimeWindow) bool {
			return w.Day == slot.Day && w.Location == slot.Location && w.Covers(slot.Start, student.LessonDuration)
		})
		if !teacherCovers {
			continue
		}

		covering := lo.Filter(student.Availability, func(w model.TimeWindow, _ int) bool {
			return w.Day == slot.Day && w.Location == slot.Location && w.Covers(slot.Start, student.LessonDuration)
		})
		if len(covering) == 0 {
			continue
		}
		priority := lo.MinBy(covering, func(a, b model.TimeWindow) bool { return a.Priority < b.Priority }).Priority

		name := fmt.Sprintf("lesson_%s_%s_%d_%s", student.Name, slot.Day, slot.Start, slot.Location)
		handle := build.problem.NewBoolVar(name)
		build.variables = append(build.variables, variable{
			handle:   handle,
			student:  student.Name,
			slot:     slot,
			end:      slot.Start + student.LessonDuration,
			priority: priority,
		})
		build.byStudent[student.Name] = append(build.byStudent[student.Name], handle)
	}
}

// groups returns variable indices per (day, location) in deterministic key
// order, each group sorted by start minute.
func (build *problemBuild) groups() ([]dayLocation, map[dayLocation][]int) {
	grouped := map[dayLocation][]int{}
	for i, v := range build.variables {
		key := dayLocation{day: v.slot.Day, location: v.slot.Location}
		grouped[key] = append(grouped[key], i)
	}

	keys := lo.Keys(grouped)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].day != keys[j].day {
			return keys[i].day < keys[j].day
		}
		return keys[i].location < keys[j].location
	})
	for _, key := range keys {
		indices := grouped[key]
		sort.SliceStable(indices, func(i, j int) bool {
			return build.variables[indices[i]].slot.Start < build.variables[indices[j]].slot.Start
		})
	}
	return keys, grouped
}

// addOneLessonPerStudent posts sum(vars of student) <= 1 per student.
func (build *problemBuild) addOneLessonPerStudent(students []model.Student) {
	for _, student := range students {
		vars := build.byStudent[student.Name]
		if len(vars) > 0 {
			build.problem.AddConstraint(solve.Sum(vars...), solve.LessOrEqual, 1)
		}
	}
}

// addNoDoubleBooking forbids overlapping lessons per (day, location) with a
// time-indexed encoding: at every candidate start point, at most one of the
// variables whose interval covers that point may be chosen. Two intervals
// overlap iff both cover the later one's start, so this dominates the
// pairwise encoding at near-linear constraint count.
func (build *problemBuild) addNoDoubleBooking() {
	keys, grouped := build.groups()
	for _, key := range keys {
		indices := grouped[key]
		points := lo.Uniq(lo.Map(indices, func(i int, _ int) int { return build.variables[i].slot.Start }))
		sort.Ints(points)

		for _, point := range points {
			covering := lo.FilterMap(indices, func(i int, _ int) (solve.Var, bool) {
				v := build.variables[i]
				return v.handle, v.slot.Start <= point && point < v.end
			})
			if len(covering) > 1 {
				build.problem.AddConstraint(solve.Sum(covering...), solve.LessOrEqual, 1)
			}
		}
	}
}

// addAvailabilityRefit re-validates every variable against the student's
// windows and forces failures to zero. Redundant with the eligibility filter
// by construction; kept as a guard against drift between the two.
func (build *problemBuild) addAvailabilityRefit(input model.Input) {
	for _, v := range build.variables {
		student, ok := input.StudentByName(v.student)
		if !ok {
			build.problem.AddConstraint(solve.Sum(v.handle), solve.Equal, 0)
			continue
		}
		fits := lo.SomeBy(student.Availability, func(w model.TimeWindow) bool {
			return w.Day == v.slot.Day && w.Location == v.slot.Location && w.Covers(v.slot.Start, student.LessonDuration)
		})
		if !fits {
			build.problem.AddConstraint(solve.Sum(v.handle), solve.Equal, 0)
		}
	}
}

// addBreakSpacing posts, for every unordered same-day same-location pair
// whose combined span exceeds the maximum teaching block and whose gap is
// shorter than the minimum break, that at most one may be chosen. Pairs
// involving a student with a fairness boost at or above the near-block level
// are exempt, so break-disadvantaged students are not shut out entirely.
//
// Pairwise spacing is a known approximation: a run of three or more lessons
// can exceed the block limit even though every pair satisfies it.
func (build *problemBuild) addBreakSpacing(policy model.BreakPolicy, fairness map[string]int64, weights Weights) {
	keys, grouped := build.groups()
	for _, key := range keys {
		indices := grouped[key]
		for i := 0; i < len(indices)-1; i++ {
			for j := i + 1; j < len(indices); j++ {
				first, second := build.variables[indices[i]], build.variables[indices[j]]
				if first.student == second.student {
					continue
				}
				if fairness[first.student] >= weights.FairnessNearBlock || fairness[second.student] >= weights.FairnessNearBlock {
					continue
				}

				span := max(first.end, second.end) - min(first.slot.Start, second.slot.Start)
				if span <= policy.MaxTeachingBlockMinutes {
					continue
				}
				gap := second.slot.Start - first.end
				if second.slot.Start < first.slot.Start {
					gap = first.slot.Start - second.end
				}
				if gap < policy.MinBreakDurationMinutes {
					build.problem.AddConstraint(solve.Sum(first.handle, second.handle), solve.LessOrEqual, 1)
				}
			}
		}
	}
}

// addFairnessFloor requires that at least half of the high-difficulty
// students, rounded up, are collectively scheduled.
func (build *problemBuild) addFairnessFloor(students []model.Student, scores map[string]float64) {
	high := lo.Filter(students, func(s model.Student, _ int) bool { return scores[s.Name] > highPriorityThreshold })
	if len(high) == 0 {
		return
	}

	vars := lo.Flatten(lo.Map(high, func(s model.Student, _ int) []solve.Var { return build.byStudent[s.Name] }))
	if len(vars) == 0 {
		return
	}
	build.problem.AddConstraint(solve.Sum(vars...), solve.GreaterOrEqual, int64((len(high)+1)/2))
}
