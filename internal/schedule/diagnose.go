package schedule

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"lessonscheduling/internal/model"
)

// diagnose fills one ConflictReason per unscheduled student. Checks run in
// most-specific-first order and the first match wins.
func diagnose(input model.Input, result *ScheduleResult) {
	for _, name := range result.UnscheduledStudents {
		student, ok := input.StudentByName(name)
		if !ok {
			continue
		}
		result.Conflicts = append(result.Conflicts, diagnoseStudent(input, student, result.ScheduledLessons))
	}
}

func diagnoseStudent(input model.Input, student model.Student, lessons []ScheduleEntry) ConflictReason {
	if reason, ok := checkLocationDayMismatch(input, student); ok {
		return reason
	}
	if reason, ok := checkLocationAccess(input, student); ok {
		return reason
	}
	if reason, ok := checkTimeOverlap(input, student); ok {
		return reason
	}
	if reason, ok := checkSlotsTaken(input, student, lessons); ok {
		return reason
	}

	return ConflictReason{
		Student:     student.Name,
		ReasonType:  ReasonGeneral,
		Description: "Could not find a suitable time slot that satisfies all constraints.",
		Suggestions: []string{
			"Check if student availability can be expanded",
			"Consider adding more teacher availability windows",
			"Review lesson duration requirements",
		},
	}
}

// checkLocationDayMismatch fires when every student window names a
// (day, location) combination the teacher is never present at. When the
// student cannot access any teacher location at all, accessibility is the
// more specific diagnosis and this check defers to it.
func checkLocationDayMismatch(input model.Input, student model.Student) (ConflictReason, bool) {
	if len(accessibleTeacherLocations(input, student)) == 0 {
		return ConflictReason{}, false
	}

	mismatches := []string{}
	matches := 0
	for _, window := range student.Availability {
		present := lo.SomeBy(input.Teacher.Availability, func(tw model.TimeWindow) bool {
			return tw.Day == window.Day && tw.Location == window.Location
		})
		if present {
			matches++
		} else {
			mismatches = append(mismatches, fmt.Sprintf("%s at %s", titleDay(window.Day), input.LocationName(window.Location)))
		}
	}
	if len(mismatches) == 0 || matches > 0 {
		return ConflictReason{}, false
	}

	teacherSchedule := lo.Map(input.Teacher.Availability, func(tw model.TimeWindow, _ int) string {
		return fmt.Sprintf("%s: %s", titleDay(tw.Day), input.LocationName(tw.Location))
	})

	return ConflictReason{
		Student:     student.Name,
		ReasonType:  ReasonLocationDayMismatch,
		Description: fmt.Sprintf("Student availability doesn't match teacher's location schedule: %s", strings.Join(mismatches, ", ")),
		Suggestions: []string{
			fmt.Sprintf("Student wants: %s but teacher is not there", strings.Join(mismatches, ", ")),
			fmt.Sprintf("Teacher's location schedule: %s", strings.Join(teacherSchedule, "; ")),
			"Student needs to adjust availability to match teacher's location schedule",
		},
	}, true
}

// checkLocationAccess reports when the student cannot reach any location the
// teacher uses, or can reach them but never at a time the teacher is there.
func checkLocationAccess(input model.Input, student model.Student) (ConflictReason, bool) {
	if len(accessibleTeacherLocations(input, student)) == 0 {
		teacherNames := lo.Map(input.Teacher.Locations(), func(id string, _ int) string { return input.LocationName(id) })
		accessibleNames := lo.Map(student.AccessibleLocations, func(id string, _ int) string { return input.LocationName(id) })

		return ConflictReason{
			Student:    student.Name,
			ReasonType: ReasonLocationMismatch,
			Description: fmt.Sprintf("Student can only access [%s] but teacher is only available at [%s].",
				strings.Join(accessibleNames, ", "), strings.Join(teacherNames, ", ")),
			Suggestions: []string{
				fmt.Sprintf("Ask if student can travel to: %s", strings.Join(teacherNames, ", ")),
				fmt.Sprintf("Ask teacher to add availability at: %s", strings.Join(accessibleNames, ", ")),
				"Consider online/virtual lessons if applicable",
			},
		}, true
	}

	anyOverlap := lo.SomeBy(student.Availability, func(sw model.TimeWindow) bool {
		return lo.SomeBy(input.Teacher.Availability, func(tw model.TimeWindow) bool {
			return tw.Location == sw.Location && sw.Overlaps(tw)
		})
	})
	if anyOverlap {
		return ConflictReason{}, false
	}

	suggestions := []string{}
	for _, location := range student.AccessibleLocations {
		windows := input.Teacher.WindowsAt(location)
		if len(windows) > 0 {
			days := lo.Uniq(lo.Map(windows, func(tw model.TimeWindow, _ int) string { return titleDay(tw.Day) }))
			suggestions = append(suggestions, fmt.Sprintf("Teacher is available at %s on: %s", input.LocationName(location), strings.Join(days, ", ")))
		} else {
			suggestions = append(suggestions, fmt.Sprintf("Ask teacher to add availability at %s", input.LocationName(location)))
		}
	}

	return ConflictReason{
		Student:     student.Name,
		ReasonType:  ReasonLocationScheduleMismatch,
		Description: "No time overlap between student availability and teacher availability at accessible locations.",
		Suggestions: suggestions,
	}, true
}

// checkTimeOverlap reports when student/teacher overlaps exist but none is
// long enough for the lesson.
func checkTimeOverlap(input model.Input, student model.Student) (ConflictReason, bool) {
	if len(durationOverlaps(input, student)) > 0 {
		return ConflictReason{}, false
	}

	studentTimes := lo.Map(student.Availability, func(w model.TimeWindow, _ int) string {
		return fmt.Sprintf("%s %s-%s at %s", titleDay(w.Day), model.FormatClock(w.Start), model.FormatClock(w.End), input.LocationName(w.Location))
	})
	suggestions := []string{fmt.Sprintf("Student is available: %s", strings.Join(studentTimes, "; "))}
	for _, location := range student.AccessibleLocations {
		windows := input.Teacher.WindowsAt(location)
		if len(windows) == 0 {
			continue
		}
		teacherTimes := lo.Map(windows, func(w model.TimeWindow, _ int) string {
			return fmt.Sprintf("%s %s-%s", titleDay(w.Day), model.FormatClock(w.Start), model.FormatClock(w.End))
		})
		suggestions = append(suggestions, fmt.Sprintf("Teacher available at %s: %s", input.LocationName(location), strings.Join(teacherTimes, "; ")))
	}
	suggestions = append(suggestions, "Consider adjusting student or teacher availability to create overlap")

	return ConflictReason{
		Student:     student.Name,
		ReasonType:  ReasonNoTimeOverlap,
		Description: "No overlapping availability between student and teacher.",
		Suggestions: suggestions,
	}, true
}

type overlapSpan struct {
	day      model.Day
	location string
	start    int
	end      int
}

// checkSlotsTaken probes every 15-minute-aligned candidate start inside the
// duration-sufficient overlaps against the final schedule; when all of them
// collide with other students' lessons, those students are the reason.
func checkSlotsTaken(input model.Input, student model.Student, lessons []ScheduleEntry) (ConflictReason, bool) {
	type blockedSlot struct {
		span    overlapSpan
		start   int
		blocker ScheduleEntry
	}

	blocked := []blockedSlot{}
	anyAvailable := false
	anyProbed := false

	for _, span := range durationOverlaps(input, student) {
		for start := span.start; start+student.LessonDuration <= span.end; start += 15 {
			anyProbed = true
			end := start + student.LessonDuration

			collision, isBlocked := lo.Find(lessons, func(l ScheduleEntry) bool {
				if l.Day != span.day || l.Location != span.location {
					return false
				}
				lessonStart, _ := model.ParseClock(l.StartTime)
				lessonEnd, _ := model.ParseClock(l.EndTime)
				return start < lessonEnd && lessonStart < end
			})
			if isBlocked {
				blocked = append(blocked, blockedSlot{span: span, start: start, blocker: collision})
			} else {
				anyAvailable = true
			}
		}
	}
	if !anyProbed || anyAvailable {
		return ConflictReason{}, false
	}

	blockers := lo.Uniq(lo.Map(blocked, func(b blockedSlot, _ int) string { return b.blocker.Student }))

	suggestions := []string{}
	for _, b := range blocked {
		if len(suggestions) == 3 {
			break
		}
		suggestions = append(suggestions, fmt.Sprintf("%s %s at %s is taken by %s",
			titleDay(b.span.day), model.FormatClock(b.start), input.LocationName(b.span.location), b.blocker.Student))
	}
	suggestions = append(suggestions,
		"Consider asking other students to change their lesson times",
		"Ask teacher to add more availability windows",
	)

	return ConflictReason{
		Student:     student.Name,
		ReasonType:  ReasonSlotsTaken,
		Description: fmt.Sprintf("All available time slots are occupied by other students: %s.", strings.Join(blockers, ", ")),
		Suggestions: suggestions,
	}, true
}

// durationOverlaps lists the student/teacher availability intersections, at
// accessible locations, long enough to hold the student's lesson.
func durationOverlaps(input model.Input, student model.Student) []overlapSpan {
	spans := []overlapSpan{}
	for _, sw := range student.Availability {
		if !student.CanAccess(sw.Location) {
			continue
		}
		for _, tw := range input.Teacher.Availability {
			if tw.Day != sw.Day || tw.Location != sw.Location || !sw.Overlaps(tw) {
				continue
			}
			start := max(sw.Start, tw.Start)
			end := min(sw.End, tw.End)
			if end-start >= student.LessonDuration {
				spans = append(spans, overlapSpan{day: sw.Day, location: sw.Location, start: start, end: end})
			}
		}
	}
	return spans
}

func accessibleTeacherLocations(input model.Input, student model.Student) []string {
	return lo.Intersect(input.Teacher.Locations(), student.AccessibleLocations)
}

func titleDay(day model.Day) string {
	name := day.String()
	return strings.ToUpper(name[:1]) + name[1:]
}
