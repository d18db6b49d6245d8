package schedule

import (
	"lessonscheduling/internal/model"
)

// Slot is a discretized (day, start minute, location) candidate for placing
// one lesson. Slots are derived per solve attempt and never persisted.
type Slot struct {
	Day      model.Day
	Start    int
	Location string
}

// GenerateSlots enumerates candidate slots from the teacher's availability at
// the given granularity. A slot is emitted while its start lies strictly
// before the window end; whether a full lesson fits is the eligibility
// filter's concern, not the generator's.
func GenerateSlots(teacher model.TeacherSchedule, granularity int) []Slot {
	slots := []Slot{}
	for _, day := range model.Days() {
		for _, window := range teacher.Availability {
			if window.Day != day {
				continue
			}
			for start := window.Start; start < window.End; start += granularity {
				slots = append(slots, Slot{Day: day, Start: start, Location: window.Location})
			}
		}
	}
	return slots
}

const (
	minGranularity     = 5
	maxGranularity     = 30
	defaultGranularity = 15
)

// AdaptiveGranularity picks the slot step as the greatest common divisor of
// all lesson durations, clamped to [5, 30] minutes. Finer steps raise the
// variable count but fit odd durations without waste.
func AdaptiveGranularity(students []model.Student) int {
	granularity := 0
	for _, student := range students {
		granularity = gcd(granularity, student.LessonDuration)
	}
	if granularity == 0 {
		return defaultGranularity
	}
	return min(max(granularity, minGranularity), maxGranularity)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
