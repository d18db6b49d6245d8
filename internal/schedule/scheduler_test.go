package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"lessonscheduling/internal/model"
)

func TestScheduleBackToBackLessons(t *testing.T) {
	//** Arrange
	input := model.Input{
		Locations: locations("loc_a"),
		Teacher: model.TeacherSchedule{Availability: []model.TimeWindow{
			window(model.Monday, "09:00", "11:00", "loc_a"),
		}},
		Students: []model.Student{
			student("X", 60, []string{"loc_a"}, window(model.Monday, "09:00", "10:00", "loc_a")),
			student("Y", 60, []string{"loc_a"}, window(model.Monday, "10:00", "11:00", "loc_a")),
		},
	}
	scheduler := newTestScheduler(ModeMulti)

	//** Act
	result, err := scheduler.Schedule(context.Background(), input)

	//** Assert
	assert.Nil(t, err)
	assert.Len(t, result.ScheduledLessons, 2)
	assert.Empty(t, result.UnscheduledStudents)
	assert.Empty(t, result.Conflicts)

	assert.Equal(t, "X", result.ScheduledLessons[0].Student)
	assert.Equal(t, "09:00", result.ScheduledLessons[0].StartTime)
	assert.Equal(t, "Y", result.ScheduledLessons[1].Student)
	assert.Equal(t, "10:00", result.ScheduledLessons[1].StartTime)

	assert.Equal(t, "OPTIMAL", result.Statistics.Status)
	assert.NotEmpty(t, result.Statistics.RunID)
	assert.NotEmpty(t, result.Statistics.Strategy)
	assert.Equal(t, 100.0, result.Statistics.EfficiencyPercent)
	assert.Equal(t, map[string]int{"loc_a": 2}, result.Statistics.LocationUsage)
}

func TestScheduleBaselineMode(t *testing.T) {
	//** Arrange
	input := model.Input{
		Locations: locations("loc_a"),
		Teacher: model.TeacherSchedule{Availability: []model.TimeWindow{
			window(model.Monday, "09:00", "11:00", "loc_a"),
		}},
		Students: []model.Student{
			student("X", 60, []string{"loc_a"}, window(model.Monday, "09:00", "10:00", "loc_a")),
			student("Y", 60, []string{"loc_a"}, window(model.Monday, "10:00", "11:00", "loc_a")),
		},
	}
	scheduler := newTestScheduler(ModeBaseline)

	//** Act
	result, err := scheduler.Schedule(context.Background(), input)

	//** Assert
	assert.Nil(t, err)
	assert.Len(t, result.ScheduledLessons, 2)
	assert.Equal(t, "baseline", result.Statistics.Strategy)
}

func TestScheduleInaccessibleLocation(t *testing.T) {
	//** Arrange
	input := model.Input{
		Locations: locations("loc_a", "loc_b"),
		Teacher: model.TeacherSchedule{Availability: []model.TimeWindow{
			window(model.Monday, "09:00", "12:00", "loc_a"),
		}},
		Students: []model.Student{
			student("Reachable", 60, []string{"loc_a"}, window(model.Monday, "09:00", "11:00", "loc_a")),
			student("Stranded", 60, []string{"loc_b"}, window(model.Monday, "09:00", "11:00", "loc_b")),
		},
	}
	scheduler := newTestScheduler(ModeMulti)

	//** Act
	result, err := scheduler.Schedule(context.Background(), input)

	//** Assert
	assert.Nil(t, err)
	assert.Len(t, result.ScheduledLessons, 1)
	assert.Equal(t, []string{"Stranded"}, result.UnscheduledStudents)

	assert.Len(t, result.Conflicts, 1)
	conflict := result.Conflicts[0]
	assert.Equal(t, "Stranded", conflict.Student)
	assert.Equal(t, ReasonLocationMismatch, conflict.ReasonType)
	assert.NotEmpty(t, conflict.Suggestions)
}

func TestScheduleBreakPolicy(t *testing.T) {
	//** Arrange
	input := model.Input{
		Locations: locations("loc_a"),
		Teacher: model.TeacherSchedule{
			Availability: []model.TimeWindow{window(model.Monday, "09:00", "11:00", "loc_a")},
			Break:        &model.BreakPolicy{MaxTeachingBlockMinutes: 90, MinBreakDurationMinutes: 15},
		},
		Students: []model.Student{
			student("X", 60, []string{"loc_a"}, window(model.Monday, "09:00", "11:00", "loc_a")),
			student("Y", 60, []string{"loc_a"}, window(model.Monday, "09:00", "11:00", "loc_a")),
		},
	}
	scheduler := newTestScheduler(ModeMulti)

	//** Act
	result, err := scheduler.Schedule(context.Background(), input)

	//** Assert
	// Two back-to-back hours would exceed the 90-minute block and the window
	// is too tight to fit a break, so only one student can be placed.
	assert.Nil(t, err)
	assert.Len(t, result.ScheduledLessons, 1)
	assert.Len(t, result.UnscheduledStudents, 1)
	assert.Len(t, result.Conflicts, 1)
}

func TestScheduleMoreAvailabilityNeverHurts(t *testing.T) {
	//** Arrange
	students := []model.Student{
		student("A", 60, []string{"loc_a"}, window(model.Monday, "09:00", "12:00", "loc_a")),
		student("B", 60, []string{"loc_a"}, window(model.Monday, "09:00", "12:00", "loc_a")),
		student("C", 60, []string{"loc_a"}, window(model.Monday, "09:00", "12:00", "loc_a")),
	}
	tight := model.Input{
		Locations: locations("loc_a"),
		Teacher: model.TeacherSchedule{Availability: []model.TimeWindow{
			window(model.Monday, "09:00", "11:00", "loc_a"),
		}},
		Students: students,
	}
	wide := tight
	wide.Teacher = model.TeacherSchedule{Availability: []model.TimeWindow{
		window(model.Monday, "09:00", "12:00", "loc_a"),
	}}
	scheduler := newTestScheduler(ModeMulti)

	//** Act
	tightResult, err1 := scheduler.Schedule(context.Background(), tight)
	wideResult, err2 := scheduler.Schedule(context.Background(), wide)

	//** Assert
	assert.Nil(t, err1)
	assert.Nil(t, err2)
	assert.Len(t, tightResult.ScheduledLessons, 2)
	assert.Len(t, wideResult.ScheduledLessons, 3)
}

func TestScheduleDeterminism(t *testing.T) {
	//** Arrange
	input := model.Input{
		Locations: locations("loc_a", "loc_b"),
		Teacher: model.TeacherSchedule{Availability: []model.TimeWindow{
			window(model.Monday, "09:00", "12:00", "loc_a"),
			window(model.Tuesday, "14:00", "17:00", "loc_b"),
		}},
		Students: []model.Student{
			student("A", 60, []string{"loc_a"}, window(model.Monday, "09:00", "12:00", "loc_a")),
			student("B", 45, []string{"loc_a", "loc_b"},
				window(model.Monday, "10:00", "12:00", "loc_a"),
				window(model.Tuesday, "14:00", "16:00", "loc_b")),
			student("C", 60, []string{"loc_b"}, window(model.Tuesday, "15:00", "17:00", "loc_b")),
		},
	}
	scheduler := newTestScheduler(ModeMulti)

	//** Act
	first, err1 := scheduler.Schedule(context.Background(), input)
	second, err2 := scheduler.Schedule(context.Background(), input)

	//** Assert
	assert.Nil(t, err1)
	assert.Nil(t, err2)
	assert.Equal(t, first.ScheduledLessons, second.ScheduledLessons)
	assert.Equal(t, first.UnscheduledStudents, second.UnscheduledStudents)
	assert.Equal(t, first.Statistics.Strategy, second.Statistics.Strategy)
}

func TestScheduleInvalidInput(t *testing.T) {
	//** Arrange
	scheduler := newTestScheduler(ModeMulti)

	//** Act
	result, err := scheduler.Schedule(context.Background(), model.Input{})

	//** Assert
	assert.NotNil(t, err)
	assert.Nil(t, result)
}

func TestScheduleInfeasibleInputStillDiagnoses(t *testing.T) {
	//** Arrange
	// The teacher is never anywhere the student can go at a usable time.
	input := model.Input{
		Locations: locations("loc_a"),
		Teacher: model.TeacherSchedule{Availability: []model.TimeWindow{
			window(model.Monday, "09:00", "12:00", "loc_a"),
		}},
		Students: []model.Student{
			student("Late", 60, []string{"loc_a"}, window(model.Monday, "18:00", "20:00", "loc_a")),
		},
	}
	scheduler := newTestScheduler(ModeMulti)

	//** Act
	result, err := scheduler.Schedule(context.Background(), input)

	//** Assert
	assert.Nil(t, err)
	assert.Empty(t, result.ScheduledLessons)
	assert.Equal(t, []string{"Late"}, result.UnscheduledStudents)
	assert.Len(t, result.Conflicts, 1)
	assert.Equal(t, ReasonLocationScheduleMismatch, result.Conflicts[0].ReasonType)
}
