package schedule

import (
	"github.com/rs/zerolog"

	"lessonscheduling/internal/model"
	"lessonscheduling/internal/solve"
)

func window(day model.Day, start, end, location string) model.TimeWindow {
	return prioritizedWindow(day, start, end, location, 1)
}

func prioritizedWindow(day model.Day, start, end, location string, priority int) model.TimeWindow {
	startMinutes, err := model.ParseClock(start)
	if err != nil {
		panic(err)
	}
	endMinutes, err := model.ParseClock(end)
	if err != nil {
		panic(err)
	}
	return model.TimeWindow{Day: day, Start: startMinutes, End: endMinutes, Location: location, Priority: priority}
}

func locations(ids ...string) []model.Location {
	result := make([]model.Location, 0, len(ids))
	for _, id := range ids {
		result = append(result, model.Location{ID: id, Name: "Location " + id})
	}
	return result
}

func student(name string, duration int, accessible []string, windows ...model.TimeWindow) model.Student {
	return model.Student{
		Name:                name,
		Availability:        windows,
		AccessibleLocations: accessible,
		LessonDuration:      duration,
	}
}

func newTestScheduler(mode Mode) Scheduler {
	return New(solve.NewBranchBoundSolver(), Options{Mode: mode, Logger: zerolog.Nop()})
}
