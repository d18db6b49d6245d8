package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// Location is a teaching location. Immutable once loaded.
type Location struct {
	ID      string
	Name    string
	Address string
}

// Student holds one student's weekly availability and placement constraints.
type Student struct {
	Name                string
	Availability        []TimeWindow
	AccessibleLocations []string
	LessonDuration      int
}

func (s Student) CanAccess(location string) bool {
	return lo.Contains(s.AccessibleLocations, location)
}

// TotalAvailabilityMinutes sums the lengths of all availability windows.
func (s Student) TotalAvailabilityMinutes() int {
	return lo.SumBy(s.Availability, TimeWindow.Duration)
}

// BreakPolicy limits continuous teaching. A teaching block longer than
// MaxTeachingBlockMinutes must be separated by at least
// MinBreakDurationMinutes of rest.
type BreakPolicy struct {
	MaxTeachingBlockMinutes int
	MinBreakDurationMinutes int
}

// TeacherSchedule defines when and where lessons can happen. A nil Break
// means the teacher may teach continuously.
type TeacherSchedule struct {
	Availability []TimeWindow
	Break        *BreakPolicy
}

func (t TeacherSchedule) WindowsAt(location string) []TimeWindow {
	return lo.Filter(t.Availability, func(w TimeWindow, _ int) bool { return w.Location == location })
}

// Locations returns the distinct location ids the teacher is ever present at.
func (t TeacherSchedule) Locations() []string {
	return lo.Uniq(lo.Map(t.Availability, func(w TimeWindow, _ int) string { return w.Location }))
}

// Input is the domain model for one scheduling run. Loaded once, read-only
// thereafter.
type Input struct {
	Locations []Location
	Teacher   TeacherSchedule
	Students  []Student
}

func (input Input) LocationName(id string) string {
	location, ok := lo.Find(input.Locations, func(l Location) bool { return l.ID == id })
	if !ok {
		return id
	}
	return location.Name
}

func (input Input) StudentByName(name string) (Student, bool) {
	return lo.Find(input.Students, func(s Student) bool { return s.Name == name })
}

// Validate rejects domain models the scheduler must not attempt: empty
// location sets, duplicate identities and dangling location references.
func (input Input) Validate() error {
	if len(input.Locations) == 0 {
		return fmt.Errorf("input has no locations")
	}

	known := make(map[string]bool, len(input.Locations))
	for _, location := range input.Locations {
		if location.ID == "" {
			return fmt.Errorf("location %q has an empty id", location.Name)
		}
		if known[location.ID] {
			return fmt.Errorf("duplicate location id %q", location.ID)
		}
		known[location.ID] = true
	}

	for _, window := range input.Teacher.Availability {
		if err := validateWindow(window, known); err != nil {
			return fmt.Errorf("teacher availability: %w", err)
		}
	}
	if policy := input.Teacher.Break; policy != nil {
		if policy.MaxTeachingBlockMinutes <= 0 || policy.MinBreakDurationMinutes <= 0 {
			return fmt.Errorf("break policy must have positive block and break durations")
		}
	}

	names := make(map[string]bool, len(input.Students))
	for _, student := range input.Students {
		if student.Name == "" {
			return fmt.Errorf("student with empty name")
		}
		if names[student.Name] {
			return fmt.Errorf("duplicate student name %q", student.Name)
		}
		names[student.Name] = true

		if student.LessonDuration <= 0 {
			return fmt.Errorf("student %q: lesson duration must be positive", student.Name)
		}
		if len(student.AccessibleLocations) == 0 {
			return fmt.Errorf("student %q: no accessible locations", student.Name)
		}
		for _, location := range student.AccessibleLocations {
			if !known[location] {
				return fmt.Errorf("student %q: unknown accessible location %q", student.Name, location)
			}
		}
		for _, window := range student.Availability {
			if err := validateWindow(window, known); err != nil {
				return fmt.Errorf("student %q: %w", student.Name, err)
			}
		}
	}

	return nil
}

func validateWindow(window TimeWindow, known map[string]bool) error {
	if window.Day < Monday || window.Day > Sunday {
		return fmt.Errorf("window has invalid day %d", int(window.Day))
	}
	if window.End <= window.Start {
		return fmt.Errorf("window %s %s-%s does not end after it starts", window.Day, FormatClock(window.Start), FormatClock(window.End))
	}
	if !known[window.Location] {
		return fmt.Errorf("window references unknown location %q", window.Location)
	}
	return nil
}

//** Raw input document, decoded with mapstructure before conversion into the domain model

type rawWindow struct {
	Day       string `mapstructure:"day"`
	StartTime string `mapstructure:"start_time"`
	EndTime   string `mapstructure:"end_time"`
	Location  string `mapstructure:"location"`
	Priority  int    `mapstructure:"priority"`
}

type rawBreakConfig struct {
	MaxTeachingBlockMinutes int `mapstructure:"max_teaching_block_minutes"`
	MinBreakDurationMinutes int `mapstructure:"min_break_duration_minutes"`
}

type rawTeacher struct {
	Availability []rawWindow     `mapstructure:"availability"`
	BreakConfig  *rawBreakConfig `mapstructure:"break_config"`
}

type rawStudent struct {
	Name                string      `mapstructure:"name"`
	Availability        []rawWindow `mapstructure:"availability"`
	AccessibleLocations []string    `mapstructure:"accessible_locations"`
	LessonDuration      int         `mapstructure:"lesson_duration"`
}

type rawLocation struct {
	ID      string `mapstructure:"id"`
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
}

type rawInput struct {
	Locations []rawLocation `mapstructure:"locations"`
	Teacher   rawTeacher    `mapstructure:"teacher"`
	Students  []rawStudent  `mapstructure:"students"`
}

// InputFromJson loads and validates a scheduling input document.
func InputFromJson(file string) (Input, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Input{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Input{}, err
	}

	return InputFromDocument(inputJson)
}

// InputFromDocument converts an already-parsed document into the domain
// model, applying defaults (priority 1) and validating the result.
func InputFromDocument(document map[string]any) (Input, error) {
	var raw rawInput
	if err := mapstructure.Decode(document, &raw); err != nil {
		return Input{}, fmt.Errorf("cannot decode input document: %w", err)
	}

	input := Input{
		Locations: lo.Map(raw.Locations, func(l rawLocation, _ int) Location {
			return Location{ID: l.ID, Name: l.Name, Address: l.Address}
		}),
	}

	teacherWindows, err := convertWindows(raw.Teacher.Availability)
	if err != nil {
		return Input{}, fmt.Errorf("teacher availability: %w", err)
	}
	input.Teacher.Availability = teacherWindows
	if raw.Teacher.BreakConfig != nil {
		input.Teacher.Break = &BreakPolicy{
			MaxTeachingBlockMinutes: raw.Teacher.BreakConfig.MaxTeachingBlockMinutes,
			MinBreakDurationMinutes: raw.Teacher.BreakConfig.MinBreakDurationMinutes,
		}
	}

	for _, student := range raw.Students {
		windows, err := convertWindows(student.Availability)
		if err != nil {
			return Input{}, fmt.Errorf("student %q: %w", student.Name, err)
		}
		input.Students = append(input.Students, Student{
			Name:                student.Name,
			Availability:        windows,
			AccessibleLocations: student.AccessibleLocations,
			LessonDuration:      student.LessonDuration,
		})
	}

	if err := input.Validate(); err != nil {
		return Input{}, err
	}
	return input, nil
}

func convertWindows(raws []rawWindow) ([]TimeWindow, error) {
	windows := make([]TimeWindow, 0, len(raws))
	for _, raw := range raws {
		day, err := ParseDay(raw.Day)
		if err != nil {
			return nil, err
		}
		start, err := ParseClock(raw.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := ParseClock(raw.EndTime)
		if err != nil {
			return nil, err
		}
		priority := raw.Priority
		if priority == 0 {
			priority = 1
		}
		windows = append(windows, TimeWindow{
			Day:      day,
			Start:    start,
			End:      end,
			Location: raw.Location,
			Priority: priority,
		})
	}
	return windows, nil
}
