package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lessonscheduling/internal/model"
)

func TestGenerateSlots(t *testing.T) {
	//** Arrange
	teacher := model.TeacherSchedule{Availability: []model.TimeWindow{
		window(model.Monday, "09:00", "10:00", "loc_a"),
		window(model.Tuesday, "14:00", "14:30", "loc_b"),
	}}

	//** Act
	slots := GenerateSlots(teacher, 15)

	//** Assert
	assert.Equal(t, []Slot{
		{Day: model.Monday, Start: 540, Location: "loc_a"},
		{Day: model.Monday, Start: 555, Location: "loc_a"},
		{Day: model.Monday, Start: 570, Location: "loc_a"},
		{Day: model.Monday, Start: 585, Location: "loc_a"},
		{Day: model.Tuesday, Start: 840, Location: "loc_b"},
		{Day: model.Tuesday, Start: 855, Location: "loc_b"},
	}, slots)
}

func TestGenerateSlotsOrderedByDay(t *testing.T) {
	//** Arrange
	teacher := model.TeacherSchedule{Availability: []model.TimeWindow{
		window(model.Friday, "09:00", "09:30", "loc_a"),
		window(model.Monday, "09:00", "09:30", "loc_a"),
	}}

	//** Act
	slots := GenerateSlots(teacher, 15)

	//** Assert
	assert.Len(t, slots, 4)
	assert.Equal(t, model.Monday, slots[0].Day)
	assert.Equal(t, model.Friday, slots[2].Day)
}

func TestAdaptiveGranularity(t *testing.T) {
	cases := []struct {
		name      string
		durations []int
		expected  int
	}{
		{"No students", nil, 15},
		{"Common quarter hours", []int{60, 45}, 15},
		{"Single long duration clamps high", []int{60}, 30},
		{"Odd durations clamp low", []int{7, 21}, 7},
		{"Tiny gcd clamps to minimum", []int{3, 4}, 5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			students := []model.Student{}
			for _, duration := range c.durations {
				students = append(students, student("s", duration, []string{"loc_a"}))
			}

			assert.Equal(t, c.expected, AdaptiveGranularity(students))
		})
	}
}
