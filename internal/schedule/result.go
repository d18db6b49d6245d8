package schedule

import (
	"encoding/json"

	"lessonscheduling/internal/model"
)

// ScheduleEntry is one scheduled weekly lesson. For a fixed day and location
// no two entries' [start, end) intervals intersect.
type ScheduleEntry struct {
	Student   string    `json:"student"`
	Day       model.Day `json:"day"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Location  string    `json:"location"`
	Duration  int       `json:"duration"`
}

type ReasonKind string

const (
	ReasonLocationDayMismatch      ReasonKind = "location_day_mismatch"
	ReasonLocationMismatch         ReasonKind = "location_mismatch"
	ReasonLocationScheduleMismatch ReasonKind = "location_schedule_mismatch"
	ReasonNoTimeOverlap            ReasonKind = "no_time_overlap"
	ReasonSlotsTaken               ReasonKind = "slots_taken"
	ReasonGeneral                  ReasonKind = "general"
)

// ConflictReason explains why one student could not be scheduled, with
// suggestions derived from the actual domain model.
type ConflictReason struct {
	Student     string     `json:"student"`
	ReasonType  ReasonKind `json:"reason_type"`
	Description string     `json:"description"`
	Suggestions []string   `json:"suggestions"`
}

type Statistics struct {
	RunID                 string         `json:"run_id"`
	Status                string         `json:"status"`
	Strategy              string         `json:"strategy,omitempty"`
	SolveTimeSeconds      float64        `json:"solve_time_seconds"`
	TotalStudents         int            `json:"total_students"`
	ScheduledStudents     int            `json:"scheduled_students"`
	EfficiencyPercent     float64        `json:"schedule_efficiency_percent"`
	LocationUsage         map[string]int `json:"location_usage"`
	VariablesCreated      int            `json:"variables_created"`
	ConstraintsCreated    int            `json:"constraints_created"`
	GapPenaltyScore       float64        `json:"gap_penalty_score"`
	SwitchPenaltyScore    float64        `json:"switch_penalty_score"`
	QualityScore          float64        `json:"solution_quality_score"`
	HighPriorityScheduled int            `json:"high_priority_scheduled"`
	MeanGapMinutes        float64        `json:"mean_gap_minutes"`
	EngineMessage         string         `json:"engine_message,omitempty"`
}

// ScheduleResult is the complete outcome of one scheduling run. Conflicts
// holds exactly one entry per unscheduled student.
type ScheduleResult struct {
	ScheduledLessons    []ScheduleEntry  `json:"scheduled_lessons"`
	UnscheduledStudents []string         `json:"unscheduled_students"`
	Conflicts           []ConflictReason `json:"conflicts"`
	Statistics          Statistics       `json:"statistics"`
}

func (r ScheduleResult) ToJson() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
