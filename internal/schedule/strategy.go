package schedule

// Weights carries every heuristic magnitude of the objective. The exact
// values encode tie-break policy, not domain law, so they are configuration
// with these defaults rather than literals in the composer.
type Weights struct {
	// LessonCount is the dominant tier: points per scheduled lesson.
	LessonCount int64 `koanf:"lesson_count"`

	// Priority rank bonuses for the window priority tagged on a variable.
	PriorityRank1 int64 `koanf:"priority_rank1"`
	PriorityRank2 int64 `koanf:"priority_rank2"`
	PriorityRank3 int64 `koanf:"priority_rank3"`
	PriorityOther int64 `koanf:"priority_other"`

	// DifficultyScale divides the constraint score when amplifying rank
	// bonuses: bonus * (1 + score/DifficultyScale).
	DifficultyScale float64 `koanf:"difficulty_scale"`

	// Fairness boosts for students whose lesson duration busts, or nearly
	// busts, the maximum teaching block.
	FairnessOverBlock int64 `koanf:"fairness_over_block"`
	FairnessNearBlock int64 `koanf:"fairness_near_block"`

	// ReservationBonus rewards placing a location-reserved student there.
	ReservationBonus int64 `koanf:"reservation_bonus"`

	// Gap penalty: min(gapMinutes/GapStepMinutes, GapCapPoints) per gap
	// between consecutive candidate lessons. The cap keeps the penalty tier
	// from ever outweighing the lesson-count tier.
	GapStepMinutes int64 `koanf:"gap_step_minutes"`
	GapCapPoints   int64 `koanf:"gap_cap_points"`

	// SwitchPenalty is subtracted per day-adjacent lesson pair at different
	// locations.
	SwitchPenalty int64 `koanf:"switch_penalty"`

	// Per-variable difficulty weighting used by the difficulty-weighted
	// objective profiles. Cap of 0 means uncapped.
	PerVarDifficultyWeight int64 `koanf:"per_var_difficulty_weight"`
	PerVarDifficultyCap    int64 `koanf:"per_var_difficulty_cap"`
}

func DefaultWeights() Weights {
	return Weights{
		LessonCount:            10000,
		PriorityRank1:          100,
		PriorityRank2:          50,
		PriorityRank3:          10,
		PriorityOther:          1,
		DifficultyScale:        10,
		FairnessOverBlock:      1000,
		FairnessNearBlock:      500,
		ReservationBonus:       200,
		GapStepMinutes:         15,
		GapCapPoints:           10,
		SwitchPenalty:          0,
		PerVarDifficultyWeight: 100,
		PerVarDifficultyCap:    0,
	}
}

type GranularityMode int

const (
	// GranularityFixed15 generates slots every 15 minutes.
	GranularityFixed15 GranularityMode = iota
	// GranularityAdaptive uses the clamped GCD of all lesson durations.
	GranularityAdaptive
)

type StudentOrder int

const (
	OrderInput StudentOrder = iota
	OrderDifficulty
	OrderHardFirst
)

type ObjectiveProfile int

const (
	// ProfileTiered is the full composition: lesson count dominating, then
	// priority/fairness/reservation bonuses, then capped penalties.
	ProfileTiered ObjectiveProfile = iota
	// ProfileDifficultyWeighted scores each variable by its student's
	// constraint score, minus the gap penalty.
	ProfileDifficultyWeighted
	// ProfileCappedDifficulty is difficulty weighting with a per-variable
	// cap and no penalty terms.
	ProfileCappedDifficulty
	// ProfileBalanced is lesson count at a lower tier with gap and switch
	// penalties.
	ProfileBalanced
)

// Strategy describes one independent solve attempt: which granularity and
// processing order to use, which optional constraints are active and which
// objective profile applies. Break spacing is not a strategy choice; it is
// enforced whenever the teacher has a break policy, so every returned
// schedule honors it.
type Strategy struct {
	Name          string
	Granularity   GranularityMode
	Order         StudentOrder
	FairnessFloor bool
	Profile       ObjectiveProfile
	Weights       Weights
}

// BaselineStrategy builds one model with the full constraint set and the
// tiered objective.
func BaselineStrategy(weights Weights) Strategy {
	return Strategy{
		Name:        "baseline",
		Granularity: GranularityAdaptive,
		Order:       OrderDifficulty,
		Profile:     ProfileTiered,
		Weights:     weights,
	}
}

// PriorityFirstStrategy emphasizes hard-to-place students through per
// variable difficulty weighting.
func PriorityFirstStrategy(weights Weights) Strategy {
	weights.PerVarDifficultyWeight = 100
	weights.PerVarDifficultyCap = 0
	weights.GapStepMinutes = 1
	weights.GapCapPoints = 120
	return Strategy{
		Name:        "priority_first",
		Granularity: GranularityFixed15,
		Order:       OrderDifficulty,
		Profile:     ProfileDifficultyWeighted,
		Weights:     weights,
	}
}

// HardConstraintFirstStrategy processes the near-impossible tail of students
// first and caps the difficulty weighting.
func HardConstraintFirstStrategy(weights Weights) Strategy {
	weights.PerVarDifficultyWeight = 50
	weights.PerVarDifficultyCap = 500
	return Strategy{
		Name:        "hard_constraint_first",
		Granularity: GranularityFixed15,
		Order:       OrderHardFirst,
		Profile:     ProfileCappedDifficulty,
		Weights:     weights,
	}
}

// BalancedStrategy keeps the lesson count dominant at a lower tier, activates
// the fairness floor and penalizes gaps and location switches.
func BalancedStrategy(weights Weights) Strategy {
	weights.LessonCount = 1000
	weights.GapStepMinutes = 1
	weights.GapCapPoints = 120
	weights.SwitchPenalty = 500
	return Strategy{
		Name:          "balanced",
		Granularity:   GranularityFixed15,
		Order:         OrderInput,
		FairnessFloor: true,
		Profile:       ProfileBalanced,
		Weights:       weights,
	}
}

// MultiStrategySet is the sequence tried in multi-strategy mode.
func MultiStrategySet(weights Weights) []Strategy {
	return []Strategy{
		PriorityFirstStrategy(weights),
		HardConstraintFirstStrategy(weights),
		BalancedStrategy(weights),
	}
}
