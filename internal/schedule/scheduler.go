package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lessonscheduling/internal/model"
	"lessonscheduling/internal/solve"
)

const defaultTimeBudget = 30 * time.Second

// Mode selects between the single baseline attempt and the multi-strategy
// portfolio.
type Mode string

const (
	ModeBaseline Mode = "baseline"
	ModeMulti    Mode = "multi"
)

type Options struct {
	Mode       Mode
	TimeBudget time.Duration
	Weights    Weights
	Logger     zerolog.Logger
}

type Scheduler interface {
	// Schedule computes a weekly lesson schedule for the input. The error is
	// non-nil only for invalid input or a cancelled context; engine failures
	// and infeasibility are reported inside the result instead.
	Schedule(ctx context.Context, input model.Input) (*ScheduleResult, error)
}

type scheduler struct {
	solver  solve.Solver
	options Options
}

func New(solver solve.Solver, options Options) Scheduler {
	if options.Mode == "" {
		options.Mode = ModeMulti
	}
	if options.TimeBudget <= 0 {
		options.TimeBudget = defaultTimeBudget
	}
	if options.Weights == (Weights{}) {
		options.Weights = DefaultWeights()
	}
	return &scheduler{solver: solver, options: options}
}

func (s *scheduler) Schedule(ctx context.Context, input model.Input) (*ScheduleResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := s.options.Logger.With().Str("run_id", runID).Logger()

	scores := ConstraintScores(input.Students)
	fairness := BreakFairness(input, s.options.Weights)
	reservations := LocationReservations(input.Students, scores)

	strategies := []Strategy{BaselineStrategy(s.options.Weights)}
	if s.options.Mode == ModeMulti {
		strategies = MultiStrategySet(s.options.Weights)
	}
	budget := s.options.TimeBudget / time.Duration(len(strategies))

	started := time.Now()
	var best *ScheduleResult
	lastMessage := ""

	for _, strategy := range strategies {
		result := s.attempt(ctx, logger, input, strategy, budget, scores, fairness, reservations)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if result == nil {
			continue
		}
		if result.Statistics.EngineMessage != "" {
			lastMessage = result.Statistics.EngineMessage
		}

		logger.Info().
			Str("strategy", strategy.Name).
			Int("scheduled", result.Statistics.ScheduledStudents).
			Float64("quality", result.Statistics.QualityScore).
			Msg("strategy attempt complete")

		if best == nil || result.Statistics.QualityScore > best.Statistics.QualityScore {
			best = result
		}
	}

	if best == nil {
		best = infeasibleResult(input, solve.StatusInfeasible.String(), time.Since(started), lastMessage)
	}

	best.Statistics.RunID = runID
	best.Statistics.SolveTimeSeconds = time.Since(started).Seconds()
	diagnose(input, best)

	logger.Info().
		Str("status", best.Statistics.Status).
		Str("strategy", best.Statistics.Strategy).
		Int("scheduled", best.Statistics.ScheduledStudents).
		Int("total", best.Statistics.TotalStudents).
		Msg("scheduling finished")

	return best, nil
}

// attempt runs one strategy end to end. A nil return means the attempt
// produced nothing usable (infeasible, or deadline with no incumbent) and the
// driver should move on. Engine failures come back as an empty result so the
// message survives into the final statistics.
func (s *scheduler) attempt(ctx context.Context, logger zerolog.Logger, input model.Input, strategy Strategy,
	budget time.Duration, scores map[string]float64, fairness map[string]int64, reservations map[string][]string) *ScheduleResult {

	build := buildProblem(input, strategy, scores, fairness)
	composeObjective(build, strategy, scores, fairness, reservations)

	logger.Debug().
		Str("strategy", strategy.Name).
		Int("granularity", build.granularity).
		Int("variables", build.problem.NumVars()).
		Int("constraints", len(build.problem.Constraints)).
		Msg("problem built")

	attemptCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	started := time.Now()
	solution, err := s.solver.Solve(attemptCtx, *build.problem)
	elapsed := time.Since(started)

	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		if attemptCtx.Err() != nil {
			logger.Debug().Str("strategy", strategy.Name).Msg("budget exhausted without a solution")
			return nil
		}
		logger.Warn().Err(err).Str("strategy", strategy.Name).Msg("engine attempt failed")
		result := infeasibleResult(input, solve.StatusUnknown.String(), elapsed, err.Error())
		result.Statistics.Strategy = strategy.Name
		return result
	}

	switch solution.Status {
	case solve.StatusOptimal, solve.StatusFeasible:
		return extractSolution(input, build, solution, elapsed, strategy, scores)
	case solve.StatusInfeasible:
		logger.Debug().Str("strategy", strategy.Name).Msg("strategy infeasible")
		return nil
	default:
		logger.Debug().Str("strategy", strategy.Name).Msg("no solution within budget")
		return nil
	}
}
