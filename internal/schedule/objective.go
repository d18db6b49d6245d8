package schedule

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"lessonscheduling/internal/solve"
)

// composeObjective builds the single linear maximization expression for a
// strategy. Tiers are separated multiplicatively: the lesson-count weight
// dwarfs every bonus, and penalties are capped so they can only break ties.
func composeObjective(build *problemBuild, strategy Strategy, scores map[string]float64, fairness map[string]int64, reservations map[string][]string) {
	weights := strategy.Weights
	objective := solve.Expr{}

	switch strategy.Profile {
	case ProfileDifficultyWeighted:
		for _, v := range build.variables {
			objective = append(objective, solve.Term{Var: v.handle, Coef: int64(scores[v.student] * float64(weights.PerVarDifficultyWeight))})
		}
		objective = append(objective, build.gapPenaltyTerms(weights)...)

	case ProfileCappedDifficulty:
		for _, v := range build.variables {
			coef := int64(scores[v.student] * float64(weights.PerVarDifficultyWeight))
			if weights.PerVarDifficultyCap > 0 && coef > weights.PerVarDifficultyCap {
				coef = weights.PerVarDifficultyCap
			}
			objective = append(objective, solve.Term{Var: v.handle, Coef: coef})
		}

	case ProfileBalanced:
		for _, v := range build.variables {
			objective = append(objective, solve.Term{Var: v.handle, Coef: weights.LessonCount})
		}
		objective = append(objective, build.gapPenaltyTerms(weights)...)
		objective = append(objective, build.switchPenaltyTerms(weights)...)

	default: // ProfileTiered
		for _, v := range build.variables {
			coef := weights.LessonCount + scaledRankBonus(v.priority, scores[v.student], weights) + fairness[v.student]
			objective = append(objective, solve.Term{Var: v.handle, Coef: coef})
		}
		objective = append(objective, build.reservationTerms(weights, reservations)...)
		objective = append(objective, build.gapPenaltyTerms(weights)...)
	}

	build.problem.Maximize(objective)
}

// scaledRankBonus maps a window priority rank to points and amplifies them
// by the student's constraint difficulty so harder students win ties.
func scaledRankBonus(priority int, score float64, weights Weights) int64 {
	var base int64
	switch priority {
	case 1:
		base = weights.PriorityRank1
	case 2:
		base = weights.PriorityRank2
	case 3:
		base = weights.PriorityRank3
	default:
		base = weights.PriorityOther
	}
	if weights.DifficultyScale <= 0 {
		return base
	}
	return int64(float64(base) * (1 + score/weights.DifficultyScale))
}

// reservationTerms rewards placing a location-reserved student at that
// location through an indicator bounded by the student's variables there.
func (build *problemBuild) reservationTerms(weights Weights, reservations map[string][]string) solve.Expr {
	terms := solve.Expr{}
	locations := lo.Keys(reservations)
	sort.Strings(locations)

	for _, location := range locations {
		for _, student := range reservations[location] {
			vars := lo.FilterMap(build.variables, func(v variable, _ int) (solve.Var, bool) {
				return v.handle, v.student == student && v.slot.Location == location
			})
			if len(vars) == 0 {
				continue
			}

			indicator := build.problem.NewBoolVar(fmt.Sprintf("reserve_%s_%s", student, location))
			// indicator <= sum(vars): only payable when actually placed there.
			bound := solve.Expr{{Var: indicator, Coef: 1}}
			for _, v := range vars {
				bound = append(bound, solve.Term{Var: v, Coef: -1})
			}
			build.problem.AddConstraint(bound, solve.LessOrEqual, 0)
			terms = append(terms, solve.Term{Var: indicator, Coef: weights.ReservationBonus})
		}
	}
	return terms
}

// gapPenaltyTerms penalizes idle minutes between consecutive candidate
// lessons at the same day and location. Each pair's points are capped so the
// penalty tier can never trade away a scheduled lesson.
func (build *problemBuild) gapPenaltyTerms(weights Weights) solve.Expr {
	terms := solve.Expr{}
	keys, grouped := build.groups()
	for _, key := range keys {
		indices := grouped[key]
		for i := 0; i < len(indices)-1; i++ {
			first, second := build.variables[indices[i]], build.variables[indices[i+1]]
			gap := int64(second.slot.Start - first.end)
			if gap <= 0 {
				continue
			}
			points := min(gap/weights.GapStepMinutes, weights.GapCapPoints)
			if points <= 0 {
				continue
			}

			both := build.bothChosenIndicator(first, second, fmt.Sprintf("gap_%s_%s_%d", key.day, key.location, i))
			terms = append(terms, solve.Term{Var: both, Coef: -points})
		}
	}
	return terms
}

// switchPenaltyTerms penalizes consecutive same-day lessons at different
// locations, modelling travel cost for the teacher.
func (build *problemBuild) switchPenaltyTerms(weights Weights) solve.Expr {
	terms := solve.Expr{}
	byDay := lo.GroupBy(lo.Range(len(build.variables)), func(i int) int { return int(build.variables[i].slot.Day) })

	days := lo.Keys(byDay)
	sort.Ints(days)
	for _, day := range days {
		indices := byDay[day]
		sort.SliceStable(indices, func(i, j int) bool {
			return build.variables[indices[i]].slot.Start < build.variables[indices[j]].slot.Start
		})
		for i := 0; i < len(indices)-1; i++ {
			first, second := build.variables[indices[i]], build.variables[indices[i+1]]
			if first.slot.Location == second.slot.Location {
				continue
			}
			both := build.bothChosenIndicator(first, second, fmt.Sprintf("switch_%d_%d", day, i))
			terms = append(terms, solve.Term{Var: both, Coef: -weights.SwitchPenalty})
		}
	}
	return terms
}

// bothChosenIndicator returns an auxiliary boolean forced to 1 whenever both
// variables are chosen (indicator >= v1 + v2 - 1). Penalized indicators are
// otherwise left at 0 by the maximizer.
func (build *problemBuild) bothChosenIndicator(first, second variable, name string) solve.Var {
	indicator := build.problem.NewBoolVar(name)
	build.problem.AddConstraint(solve.Expr{
		{Var: first.handle, Coef: 1},
		{Var: second.handle, Coef: 1},
		{Var: indicator, Coef: -1},
	}, solve.LessOrEqual, 1)
	return indicator
}
