package solve

import (
	"context"
	"slices"
	"sort"
)

// NewBranchBoundSolver returns the built-in exact solver. It runs a
// depth-first branch-and-bound over the boolean variables with incremental
// constraint-slack pruning and an additive objective upper bound. Search
// order is deterministic, so equal problems always yield equal solutions.
func NewBranchBoundSolver() Solver {
	return &branchBoundSolver{}
}

type branchBoundSolver struct{}

const deadlineCheckInterval = 256

func (solver *branchBoundSolver) Solve(ctx context.Context, problem Problem) (Solution, error) {
	search := newBranchBoundSearch(problem)
	if !search.rootFeasible {
		return Solution{Status: StatusInfeasible}, nil
	}

	search.descend(ctx, 0, 0)

	switch {
	case search.found && !search.stopped:
		return Solution{Status: StatusOptimal, Values: search.bestValues, Objective: search.bestObjective}, nil
	case search.found:
		return Solution{Status: StatusFeasible, Values: search.bestValues, Objective: search.bestObjective}, nil
	case search.stopped:
		return Solution{Status: StatusUnknown}, ctx.Err()
	default:
		return Solution{Status: StatusInfeasible}, nil
	}
}

type constraintRef struct {
	index int
	coef  int64
}

type branchBoundSearch struct {
	problem Problem

	order   []int   // variable indices, most valuable objective coefficient first
	objCoef []int64 // merged objective coefficient per variable
	remGain []int64 // remGain[d]: max objective still collectable from depth d on

	varConstraints [][]constraintRef
	activity       []int64 // sum of coef*value over assigned variables, per constraint
	posSlack       []int64 // sum of positive coefs over unassigned variables, per constraint
	negSlack       []int64 // sum of negative coefs over unassigned variables, per constraint

	assignment []int8
	rootFeasible bool

	found         bool
	bestValues    []int8
	bestObjective int64

	stopped bool
	nodes   int
}

func newBranchBoundSearch(problem Problem) *branchBoundSearch {
	n := problem.NumVars()
	search := &branchBoundSearch{
		problem:        problem,
		objCoef:        mergedCoefficients(problem.Objective, n),
		varConstraints: make([][]constraintRef, n),
		activity:       make([]int64, len(problem.Constraints)),
		posSlack:       make([]int64, len(problem.Constraints)),
		negSlack:       make([]int64, len(problem.Constraints)),
		assignment:     make([]int8, n),
		rootFeasible:   true,
	}
	for i := range search.assignment {
		search.assignment[i] = -1
	}

	for ci, constraint := range problem.Constraints {
		for _, term := range constraint.Expr {
			search.varConstraints[term.Var] = append(search.varConstraints[term.Var], constraintRef{index: ci, coef: term.Coef})
			if term.Coef > 0 {
				search.posSlack[ci] += term.Coef
			} else {
				search.negSlack[ci] += term.Coef
			}
		}
		if !search.constraintSatisfiable(ci, constraint) {
			search.rootFeasible = false
		}
	}

	search.order = make([]int, n)
	for i := range search.order {
		search.order[i] = i
	}
	sort.SliceStable(search.order, func(i, j int) bool {
		return search.objCoef[search.order[i]] > search.objCoef[search.order[j]]
	})

	search.remGain = make([]int64, n+1)
	for d := n - 1; d >= 0; d-- {
		gain := search.objCoef[search.order[d]]
		if gain < 0 {
			gain = 0
		}
		search.remGain[d] = search.remGain[d+1] + gain
	}

	return search
}

// constraintSatisfiable checks whether the constraint can still hold given
// current activity and the slack of its unassigned variables.
func (search *branchBoundSearch) constraintSatisfiable(ci int, constraint Constraint) bool {
	minimum := search.activity[ci] + search.negSlack[ci]
	maximum := search.activity[ci] + search.posSlack[ci]
	switch constraint.Rel {
	case LessOrEqual:
		return minimum <= constraint.Bound
	case GreaterOrEqual:
		return maximum >= constraint.Bound
	default:
		return minimum <= constraint.Bound && maximum >= constraint.Bound
	}
}

func (search *branchBoundSearch) descend(ctx context.Context, depth int, objective int64) {
	if search.stopped {
		return
	}
	search.nodes++
	if search.nodes%deadlineCheckInterval == 0 && ctx.Err() != nil {
		search.stopped = true
		return
	}

	// Prune: even collecting every remaining positive coefficient cannot
	// beat the incumbent.
	if search.found && objective+search.remGain[depth] <= search.bestObjective {
		return
	}

	if depth == len(search.order) {
		// Slack pruning at assignment time guarantees a full assignment
		// satisfies every constraint.
		search.found = true
		search.bestObjective = objective
		search.bestValues = slices.Clone(search.assignment)
		return
	}

	variable := search.order[depth]
	for _, value := range [2]int8{1, 0} {
		if search.assign(variable, value) {
			search.descend(ctx, depth+1, objective+int64(value)*search.objCoef[variable])
		}
		search.unassign(variable, value)
		if search.stopped {
			return
		}
	}
}

func (search *branchBoundSearch) assign(variable int, value int8) bool {
	search.assignment[variable] = value
	feasible := true
	for _, ref := range search.varConstraints[variable] {
		if ref.coef > 0 {
			search.posSlack[ref.index] -= ref.coef
		} else {
			search.negSlack[ref.index] -= ref.coef
		}
		search.activity[ref.index] += ref.coef * int64(value)
		if !search.constraintSatisfiable(ref.index, search.problem.Constraints[ref.index]) {
			feasible = false
		}
	}
	return feasible
}

func (search *branchBoundSearch) unassign(variable int, value int8) {
	for _, ref := range search.varConstraints[variable] {
		if ref.coef > 0 {
			search.posSlack[ref.index] += ref.coef
		} else {
			search.negSlack[ref.index] += ref.coef
		}
		search.activity[ref.index] -= ref.coef * int64(value)
	}
	search.assignment[variable] = -1
}
