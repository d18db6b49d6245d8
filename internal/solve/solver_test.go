package solve

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBranchBoundKnownOptimum(t *testing.T) {
	//** Arrange
	problem := NewProblem()
	a := problem.NewBoolVar("a")
	b := problem.NewBoolVar("b")
	c := problem.NewBoolVar("c")
	problem.AddConstraint(Sum(a, b), LessOrEqual, 1)
	problem.AddConstraint(Sum(b, c), LessOrEqual, 1)
	problem.Maximize(Expr{{Var: a, Coef: 3}, {Var: b, Coef: 2}, {Var: c, Coef: 1}})

	//** Act
	solution, err := NewBranchBoundSolver().Solve(context.Background(), *problem)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, StatusOptimal, solution.Status)
	assert.Equal(t, int64(4), solution.Objective)
	assert.Equal(t, []int8{1, 0, 1}, solution.Values)
	assert.True(t, AssertSolution(*problem, solution))
}

func TestBranchBoundEqualityConstraint(t *testing.T) {
	//** Arrange
	problem := NewProblem()
	a := problem.NewBoolVar("a")
	b := problem.NewBoolVar("b")
	problem.AddConstraint(Sum(a, b), Equal, 1)
	problem.Maximize(Expr{{Var: a, Coef: 1}, {Var: b, Coef: 2}})

	//** Act
	solution, err := NewBranchBoundSolver().Solve(context.Background(), *problem)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, StatusOptimal, solution.Status)
	assert.Equal(t, int64(2), solution.Objective)
	assert.Equal(t, []int8{0, 1}, solution.Values)
}

func TestBranchBoundGreaterOrEqual(t *testing.T) {
	//** Arrange
	problem := NewProblem()
	a := problem.NewBoolVar("a")
	b := problem.NewBoolVar("b")
	problem.AddConstraint(Sum(a, b), GreaterOrEqual, 2)
	problem.Maximize(Expr{{Var: a, Coef: -1}, {Var: b, Coef: -1}})

	//** Act
	solution, err := NewBranchBoundSolver().Solve(context.Background(), *problem)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, StatusOptimal, solution.Status)
	assert.Equal(t, []int8{1, 1}, solution.Values)
	assert.Equal(t, int64(-2), solution.Objective)
}

func TestBranchBoundInfeasible(t *testing.T) {
	//** Arrange
	problem := NewProblem()
	a := problem.NewBoolVar("a")
	problem.AddConstraint(Sum(a), LessOrEqual, 0)
	problem.AddConstraint(Sum(a), GreaterOrEqual, 1)
	problem.Maximize(Sum(a))

	//** Act
	solution, err := NewBranchBoundSolver().Solve(context.Background(), *problem)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, StatusInfeasible, solution.Status)
}

func TestBranchBoundEmptyProblem(t *testing.T) {
	solution, err := NewBranchBoundSolver().Solve(context.Background(), *NewProblem())

	assert.Nil(t, err)
	assert.Equal(t, StatusOptimal, solution.Status)
	assert.Equal(t, int64(0), solution.Objective)
}

func TestBranchBoundRandomInstances(t *testing.T) {
	solver := NewBranchBoundSolver()

	for range 20 {
		//** Arrange
		problem := GenerateProblem(12, 8)

		//** Act
		solution, err := solver.Solve(context.Background(), problem)

		//** Assert
		assert.Nil(t, err)
		assert.Equal(t, StatusOptimal, solution.Status)
		assert.True(t, AssertSolution(problem, solution))
	}
}

func TestBranchBoundDeterminism(t *testing.T) {
	//** Arrange
	problem := GenerateProblem(14, 10)
	solver := NewBranchBoundSolver()

	//** Act
	first, err1 := solver.Solve(context.Background(), problem)
	second, err2 := solver.Solve(context.Background(), problem)

	//** Assert
	assert.Nil(t, err1)
	assert.Nil(t, err2)
	assert.Equal(t, first.Objective, second.Objective)
	assert.Equal(t, first.Values, second.Values)
}

func TestBranchBoundCancelledContext(t *testing.T) {
	//** Arrange
	problem := NewProblem()
	vars := make([]Var, 300)
	objective := Expr{}
	for i := range vars {
		vars[i] = problem.NewBoolVar("")
		objective = append(objective, Term{Var: vars[i], Coef: 1})
	}
	problem.AddConstraint(Sum(vars...), LessOrEqual, 300)
	problem.Maximize(objective)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	//** Act
	solution, err := NewBranchBoundSolver().Solve(ctx, *problem)

	//** Assert
	assert.NotNil(t, err)
	assert.Equal(t, StatusUnknown, solution.Status)
}

func TestCbcSolver(t *testing.T) {
	if _, err := exec.LookPath(cbcPath); err != nil {
		t.Skipf("%v binary not available", cbcPath)
	}

	//** Arrange
	problem := NewProblem()
	a := problem.NewBoolVar("a")
	b := problem.NewBoolVar("b")
	c := problem.NewBoolVar("c")
	problem.AddConstraint(Sum(a, b, c), LessOrEqual, 2)
	problem.Maximize(Expr{{Var: a, Coef: 5}, {Var: b, Coef: 4}, {Var: c, Coef: 3}})

	//** Act
	solution, err := NewCbcSolver().Solve(context.Background(), *problem)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, StatusOptimal, solution.Status)
	assert.Equal(t, int64(9), solution.Objective)
	assert.True(t, AssertSolution(*problem, solution))
}
