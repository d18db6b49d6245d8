package solve

import "math/rand/v2"

// GenerateProblem builds a random 0/1 linear instance for solver testing.
// Constraints are of the packing kind (sum of subsets <= bound), so the
// all-zeros assignment is always feasible and the instance is satisfiable.
func GenerateProblem(vars, constraints int) Problem {
	problem := NewProblem()
	handles := make([]Var, vars)
	for i := range handles {
		handles[i] = problem.NewBoolVar("")
	}

	objective := make(Expr, 0, vars)
	for _, v := range handles {
		objective = append(objective, Term{Var: v, Coef: 1 + rand.Int64N(100)})
	}
	problem.Maximize(objective)

	for range constraints {
		expr := make(Expr, 0, vars)
		for _, v := range handles {
			if rand.Float32() < 0.5 {
				expr = append(expr, Term{Var: v, Coef: 1})
			}
		}
		if len(expr) == 0 {
			expr = append(expr, Term{Var: handles[rand.IntN(vars)], Coef: 1})
		}
		problem.AddConstraint(expr, LessOrEqual, 1+rand.Int64N(int64(len(expr))))
	}

	return *problem
}

// AssertSolution verifies that an assignment satisfies every constraint of
// the problem.
func AssertSolution(problem Problem, solution Solution) bool {
	if len(solution.Values) != problem.NumVars() {
		return false
	}
	for _, value := range solution.Values {
		if value != 0 && value != 1 {
			return false
		}
	}

	for _, constraint := range problem.Constraints {
		var activity int64
		for _, term := range constraint.Expr {
			activity += term.Coef * int64(solution.Values[term.Var])
		}
		switch constraint.Rel {
		case LessOrEqual:
			if activity > constraint.Bound {
				return false
			}
		case GreaterOrEqual:
			if activity < constraint.Bound {
				return false
			}
		default:
			if activity != constraint.Bound {
				return false
			}
		}
	}

	return true
}
