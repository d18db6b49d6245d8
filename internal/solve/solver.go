package solve

import "context"

type Status int

const (
	// StatusOptimal means the returned assignment is proven best.
	StatusOptimal Status = iota
	// StatusFeasible means an assignment was found but optimality was not
	// proven before the deadline.
	StatusFeasible
	// StatusInfeasible means no assignment satisfies the constraints.
	StatusInfeasible
	// StatusUnknown means the deadline expired before any assignment was found.
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// Solution carries the solver verdict and, for optimal or feasible statuses,
// the 0/1 value of every variable.
type Solution struct {
	Status    Status
	Values    []int8
	Objective int64
}

// Value reads the assigned value of a variable. It is zero for statuses
// without an assignment.
func (s Solution) Value(v Var) int64 {
	if int(v) >= len(s.Values) {
		return 0
	}
	return int64(s.Values[v])
}

// Solver solves a 0/1 linear maximization problem. The context deadline is
// the wall-clock budget: on expiry implementations return the best incumbent
// as StatusFeasible, or StatusUnknown when none was found. Implementations
// must be stateless so strategies can solve independent problems in parallel.
type Solver interface {
	Solve(ctx context.Context, problem Problem) (Solution, error)
}
