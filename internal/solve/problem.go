package solve

// Var is a handle to a boolean decision variable of a Problem.
type Var int

type Term struct {
	Var  Var
	Coef int64
}

// Expr is a linear expression over boolean variables.
type Expr []Term

// Sum builds the expression v1 + v2 + ... with unit coefficients.
func Sum(vars ...Var) Expr {
	expr := make(Expr, 0, len(vars))
	for _, v := range vars {
		expr = append(expr, Term{Var: v, Coef: 1})
	}
	return expr
}

type Relation int

const (
	LessOrEqual Relation = iota
	GreaterOrEqual
	Equal
)

func (r Relation) String() string {
	switch r {
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	default:
		return "="
	}
}

type Constraint struct {
	Expr  Expr
	Rel   Relation
	Bound int64
}

// Problem is a 0/1 linear maximization instance. It is built incrementally
// and then passed by value into a stateless Solver, so independent solve
// attempts never share mutable state.
type Problem struct {
	Names       []string
	Constraints []Constraint
	Objective   Expr
}

func NewProblem() *Problem {
	return &Problem{}
}

// NewBoolVar registers a boolean decision variable and returns its handle.
func (p *Problem) NewBoolVar(name string) Var {
	p.Names = append(p.Names, name)
	return Var(len(p.Names) - 1)
}

func (p *Problem) AddConstraint(expr Expr, rel Relation, bound int64) {
	p.Constraints = append(p.Constraints, Constraint{Expr: expr, Rel: rel, Bound: bound})
}

// Maximize sets the objective. The last call wins.
func (p *Problem) Maximize(expr Expr) {
	p.Objective = expr
}

func (p Problem) NumVars() int {
	return len(p.Names)
}

// mergedCoefficients folds duplicate variables of an expression into a
// single coefficient per variable.
func mergedCoefficients(expr Expr, vars int) []int64 {
	coefs := make([]int64, vars)
	for _, term := range expr {
		coefs[term.Var] += term.Coef
	}
	return coefs
}
