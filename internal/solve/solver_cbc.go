package solve

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const cbcPath = "cbc"

// NewCbcSolver returns a Solver backed by the COIN-OR cbc binary. The
// problem is written in LP format, cbc is executed with the context deadline
// and the solution file is parsed back.
func NewCbcSolver() Solver {
	return &cbcSolver{}
}

type cbcSolver struct{}

func (solver *cbcSolver) Solve(ctx context.Context, problem Problem) (Solution, error) {
	dir, err := os.MkdirTemp("", "cbc")
	if err != nil {
		return Solution{}, err
	}
	defer os.RemoveAll(dir)

	lpPath := filepath.Join(dir, "problem.lp")
	solutionPath := filepath.Join(dir, "solution.txt")
	if err := os.WriteFile(lpPath, []byte(toLP(problem)), 0o600); err != nil {
		return Solution{}, err
	}

	cmd := exec.CommandContext(ctx, cbcPath, lpPath, "solve", "solution", solutionPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during cbc execution: %v : %v", err.Error(), stderr.String())
	}

	file, err := os.Open(solutionPath)
	if err != nil {
		return Solution{}, fmt.Errorf("cbc produced no solution file: %w", err)
	}
	defer file.Close()

	solution, err := parseCbcSolution(file, problem.NumVars())
	if err != nil {
		return Solution{}, err
	}
	if solution.Values != nil {
		coefs := mergedCoefficients(problem.Objective, problem.NumVars())
		for i, value := range solution.Values {
			solution.Objective += coefs[i] * int64(value)
		}
	}
	return solution, nil
}

// toLP renders the problem in CPLEX LP format with x<i> variable names.
func toLP(problem Problem) string {
	var builder strings.Builder

	builder.WriteString("Maximize\n obj:")
	writeLPExpr(&builder, problem.Objective, problem.NumVars())
	builder.WriteString("\nSubject To\n")
	for i, constraint := range problem.Constraints {
		fmt.Fprintf(&builder, " c%d:", i)
		writeLPExpr(&builder, constraint.Expr, problem.NumVars())
		fmt.Fprintf(&builder, " %s %d\n", constraint.Rel, constraint.Bound)
	}
	builder.WriteString("Binary\n")
	for i := range problem.Names {
		fmt.Fprintf(&builder, " x%d\n", i)
	}
	builder.WriteString("End\n")

	return builder.String()
}

func writeLPExpr(builder *strings.Builder, expr Expr, vars int) {
	coefs := mergedCoefficients(expr, vars)
	empty := true
	for i, coef := range coefs {
		if coef == 0 {
			continue
		}
		if coef >= 0 {
			fmt.Fprintf(builder, " +%d x%d", coef, i)
		} else {
			fmt.Fprintf(builder, " %d x%d", coef, i)
		}
		empty = false
	}
	if empty {
		builder.WriteString(" 0 x0")
	}
}

func parseCbcSolution(file *os.File, vars int) (Solution, error) {
	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return Solution{}, fmt.Errorf("empty cbc solution file")
	}
	header := scanner.Text()

	var status Status
	switch {
	case strings.HasPrefix(header, "Optimal"):
		status = StatusOptimal
	case strings.HasPrefix(header, "Stopped"):
		status = StatusFeasible
	case strings.Contains(header, "nfeasible"):
		return Solution{Status: StatusInfeasible}, nil
	default:
		return Solution{Status: StatusUnknown}, fmt.Errorf("unrecognized cbc status line: %q", header)
	}

	solution := Solution{Status: status, Values: make([]int8, vars)}
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || !strings.HasPrefix(fields[1], "x") {
			continue
		}
		index, err := strconv.Atoi(strings.TrimPrefix(fields[1], "x"))
		if err != nil || index >= vars {
			continue
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Solution{}, fmt.Errorf("invalid value in cbc solution: %q", fields[2])
		}
		if value > 0.5 {
			solution.Values[index] = 1
		}
	}
	if err := scanner.Err(); err != nil {
		return Solution{}, err
	}

	return solution, nil
}
