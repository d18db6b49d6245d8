package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lessonscheduling/internal/config"
	"lessonscheduling/internal/model"
	"lessonscheduling/internal/schedule"
	"lessonscheduling/internal/solve"
)

var (
	cfgPath    string
	inputPath  string
	outputPath string
	modeFlag   string
	solverFlag string
	budgetFlag time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "lessonscheduling",
	Short: "Weekly lesson scheduler for a traveling teacher",
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Compute a weekly schedule from an input file",
	RunE:  runSchedule,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check an input file without solving",
	RunE:  runValidate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (json or yaml)")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "scheduling input file (json)")
	scheduleCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the result here instead of stdout")
	scheduleCmd.Flags().StringVar(&modeFlag, "mode", "", `scheduling mode: "baseline" or "multi"`)
	scheduleCmd.Flags().StringVar(&solverFlag, "solver", "", `solver backend: "builtin" or "cbc"`)
	scheduleCmd.Flags().DurationVar(&budgetFlag, "budget", 0, "total solve time budget, e.g. 30s")
	rootCmd.AddCommand(scheduleCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadAll() (*config.Config, model.Input, error) {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return nil, model.Input{}, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if inputPath == "" {
		return nil, model.Input{}, fmt.Errorf("an input file must be specified")
	}
	input, err := model.InputFromJson(inputPath)
	if err != nil {
		return nil, model.Input{}, fmt.Errorf("cannot parse input file: %w", err)
	}
	return cfg, input, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, input, err := loadAll()
	if err != nil {
		return err
	}
	// Flags beat file and environment.
	if modeFlag != "" {
		cfg.Engine.Mode = modeFlag
	}
	if solverFlag != "" {
		cfg.Engine.Solver = solverFlag
	}
	if budgetFlag > 0 {
		cfg.Engine.TimeBudgetSeconds = int(budgetFlag.Seconds())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	var solver solve.Solver
	switch cfg.Engine.Solver {
	case "cbc":
		solver = solve.NewCbcSolver()
	default:
		solver = solve.NewBranchBoundSolver()
	}

	scheduler := schedule.New(solver, schedule.Options{
		Mode:       schedule.Mode(cfg.Engine.Mode),
		TimeBudget: cfg.TimeBudget(),
		Weights:    cfg.Weights,
		Logger:     logger,
	})

	result, err := scheduler.Schedule(ctx, input)
	if err != nil {
		return err
	}

	out, err := result.ToJson()
	if err != nil {
		return err
	}
	if outputPath == "" {
		fmt.Println(string(out))
		return nil
	}
	return os.WriteFile(outputPath, out, 0666)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, input, err := loadAll()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if err := input.Validate(); err != nil {
		return err
	}
	logger.Info().
		Int("locations", len(input.Locations)).
		Int("students", len(input.Students)).
		Int("teacher_windows", len(input.Teacher.Availability)).
		Msg("input is valid")
	return nil
}
