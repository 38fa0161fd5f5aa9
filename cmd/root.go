package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linguaplay/scoring-service/internal/config"
	"github.com/linguaplay/scoring-service/internal/scoring"
	"github.com/linguaplay/scoring-service/internal/utils"
)

var rootCmd = &cobra.Command{
	Use:           "scoring-service",
	Short:         "Assessment and scoring service for language practice",
	Long:          "Grades exercise answers, awards points and tracks learner levels, streaks and achievements.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("leveling", "", "Leveling strategy: continuous or tiered (overrides LEVELING_STRATEGY)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importExercisesCmd)
	rootCmd.AddCommand(gradeWritingCmd)
	rootCmd.AddCommand(scoreSpeechCmd)
}

// loadConfig reads the environment and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if name, _ := cmd.Flags().GetString("leveling"); name != "" {
		cfg.LevelingStrategy = name
	}
	return cfg, nil
}

func newEngine(cfg *config.Config) (*scoring.Engine, error) {
	leveling, err := scoring.NewLevelingStrategy(cfg.LevelingStrategy)
	if err != nil {
		return nil, err
	}
	evaluator := scoring.NewEvaluator(scoring.EvaluatorOptions{FillBlankContains: cfg.FillBlankContains})
	return scoring.NewEngine(evaluator, leveling), nil
}

// cliLogger writes to stderr so command output on stdout stays parseable.
func cliLogger(cfg *config.Config) utils.Logger {
	return utils.NewLogger(cfg.Environment, os.Stderr)
}
