package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/linguaplay/scoring-service/internal/services"
	"github.com/linguaplay/scoring-service/internal/utils"
	"github.com/linguaplay/scoring-service/internal/validator"
)

var gradeWritingCmd = &cobra.Command{
	Use:   "grade-writing [file]",
	Short: "Score a piece of writing read from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := localScoringService(cmd)
		if err != nil {
			return err
		}

		text, err := readText(cmd, args)
		if err != nil {
			return err
		}

		req := &services.AnalyzeWritingRequest{Text: text}
		if cmd.Flags().Changed("min-words") {
			n, _ := cmd.Flags().GetInt("min-words")
			req.MinWords = &n
		}
		if cmd.Flags().Changed("max-words") {
			n, _ := cmd.Flags().GetInt("max-words")
			req.MaxWords = &n
		}

		analysis, err := svc.AnalyzeWriting(context.Background(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), analysis)
	},
}

var scoreSpeechCmd = &cobra.Command{
	Use:   "score-speech",
	Short: "Compare a speech transcript with its target text",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := localScoringService(cmd)
		if err != nil {
			return err
		}

		transcript, _ := cmd.Flags().GetString("transcript")
		target, _ := cmd.Flags().GetString("target")
		targetWords, _ := cmd.Flags().GetStringSlice("target-words")

		result, err := svc.ScoreSpeech(context.Background(), &services.ScoreSpeechRequest{
			Transcript:  transcript,
			TargetText:  target,
			TargetWords: targetWords,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	gradeWritingCmd.Flags().Int("min-words", 0, "Minimum expected word count")
	gradeWritingCmd.Flags().Int("max-words", 0, "Maximum expected word count")

	scoreSpeechCmd.Flags().String("transcript", "", "What the learner said")
	scoreSpeechCmd.Flags().String("target", "", "What the learner was asked to say")
	scoreSpeechCmd.Flags().StringSlice("target-words", nil, "Key words to check for")
	_ = scoreSpeechCmd.MarkFlagRequired("target")
}

func localScoringService(cmd *cobra.Command) (services.ScoringService, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	return services.NewScoringService(engine, validator.New(), utils.ToSlogLogger(cliLogger(cfg))), nil
}

func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(b), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
