package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaplay/scoring-service/internal/models"
)

func execute(t *testing.T, stdin string, args ...string) []byte {
	t.Helper()
	t.Setenv("ENVIRONMENT", "test")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	return out.Bytes()
}

func TestScoreSpeechCommand(t *testing.T) {
	out := execute(t, "", "score-speech", "--transcript", "the cat sat", "--target", "The cat sat")

	var result models.SpeechResult
	require.NoError(t, json.Unmarshal(out, &result))
	assert.True(t, result.Detected)
	require.NotNil(t, result.Score)
	assert.Equal(t, 100, *result.Score)
	assert.Equal(t, 1.0, result.Similarity)
}

func TestGradeWritingCommand_Stdin(t *testing.T) {
	out := execute(t, "   ", "grade-writing")

	var analysis models.WritingAnalysis
	require.NoError(t, json.Unmarshal(out, &analysis))
	assert.Equal(t, 0, analysis.Score)
	assert.Nil(t, analysis.Metrics)
}

func TestNewEngine_UnknownLeveling(t *testing.T) {
	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	cfg.LevelingStrategy = "exponential"

	_, err = newEngine(cfg)
	assert.Error(t, err)
}
