package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("stages.json", "jd-analysis")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "{{.JDText}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("stages.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Interviewing {{.CandidateName}} for {{.JobTitle}}"
	data := map[string]string{
		"CandidateName": "Alice",
		"JobTitle":      "Backend Engineer",
	}

	result := Format(template, data)
	assert.Equal(t, "Interviewing Alice for Backend Engineer", result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	result := Format(template, map[string]string{})
	assert.Equal(t, template, result) // Placeholder remains
}

func TestAllStagePromptsPresent(t *testing.T) {
	ClearCache()

	keys := []string{
		"jd-analysis-system", "jd-analysis",
		"resume-analysis-system", "resume-analysis",
		"question-generation-system", "question-generation",
		"evaluation-system", "evaluation",
		"insights-system", "insights",
	}
	for _, key := range keys {
		prompt, err := Get("stages.json", key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt, key)
	}
}
