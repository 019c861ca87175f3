package pipeline

import (
	"fmt"
	"strings"

	"github.com/jonathan/interview-pilot/internal/types"
)

// formatList renders a string slice as a bulleted block for prompt insertion.
func formatList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatTranscript renders the QA history for the judge and insights prompts.
func formatTranscript(turns []types.QATurn) string {
	var b strings.Builder
	for i, turn := range turns {
		category := turn.Category
		if category == "" {
			category = "general"
		}
		fmt.Fprintf(&b, "Q%d [%s]: %s\n", i+1, category, turn.Question)
		answer := strings.TrimSpace(turn.Answer)
		if answer == "" {
			answer = "(no answer)"
		}
		fmt.Fprintf(&b, "A%d: %s\n", i+1, answer)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatEvaluation renders the judge output for the insights prompt.
func formatEvaluation(ev *types.EvaluationResult) string {
	if ev == nil {
		return "(no evaluation)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Overall score: %.0f/100\n", ev.Score)
	fmt.Fprintf(&b, "Recommendation: %s\n", ev.Recommendation)
	fmt.Fprintf(&b, "Summary: %s\n", ev.Summary)
	if len(ev.Strengths) > 0 {
		fmt.Fprintf(&b, "Strengths:\n%s\n", formatList(ev.Strengths))
	}
	if len(ev.Weaknesses) > 0 {
		fmt.Fprintf(&b, "Weaknesses:\n%s\n", formatList(ev.Weaknesses))
	}
	if len(ev.Scores) > 0 {
		b.WriteString("Competency scores:\n")
		for name, score := range ev.Scores {
			fmt.Fprintf(&b, "- %s: %.0f/5\n", name, score)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// contextSection wraps an assembled retrieval block so templates can splice
// it in without leaving a dangling header when retrieval produced nothing.
func contextSection(block string) string {
	if block == "" {
		return ""
	}
	return "\n" + block + "\n"
}
