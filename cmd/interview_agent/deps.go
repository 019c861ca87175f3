package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/interview-pilot/internal/retrieval"
	"github.com/jonathan/interview-pilot/internal/types"
)

// resolveAPIKey picks the flag value or falls back to GEMINI_API_KEY.
func resolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
}

// resolveDatabaseURL picks the flag value or falls back to DATABASE_URL.
// Empty means persistence is disabled.
func resolveDatabaseURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("DATABASE_URL")
}

// buildGateway loads the knowledge base directory into an in-memory index.
// A missing or empty directory yields a nil gateway and retrieval stays off.
func buildGateway(dir string) (retrieval.Gateway, error) {
	if dir == "" {
		return nil, nil
	}
	passages, err := retrieval.LoadPassages(dir)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base: %w", err)
	}
	if len(passages) == 0 {
		return nil, nil
	}
	return retrieval.NewIndex(passages), nil
}

func readTextFile(path, what string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s file: %w", what, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s file %s is empty", what, path)
	}
	return text, nil
}

// readAnswersFile reads one answer per non-blank line, in question order.
func readAnswersFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}
	var answers []string
	for _, line := range strings.Split(string(data), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			answers = append(answers, trimmed)
		}
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("answers file %s has no answers", path)
	}
	return answers, nil
}

// readQAFile reads an edited transcript as a JSON array of question/answer
// turns.
func readQAFile(path string) ([]types.QATurn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript file: %w", err)
	}
	var turns []types.QATurn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("parsing transcript JSON: %w", err)
	}
	if len(turns) == 0 {
		return nil, fmt.Errorf("transcript file %s has no turns", path)
	}
	return turns, nil
}
