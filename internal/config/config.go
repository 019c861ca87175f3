// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	JDPath      string `json:"jd,omitempty"`        // Path to job description text file
	ResumePath  string `json:"resume,omitempty"`    // Path to resume text file
	AnswersPath string `json:"answers,omitempty"`   // Path to answers text file, one answer per line
	Knowledge   string `json:"knowledge,omitempty"` // Directory of knowledge base passages for retrieval

	// Interview setup
	JobTitle       string `json:"job_title,omitempty"`
	CandidateName  string `json:"candidate_name,omitempty"`
	TotalQuestions int    `json:"total_questions,omitempty"`

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DisableRAG  bool   `json:"disable_rag,omitempty"`  // Skip knowledge base retrieval
	UseLite     bool   `json:"use_lite,omitempty"`     // Route all stages to the lightweight model
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed stage output
	NoSave      bool   `json:"no_save,omitempty"`      // Skip persisting the run
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.TotalQuestions < 0 {
		return fmt.Errorf("config error: 'total_questions' must be non-negative")
	}

	// Validate file paths exist (if specified)
	for name, path := range map[string]string{
		"jd":      c.JDPath,
		"resume":  c.ResumePath,
		"answers": c.AnswersPath,
	} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", name, path)
		}
	}

	if c.Knowledge != "" {
		info, err := os.Stat(c.Knowledge)
		if os.IsNotExist(err) {
			return fmt.Errorf("config error: knowledge directory not found: %s", c.Knowledge)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("config error: knowledge path is not a directory: %s", c.Knowledge)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.JDPath == "" {
		result.JDPath = defaults.JDPath
	}
	if result.ResumePath == "" {
		result.ResumePath = defaults.ResumePath
	}
	if result.AnswersPath == "" {
		result.AnswersPath = defaults.AnswersPath
	}
	if result.Knowledge == "" {
		result.Knowledge = defaults.Knowledge
	}
	if result.JobTitle == "" {
		result.JobTitle = defaults.JobTitle
	}
	if result.CandidateName == "" {
		result.CandidateName = defaults.CandidateName
	}
	if result.TotalQuestions == 0 {
		result.TotalQuestions = defaults.TotalQuestions
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	return result
}
