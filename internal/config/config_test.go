package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"job_title": "Backend Engineer",
		"candidate_name": "Kim",
		"total_questions": 7,
		"use_lite": true,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "Backend Engineer", cfg.JobTitle)
	assert.Equal(t, "Kim", cfg.CandidateName)
	assert.Equal(t, 7, cfg.TotalQuestions)
	assert.True(t, cfg.UseLite)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	jdFile := filepath.Join(dir, "jd.txt")
	require.NoError(t, os.WriteFile(jdFile, []byte("posting"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty config", Config{}, ""},
		{"existing jd file", Config{JDPath: jdFile}, ""},
		{"missing jd file", Config{JDPath: filepath.Join(dir, "nope.txt")}, "jd file not found"},
		{"missing resume file", Config{ResumePath: filepath.Join(dir, "nope.txt")}, "resume file not found"},
		{"negative questions", Config{TotalQuestions: -1}, "must be non-negative"},
		{"knowledge is a file", Config{Knowledge: jdFile}, "not a directory"},
		{"missing knowledge dir", Config{Knowledge: filepath.Join(dir, "kb")}, "knowledge directory not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{JobTitle: "Data Engineer", UseLite: true}
	defaults := Config{JobTitle: "ignored", CandidateName: "Candidate", TotalQuestions: 5}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "Data Engineer", merged.JobTitle)
	assert.Equal(t, "Candidate", merged.CandidateName)
	assert.Equal(t, 5, merged.TotalQuestions)
	assert.True(t, merged.UseLite)
}
