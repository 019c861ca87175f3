package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBytes_JDAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name:    "valid",
			doc:     `{"summary": "A backend role.", "requirements": ["Go", "PostgreSQL"]}`,
			wantErr: false,
		},
		{
			name:    "missing requirements",
			doc:     `{"summary": "A backend role."}`,
			wantErr: true,
		},
		{
			name:    "empty summary",
			doc:     `{"summary": "", "requirements": []}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBytes("jd_analysis", []byte(tt.doc))
			if tt.wantErr {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.NotEmpty(t, ve.Errors)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBytes_EvaluationRanges(t *testing.T) {
	valid := `{
		"summary": "Solid performance.",
		"strengths": ["clear communication"],
		"weaknesses": ["limited ops exposure"],
		"scores": {"problem_solving": 4},
		"score": 78,
		"recommendation": "hire"
	}`
	assert.NoError(t, ValidateBytes("evaluation", []byte(valid)))

	outOfRange := `{
		"summary": "Solid performance.",
		"strengths": [],
		"weaknesses": [],
		"score": 150,
		"recommendation": "hire"
	}`
	assert.Error(t, ValidateBytes("evaluation", []byte(outOfRange)))

	badRecommendation := `{
		"summary": "Solid performance.",
		"strengths": [],
		"weaknesses": [],
		"score": 70,
		"recommendation": "maybe"
	}`
	assert.Error(t, ValidateBytes("evaluation", []byte(badRecommendation)))
}

func TestValidateBytes_InsightsSubScores(t *testing.T) {
	valid := `{
		"soft_landing_plan": {"summary": "Pair with a senior onboarding buddy.", "days_30": ["ship one fix"]},
		"contribution_summary": "Immediate backend contributions.",
		"sub_scores": {"short_term_impact": 4, "long_term_growth": 4, "team_fit": 3, "risk_level": 2}
	}`
	assert.NoError(t, ValidateBytes("insights", []byte(valid)))

	missingSubScore := `{
		"soft_landing_plan": {"summary": "Plan."},
		"contribution_summary": "Contribution.",
		"sub_scores": {"short_term_impact": 4, "long_term_growth": 4, "team_fit": 3}
	}`
	assert.Error(t, ValidateBytes("insights", []byte(missingSubScore)))
}

func TestValidateBytes_UnknownSchema(t *testing.T) {
	err := ValidateBytes("nonexistent", []byte(`{}`))
	var le *SchemaLoadError
	require.ErrorAs(t, err, &le)
}

func TestValidateBytes_MalformedDocument(t *testing.T) {
	err := ValidateBytes("jd_analysis", []byte(`{not json`))
	assert.Error(t, err)
}
