// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/interview-pilot/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + "\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintJDAnalysis outputs a human-readable summary of the analyzed posting.
func (p *Printer) PrintJDAnalysis(state *types.InterviewState) {
	if state == nil || state.JDSummary == "" {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:  %s\n", state.JobTitle))
	if state.JobRole != "" {
		sb.WriteString(fmt.Sprintf("Track: %s\n", state.JobRole))
	}
	sb.WriteString("\n")
	sb.WriteString(state.JDSummary + "\n")
	if len(state.JDRequirements) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Requirements:", state.JDRequirements, maxItemsToShow)
	}

	p.printBox("JOB DESCRIPTION ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResumeAnalysis outputs the candidate summary and evidenced skills.
func (p *Printer) PrintResumeAnalysis(state *types.InterviewState) {
	if state == nil || state.CandidateSummary == "" {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n\n", state.CandidateName))
	sb.WriteString(state.CandidateSummary + "\n")
	if len(state.CandidateSkills) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Skills:", state.CandidateSkills, maxItemsToShow)
	}

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuestions outputs the generated interview questions with categories
// and answer status.
func (p *Printer) PrintQuestions(state *types.InterviewState) {
	if state == nil || len(state.QAHistory) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generated %d questions:\n\n", len(state.QAHistory)))

	for i, turn := range state.QAHistory {
		category := turn.Category
		if category == "" {
			category = "general"
		}
		question := turn.Question
		if len(question) > 44 {
			question = question[:41] + "..."
		}
		sb.WriteString(fmt.Sprintf("Q%d [%s]\n", i+1, category))
		sb.WriteString(fmt.Sprintf("  %s\n", question))
		if turn.Answer == "" {
			sb.WriteString("  (awaiting answer)\n")
		}
		if i < len(state.QAHistory)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("INTERVIEW QUESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvaluation outputs the scored evaluation with per-competency marks.
func (p *Printer) PrintEvaluation(ev *types.EvaluationResult) {
	if ev == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:        %.0f/100\n", ev.Score))
	sb.WriteString(fmt.Sprintf("Recommendation: %s\n\n", ev.Recommendation))
	sb.WriteString(ev.Summary + "\n")

	if len(ev.Scores) > 0 {
		sb.WriteString("\nCompetencies:\n")
		names := make([]string, 0, len(ev.Scores))
		for name := range ev.Scores {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("  %-24s %.1f/5\n", name, ev.Scores[name]))
		}
	}

	if len(ev.Strengths) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Strengths:", ev.Strengths, maxItemsToShow)
	}
	if len(ev.Weaknesses) > 0 {
		writeList(&sb, "Weaknesses:", ev.Weaknesses, maxItemsToShow)
	}

	p.printBox("EVALUATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInsights outputs the post-hire plan, sub-scores, and risks.
func (p *Printer) PrintInsights(ins *types.InsightsResult) {
	if ins == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(ins.ContributionSummary + "\n\n")

	sb.WriteString("Sub-scores:\n")
	sb.WriteString(fmt.Sprintf("  Short-term impact  %d/5\n", ins.SubScores.ShortTermImpact))
	sb.WriteString(fmt.Sprintf("  Long-term growth   %d/5\n", ins.SubScores.LongTermGrowth))
	sb.WriteString(fmt.Sprintf("  Team fit           %d/5\n", ins.SubScores.TeamFit))
	sb.WriteString(fmt.Sprintf("  Risk level         %d/5\n", ins.SubScores.RiskLevel))

	if ins.SoftLandingPlan.Summary != "" {
		sb.WriteString("\nSoft landing plan:\n")
		sb.WriteString("  " + ins.SoftLandingPlan.Summary + "\n")
		writeList(&sb, "  First 30 days:", ins.SoftLandingPlan.Days30, 3)
		writeList(&sb, "  Days 30-60:", ins.SoftLandingPlan.Days60, 3)
		writeList(&sb, "  Days 60-90:", ins.SoftLandingPlan.Days90, 3)
	}

	if len(ins.RiskFactors) > 0 {
		sb.WriteString("\nRisks:\n")
		count := min(len(ins.RiskFactors), maxItemsToShow)
		for i := 0; i < count; i++ {
			rf := ins.RiskFactors[i]
			severity := rf.Severity
			if severity == "" {
				severity = "unknown"
			}
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", severity, rf.Label))
		}
	}

	if len(ins.GrowthRecommendations) > 0 {
		sb.WriteString("\n")
		writeList(&sb, "Growth recommendations:", ins.GrowthRecommendations, maxItemsToShow)
	}

	p.printBox("POST-HIRE INSIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRetrievalAudit outputs which stages consulted the knowledge base and
// how many passages each pulled.
func (p *Printer) PrintRetrievalAudit(state *types.InterviewState) {
	if state == nil || len(state.RAGPassages) == 0 {
		return
	}

	var sb strings.Builder
	stages := make([]string, 0, len(state.RAGPassages))
	for stage := range state.RAGPassages {
		stages = append(stages, stage)
	}
	sort.Strings(stages)
	for _, stage := range stages {
		sb.WriteString(fmt.Sprintf("%-20s %d passages\n", stage, len(state.RAGPassages[stage])))
	}

	p.printBox("RETRIEVAL AUDIT", strings.TrimSuffix(sb.String(), "\n"))
}
