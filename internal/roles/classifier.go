// Package roles classifies a job description into a coarse role category.
// The category is used as the retrieval filter so knowledge-base lookups can
// be narrowed to material for the matching discipline.
package roles

import "strings"

// RoleGeneral is the fallback category when no keywords match.
const RoleGeneral = "general"

// roleKeywords maps a role category to the lowercase keywords that signal it.
// First match wins on score, ties resolve in the order below.
var roleKeywords = []struct {
	role     string
	keywords []string
}{
	{"frontend", []string{
		"frontend", "front-end", "react", "vue", "next.js", "typescript", "ui/ux",
	}},
	{"backend", []string{
		"backend", "back-end", "spring", "django", "node.js", "api server",
		"rest api", "database design", "microservice",
	}},
	{"product_manager", []string{
		"product manager", "product management", "prd", "roadmap",
		"go-to-market", "user stories", "product strategy",
	}},
	{"qa", []string{
		"quality assurance", "test automation", "selenium", "playwright", " qa ",
	}},
	{"data", []string{
		"data scientist", "data engineer", "analytics", "etl", "warehouse",
	}},
	{"ml_ai", []string{
		"machine learning", "deep learning", " ml ", " ai ", "llm",
	}},
	{"devops", []string{
		"devops", "sre", "site reliability", "kubernetes", "docker", "terraform",
	}},
	{"design", []string{
		"designer", "design system", "figma", " ux ",
	}},
}

// Classify returns the role category for a job title plus JD text.
// Classification is keyword-count based and deterministic; unmatched text
// yields RoleGeneral.
func Classify(jobTitle, jdText string) string {
	// Padded so word-boundary keywords like " qa " can match at the edges.
	haystack := " " + strings.ToLower(jobTitle+" "+jdText) + " "

	bestRole := RoleGeneral
	bestScore := 0
	for _, entry := range roleKeywords {
		score := 0
		for _, keyword := range entry.keywords {
			score += strings.Count(haystack, keyword)
		}
		if score > bestScore {
			bestScore = score
			bestRole = entry.role
		}
	}

	return bestRole
}
