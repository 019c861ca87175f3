package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/interview-pilot/internal/db"
	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/observability"
	"github.com/jonathan/interview-pilot/internal/pipeline"
)

var insightsCommand = &cobra.Command{
	Use:   "insights",
	Short: "Generate post-hire insights for a completed interview",
	Long:  `Loads a completed, evaluated interview and derives an onboarding plan, contribution outlook, and risk factors from its record. The result is stored on the interview.`,
	RunE:  runInsightsCmd,
}

var (
	insightsID          string
	insightsNoRAG       bool
	insightsUseLite     bool
	insightsAPIKey      string
	insightsDatabaseURL string
	insightsKnowledge   string
)

func init() {
	insightsCommand.Flags().StringVar(&insightsID, "id", "", "Interview id to analyze")
	insightsCommand.Flags().StringVar(&insightsKnowledge, "knowledge", "", "Directory of knowledge base passages for retrieval")
	insightsCommand.Flags().BoolVar(&insightsNoRAG, "no-rag", false, "Skip knowledge base retrieval")
	insightsCommand.Flags().BoolVar(&insightsUseLite, "lite", false, "Route the analysis to the lightweight model")
	insightsCommand.Flags().StringVar(&insightsAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	insightsCommand.Flags().StringVar(&insightsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	_ = insightsCommand.MarkFlagRequired("id")

	rootCmd.AddCommand(insightsCommand)
}

func runInsightsCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	id, err := uuid.Parse(insightsID)
	if err != nil {
		return fmt.Errorf("invalid interview id: %w", err)
	}

	apiKey, err := resolveAPIKey(insightsAPIKey)
	if err != nil {
		return err
	}

	dbURL := resolveDatabaseURL(insightsDatabaseURL)
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	rec, err := database.GetInterview(ctx, id)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	gateway, err := buildGateway(insightsKnowledge)
	if err != nil {
		return err
	}

	orch := pipeline.New(client, gateway)
	sess := pipeline.NewSession(!insightsNoRAG, insightsUseLite)

	insights, err := orch.GenerateInsights(ctx, rec.State, sess)
	if err != nil {
		return err
	}

	rec.State.Insights = insights
	if err := database.UpdateInterview(ctx, id, rec.State); err != nil {
		return fmt.Errorf("failed to save insights: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintInsights(insights)
	return nil
}
