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
	"github.com/jonathan/interview-pilot/internal/types"
)

var rejudgeCommand = &cobra.Command{
	Use:   "rejudge",
	Short: "Re-evaluate a saved interview with an edited transcript",
	Long: `Loads a saved interview, replaces its transcript with the turns from --qa (a JSON array of {"question": ..., "answer": ...} objects), runs the evaluation stage again, and stores the new result.

Without --qa the stored transcript is re-evaluated as is.`,
	RunE: runRejudgeCmd,
}

var (
	rejudgeID          string
	rejudgeQAPath      string
	rejudgeNoRAG       bool
	rejudgeUseLite     bool
	rejudgeAPIKey      string
	rejudgeDatabaseURL string
	rejudgeKnowledge   string
)

func init() {
	rejudgeCommand.Flags().StringVar(&rejudgeID, "id", "", "Interview id to re-evaluate")
	rejudgeCommand.Flags().StringVar(&rejudgeQAPath, "qa", "", "Path to edited transcript JSON (optional)")
	rejudgeCommand.Flags().StringVar(&rejudgeKnowledge, "knowledge", "", "Directory of knowledge base passages for retrieval")
	rejudgeCommand.Flags().BoolVar(&rejudgeNoRAG, "no-rag", false, "Skip knowledge base retrieval")
	rejudgeCommand.Flags().BoolVar(&rejudgeUseLite, "lite", false, "Route the evaluation to the lightweight model")
	rejudgeCommand.Flags().StringVar(&rejudgeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	rejudgeCommand.Flags().StringVar(&rejudgeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	_ = rejudgeCommand.MarkFlagRequired("id")

	rootCmd.AddCommand(rejudgeCommand)
}

func runRejudgeCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	id, err := uuid.Parse(rejudgeID)
	if err != nil {
		return fmt.Errorf("invalid interview id: %w", err)
	}

	apiKey, err := resolveAPIKey(rejudgeAPIKey)
	if err != nil {
		return err
	}

	dbURL := resolveDatabaseURL(rejudgeDatabaseURL)
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	var newHistory []types.QATurn
	if rejudgeQAPath != "" {
		newHistory, err = readQAFile(rejudgeQAPath)
		if err != nil {
			return err
		}
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

	gateway, err := buildGateway(rejudgeKnowledge)
	if err != nil {
		return err
	}

	orch := pipeline.New(client, gateway)
	sess := pipeline.NewSession(!rejudgeNoRAG, rejudgeUseLite)

	evaluation, err := orch.Rejudge(ctx, rec.State, newHistory, sess)
	if err != nil {
		return err
	}

	if newHistory != nil {
		rec.State.QAHistory = newHistory
	}
	rec.State.Evaluation = evaluation
	rec.State.Status = types.StatusDone
	if err := database.UpdateInterview(ctx, id, rec.State); err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintEvaluation(evaluation)
	fmt.Fprintf(os.Stdout, "Updated interview %s\n", id)
	return nil
}
