package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/interview-pilot/internal/db"
	"github.com/jonathan/interview-pilot/internal/observability"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "Browse saved interviews",
}

var historyListCommand = &cobra.Command{
	Use:   "list",
	Short: "List saved interviews, newest first",
	RunE:  runHistoryList,
}

var historyShowCommand = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved interview in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCommand = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved interview",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var (
	historyDatabaseURL string
	historyJobTitle    string
	historyCandidate   string
	historyStatus      string
	historyLimit       int
)

func init() {
	historyCommand.PersistentFlags().StringVar(&historyDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	historyListCommand.Flags().StringVar(&historyJobTitle, "job-title", "", "Filter by job title substring")
	historyListCommand.Flags().StringVar(&historyCandidate, "candidate", "", "Filter by candidate name substring")
	historyListCommand.Flags().StringVar(&historyStatus, "status", "", "Filter by status (PENDING, IN_PROGRESS, DONE, FAILED)")
	historyListCommand.Flags().IntVar(&historyLimit, "limit", 0, "Maximum rows to return (default 50)")

	historyCommand.AddCommand(historyListCommand)
	historyCommand.AddCommand(historyShowCommand)
	historyCommand.AddCommand(historyDeleteCommand)
	rootCmd.AddCommand(historyCommand)
}

func connectHistoryDB(ctx context.Context) (*db.DB, error) {
	dbURL := resolveDatabaseURL(historyDatabaseURL)
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	database, err := db.Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

func runHistoryList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	database, err := connectHistoryDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	summaries, err := database.ListInterviews(ctx, db.InterviewFilters{
		JobTitle:  historyJobTitle,
		Candidate: historyCandidate,
		Status:    historyStatus,
		Limit:     historyLimit,
	})
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(os.Stdout, "No interviews found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCANDIDATE\tJOB TITLE\tSTATUS\tSCORE\tCREATED")
	for _, s := range summaries {
		score := "-"
		if s.Score != nil {
			score = fmt.Sprintf("%.0f", *s.Score)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.CandidateName, s.JobTitle, s.Status, score,
			s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runHistoryShow(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid interview id: %w", err)
	}

	database, err := connectHistoryDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	rec, err := database.GetInterview(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Interview %s (%s)\n", rec.ID, rec.Status)
	printer := observability.NewPrinter(os.Stdout)
	printer.PrintJDAnalysis(rec.State)
	printer.PrintResumeAnalysis(rec.State)
	printer.PrintQuestions(rec.State)
	printer.PrintEvaluation(rec.State.Evaluation)
	printer.PrintInsights(rec.State.Insights)
	return nil
}

func runHistoryDelete(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid interview id: %w", err)
	}

	database, err := connectHistoryDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.DeleteInterview(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted interview %s\n", id)
	return nil
}
