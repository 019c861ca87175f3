package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-pilot/internal/config"
	"github.com/jonathan/interview-pilot/internal/db"
	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/observability"
	"github.com/jonathan/interview-pilot/internal/pipeline"
	"github.com/jonathan/interview-pilot/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full interview pipeline end-to-end",
	Long: `Orchestrates the entire interview: jd analysis -> resume analysis -> question generation -> evaluation.

Answers come from --answers (one per line, in question order) or are collected interactively on stdin. Configuration can be loaded from a JSON file using --config; command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath    string
	runJDPath        string
	runResumePath    string
	runJobTitle      string
	runCandidateName string
	runQuestions     int
	runAnswersPath   string
	runKnowledgeDir  string
	runNoRAG         bool
	runUseLite       bool
	runVerbose       bool
	runNoSave        bool
	runAPIKey        string
	runDatabaseURL   string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runJDPath, "jd", "j", "", "Path to job description text file")
	runCommand.Flags().StringVarP(&runResumePath, "resume", "r", "", "Path to resume text file")
	runCommand.Flags().StringVarP(&runJobTitle, "title", "t", "", "Job title being interviewed for")
	runCommand.Flags().StringVarP(&runCandidateName, "candidate", "n", "", "Candidate name")
	runCommand.Flags().IntVarP(&runQuestions, "questions", "q", 0, "Number of questions to generate (default 5, max 20)")
	runCommand.Flags().StringVar(&runAnswersPath, "answers", "", "Path to answers file, one answer per line (omit for interactive answering)")
	runCommand.Flags().StringVar(&runKnowledgeDir, "knowledge", "", "Directory of knowledge base passages for retrieval")
	runCommand.Flags().BoolVar(&runNoRAG, "no-rag", false, "Skip knowledge base retrieval")
	runCommand.Flags().BoolVar(&runUseLite, "lite", false, "Route all stages to the lightweight model")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed stage output")
	runCommand.Flags().BoolVar(&runNoSave, "no-save", false, "Skip persisting the interview record")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for interview persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
		if runVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// CLI overrides take priority over config file values
	if cmd.Flags().Changed("jd") {
		cfg.JDPath = runJDPath
	}
	if cmd.Flags().Changed("resume") {
		cfg.ResumePath = runResumePath
	}
	if cmd.Flags().Changed("title") {
		cfg.JobTitle = runJobTitle
	}
	if cmd.Flags().Changed("candidate") {
		cfg.CandidateName = runCandidateName
	}
	if cmd.Flags().Changed("questions") {
		cfg.TotalQuestions = runQuestions
	}
	if cmd.Flags().Changed("answers") {
		cfg.AnswersPath = runAnswersPath
	}
	if cmd.Flags().Changed("knowledge") {
		cfg.Knowledge = runKnowledgeDir
	}
	if cmd.Flags().Changed("no-rag") {
		cfg.DisableRAG = runNoRAG
	}
	if cmd.Flags().Changed("lite") {
		cfg.UseLite = runUseLite
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("no-save") {
		cfg.NoSave = runNoSave
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Apply environment-backed defaults for values still unset
	cfg = cfg.MergeWithDefaults(config.Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Knowledge:   os.Getenv("KNOWLEDGE_DIR"),
	})

	if cfg.JDPath == "" {
		return fmt.Errorf("--jd is required (via flag or config)")
	}
	if cfg.ResumePath == "" {
		return fmt.Errorf("--resume is required (via flag or config)")
	}
	if cfg.JobTitle == "" {
		return fmt.Errorf("--title is required (via flag or config)")
	}
	if cfg.CandidateName == "" {
		return fmt.Errorf("--candidate is required (via flag or config)")
	}

	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	jdText, err := readTextFile(cfg.JDPath, "job description")
	if err != nil {
		return err
	}
	resumeText, err := readTextFile(cfg.ResumePath, "resume")
	if err != nil {
		return err
	}

	var answers []string
	if cfg.AnswersPath != "" {
		answers, err = readAnswersFile(cfg.AnswersPath)
		if err != nil {
			return err
		}
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	gateway, err := buildGateway(cfg.Knowledge)
	if err != nil {
		return err
	}

	orch := pipeline.New(client, gateway)
	sess := pipeline.NewSession(!cfg.DisableRAG, cfg.UseLite)
	printer := observability.NewPrinter(os.Stdout)

	in := pipeline.RunInput{
		JobTitle:       cfg.JobTitle,
		CandidateName:  cfg.CandidateName,
		JDText:         jdText,
		ResumeText:     resumeText,
		TotalQuestions: cfg.TotalQuestions,
		OnProgress: func(ev pipeline.ProgressEvent) {
			fmt.Fprintf(os.Stdout, "==> %s\n", ev.Message)
		},
	}
	if answers != nil {
		in.CollectAnswers = answersFromFile(answers)
	} else {
		in.CollectAnswers = answersFromStdin(os.Stdout)
	}

	state, err := orch.RunFull(ctx, in, sess)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer.PrintJDAnalysis(state)
		printer.PrintResumeAnalysis(state)
		printer.PrintQuestions(state)
		printer.PrintRetrievalAudit(state)
	}
	printer.PrintEvaluation(state.Evaluation)

	if cfg.DatabaseURL != "" && !cfg.NoSave {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare schema: %w", err)
		}
		if err := database.CreateInterview(ctx, sess.ID, state); err != nil {
			return fmt.Errorf("failed to save interview: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Saved interview %s\n", sess.ID)
	}

	return nil
}

// answersFromFile pairs pre-written answers with generated questions.
func answersFromFile(answers []string) pipeline.AnswerFunc {
	return func(_ context.Context, turns []types.QATurn) ([]types.QATurn, error) {
		if len(answers) != len(turns) {
			return nil, fmt.Errorf("answers file has %d answers but %d questions were generated", len(answers), len(turns))
		}
		for i := range turns {
			turns[i].Answer = answers[i]
		}
		return turns, nil
	}
}

// answersFromStdin asks each question on the terminal and reads one answer
// per line.
func answersFromStdin(out *os.File) pipeline.AnswerFunc {
	return func(_ context.Context, turns []types.QATurn) ([]types.QATurn, error) {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for i := range turns {
			fmt.Fprintf(out, "\nQ%d: %s\n> ", i+1, turns[i].Question)
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return nil, fmt.Errorf("reading answer: %w", err)
				}
				return nil, fmt.Errorf("input ended before question %d was answered", i+1)
			}
			turns[i].Answer = strings.TrimSpace(scanner.Text())
		}
		fmt.Fprintln(out)
		return turns, nil
	}
}
