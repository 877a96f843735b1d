package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"recruitflow/internal/common"
	"recruitflow/internal/pipeline"
	"recruitflow/internal/types"

	"github.com/spf13/cobra"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow [candidate-file] [job-description-file] [job-catalog-file]",
	Short: "Run the full recruitment workflow for a candidate",
	Long: `Run a candidate through the full recruitment workflow:
screening, job matching, and interview plan generation. The stages run
in order and the workflow halts early if screening rejects the candidate.

The command takes three arguments: a JSON candidate input file, a plain
text job description file, and a JSON job catalog file.`,
	Args: cobra.ExactArgs(3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if workflowConfig.OutputFormat == "" {
			workflowConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(workflowConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runWorkflow,
}

var (
	workflowConfig     common.CommandConfig
	workflowShowMemory bool
)

type workflowInput struct {
	Candidate      types.CandidateInput
	JobDescription string
	Jobs           []types.JobRecord
}

func init() {
	workflowCmd.Flags().StringVarP(&workflowConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	workflowCmd.Flags().StringVar(&workflowConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	workflowCmd.Flags().BoolVar(&workflowShowMemory, "show-memory", false, "Print the session memory snapshot after the run")

	_ = workflowCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	extractor, _, err := buildExtractor(cfg, logger)
	if err != nil {
		return err
	}
	p := pipeline.New(extractor, cfg.Pipeline, logger, nil)

	createInput := func(contents []string) (workflowInput, error) {
		if len(contents) != 3 {
			return workflowInput{}, fmt.Errorf("expected 3 file paths, got %d", len(contents))
		}

		var input workflowInput
		if err := json.Unmarshal([]byte(contents[0]), &input.Candidate); err != nil {
			return workflowInput{}, fmt.Errorf("candidate file is not valid JSON: %w", err)
		}
		input.JobDescription = contents[1]
		if err := json.Unmarshal([]byte(contents[2]), &input.Jobs); err != nil {
			return workflowInput{}, fmt.Errorf("job catalog is not valid JSON: %w", err)
		}
		return input, nil
	}

	logDetails := func(input workflowInput, cfg common.CommandConfig) {
		logger.Info("Starting recruitment workflow",
			"candidate", input.Candidate.Name,
			"job_chars", len(input.JobDescription),
			"catalog_size", len(input.Jobs),
			"output_format", cfg.OutputFormat)
	}

	workflowOperation := func(ctx context.Context, input workflowInput) (*types.WorkflowResult, error) {
		return p.RunWorkflow(ctx, input.Candidate, input.JobDescription, input.Jobs)
	}

	err = common.RunStageCommand(
		cmd.Context(),
		logger,
		workflowConfig,
		args,
		createInput,
		workflowOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to run workflow: %w", err)
	}

	if workflowShowMemory {
		snapshot, err := json.MarshalIndent(p.Memory(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode session memory: %w", err)
		}
		fmt.Printf("Session memory:\n%s\n", snapshot)
	}

	logger.Info("Recruitment workflow completed successfully")
	return nil
}
