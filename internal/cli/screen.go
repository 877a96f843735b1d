package cli

import (
	"context"
	"fmt"

	"recruitflow/internal/common"
	"recruitflow/internal/pipeline"
	"recruitflow/internal/types"

	"github.com/spf13/cobra"
)

var screenCmd = &cobra.Command{
	Use:   "screen [resume-file] [job-description-file]",
	Short: "Screen a resume against a job description",
	Long: `Screen a candidate resume against a job description.
The command takes two arguments: the path to the resume file and the path
to the job description file. Both files should be in plain text format.
The result includes the match score and a PASS/REVIEW/REJECT recommendation.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if screenConfig.OutputFormat == "" {
			screenConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(screenConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScreen,
}

var screenConfig common.CommandConfig

type screenInput struct {
	ResumeText     string
	JobDescription string
}

func init() {
	screenCmd.Flags().StringVarP(&screenConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	screenCmd.Flags().StringVar(&screenConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = screenCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	extractor, _, err := buildExtractor(cfg, logger)
	if err != nil {
		return err
	}
	p := pipeline.New(extractor, cfg.Pipeline, logger, nil)

	createInput := func(contents []string) (screenInput, error) {
		if len(contents) != 2 {
			return screenInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return screenInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
		}, nil
	}

	logDetails := func(input screenInput, cfg common.CommandConfig) {
		logger.Info("Starting candidate screening",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	screenOperation := func(ctx context.Context, input screenInput) (*types.ScreeningResult, error) {
		return p.Screen(ctx, input.ResumeText, input.JobDescription)
	}

	err = common.RunStageCommand(
		cmd.Context(),
		logger,
		screenConfig,
		args,
		createInput,
		screenOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to screen candidate: %w", err)
	}
	logger.Info("Candidate screening completed successfully")
	return nil
}
