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

var matchCmd = &cobra.Command{
	Use:   "match [candidate-file] [job-catalog-file]",
	Short: "Match a candidate profile against a job catalog",
	Long: `Match a candidate profile against a catalog of open jobs.
The command takes two arguments: the path to a JSON candidate profile and
the path to a JSON job catalog (an array of job records). The result lists
the top matches ranked by fit score.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if matchConfig.OutputFormat == "" {
			matchConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(matchConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runMatch,
}

var matchConfig common.CommandConfig

type matchInput struct {
	Candidate types.CandidateProfile
	Jobs      []types.JobRecord
}

func init() {
	matchCmd.Flags().StringVarP(&matchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	matchCmd.Flags().StringVar(&matchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = matchCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	extractor, _, err := buildExtractor(cfg, logger)
	if err != nil {
		return err
	}
	p := pipeline.New(extractor, cfg.Pipeline, logger, nil)

	createInput := func(contents []string) (matchInput, error) {
		if len(contents) != 2 {
			return matchInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}

		var input matchInput
		if err := json.Unmarshal([]byte(contents[0]), &input.Candidate); err != nil {
			return matchInput{}, fmt.Errorf("candidate file is not valid JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(contents[1]), &input.Jobs); err != nil {
			return matchInput{}, fmt.Errorf("job catalog is not valid JSON: %w", err)
		}
		return input, nil
	}

	logDetails := func(input matchInput, cfg common.CommandConfig) {
		logger.Info("Starting job matching",
			"candidate", input.Candidate.Name,
			"catalog_size", len(input.Jobs),
			"output_format", cfg.OutputFormat)
	}

	matchOperation := func(ctx context.Context, input matchInput) (*types.MatchingResult, error) {
		return p.Match(ctx, input.Candidate, input.Jobs)
	}

	err = common.RunStageCommand(
		cmd.Context(),
		logger,
		matchConfig,
		args,
		createInput,
		matchOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to match jobs: %w", err)
	}
	logger.Info("Job matching completed successfully")
	return nil
}
