package cli

import (
	"fmt"

	"recruitflow/internal/common"
	"recruitflow/internal/pipeline"

	"github.com/spf13/cobra"
)

var interviewCmd = &cobra.Command{
	Use:   "interview [role-title]",
	Short: "Generate an interview plan for a role",
	Long: `Generate a structured interview plan for a role.
The command takes the role title as its argument and optionally the
candidate's skills via --skills. The plan contains five questions across
technical, behavioral, and role-specific categories.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if interviewConfig.OutputFormat == "" {
			interviewConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(interviewConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runInterview,
}

var (
	interviewConfig common.CommandConfig
	interviewSkills []string
)

func init() {
	interviewCmd.Flags().StringVarP(&interviewConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	interviewCmd.Flags().StringVar(&interviewConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	interviewCmd.Flags().StringSliceVar(&interviewSkills, "skills", nil, "Candidate skills, comma separated")

	_ = interviewCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runInterview(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	extractor, _, err := buildExtractor(cfg, logger)
	if err != nil {
		return err
	}
	p := pipeline.New(extractor, cfg.Pipeline, logger, nil)

	roleTitle := args[0]
	logger.Info("Starting interview plan generation",
		"role_title", roleTitle,
		"skill_count", len(interviewSkills),
		"output_format", interviewConfig.OutputFormat)

	plan, err := p.GenerateInterview(cmd.Context(), roleTitle, interviewSkills)
	if err != nil {
		return fmt.Errorf("failed to generate interview plan: %w", err)
	}

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(plan, interviewConfig); err != nil {
		return err
	}
	logger.Info("Interview plan generation completed successfully")
	return nil
}
