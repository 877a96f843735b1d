package common

import (
	"context"
	"fmt"

	"recruitflow/internal/errors"
)

// CreateInputFunc defines how to create the stage input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// StageOperationFunc is a generic function signature for any pipeline stage with context.
type StageOperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunStageCommand encapsulates the common logic for file-based CLI commands:
// read and validate the input files, build the stage input, run the
// operation, and format the result.
func RunStageCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation StageOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
