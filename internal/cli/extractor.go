package cli

import (
	"fmt"

	"recruitflow/internal/config"
	"recruitflow/internal/errors"
	"recruitflow/internal/extract"
)

// resolveVocabulary returns the skill vocabulary for extraction: the
// configured vocabulary file wins over the inline list, which falls
// back to the built-in default.
func resolveVocabulary(cfg *config.Config) ([]string, error) {
	if cfg.Pipeline.VocabularyFile != "" {
		vocab, err := extract.LoadVocabularyFile(cfg.Pipeline.VocabularyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load vocabulary file: %w", err)
		}
		return vocab, nil
	}
	if len(cfg.Pipeline.Vocabulary) > 0 {
		return cfg.Pipeline.Vocabulary, nil
	}
	return extract.DefaultVocabulary(), nil
}

// buildExtractor creates the skill extractor selected by configuration.
// The AI extractor still constrains its output to the vocabulary, so
// both modes honor the closed-vocabulary contract.
func buildExtractor(cfg *config.Config, logger *errors.Logger) (extract.Extractor, *extract.VocabularyExtractor, error) {
	vocab, err := resolveVocabulary(cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.AI.Enabled {
		gemini, err := extract.NewGeminiExtractor(cfg.AI, vocab, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create AI extractor: %w", err)
		}
		return gemini, nil, nil
	}

	vocabExtractor := extract.NewVocabularyExtractor(vocab)
	return vocabExtractor, vocabExtractor, nil
}
