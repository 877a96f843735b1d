// Package extract maps free text (resumes, job descriptions) to
// recognized skill tags. The default implementation is a closed
// vocabulary substring matcher; an LLM-backed implementation can be
// substituted behind the same interface without touching the pipeline.
package extract

import (
	"context"
	"strings"
	"sync"
)

// Extractor maps free text to a set of recognized skill tags.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// DefaultVocabulary is the built-in skill vocabulary. Order matters:
// extracted tags are reported in vocabulary order.
func DefaultVocabulary() []string {
	return []string{
		"Python",
		"Java",
		"Machine Learning",
		"Data Analysis",
		"Cloud",
		"SQL",
		"API",
		"Docker",
	}
}

// VocabularyExtractor recognizes skills by case-insensitive substring
// search against a fixed ordered vocabulary. No tokenization, no fuzzy
// matching. The vocabulary can be swapped at runtime (see Watcher).
type VocabularyExtractor struct {
	mu         sync.RWMutex
	vocabulary []string
	lowered    []string
}

// Ensure VocabularyExtractor implements Extractor
var _ Extractor = (*VocabularyExtractor)(nil)

// NewVocabularyExtractor creates an extractor over the given
// vocabulary. An empty vocabulary falls back to the default.
func NewVocabularyExtractor(vocabulary []string) *VocabularyExtractor {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary()
	}
	e := &VocabularyExtractor{}
	e.SetVocabulary(vocabulary)
	return e
}

// Extract returns every vocabulary tag that appears as a
// case-insensitive substring of text, in vocabulary order. Empty input
// yields an empty result. The error return exists only to satisfy the
// Extractor interface; this implementation never fails.
func (e *VocabularyExtractor) Extract(_ context.Context, text string) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	loweredText := strings.ToLower(text)
	var tags []string
	for i, tag := range e.vocabulary {
		if strings.Contains(loweredText, e.lowered[i]) {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// SetVocabulary replaces the vocabulary. Blank entries are dropped.
func (e *VocabularyExtractor) SetVocabulary(vocabulary []string) {
	cleaned := make([]string, 0, len(vocabulary))
	lowered := make([]string, 0, len(vocabulary))
	for _, tag := range vocabulary {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		cleaned = append(cleaned, tag)
		lowered = append(lowered, strings.ToLower(tag))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.vocabulary = cleaned
	e.lowered = lowered
}

// Vocabulary returns a copy of the current vocabulary.
func (e *VocabularyExtractor) Vocabulary() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	vocab := make([]string, len(e.vocabulary))
	copy(vocab, e.vocabulary)
	return vocab
}
