package extract

import (
	"context"
	"testing"
)

func TestVocabularyExtractorExtract(t *testing.T) {
	tests := []struct {
		name       string
		vocabulary []string
		text       string
		expected   []string
	}{
		{
			name:     "matches are case insensitive",
			text:     "Experienced in PYTHON and sql, some docker too",
			expected: []string{"Python", "SQL", "Docker"},
		},
		{
			name:     "results follow vocabulary order not text order",
			text:     "Docker first, then SQL, finally Python",
			expected: []string{"Python", "SQL", "Docker"},
		},
		{
			name:     "substring match inside larger words",
			text:     "worked with RESTful APIs",
			expected: []string{"API"},
		},
		{
			name:     "multi word tags",
			text:     "Background in machine learning and data analysis",
			expected: []string{"Machine Learning", "Data Analysis"},
		},
		{
			name:     "no recognized skills",
			text:     "Sales and marketing background",
			expected: nil,
		},
		{
			name:     "empty text",
			text:     "",
			expected: nil,
		},
		{
			name:       "custom vocabulary",
			vocabulary: []string{"Go", "Rust"},
			text:       "Go and rust systems programming",
			expected:   []string{"Go", "Rust"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewVocabularyExtractor(tt.vocabulary)

			got, err := extractor.Extract(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Extract() unexpected error: %v", err)
			}

			if len(got) != len(tt.expected) {
				t.Fatalf("Extract() = %v, expected %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Extract()[%d] = %q, expected %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestNewVocabularyExtractorDefaults(t *testing.T) {
	extractor := NewVocabularyExtractor(nil)

	vocab := extractor.Vocabulary()
	expected := DefaultVocabulary()
	if len(vocab) != len(expected) {
		t.Fatalf("Vocabulary() = %v, expected default %v", vocab, expected)
	}
	for i := range vocab {
		if vocab[i] != expected[i] {
			t.Errorf("Vocabulary()[%d] = %q, expected %q", i, vocab[i], expected[i])
		}
	}
}

func TestSetVocabulary(t *testing.T) {
	extractor := NewVocabularyExtractor(nil)

	extractor.SetVocabulary([]string{"  Kubernetes  ", "", "Terraform", "   "})

	vocab := extractor.Vocabulary()
	if len(vocab) != 2 || vocab[0] != "Kubernetes" || vocab[1] != "Terraform" {
		t.Fatalf("SetVocabulary() produced %v, expected [Kubernetes Terraform]", vocab)
	}

	// The old vocabulary must no longer match
	got, err := extractor.Extract(context.Background(), "Python and kubernetes")
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "Kubernetes" {
		t.Errorf("Extract() after SetVocabulary = %v, expected [Kubernetes]", got)
	}
}

func TestVocabularyReturnsCopy(t *testing.T) {
	extractor := NewVocabularyExtractor([]string{"Python", "SQL"})

	vocab := extractor.Vocabulary()
	vocab[0] = "mutated"

	fresh := extractor.Vocabulary()
	if fresh[0] != "Python" {
		t.Errorf("Vocabulary() copy mutated the extractor state: %v", fresh)
	}
}
