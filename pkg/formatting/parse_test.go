package formatting_test

import (
	"errors"
	"testing"

	"github.com/jlambert/stancewatch/pkg/formatting"
)

type payload struct {
	Relevant bool    `json:"relevant"`
	Score    float64 `json:"score"`
}

func TestParseDirect(t *testing.T) {
	got, err := formatting.Parse[payload](`{"relevant": true, "score": 0.9}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !got.Relevant || got.Score != 0.9 {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestParseCodeFence(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"json fence", "```json\n{\"relevant\": true, \"score\": 0.5}\n```"},
		{"bare fence", "```\n{\"relevant\": true, \"score\": 0.5}\n```"},
		{"fence with preamble", "Here is the result:\n```json\n{\"relevant\": true, \"score\": 0.5}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[payload](tt.content)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if !got.Relevant || got.Score != 0.5 {
				t.Errorf("unexpected result: %+v", got)
			}
		})
	}
}

func TestParseFailure(t *testing.T) {
	_, err := formatting.Parse[payload]("this is not json")
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Errorf("expected ErrParseFailed, got %v", err)
	}
}
