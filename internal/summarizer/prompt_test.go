package summarizer

import (
	"strings"
	"testing"
)

func TestLengthPhrase(t *testing.T) {
	tests := []struct {
		length Length
		want   string
	}{
		{LengthShort, "2–3 sentences"},
		{LengthMedium, "1–2 paragraphs"},
		{LengthDetailed, "a detailed summary"},
	}

	for _, test := range tests {
		t.Run(string(test.length), func(t *testing.T) {
			if got := test.length.Phrase(); got != test.want {
				t.Fatalf("unexpected phrase: got %q want %q", got, test.want)
			}
		})
	}
}

func TestParseLength(t *testing.T) {
	for _, raw := range []string{"short", " Medium ", "DETAILED"} {
		if _, err := ParseLength(raw); err != nil {
			t.Fatalf("expected %q to parse, got %v", raw, err)
		}
	}

	if _, err := ParseLength("huge"); err == nil {
		t.Fatalf("expected unknown length to fail")
	}
}

func TestInstructionScope(t *testing.T) {
	single := Instruction(LengthShort, ScopeSingle)
	if single != "Summarize this text in 2–3 sentences." {
		t.Fatalf("unexpected single instruction: %q", single)
	}

	overall := Instruction(LengthDetailed, ScopeOverall)
	if !strings.Contains(overall, "overall summary") || !strings.Contains(overall, "a detailed summary") {
		t.Fatalf("unexpected overall instruction: %q", overall)
	}
}

func TestUserPrompt(t *testing.T) {
	in := Input{Instruction: "Summarize.", Text: "body"}
	if got := in.UserPrompt(); got != "Summarize.\n\nbody" {
		t.Fatalf("unexpected user prompt: %q", got)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{Provider: ProviderOpenAI}); err == nil {
		t.Fatalf("expected missing API key to fail")
	}

	if _, err := New(Config{Provider: "nope", APIKey: "k"}); err == nil {
		t.Fatalf("expected unknown provider to fail")
	}

	s, err := New(Config{Provider: ProviderAnthropic, APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*AnthropicSummarizer); !ok {
		t.Fatalf("expected anthropic summarizer, got %T", s)
	}
}
