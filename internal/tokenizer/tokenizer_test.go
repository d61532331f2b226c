package tokenizer

import "testing"

func TestNewCounterUsesModelEncodingForKnownModels(t *testing.T) {
	counter, model, err := NewCounter(Config{Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if counter == nil {
		t.Fatalf("expected non-nil counter")
	}
	if model != "gpt-4o" {
		t.Fatalf("expected model gpt-4o, got %q", model)
	}
	tokens, err := counter.CountString("hello world")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens <= 0 {
		t.Fatalf("expected positive token count, got %d", tokens)
	}
}

func TestNewCounterFallsBackForLocalModels(t *testing.T) {
	counter, model, err := NewCounter(Config{Model: "codegemma:latest"})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if model != defaultEncodingName {
		t.Fatalf("expected fallback encoding %q, got %q", defaultEncodingName, model)
	}
	if counter.Name() != defaultEncodingName {
		t.Fatalf("expected counter named %q, got %q", defaultEncodingName, counter.Name())
	}
}

func TestNewCounterDefaultsEmptyModel(t *testing.T) {
	counter, model, err := NewCounter(Config{})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	if model != defaultModel {
		t.Fatalf("expected default model %q, got %q", defaultModel, model)
	}
	tokens, err := counter.CountString("")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if tokens != 0 {
		t.Fatalf("expected zero tokens for empty input, got %d", tokens)
	}
}

func TestCountStringGrowsWithInput(t *testing.T) {
	counter, _, err := NewCounter(Config{Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("NewCounter error: %v", err)
	}
	shortCount, err := counter.CountString("one")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	longCount, err := counter.CountString("one two three four five six seven eight")
	if err != nil {
		t.Fatalf("CountString error: %v", err)
	}
	if longCount <= shortCount {
		t.Fatalf("expected longer input to count more tokens: short=%d long=%d", shortCount, longCount)
	}
}
