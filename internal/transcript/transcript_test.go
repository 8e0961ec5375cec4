package transcript

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubStrategy struct {
	name string
	cues []Cue
	err  error
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(_ context.Context, _ string) ([]Cue, error) {
	return s.cues, s.err
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubStrategy{name: "innertube"})

	if _, err := reg.Resolve("innertube"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if _, err := reg.Resolve("captions"); err == nil {
		t.Fatal("expected error for unregistered strategy")
	}
}

func TestFlattenPreservesOrder(t *testing.T) {
	t.Parallel()

	cues := []Cue{
		{Text: "first", Start: 0, Duration: 1.5},
		{Text: "  ", Start: 1.5, Duration: 0.5},
		{Text: "second", Start: 2, Duration: 2},
		{Text: "third", Start: 4, Duration: 1},
	}

	got := Flatten(cues)
	want := "first\nsecond\nthird"
	if got != want {
		t.Fatalf("Flatten = %q, want %q", got, want)
	}
}

func TestResolverWrapsStrategyError(t *testing.T) {
	t.Parallel()

	cause := errors.New("captions disabled")
	r := NewResolver(&stubStrategy{name: "innertube", err: cause})

	_, err := r.Resolve(context.Background(), "vid123")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("error does not wrap cause: %v", err)
	}
	if !strings.Contains(err.Error(), "captions disabled") {
		t.Fatalf("reason not embedded in error: %v", err)
	}
}

func TestResolverEmptyTranscript(t *testing.T) {
	t.Parallel()

	r := NewResolver(&stubStrategy{name: "innertube", cues: []Cue{{Text: "  "}}})

	_, err := r.Resolve(context.Background(), "vid123")
	if err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestResolverFlattens(t *testing.T) {
	t.Parallel()

	r := NewResolver(&stubStrategy{name: "innertube", cues: []Cue{
		{Text: "hello"},
		{Text: "world"},
	}})

	text, err := r.Resolve(context.Background(), "vid123")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if text != "hello\nworld" {
		t.Fatalf("unexpected transcript: %q", text)
	}
}
