package transcript

import (
	"context"
	"fmt"
	"strings"
)

// Cue is a single timed text fragment as returned by a transcript backend.
type Cue struct {
	Text     string
	Start    float64
	Duration float64
}

// Strategy captures one transcript acquisition implementation
// (innertube, Data API captions, etc.).
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, videoID string) ([]Cue, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("transcript strategy %s is not registered", name)
}

// Flatten joins cue texts into a single readable transcript. Cue order is
// preserved; cues are separated by newlines.
func Flatten(cues []Cue) string {
	var sb strings.Builder
	for _, cue := range cues {
		text := strings.TrimSpace(cue.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// Resolver turns the cues of exactly one strategy into transcript text.
// It never falls back to another strategy within a resolution.
type Resolver struct {
	strategy Strategy
}

// NewResolver wires the strategy picked at startup.
func NewResolver(strategy Strategy) *Resolver {
	return &Resolver{strategy: strategy}
}

// Resolve fetches and flattens the transcript for a video. A single failed
// attempt is terminal for that video in that invocation.
func (r *Resolver) Resolve(ctx context.Context, videoID string) (string, error) {
	cues, err := r.strategy.Fetch(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("getting video transcription: %w", err)
	}

	text := Flatten(cues)
	if text == "" {
		return "", fmt.Errorf("no transcription available for video %s", videoID)
	}

	return text, nil
}
