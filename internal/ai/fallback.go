package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// fallbackNarrator calls primary first and, if that fails, secondary. Which
// provider is primary is decided in main.go.
type fallbackNarrator struct {
	primary   Narrator
	secondary Narrator
	logger    *slog.Logger
}

// NewFallbackNarrator returns a Narrator that calls primary and, on failure,
// falls back to secondary. Either may be nil: a nil primary goes straight to
// secondary, and a nil secondary returns the primary's error.
func NewFallbackNarrator(primary, secondary Narrator, logger *slog.Logger) Narrator {
	return &fallbackNarrator{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Summarise tries the primary and then the secondary.
func (f *fallbackNarrator) Summarise(ctx context.Context, in NarrativeInput) (Narrative, error) {
	if f.primary != nil {
		n, err := f.primary.Summarise(ctx, in)
		if err == nil {
			return n, nil
		}
		f.logger.Warn("ai: primary narrator failed, trying secondary",
			"error", err,
			"actions", len(in.Actions),
		)
		if f.secondary == nil {
			return Narrative{}, fmt.Errorf("ai: primary failed and no secondary configured: %w", err)
		}
	}
	if f.secondary == nil {
		return Narrative{}, errors.New("ai: no narrator configured")
	}
	return f.secondary.Summarise(ctx, in)
}
