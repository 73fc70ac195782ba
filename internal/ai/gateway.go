// Package ai defines the contract of the remote analysis arm and the gateway
// that walks an ordered list of provider models until one answers.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/hr-assist/internal/logger"
	"github.com/spigell/hr-assist/internal/utils"
	"go.uber.org/zap"
)

// ErrMalformedResponse marks a provider reply that could not be validated or
// decoded into the expected result.
var ErrMalformedResponse = errors.New("malformed remote response")

// Generator produces raw text for a prompt using the named model.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
	Provider() string
}

// Attempt records one failed model call.
type Attempt struct {
	Model string
	Err   error
}

// ExhaustedError is returned when every configured model failed.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all models failed"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Model, a.Err))
	}
	return fmt.Sprintf("all %d models failed: %s", len(e.Attempts), strings.Join(parts, "; "))
}

// Unwrap returns the cause of the last attempt.
func (e *ExhaustedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// Gateway tries models strictly in order and returns on the first reply that
// decodes. Calls are never issued in parallel.
type Gateway struct {
	generator Generator
	models    []string
	logger    *zap.Logger
	maxLogLen int
}

const defaultMaxLogLength = 200

func NewGateway(generator Generator, models []string, log *zap.Logger, maxLogLength int) (*Gateway, error) {
	if generator == nil {
		return nil, errors.New("generator is required")
	}

	cleaned := make([]string, 0, len(models))
	seen := make(map[string]struct{}, len(models))
	for _, m := range models {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		cleaned = append(cleaned, m)
	}
	if len(cleaned) == 0 {
		return nil, errors.New("at least one model is required")
	}

	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Gateway{
		generator: generator,
		models:    cleaned,
		logger:    logger.WithFields(log, zap.String(logger.FieldProvider, generator.Provider())),
		maxLogLen: maxLogLength,
	}, nil
}

// Models returns the model candidates in trial order.
func (g *Gateway) Models() []string {
	return append([]string(nil), g.models...)
}

// Invoke sends prompt to each model until decode accepts a reply. It returns
// the model that answered. A canceled ctx stops the walk and is returned
// as is; otherwise the error is an *ExhaustedError.
func (g *Gateway) Invoke(ctx context.Context, prompt string, decode func(raw string) error) (string, error) {
	var attempts []Attempt

	for _, model := range g.models {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		log := logger.WithFields(g.logger, zap.String(logger.FieldModel, model))
		log.Debug("remote generate request",
			zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
			zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
		)

		raw, err := g.generator.Generate(ctx, model, prompt)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			log.Warn("model call failed, trying next", zap.Error(err))
			attempts = append(attempts, Attempt{Model: model, Err: err})
			continue
		}

		log.Debug("remote generate response",
			zap.Int("response_length", utf8.RuneCountInString(raw)),
			zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
		)

		if err := decode(raw); err != nil {
			if !errors.Is(err, ErrMalformedResponse) {
				err = fmt.Errorf("%w: %w", ErrMalformedResponse, err)
			}
			log.Warn("model reply rejected, trying next", zap.Error(err))
			attempts = append(attempts, Attempt{Model: model, Err: err})
			continue
		}

		return model, nil
	}

	return "", &ExhaustedError{Attempts: attempts}
}
