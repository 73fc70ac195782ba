package ai

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubGenerator struct {
	replies map[string]string
	errs    map[string]error
	calls   []string
	onCall  func()
}

func (s *stubGenerator) Generate(_ context.Context, model, _ string) (string, error) {
	s.calls = append(s.calls, model)
	if s.onCall != nil {
		s.onCall()
	}
	if err := s.errs[model]; err != nil {
		return "", err
	}
	return s.replies[model], nil
}

func (s *stubGenerator) Provider() string { return "stub" }

func acceptOK(raw string) error {
	if raw != "ok" {
		return errors.New("unexpected body")
	}
	return nil
}

func TestGatewayReturnsFirstSuccess(t *testing.T) {
	gen := &stubGenerator{
		errs:    map[string]error{"a": errors.New("boom")},
		replies: map[string]string{"b": "ok", "c": "ok"},
	}

	gw, err := NewGateway(gen, []string{"a", "b", "c"}, zap.NewNop(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	model, err := gw.Invoke(context.Background(), "prompt", acceptOK)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != "b" {
		t.Fatalf("expected model b, got %q", model)
	}
	if len(gen.calls) != 2 {
		t.Fatalf("expected 2 calls, got %v", gen.calls)
	}
}

func TestGatewayMalformedMovesOn(t *testing.T) {
	gen := &stubGenerator{replies: map[string]string{"a": "garbage", "b": "ok"}}
	gw, _ := NewGateway(gen, []string{"a", "b"}, nil, 0)

	model, err := gw.Invoke(context.Background(), "prompt", acceptOK)
	if err != nil || model != "b" {
		t.Fatalf("expected model b, got %q (%v)", model, err)
	}
}

func TestGatewayExhausted(t *testing.T) {
	last := errors.New("last failure")
	gen := &stubGenerator{
		errs:    map[string]error{"b": last},
		replies: map[string]string{"a": "garbage"},
	}

	core, observed := observer.New(zapcore.WarnLevel)
	gw, _ := NewGateway(gen, []string{"a", "b"}, zap.New(core), 0)

	_, err := gw.Invoke(context.Background(), "prompt", acceptOK)

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if len(exhausted.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(exhausted.Attempts))
	}
	if !errors.Is(exhausted.Attempts[0].Err, ErrMalformedResponse) {
		t.Fatalf("expected first attempt to be malformed, got %v", exhausted.Attempts[0].Err)
	}
	if !errors.Is(err, last) {
		t.Fatalf("expected error to unwrap to last cause")
	}
	if observed.Len() != 2 {
		t.Fatalf("expected 2 warnings, got %d", observed.Len())
	}
	if got := observed.All()[0].ContextMap()["ai_provider"]; got != "stub" {
		t.Fatalf("expected provider field, got %v", got)
	}
}

func TestGatewayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &stubGenerator{
		errs:   map[string]error{"a": errors.New("canceled upstream")},
		onCall: cancel,
	}
	gw, _ := NewGateway(gen, []string{"a", "b"}, nil, 0)

	_, err := gw.Invoke(ctx, "prompt", acceptOK)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("expected a single call, got %v", gen.calls)
	}
}

func TestNewGatewayValidation(t *testing.T) {
	if _, err := NewGateway(nil, []string{"a"}, nil, 0); err == nil {
		t.Fatal("expected error for nil generator")
	}
	if _, err := NewGateway(&stubGenerator{}, []string{" ", ""}, nil, 0); err == nil {
		t.Fatal("expected error for empty model list")
	}

	gw, err := NewGateway(&stubGenerator{}, []string{"a", " a ", "b"}, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := gw.Models(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected models %v", got)
	}
}
