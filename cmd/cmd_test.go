package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hr-assist/internal/analysis"
	"github.com/spigell/hr-assist/internal/failover"
)

func testConfig(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	if yaml != "" {
		v.SetConfigType("yaml")
		if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
			t.Fatalf("read config: %v", err)
		}
	}
	return decodeConfig(v)
}

func TestDecodeConfigDefaults(t *testing.T) {
	cfg, err := testConfig(t, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Failover.Threshold != failover.DefaultThreshold {
		t.Fatalf("unexpected threshold %d", cfg.Failover.Threshold)
	}
	if cfg.Analysis != analysis.DefaultOptions() {
		t.Fatalf("unexpected analysis options %+v", cfg.Analysis)
	}
	if cfg.AI.Timeout != time.Minute {
		t.Fatalf("unexpected ai timeout %s", cfg.AI.Timeout)
	}
	if len(cfg.AI.Models) == 0 {
		t.Fatal("expected default models")
	}
}

func TestDecodeConfigOverrides(t *testing.T) {
	cfg, err := testConfig(t, `
server:
  addr: 127.0.0.1:9090
  write-timeout: 2m
ai:
  models: [gemini-2.5-flash]
  timeout: 5s
failover:
  threshold: 5
  journal: ""
analysis:
  name-length: 20
  search-results: 3
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9090" || cfg.Server.WriteTimeout != 2*time.Minute {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if len(cfg.AI.Models) != 1 || cfg.AI.Models[0] != "gemini-2.5-flash" || cfg.AI.Timeout != 5*time.Second {
		t.Fatalf("unexpected ai config %+v", cfg.AI)
	}
	if cfg.Failover.Threshold != 5 || cfg.Failover.Journal != "" {
		t.Fatalf("unexpected failover config %+v", cfg.Failover)
	}
	if cfg.Analysis.Limits.NameLength != 20 || cfg.Analysis.SearchResults != 3 {
		t.Fatalf("unexpected analysis config %+v", cfg.Analysis)
	}
}

func TestDecodeConfigValidation(t *testing.T) {
	tests := map[string]string{
		"zero threshold":   "failover:\n  threshold: 0\n",
		"unknown provider": "ai:\n  provider: openai\n",
		"empty addr":       "server:\n  addr: \"\"\n",
	}

	for name, yaml := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := testConfig(t, yaml); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestNewScreeningWithoutRemote(t *testing.T) {
	cfg, err := testConfig(t, "ai:\n  enabled: false\nfailover:\n  journal: \"\"\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc, err := newScreening(context.Background(), cfg, newRecorder(cfg.Metrics), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.RemoteConfigured() {
		t.Fatal("remote must not be configured when ai is disabled")
	}

	result := svc.ResumeFit(context.Background(), analysis.ResumeFitRequest{ResumeText: "Jane Doe\nGo developer"})
	if result.Mode != analysis.ModeManual {
		t.Fatalf("expected manual mode, got %s", result.Mode)
	}
}

func TestNewScreeningMissingKey(t *testing.T) {
	for _, key := range apiKeyEnv {
		t.Setenv(key, "")
	}
	cfg, err := testConfig(t, "failover:\n  journal: \"\"\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc, err := newScreening(context.Background(), cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.RemoteConfigured() {
		t.Fatal("remote must not be configured without an api key")
	}
}

func TestReadOptionalInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("Jane Doe"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	newCmd := func(value string) *cobra.Command {
		c := &cobra.Command{}
		c.Flags().String("resume", "", "")
		if err := c.Flags().Set("resume", value); err != nil {
			t.Fatalf("set flag: %v", err)
		}
		return c
	}

	got, err := readOptionalInput(newCmd(path), "resume")
	if err != nil || got != "Jane Doe" {
		t.Fatalf("unexpected result %q, %v", got, err)
	}

	c := newCmd("-")
	c.SetIn(bytes.NewBufferString("from stdin"))
	got, err = readOptionalInput(c, "resume")
	if err != nil || got != "from stdin" {
		t.Fatalf("unexpected stdin result %q, %v", got, err)
	}

	got, err = readOptionalInput(newCmd(""), "resume")
	if err != nil || got != "" {
		t.Fatalf("unexpected empty result %q, %v", got, err)
	}

	if _, err := readInput(newCmd(""), "resume"); err == nil {
		t.Fatal("expected error for empty required input")
	}

	if _, err := readOptionalInput(newCmd(filepath.Join(t.TempDir(), "missing")), "resume"); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing file error, got %v", err)
	}
}

func TestRequestFailover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/failover/status":
			w.Write([]byte(`{"success":true,"status":{"mode":"disabled","consecutive_failures":3,"threshold":3}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"message":"not found"}`))
		}
	}))
	defer srv.Close()

	status, err := requestFailover(context.Background(), srv.Client(), srv.URL+"/api/failover/status", http.MethodGet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Mode != failover.StateDisabled || status.ConsecutiveFailures != 3 {
		t.Fatalf("unexpected status %+v", status)
	}

	if _, err := requestFailover(context.Background(), srv.Client(), srv.URL+"/other", http.MethodPost); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected error with server message, got %v", err)
	}
}
