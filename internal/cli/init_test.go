package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("BUDGETWISE_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BUDGETWISE_TEST_VALUE", "")
	os.Unsetenv("BUDGETWISE_TEST_VALUE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("BUDGETWISE_TEST_VALUE"); got != "from-file" {
		t.Errorf("value = %q", got)
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}

func TestLoadEnvFileKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("PORT=9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "8081")

	if err := LoadEnvFile(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("PORT"); got != "8081" {
		t.Errorf("PORT = %q, environment must win over the file", got)
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DATA_BACKEND", "memory")
	if _, err := LoadAndValidateConfig(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	t.Setenv("PORT", "not-a-port")
	_, err := LoadAndValidateConfig()
	if err == nil || !strings.Contains(err.Error(), "invalid port") {
		t.Fatalf("err = %v", err)
	}
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := SetupLogger("debug")
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}
	if logger.Component() != "app" {
		t.Errorf("component = %q", logger.Component())
	}
}

func TestGracefulShutdownFollowsParent(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := GracefulShutdown(parent, SetupLogger("error"))
	defer stop()

	cancel()
	<-ctx.Done()
}
