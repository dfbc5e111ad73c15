package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZaguanLabs/cloudtranslate"
)

func runMock(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(append([]string{"--backend", "mock", "--project-id", "test-project"}, args...), &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"version"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "cloudtranslate") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_MissingProjectID(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--backend", "mock", "languages"}, &stdout, &stderr)

	var cfgErr *cloudtranslate.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got: %v", err)
	}
}

func TestRun_UnknownBackend(t *testing.T) {
	_, err := runMock(t, "--backend", "deepl", "languages")
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("expected unknown backend error, got: %v", err)
	}
}

func TestRun_Languages(t *testing.T) {
	out, err := runMock(t, "languages")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "de\tGerman\n") || !strings.Contains(out, "af\tAfrikaans\n") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRun_LocalizedInvalidTarget(t *testing.T) {
	_, err := runMock(t, "localized", "german")

	var valErr *cloudtranslate.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError, got: %v", err)
	}
}

func TestRun_Translate(t *testing.T) {
	out, err := runMock(t, "--source", "en", "--target", "es", "translate", "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "Hola\n" {
		t.Errorf("expected 'Hola', got: %q", out)
	}
}

func TestRun_TranslateBatchJSON(t *testing.T) {
	out, err := runMock(t, "--target", "es", "--json", "translate", "Hello", "World")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var trs []cloudtranslate.Translation
	if err := json.Unmarshal([]byte(out), &trs); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(trs) != 2 || trs[0].Text != "Hola" || trs[1].Text != "Mundo" {
		t.Errorf("unexpected translations: %+v", trs)
	}
}

func TestRun_TranslateSameLanguage(t *testing.T) {
	_, err := runMock(t, "translate", "Hello")

	var sameErr *cloudtranslate.SameLanguageError
	if !errors.As(err, &sameErr) {
		t.Errorf("expected SameLanguageError, got: %v", err)
	}
}

func TestRun_Cheapskate(t *testing.T) {
	long := strings.Repeat("a", 20)

	_, err := runMock(t, "--target", "es", "--cheapskate-count", "10", "translate", long)
	var cheapErr *cloudtranslate.CheapskateError
	if !errors.As(err, &cheapErr) {
		t.Fatalf("expected CheapskateError, got: %v", err)
	}

	out, err := runMock(t, "--target", "es", "--cheapskate-count", "10", "--no-cheapskate", "translate", long)
	if err != nil {
		t.Fatalf("unexpected error with --no-cheapskate: %v", err)
	}
	if out != "["+long+"]\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRun_Detect(t *testing.T) {
	out, err := runMock(t, "detect", "Hallo Welt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(out, "de\t") {
		t.Errorf("expected German detection, got: %q", out)
	}
}

func TestRun_Targets(t *testing.T) {
	out, err := runMock(t, "targets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "af\nde\nen\nes\nfr\n" {
		t.Errorf("unexpected targets: %q", out)
	}

	if _, err := runMock(t, "targets", "--check", "es"); err != nil {
		t.Errorf("es should be a valid target: %v", err)
	}

	_, err = runMock(t, "targets", "--check", "xx")
	var unknownErr *cloudtranslate.UnknownLanguageError
	if !errors.As(err, &unknownErr) {
		t.Errorf("expected UnknownLanguageError, got: %v", err)
	}
}

func TestRun_Sources(t *testing.T) {
	out, err := runMock(t, "--target", "de", "sources")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "fr\tFrench (de)\n") {
		t.Errorf("expected names localized for de, got: %q", out)
	}

	_, err = runMock(t, "--target", "de", "sources", "--check", "xx")
	var unknownErr *cloudtranslate.UnknownLanguageError
	if !errors.As(err, &unknownErr) {
		t.Errorf("expected UnknownLanguageError, got: %v", err)
	}
}

func TestRun_ConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("target: de\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLOUDTRANSLATE_PROJECTID", "from-env")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--backend", "mock", "--config", configPath, "sources"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "(de)") {
		t.Errorf("target from config file not applied: %q", stdout.String())
	}
}

func TestRun_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("CLOUDTRANSLATE_PROJECTID=from-env-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLOUDTRANSLATE_PROJECTID", "")
	os.Unsetenv("CLOUDTRANSLATE_PROJECTID")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"--backend", "mock", "--env", envPath, "languages"}, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := run([]string{"--backend", "mock", "--env", filepath.Join(dir, "missing.env"), "languages"}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "env file") {
		t.Errorf("expected env file error, got: %v", err)
	}
}

func TestRun_CacheFile(t *testing.T) {
	cacheFile := filepath.Join(t.TempDir(), "cache.json")

	if _, err := runMock(t, "--target", "es", "--cache-file", cacheFile, "translate", "Hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	if !strings.Contains(string(data), cloudtranslate.KeyPrefix+"translate_") {
		t.Errorf("cache file should contain the translation entry: %s", data)
	}

	// Loading an existing file must succeed
	if _, err := runMock(t, "--target", "es", "--cache-file", cacheFile, "translate", "World"); err != nil {
		t.Fatalf("unexpected error on reload: %v", err)
	}
}

func TestRun_CacheFileNeedsMemoryStore(t *testing.T) {
	cacheFile := filepath.Join(t.TempDir(), "cache.json")

	_, err := runMock(t, "--cache-store", "ristretto", "--cache-file", cacheFile, "languages")
	if err == nil || !strings.Contains(err.Error(), "memory cache store") {
		t.Errorf("expected memory store error, got: %v", err)
	}
}

func TestRun_RistrettoStoreWithMiddleware(t *testing.T) {
	out, err := runMock(t, "--cache-store", "ristretto", "--rate-limit", "600", "--breaker-failures", "3", "--target", "es", "translate", "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Hola\n" {
		t.Errorf("expected 'Hola', got: %q", out)
	}
}

func TestRun_RedisStoreNeedsURL(t *testing.T) {
	_, err := runMock(t, "--cache-store", "redis", "languages")
	if err == nil || !strings.Contains(err.Error(), "--redis-url") {
		t.Errorf("expected redis url error, got: %v", err)
	}
}

func TestRun_InvalidLogLevel(t *testing.T) {
	_, err := runMock(t, "--log-level", "loud", "languages")
	if err == nil {
		t.Error("expected error for invalid log level")
	}
}
