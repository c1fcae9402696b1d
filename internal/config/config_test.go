package config

import (
	"os"
	"testing"
	"time"
)

func TestValidateRequiresProviderKey(t *testing.T) {
	cfg := &Config{AIProvider: "anthropic", BotEnabled: true, GeneratorMode: true}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing Anthropic key")
	}

	cfg.AnthropicAPIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg = &Config{AIProvider: "openai", BotEnabled: true, GeneratorMode: true}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing OpenAI key")
	}
}

func TestValidateAutoPostNeedsBearerToken(t *testing.T) {
	cfg := &Config{
		AIProvider:      "anthropic",
		AnthropicAPIKey: "key",
		BotEnabled:      true,
		GeneratorMode:   false,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing bearer token in auto-post mode")
	}

	cfg.TwitterBearerToken = "token"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := &Config{AIProvider: "gemini"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestValidateDisabledBotSkipsKeyChecks(t *testing.T) {
	cfg := &Config{AIProvider: "anthropic", BotEnabled: false}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error for disabled bot: %v", err)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	os.Setenv("MEMETIDE_TEST_STR", "hello")
	os.Setenv("MEMETIDE_TEST_INT", "42")
	os.Setenv("MEMETIDE_TEST_BOOL", "false")
	os.Setenv("MEMETIDE_TEST_DUR", "90s")
	os.Setenv("MEMETIDE_TEST_SLICE", "a, b ,c")
	defer func() {
		for _, k := range []string{"MEMETIDE_TEST_STR", "MEMETIDE_TEST_INT",
			"MEMETIDE_TEST_BOOL", "MEMETIDE_TEST_DUR", "MEMETIDE_TEST_SLICE"} {
			os.Unsetenv(k)
		}
	}()

	if got := getEnv("MEMETIDE_TEST_STR", "default"); got != "hello" {
		t.Errorf("getEnv = %q", got)
	}
	if got := getEnv("MEMETIDE_TEST_MISSING", "default"); got != "default" {
		t.Errorf("getEnv default = %q", got)
	}
	if got := getEnvAsInt("MEMETIDE_TEST_INT", 0); got != 42 {
		t.Errorf("getEnvAsInt = %d", got)
	}
	if got := getEnvAsBool("MEMETIDE_TEST_BOOL", true); got {
		t.Error("getEnvAsBool = true, want false")
	}
	if got := getEnvAsDuration("MEMETIDE_TEST_DUR", time.Second); got != 90*time.Second {
		t.Errorf("getEnvAsDuration = %v", got)
	}
	got := getEnvAsSlice("MEMETIDE_TEST_SLICE", nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("getEnvAsSlice = %v", got)
	}
}
