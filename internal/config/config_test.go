package config

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("ARK_API_KEY", "")
	t.Setenv("ARK_MODEL", "")
	t.Setenv("ARK_TEMPERATURE", "")
	t.Setenv("ARK_STREAM", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("SESSION_TTL_HOURS", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.AI.Enabled() {
		t.Error("AI should be disabled without credentials")
	}
	if !cfg.AI.StreamResponse {
		t.Error("streaming should default on")
	}
	if cfg.AI.StrategyMaxTokens != 200 || cfg.AI.TaglineMaxTokens != 50 || cfg.AI.ChatMaxTokens != 500 {
		t.Errorf("unexpected token defaults: %+v", cfg.AI)
	}
	if cfg.Database.Enabled() {
		t.Error("database should be disabled without DATABASE_URL")
	}
	if cfg.Auth.TokenTTL != 72*time.Hour {
		t.Errorf("default TTL = %v", cfg.Auth.TokenTTL)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestPortForms(t *testing.T) {
	tests := []struct {
		port    string
		want    string
		wantErr bool
	}{
		{"9000", ":9000", false},
		{":9000", ":9000", false},
		{"127.0.0.1:9000", "127.0.0.1:9000", false},
		{"not a port", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv("PORT", tt.port)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load err: %v", err)
			}
			if cfg.Server.Addr != tt.want {
				t.Fatalf("addr = %q, want %q", cfg.Server.Addr, tt.want)
			}
		})
	}
}

func TestAIConfigEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("ARK_MODEL", "doubao-pro")
	t.Setenv("ARK_TEMPERATURE", "0.7")
	t.Setenv("ARK_STREAM", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.AI.Enabled() {
		t.Fatal("AI should be enabled")
	}
	if cfg.AI.StreamResponse {
		t.Error("ARK_STREAM=false should disable streaming")
	}
	if cfg.AI.Temperature == nil || *cfg.AI.Temperature != 0.7 {
		t.Errorf("temperature = %v", cfg.AI.Temperature)
	}
}

func TestChatTokenLimitAppliedToModel(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AI_CHAT_MAX_TOKENS", "750")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	limit := cfg.AI.chatTokenLimit()
	if limit == nil || *limit != 750 {
		t.Fatalf("chat token limit = %v, want 750", limit)
	}

	// A disabled bound stays off the model config entirely.
	if got := (AIConfig{ChatMaxTokens: 0}).chatTokenLimit(); got != nil {
		t.Fatalf("zero bound should yield nil, got %v", got)
	}
}

func TestInvalidNumericEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_TTL_HOURS", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric SESSION_TTL_HOURS")
	}
}
