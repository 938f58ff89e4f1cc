package config

import "testing"

func TestValidateDefaultConfigOK(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsEmptyDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "  "
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateAcceptsEachLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := DefaultConfig()
		cfg.LogLevel = level
		if err := Validate(cfg); err != nil {
			t.Fatalf("level %q: unexpected error: %v", level, err)
		}
	}
}
