package config

import (
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort == "" {
		t.Fatalf("no default HTTP port")
	}
	if cfg.DB.Host == "" || cfg.DB.Database == "" {
		t.Fatalf("no database defaults: %+v", cfg.DB)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestDatabaseURLEscapesPassword(t *testing.T) {
	cfg := &Config{}
	cfg.DB.Host = "db"
	cfg.DB.Port = "5432"
	cfg.DB.User = "desk"
	cfg.DB.Password = "p@ss/word"
	cfg.DB.Database = "desk_service"
	cfg.DB.SSLMode = "disable"

	got := cfg.DatabaseURL()
	want := "postgres://desk:p%40ss%2Fword@db:5432/desk_service?sslmode=disable"
	if got != want {
		t.Fatalf("DatabaseURL = %q, want %q", got, want)
	}
}

func TestSplitBrokers(t *testing.T) {
	got := splitBrokers(" kafka-1:9092, ,kafka-2:9092 ")
	if len(got) != 2 || got[0] != "kafka-1:9092" || got[1] != "kafka-2:9092" {
		t.Fatalf("splitBrokers = %v", got)
	}
	if got := splitBrokers(""); got != nil {
		t.Fatalf("empty input = %v, want nil", got)
	}
}

func TestFirstEnv(t *testing.T) {
	t.Setenv("DESK_TEST_SECOND", "8099")
	if got := firstEnv("DESK_TEST_FIRST", "DESK_TEST_SECOND", "8086"); got != "8099" {
		t.Fatalf("firstEnv = %q, want the first set variable", got)
	}
	if got := firstEnv("DESK_TEST_NONE", "8086"); got != "8086" {
		t.Fatalf("firstEnv fallback = %q", got)
	}
}
