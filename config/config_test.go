package config

import (
	"reflect"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("CASSANDRA_HOSTS", "")
	t.Setenv("RATE_LIMIT_BURST", "")

	cfg := LoadConfig()
	if cfg.ServerPort != "8081" {
		t.Fatalf("expected default port 8081, got %s", cfg.ServerPort)
	}
	if !reflect.DeepEqual(cfg.CassandraHosts, []string{"cassandra"}) {
		t.Fatalf("unexpected default cassandra hosts: %v", cfg.CassandraHosts)
	}
	if cfg.RateLimitBurst != 100 {
		t.Fatalf("expected default burst 100, got %d", cfg.RateLimitBurst)
	}
}

func TestLoadConfigHonorsEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CASSANDRA_HOSTS", "c1, c2,,c3")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("LOG_MAX_BACKUPS", "not-a-number")

	cfg := LoadConfig()
	if cfg.ServerPort != "9090" {
		t.Fatalf("expected port override, got %s", cfg.ServerPort)
	}
	if !reflect.DeepEqual(cfg.CassandraHosts, []string{"c1", "c2", "c3"}) {
		t.Fatalf("unexpected cassandra hosts: %v", cfg.CassandraHosts)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rps 2.5, got %v", cfg.RateLimitRPS)
	}
	if cfg.LogMaxBackups != 5 {
		t.Fatalf("expected invalid int to fall back to 5, got %d", cfg.LogMaxBackups)
	}
}
