package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"localhost:8000", "ftp://host", "http://", "::"} {
		cfg := Config{Service: ServiceConfig{BaseURL: raw}}
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for base_url %q", raw)
		}
	}
}

func TestValidate_NegativeTimeout(t *testing.T) {
	cfg := Config{Service: ServiceConfig{BaseURL: "http://localhost:8000", TimeoutMs: -1}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestValidate_InvalidCacheDriver(t *testing.T) {
	cfg := Config{
		Service: ServiceConfig{BaseURL: "http://localhost:8000"},
		Cache: CacheConfig{
			Enabled: true,
			Driver:  "memcached",
			Addrs:   []string{"localhost:11211"},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid cache driver")
	}

	expected := `cache.driver must be "valkey" or "redis", got "memcached"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidCacheDrivers(t *testing.T) {
	for _, driver := range []string{"valkey", "redis"} {
		t.Run("driver="+driver, func(t *testing.T) {
			cfg := Config{
				Service: ServiceConfig{BaseURL: "http://localhost:8000"},
				Cache:   CacheConfig{Enabled: true, Driver: driver, Addrs: []string{"localhost:6379"}},
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for driver %q: %v", driver, err)
			}
		})
	}
}

func TestValidate_CacheMissingAddrs(t *testing.T) {
	cfg := Config{
		Service: ServiceConfig{BaseURL: "http://localhost:8000"},
		Cache:   CacheConfig{Enabled: true, Driver: "valkey"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing cache addrs")
	}
}

func TestValidate_CacheNegativeDB(t *testing.T) {
	cfg := Config{
		Service: ServiceConfig{BaseURL: "http://localhost:8000"},
		Cache:   CacheConfig{Enabled: true, Driver: "redis", Addrs: []string{"localhost:6379"}, DB: -1},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative cache db")
	}
}

func TestValidate_DisabledCacheIgnored(t *testing.T) {
	cfg := Config{
		Service: ServiceConfig{BaseURL: "http://localhost:8000"},
		Cache:   CacheConfig{Driver: "bogus"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled cache must not be validated: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Service.BaseURL != "http://localhost:8000" {
		t.Errorf("expected default base url, got %q", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout() != 0 {
		t.Errorf("expected no timeout by default, got %v", cfg.Service.Timeout())
	}
	if cfg.Cache.Driver != "valkey" {
		t.Errorf("expected Driver=valkey, got %q", cfg.Cache.Driver)
	}
	if cfg.Cache.TTL() != 24*time.Hour {
		t.Errorf("expected TTL=24h, got %v", cfg.Cache.TTL())
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
	if cfg.Cache.Enabled {
		t.Error("cache must be disabled by default")
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("FOLDCALL_TEST_URL", "http://gpu-box:9000")

	cfg, err := Parse([]byte(`
service:
  base_url: ${FOLDCALL_TEST_URL}
  timeout_ms: ${FOLDCALL_TEST_TIMEOUT:-1500}
validation:
  strict: true
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Service.BaseURL != "http://gpu-box:9000" {
		t.Errorf("BaseURL = %q", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout() != 1500*time.Millisecond {
		t.Errorf("Timeout = %v, want 1.5s", cfg.Service.Timeout())
	}
	if !cfg.Validation.Strict {
		t.Error("expected strict validation")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("service: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	data := []byte("service:\n  base_url: http://127.0.0.1:8000\ncache:\n  enabled: true\n  addrs: [\"localhost:6379\"]\n  username: foldcall\n  db: 2\n  ttl_sec: 60\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL() != time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Username != "foldcall" || cfg.Cache.DB != 2 {
		t.Errorf("cache ACL = %q db %d", cfg.Cache.Username, cfg.Cache.DB)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_ShippedConfigs(t *testing.T) {
	for _, env := range []string{"local", "prod"} {
		if _, err := Load(env); err != nil {
			t.Errorf("Load(%q): %v", env, err)
		}
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("GetEnv() = %q, want local", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("GetEnv() = %q, want prod", GetEnv())
	}
}
