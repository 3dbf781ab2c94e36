package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Learner.Smoothing != 1 || cfg.Learner.PredictConcurrency != 4 {
		t.Errorf("learner defaults = %+v", cfg.Learner)
	}
	if cfg.Data.Source != "file" || cfg.Data.Dir != "data" || cfg.Data.Prefix != "datasets/" {
		t.Errorf("data defaults = %+v", cfg.Data)
	}
	if cfg.Data.Cache.LifeWindow != 10*time.Minute {
		t.Errorf("cache life window = %v", cfg.Data.Cache.LifeWindow)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, `
[learner]
smoothing = -1

[data]
source = "s3"
`)
	if err := Load(path, &Config{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version = "1.2.3"

[log]
level = "debug"

[learner]
smoothing = 0.5
predict_concurrency = 2

[data]
source = "minio"
header = true

[data.cache]
enabled = true
life_window = "1m"

[minio]
bucket_name = "datasets"
`)
	t.Setenv("APP_LEARNER_PREDICT_CONCURRENCY", "16")

	cfg := &Config{}
	if err := Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != "1.2.3" || cfg.Log.Level != "debug" {
		t.Errorf("top level = %q / %q", cfg.Version, cfg.Log.Level)
	}
	if cfg.Learner.Smoothing != 0.5 {
		t.Errorf("smoothing = %v", cfg.Learner.Smoothing)
	}
	if cfg.Learner.PredictConcurrency != 16 {
		t.Errorf("env override not applied: %d", cfg.Learner.PredictConcurrency)
	}
	if cfg.Data.Source != "minio" || !cfg.Data.Header || cfg.Data.Dir != "data" {
		t.Errorf("data = %+v", cfg.Data)
	}
	if !cfg.Data.Cache.Enabled || cfg.Data.Cache.LifeWindow != time.Minute {
		t.Errorf("cache = %+v", cfg.Data.Cache)
	}
	if cfg.Minio.BucketName != "datasets" {
		t.Errorf("minio = %+v", cfg.Minio)
	}
}

func TestMask(t *testing.T) {
	m := map[string]any{
		"minio": map[string]any{
			"AccessKeyID":     "id",
			"SecretAccessKey": "secret",
			"Endpoint":        "localhost:9000",
		},
		"Version": "1",
	}
	mask(m)
	minio := m["minio"].(map[string]any)
	if minio["SecretAccessKey"] != "******" || minio["AccessKeyID"] != "******" {
		t.Errorf("secrets not masked: %v", minio)
	}
	if minio["Endpoint"] != "localhost:9000" || m["Version"] != "1" {
		t.Errorf("non-secret fields changed: %v", m)
	}
}
