package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gradecalc/internal/model"
)

// clearEnv 屏蔽外部环境变量对用例的影响
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "DEV_MODE", "ALLOWED_ORIGINS", "DATA_DIR", "LOG_LEVEL", "LOG_FORMAT",
		"WORKERS", "DEFAULT_MODE", "SIGNIFICANT_DIGITS", "MAJORS_FILE",
	} {
		t.Setenv(EnvPrefix+name, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, info, err := LoadFrom(filepath.Join(t.TempDir(), ConfigFile))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if info.FileFound || info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	def := DefaultConfig()
	if !reflect.DeepEqual(cfg, def) {
		t.Fatalf("want defaults %+v got %+v", def, cfg)
	}
	if cfg.DefaultMode() != model.ModeCapped {
		t.Fatalf("default mode want capped got %s", cfg.DefaultMode())
	}
}

func TestLoadFrom_FileAndEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ConfigFile)
	writeFile(t, path, `
[server]
port = 8088

[calc]
workers = 2
default_mode = "uncapped"

[catalog]
majors_file = "majors.toml"
`)
	t.Setenv(EnvPrefix+"WORKERS", "8")
	t.Setenv(EnvPrefix+"LOG_FORMAT", "json")
	t.Setenv(EnvPrefix+"ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, info, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if !info.FileFound || !info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	if cfg.Server.Port != 8088 || cfg.Calc.Workers != 8 || cfg.Log.Format != "json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if got := cfg.Server.AllowedOrigins; len(got) != 2 || got[1] != "http://b.test" {
		t.Fatalf("unexpected allowed origins: %v", got)
	}
	if cfg.DefaultMode() != model.ModeUncapped || cfg.Catalog.MajorsFile != "majors.toml" {
		t.Fatalf("unexpected calc/catalog: %+v", cfg)
	}
	// 未出现在文件中的字段保持默认
	if cfg.Calc.SignificantDigits != 5 || cfg.Data.DataDir != "data" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if len(info.EnvOverrides) != 3 {
		t.Fatalf("env overrides: %v", info.EnvOverrides)
	}
}

func TestLoadFrom_DotEnv(t *testing.T) {
	clearEnv(t)
	// .env 只在变量未设置时生效，先移除用例设置的空值
	const key = EnvPrefix + "MAJORS_FILE"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), key+"=from-dotenv.toml\n")

	cfg, _, err := LoadFrom(filepath.Join(dir, ConfigFile))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Catalog.MajorsFile != "from-dotenv.toml" {
		t.Fatalf("want majors file from .env got %q", cfg.Catalog.MajorsFile)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "语法错误", content: "[server\nport = 1"},
		{name: "端口越界", content: "[server]\nport = 70000"},
		{name: "未知模式", content: "[calc]\ndefault_mode = \"fast\""},
		{name: "环境变量非数字", env: map[string]string{"WORKERS": "many"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(EnvPrefix+k, v)
			}
			path := filepath.Join(t.TempDir(), ConfigFile)
			if tc.content != "" {
				writeFile(t, path, tc.content)
			}
			if _, _, err := LoadFrom(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ConfigFile)
	cfg := DefaultConfig()
	cfg.Server.Port = 9000
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.Calc.DefaultMode = string(model.ModeUncapped)
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	got, info, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) || !info.PortSpecified {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	abs := filepath.Join(t.TempDir(), "x")
	if got := ResolvePath(abs); got != abs {
		t.Fatalf("absolute path changed: %s", got)
	}
	if got := ResolvePath(""); got != "" {
		t.Fatalf("empty path changed: %s", got)
	}
	if got := ResolvePath("data"); !filepath.IsAbs(got) && got != filepath.Join(".", "data") {
		t.Fatalf("unexpected resolved path: %s", got)
	}
}
