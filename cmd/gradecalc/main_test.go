package main

import (
	"testing"

	"gradecalc/internal/config"
)

func TestApplyFlags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		fileSetsPort  bool
		flags         flagOverrides
		wantPort      int
		wantSpecified bool
	}{
		{name: "命令行端口覆盖配置文件端口", fileSetsPort: true, flags: flagOverrides{Port: 9100}, wantPort: 9100, wantSpecified: true},
		{name: "命令行端口在未配置时生效", flags: flagOverrides{Port: 9100}, wantPort: 9100, wantSpecified: true},
		{name: "未给端口保持配置文件端口", fileSetsPort: true, wantPort: 8088, wantSpecified: true},
		{name: "都未给出保持默认", wantPort: config.DefaultConfig().Server.Port, wantSpecified: false},
	}

	for _, tc := range cases {
		cfg := config.DefaultConfig()
		var info config.LoadConfigInfo
		if tc.fileSetsPort {
			cfg.Server.Port = 8088
			info.PortSpecified = true
		}

		applyFlags(cfg, &info, tc.flags)
		if cfg.Server.Port != tc.wantPort || info.PortSpecified != tc.wantSpecified {
			t.Fatalf("%s: want port=%d specified=%v got port=%d specified=%v",
				tc.name, tc.wantPort, tc.wantSpecified, cfg.Server.Port, info.PortSpecified)
		}
	}
}

func TestApplyFlags_OtherOverrides(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Data.DataDir = "from-file"
	cfg.Catalog.MajorsFile = "file.toml"
	var info config.LoadConfigInfo

	applyFlags(cfg, &info, flagOverrides{DevMode: true, DataDir: "/tmp/gc", MajorsFile: "flag.toml"})
	if !cfg.Server.DevMode || cfg.Data.DataDir != "/tmp/gc" || cfg.Catalog.MajorsFile != "flag.toml" {
		t.Fatalf("flags not applied: %+v", cfg)
	}

	applyFlags(cfg, &info, flagOverrides{})
	if cfg.Data.DataDir != "/tmp/gc" || cfg.Catalog.MajorsFile != "flag.toml" {
		t.Fatalf("empty flags must not reset config: %+v", cfg)
	}
}
