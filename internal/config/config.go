package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"gradecalc/internal/model"
)

// ConfigFile 配置文件名（位于可执行文件同目录）
const ConfigFile = "config.toml"

// EnvPrefix 环境变量前缀
const EnvPrefix = "GRADECALC_"

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Log     LogConfig     `toml:"log"`
	Calc    CalcConfig    `toml:"calc"`
	Catalog CatalogConfig `toml:"catalog"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port           int      `toml:"port"`
	DevMode        bool     `toml:"dev_mode"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty"` // 为空时允许任意来源
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // pretty | auto | json
}

// CalcConfig 计算配置
type CalcConfig struct {
	Workers           int    `toml:"workers"`
	DefaultMode       string `toml:"default_mode"`
	SignificantDigits int    `toml:"significant_digits"`
}

// CatalogConfig 专业配置来源
type CatalogConfig struct {
	// MajorsFile 专业配置 TOML 文件；为空时使用内置专业
	MajorsFile string `toml:"majors_file"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
	EnvOverrides  []string
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "pretty",
		},
		Calc: CalcConfig{
			Workers:           0, // 0 表示 GOMAXPROCS
			DefaultMode:       string(model.ModeCapped),
			SignificantDigits: 5,
		},
	}
}

// Validate 校验配置取值
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Calc.Workers < 0 {
		return fmt.Errorf("invalid calc.workers: %d", c.Calc.Workers)
	}
	if c.Calc.SignificantDigits < 0 {
		return fmt.Errorf("invalid calc.significant_digits: %d", c.Calc.SignificantDigits)
	}
	if _, err := model.ParseMode(c.Calc.DefaultMode); err != nil {
		return fmt.Errorf("invalid calc.default_mode: %w", err)
	}
	return nil
}

// DefaultMode 默认计算模式
func (c *AppConfig) DefaultMode() model.Mode {
	mode, err := model.ParseMode(c.Calc.DefaultMode)
	if err != nil {
		return model.ModeCapped
	}
	return mode
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return LoadFrom(filepath.Join(exeDir, ConfigFile))
}

// LoadFrom 从指定路径加载配置；文件不存在时使用默认配置，随后应用 .env 与环境变量覆盖
func LoadFrom(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, info, err
	}

	// .env 可选，已存在的环境变量优先
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	overrides, err := applyEnv(config)
	if err != nil {
		return nil, info, err
	}
	info.EnvOverrides = overrides
	if containsString(overrides, EnvPrefix+"PORT") {
		info.PortSpecified = true
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// applyEnv 环境变量覆盖，返回实际生效的变量名
func applyEnv(c *AppConfig) ([]string, error) {
	var applied []string

	str := func(name string, dst *string) {
		if v, ok := lookupEnv(name); ok {
			*dst = v
			applied = append(applied, EnvPrefix+name)
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookupEnv(name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
		applied = append(applied, EnvPrefix+name)
		return nil
	}
	flag := func(name string, dst *bool) error {
		v, ok := lookupEnv(name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*dst = b
		applied = append(applied, EnvPrefix+name)
		return nil
	}

	if err := num("PORT", &c.Server.Port); err != nil {
		return nil, err
	}
	if err := flag("DEV_MODE", &c.Server.DevMode); err != nil {
		return nil, err
	}
	if v, ok := lookupEnv("ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = c.Server.AllowedOrigins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, o)
			}
		}
		applied = append(applied, EnvPrefix+"ALLOWED_ORIGINS")
	}
	str("DATA_DIR", &c.Data.DataDir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	if err := num("WORKERS", &c.Calc.Workers); err != nil {
		return nil, err
	}
	str("DEFAULT_MODE", &c.Calc.DefaultMode)
	if err := num("SIGNIFICANT_DIGITS", &c.Calc.SignificantDigits); err != nil {
		return nil, err
	}
	str("MAJORS_FILE", &c.Catalog.MajorsFile)
	return applied, nil
}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolvePath 相对路径按可执行文件目录解析
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, p)
}

// EnsureDataDir 确保数据目录存在
// 数据目录位于可执行文件同目录下
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolvePath(config.Data.DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"exports"}
	for _, subdir := range subdirs {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(ResolvePath(config.Data.DataDir), subdir, filename)
}
