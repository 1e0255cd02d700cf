package store

import (
	"database/sql"
	"errors"
	"fmt"

	"gradecalc/internal/model"
)

// ErrConfigNotFound 配置项不存在
var ErrConfigNotFound = errors.New("config key not found")

// 持久化的界面默认值
const (
	KeyDefaultMajor = "default_major"
	KeyDefaultMode  = "default_mode"
)

// Settings 界面默认选项
type Settings struct {
	DefaultMajor string     `json:"defaultMajor"`
	DefaultMode  model.Mode `json:"defaultMode"`
}

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, key)
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// GetAllConfig 获取所有配置项
func (s *Store) GetAllConfig() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}
	return config, rows.Err()
}

// GetSettings 读取界面默认值，未设置的项回退到 fallback
func (s *Store) GetSettings(fallback Settings) (Settings, error) {
	all, err := s.GetAllConfig()
	if err != nil {
		return Settings{}, err
	}
	out := fallback
	if v, ok := all[KeyDefaultMajor]; ok && v != "" {
		out.DefaultMajor = v
	}
	if v, ok := all[KeyDefaultMode]; ok {
		if mode, err := model.ParseMode(v); err == nil {
			out.DefaultMode = mode
		}
	}
	return out, nil
}

// SaveSettings 保存界面默认值，空字段不覆盖
func (s *Store) SaveSettings(settings Settings) error {
	if settings.DefaultMajor != "" {
		if err := s.SetConfig(KeyDefaultMajor, settings.DefaultMajor); err != nil {
			return fmt.Errorf("save %s: %w", KeyDefaultMajor, err)
		}
	}
	if settings.DefaultMode != "" {
		if err := s.SetConfig(KeyDefaultMode, string(settings.DefaultMode)); err != nil {
			return fmt.Errorf("save %s: %w", KeyDefaultMode, err)
		}
	}
	return nil
}
