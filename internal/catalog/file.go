package catalog

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"gradecalc/internal/model"
)

// File 专业配置文件（TOML）
type File struct {
	Majors []model.MajorProfile `toml:"majors"`
}

// LoadFile 读取 TOML 专业配置文件
func LoadFile(path string) ([]model.MajorProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read majors file: %w", err)
	}
	return Parse(data)
}

// Parse 解析 TOML 专业配置
func Parse(data []byte) ([]model.MajorProfile, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse majors file: %w", err)
	}
	if len(f.Majors) == 0 {
		return nil, fmt.Errorf("majors file contains no majors")
	}
	for _, p := range f.Majors {
		if err := Validate(p); err != nil {
			return nil, err
		}
	}
	return f.Majors, nil
}

// Marshal 序列化为 TOML（用于导出当前配置）
func Marshal(profiles []model.MajorProfile) ([]byte, error) {
	data, err := toml.Marshal(File{Majors: profiles})
	if err != nil {
		return nil, fmt.Errorf("marshal majors: %w", err)
	}
	return data, nil
}
