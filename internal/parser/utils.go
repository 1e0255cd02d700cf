package parser

import (
	"regexp"
	"strings"
)

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化列名：去除首尾空白与换行，压缩连续空白为一个空格
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\n", " ")
	return spaceRe.ReplaceAllString(name, " ")
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// matchKey 列名匹配用的键（规范化 + 小写）
func matchKey(s string) string {
	return strings.ToLower(NormalizeColumnName(s))
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
