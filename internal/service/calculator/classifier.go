package calculator

import (
	"strings"

	"gradecalc/internal/model"
)

// Classify 按专业选修课关键词判定课程类别；未命中任何类别为必修课程
func Classify(rec model.NormalizedRecord, taxonomy []model.CategoryKeywords) string {
	for _, t := range taxonomy {
		for _, kw := range t.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(rec.CourseName, kw) || strings.Contains(rec.CourseCode, kw) {
				return t.Category
			}
		}
	}
	return model.CategoryRequired
}

// classifyAll 返回带类别的新记录
func classifyAll(records []model.NormalizedRecord, taxonomy []model.CategoryKeywords) []model.NormalizedRecord {
	out := make([]model.NormalizedRecord, len(records))
	for i, rec := range records {
		out[i] = rec.WithCategory(Classify(rec, taxonomy))
	}
	return out
}
