package parser

import (
	"gradecalc/internal/model"
)

// DefaultSynonyms 规范字段的列名关键词（按优先级）
var DefaultSynonyms = map[model.Field][]string{
	model.FieldStudentID:   {"学号", "student id", "student_id", "id", "考生号"},
	model.FieldName:        {"姓名", "name", "学生姓名"},
	model.FieldCredit:      {"学分", "credit", "credits"},
	model.FieldTotalScore:  {"总成绩", "成绩", "score", "grade", "总评成绩"},
	model.FieldAcquisition: {"取得方式", "修读方式", "exam type", "acquire"},
	model.FieldScoreFlag:   {"成绩标志", "标志", "flag", "status"},
	model.FieldTerm:        {"学年学期", "学期", "学年", "semester", "term"},
	model.FieldCourseName:  {"课程名称", "课程名", "course", "course name"},
	model.FieldCourseCode:  {"课程编号", "课程代码", "course code", "course_id"},
}

// FieldMapper 列名 → 规范字段映射器
type FieldMapper struct {
	synonyms map[model.Field][]string
}

// NewFieldMapper 创建字段映射器
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{synonyms: DefaultSynonyms}
}

// NewFieldMapperWithSynonyms 使用自定义关键词创建字段映射器；未提供的字段沿用默认关键词
func NewFieldMapperWithSynonyms(extra map[model.Field][]string) *FieldMapper {
	merged := make(map[model.Field][]string, len(DefaultSynonyms))
	for f, kws := range DefaultSynonyms {
		merged[f] = kws
	}
	for f, kws := range extra {
		if len(kws) > 0 {
			merged[f] = kws
		}
	}
	return &FieldMapper{synonyms: merged}
}

// Map 识别列名，返回映射与未识别的字段（按 model.AllFields 顺序）
//
// 先做整列名精确匹配，再做包含匹配；同一列只归属一个字段，多列命中时取最左列。
// 与单纯的包含匹配不同：["成绩标志", …, "总成绩"] 中总成绩取 "总成绩" 而不是更靠左的
// "成绩标志"。没有任何精确匹配时退化为包含匹配取最左列。
func (m *FieldMapper) Map(columns []string) (model.ColumnMapping, []model.Field) {
	mapping := make(model.ColumnMapping)
	claimed := make(map[int]bool, len(columns))

	keys := make([]string, len(columns))
	for i, col := range columns {
		keys[i] = matchKey(col)
	}

	// 精确匹配
	for _, f := range model.AllFields {
		for i, key := range keys {
			if key == "" || claimed[i] {
				continue
			}
			if equalsAny(key, m.synonyms[f]) {
				mapping[f] = columns[i]
				claimed[i] = true
				break
			}
		}
	}

	// 包含匹配
	for _, f := range model.AllFields {
		if mapping.Has(f) {
			continue
		}
		for i, key := range keys {
			if key == "" || claimed[i] {
				continue
			}
			if containsKeyword(key, m.synonyms[f]) {
				mapping[f] = columns[i]
				claimed[i] = true
				break
			}
		}
	}

	var missing []model.Field
	for _, f := range model.AllFields {
		if !mapping.Has(f) {
			missing = append(missing, f)
		}
	}
	return mapping, missing
}

// Resolve 识别列名；缺少必要字段时返回 *model.SchemaError
func (m *FieldMapper) Resolve(columns []string) (model.ColumnMapping, error) {
	mapping, missing := m.Map(columns)
	if req := MissingRequired(missing); len(req) > 0 {
		return mapping, &model.SchemaError{Missing: req}
	}
	return mapping, nil
}

// MissingRequired 过滤出必要字段
func MissingRequired(missing []model.Field) []model.Field {
	var out []model.Field
	for _, f := range model.RequiredFields {
		for _, m := range missing {
			if m == f {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

func equalsAny(key string, keywords []string) bool {
	for _, kw := range keywords {
		if key == matchKey(kw) {
			return true
		}
	}
	return false
}

func containsKeyword(key string, keywords []string) bool {
	for _, kw := range keywords {
		k := matchKey(kw)
		if k == "" {
			continue
		}
		if ContainsAny(key, []string{k}) || ContainsAny(stripSpaces(key), []string{stripSpaces(k)}) {
			return true
		}
	}
	return false
}
