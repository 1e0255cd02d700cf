package calculator

import (
	"math"
	"strings"

	"gradecalc/internal/model"
)

// NormalizeScore 将一条记录的原始成绩换算为数值；ok=false 表示该记录无效
//
// 判定顺序固定：缺考/旷考 → 缓考 → 补考 → 等级制文本 → 数值。
func NormalizeScore(raw model.Cell, flag, acquisition string) (score float64, ok bool) {
	if raw.IsAbsent() {
		return 0, false
	}
	if isAbsentFromExam(flag) {
		return 0, false
	}
	if isDeferredWithoutScore(flag, acquisition) {
		return 0, false
	}

	if IsMakeup(acquisition) {
		v, ok := raw.Float()
		if !ok {
			return 0, false
		}
		if v >= PassScore {
			return PassScore, true
		}
		return v, true
	}

	if raw.Kind == model.CellText {
		if v, ok := GradeLabelScore(raw.Text); ok {
			return v, true
		}
		return model.ParseFloat(raw.Text)
	}

	if math.IsNaN(raw.Number) || math.IsInf(raw.Number, 0) {
		return 0, false
	}
	return raw.Number, true
}

// rowOutcome 单行归一化结果
type rowOutcome int

const (
	rowOK rowOutcome = iota
	rowInvalid
)

// recordBuilder 按列映射从原始行构造归一化记录
type recordBuilder struct {
	mapping model.ColumnMapping
}

func newRecordBuilder(mapping model.ColumnMapping) recordBuilder {
	return recordBuilder{mapping: mapping}
}

func (b recordBuilder) text(row model.RawRow, f model.Field) string {
	col, ok := b.mapping.Column(f)
	if !ok {
		return ""
	}
	return strings.TrimSpace(row.Get(col).String())
}

func (b recordBuilder) cell(row model.RawRow, f model.Field) model.Cell {
	col, ok := b.mapping.Column(f)
	if !ok {
		return model.AbsentCell()
	}
	return row.Get(col)
}

// studentID 学号；空值返回 ""
func (b recordBuilder) studentID(row model.RawRow) string {
	return b.text(row, model.FieldStudentID)
}

// term 学年学期
func (b recordBuilder) term(row model.RawRow) string {
	return b.text(row, model.FieldTerm)
}

// credit 学分；缺失、无法解析或为负时按 0 计
func (b recordBuilder) credit(row model.RawRow) float64 {
	v, ok := b.cell(row, model.FieldCredit).Float()
	if !ok || v < 0 {
		return 0
	}
	return v
}

// hasCourseIdentity 是否能识别同一门课程
func (b recordBuilder) hasCourseIdentity() bool {
	return b.mapping.Has(model.FieldCourseCode) || b.mapping.Has(model.FieldCourseName)
}

// courseID 课程标识：课程编号_课程名称（仅有其一时取其一）
func (b recordBuilder) courseID(code, name string) string {
	hasCode := b.mapping.Has(model.FieldCourseCode)
	hasName := b.mapping.Has(model.FieldCourseName)
	switch {
	case hasCode && hasName:
		return code + "_" + name
	case hasCode:
		return code
	default:
		return name
	}
}

// build 归一化一行；成绩无效或不为正时返回 rowInvalid
func (b recordBuilder) build(row model.RawRow, rowNo int) (model.NormalizedRecord, rowOutcome) {
	acquisition := b.text(row, model.FieldAcquisition)
	flag := b.text(row, model.FieldScoreFlag)

	score, ok := NormalizeScore(b.cell(row, model.FieldTotalScore), flag, acquisition)
	if !ok || score <= 0 {
		return model.NormalizedRecord{}, rowInvalid
	}

	code := b.text(row, model.FieldCourseCode)
	name := b.text(row, model.FieldCourseName)
	return model.NormalizedRecord{
		RowNo:       rowNo,
		StudentID:   b.studentID(row),
		Name:        b.text(row, model.FieldName),
		CourseID:    b.courseID(code, name),
		CourseName:  name,
		CourseCode:  code,
		Term:        b.term(row),
		Acquisition: acquisition,
		Credit:      b.credit(row),
		Score:       score,
		Makeup:      IsMakeup(acquisition),
	}, rowOK
}
