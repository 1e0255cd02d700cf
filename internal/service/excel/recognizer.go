package excel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"gradecalc/internal/model"
	"gradecalc/internal/parser"
)

// gradeSheetNameHints 表名中出现时加分的关键词
var gradeSheetNameHints = []string{"成绩", "score", "grade"}

// SheetRecognition 单个工作表的成绩表识别结果
type SheetRecognition struct {
	Sheet    string        `json:"sheet"`
	Score    float64       `json:"score"`   // 必要字段命中比例，表名命中关键词时另加 0.05
	Missing  []model.Field `json:"missing"` // 未识别的必要字段
	Optional int           `json:"optional"`
}

// Complete 必要字段是否齐全
func (s SheetRecognition) Complete() bool {
	return len(s.Missing) == 0
}

// RecognizeSheets 按工作表顺序识别每个工作表的表头
func (r *Reader) RecognizeSheets() ([]SheetRecognition, error) {
	if r.file == nil {
		return nil, errors.New("no file loaded")
	}

	mapper := parser.NewFieldMapper()
	var out []SheetRecognition
	for _, sheet := range r.file.GetSheetList() {
		header, err := readHeaderRow(r.file, sheet)
		if err != nil {
			return nil, err
		}
		columns, _ := buildHeader(header)
		out = append(out, scoreSheet(mapper, sheet, columns))
	}
	return out, nil
}

// DetectGradeSheet 选出最像成绩表的工作表
func (r *Reader) DetectGradeSheet() (string, error) {
	recs, err := r.RecognizeSheets()
	if err != nil {
		return "", err
	}
	return PickGradeSheet(recs)
}

// PickGradeSheet 必要字段齐全者优先；同为齐全或同不齐全时比较得分与可选字段数，仍相同取靠前者
func PickGradeSheet(recs []SheetRecognition) (string, error) {
	if len(recs) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	best := recs[0]
	for _, rec := range recs[1:] {
		if betterSheet(rec, best) {
			best = rec
		}
	}
	return best.Sheet, nil
}

func betterSheet(a, b SheetRecognition) bool {
	if a.Complete() != b.Complete() {
		return a.Complete()
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Optional > b.Optional
}

func scoreSheet(mapper *parser.FieldMapper, sheet string, columns []string) SheetRecognition {
	mapping, unresolved := mapper.Map(columns)
	missing := parser.MissingRequired(unresolved)

	rec := SheetRecognition{
		Sheet:   sheet,
		Missing: missing,
	}
	if missing == nil {
		rec.Missing = []model.Field{}
	}
	rec.Score = float64(len(model.RequiredFields)-len(missing)) / float64(len(model.RequiredFields))
	if len(columns) > 0 && parser.ContainsAny(strings.ToLower(sheet), gradeSheetNameHints) {
		rec.Score += 0.05
	}
	rec.Optional = len(mapping) - (len(model.RequiredFields) - len(missing))
	return rec
}

// readHeaderRow 第一个非空行
func readHeaderRow(wb *excelize.File, sheet string) ([]string, error) {
	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	for rows.Next() {
		row, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if !isBlankRow(row) {
			return row, nil
		}
	}
	return nil, rows.Error()
}
