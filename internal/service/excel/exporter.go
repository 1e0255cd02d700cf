package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"gradecalc/internal/model"
)

// 导出工作表名称
const (
	SheetRanking   = "全校成绩排名"
	SheetElite     = "卓越班级"
	SheetOrdinary  = "普通班级"
	SheetSelection = "选修课明细"
	SheetWarnings  = "提示"
	SheetRunConfig = "计算配置"
)

// ProgressEvent 导出进度事件（用于 UI 展示）
type ProgressEvent struct {
	Percent int
	Stage   string
}

// Exporter Excel导出器
type Exporter struct {
	progress func(ProgressEvent)
}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// WithProgress 设置进度回调
func (e *Exporter) WithProgress(fn func(ProgressEvent)) *Exporter {
	e.progress = fn
	return e
}

// Export 导出计算结果到Excel
func (e *Exporter) Export(result *model.Result) (*excelize.File, error) {
	if result == nil {
		return nil, fmt.Errorf("nil result")
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetRanking); err != nil {
		return nil, err
	}
	e.report(10, "ranking")
	if err := writeRanking(f, result, headerStyle); err != nil {
		return nil, err
	}

	e.report(40, "cohorts")
	if result.Split {
		for _, c := range model.Cohorts {
			if err := writeCohort(f, result, c, headerStyle); err != nil {
				return nil, err
			}
		}
	}

	e.report(60, "selection")
	if result.Mode == model.ModeCapped && len(result.Trace) > 0 {
		if err := writeSelection(f, result, headerStyle); err != nil {
			return nil, err
		}
	}

	e.report(80, "config")
	if len(result.Warnings) > 0 {
		if err := writeWarnings(f, result, headerStyle); err != nil {
			return nil, err
		}
	}
	if err := writeRunConfig(f, result, headerStyle); err != nil {
		return nil, err
	}

	e.report(100, "done")
	return f, nil
}

// ExportBytes 导出为 xlsx 字节
func (e *Exporter) ExportBytes(result *model.Result) ([]byte, error) {
	f, err := e.Export(result)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// CohortSheetName 班级类型对应的工作表名
func CohortSheetName(c model.Cohort) string {
	if c == model.CohortElite {
		return SheetElite
	}
	return SheetOrdinary
}

func writeRanking(f *excelize.File, result *model.Result, style int) error {
	rows := [][]interface{}{
		{"排名", "学号", "姓名", "班级类型", "平均成绩", "总学分", "课程门数", "班级内排名"},
	}
	for _, s := range result.Summaries {
		rows = append(rows, []interface{}{
			s.GlobalRank, s.StudentID, s.Name, s.Cohort.Label(),
			s.WeightedAvg, s.TotalCredit, s.CourseCount, s.CohortRank,
		})
	}
	if err := writeRows(f, SheetRanking, rows, style); err != nil {
		return err
	}
	f.SetColWidth(SheetRanking, "B", "C", 16)
	return nil
}

// writeCohort 班级内排名表；该班级没有学生时不建表
func writeCohort(f *excelize.File, result *model.Result, c model.Cohort, style int) error {
	var members []model.StudentSummary
	for _, s := range result.Summaries {
		if s.Cohort == c {
			members = append(members, s)
		}
	}
	if len(members) == 0 {
		return nil
	}

	sheet := CohortSheetName(c)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"班级内排名", "学号", "姓名", "平均成绩", "总学分", "课程门数", "全校排名"},
	}
	// Summaries 已按平均成绩降序，班级内顺序即班级内排名顺序
	for _, s := range members {
		rows = append(rows, []interface{}{
			s.CohortRank, s.StudentID, s.Name, s.WeightedAvg, s.TotalCredit, s.CourseCount, s.GlobalRank,
		})
	}
	if err := writeRows(f, sheet, rows, style); err != nil {
		return err
	}
	f.SetColWidth(sheet, "B", "C", 16)
	return nil
}

func writeSelection(f *excelize.File, result *model.Result, style int) error {
	names := make(map[string]string, len(result.Summaries))
	for _, s := range result.Summaries {
		names[s.StudentID] = s.Name
	}

	if _, err := f.NewSheet(SheetSelection); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"学号", "姓名", "课程类别", "要求学分", "原表行号", "课程", "成绩", "原学分", "计入学分", "折算结果"},
	}
	for _, d := range result.Trace {
		rows = append(rows, []interface{}{
			d.StudentID, names[d.StudentID], d.Category, d.Required, d.RowNo,
			d.CourseID, d.Score, d.OriginalCredit, d.CountedCredit, d.Kind.Label(),
		})
	}
	if err := writeRows(f, SheetSelection, rows, style); err != nil {
		return err
	}
	f.SetColWidth(SheetSelection, "F", "F", 30)
	return nil
}

func writeWarnings(f *excelize.File, result *model.Result, style int) error {
	if _, err := f.NewSheet(SheetWarnings); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"类型", "学号", "课程", "原表行号", "说明"},
	}
	for _, w := range result.Warnings {
		lines := make([]string, 0, len(w.Rows))
		for _, r := range w.Rows {
			lines = append(lines, fmt.Sprintf("%d", r))
		}
		rows = append(rows, []interface{}{
			string(w.Kind), w.StudentID, w.CourseID, strings.Join(lines, ","), w.Message,
		})
	}
	if err := writeRows(f, SheetWarnings, rows, style); err != nil {
		return err
	}
	f.SetColWidth(SheetWarnings, "E", "E", 50)
	return nil
}

func writeRunConfig(f *excelize.File, result *model.Result, style int) error {
	if _, err := f.NewSheet(SheetRunConfig); err != nil {
		return err
	}
	terms := "全部"
	if len(result.Terms) > 0 {
		terms = strings.Join(result.Terms, ", ")
	}
	stats := result.Stats
	rows := [][]interface{}{
		{"配置项", "值"},
		{"专业", result.MajorName},
		{"专业代码", result.MajorCode},
		{"计算模式", result.Mode.Label()},
		{"学年学期", terms},
		{"计算时间", result.ComputedAt.Format("2006-01-02 15:04:05")},
		{"学生人数", len(result.Summaries)},
		{"平均成绩均值", stats.Overall.Mean},
		{"最高平均成绩", stats.Overall.Max},
		{"最低平均成绩", stats.Overall.Min},
		{"读取行数", stats.RowsRead},
		{"学期筛除行数", stats.RowsTermFiltered},
		{"无效成绩行数", stats.RowsInvalid},
		{"去重移除行数", stats.DuplicatesDropped},
		{"计算编号", result.RunID},
	}
	for _, c := range model.Cohorts {
		if cs, ok := stats.ByCohort[c]; ok && result.Split {
			rows = append(rows,
				[]interface{}{c.Label() + "班人数", cs.Count},
				[]interface{}{c.Label() + "班平均成绩均值", cs.Mean},
			)
		}
	}
	if err := writeRows(f, SheetRunConfig, rows, style); err != nil {
		return err
	}
	f.SetColWidth(SheetRunConfig, "A", "B", 24)
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, style int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetRowStyle(sheet, 1, 1, style)
}

func (e *Exporter) report(percent int, stage string) {
	if e.progress == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	e.progress(ProgressEvent{Percent: percent, Stage: stage})
}
